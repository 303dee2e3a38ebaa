// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/questledger/builtin/reverts"
	"github.com/vechain/questledger/builtin/solidity"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/state"
	"github.com/vechain/questledger/thor"
)

var (
	slotTotalSupply = thor.BytesToBytes32([]byte("token-supply"))
	slotBalances    = thor.BytesToBytes32([]byte("balances"))
)

const ErrInsufficientBalance = "transfer amount exceeds balance"

// Custody is an exact fungible token ledger holding the underlying asset.
// Staked tokens keep deposits under their own address.
type Custody struct {
	sctx     *solidity.Context
	emitter  events.Emitter
	supply   *solidity.Uint256
	balances *solidity.Mapping[thor.Address, *big.Int]
}

// New create a new instance.
func New(addr thor.Address, state *state.State, emitter events.Emitter) *Custody {
	sctx := solidity.NewContext(addr, state)
	return &Custody{
		sctx:     sctx,
		emitter:  emitter,
		supply:   solidity.NewUint256(sctx, slotTotalSupply),
		balances: solidity.NewMapping[thor.Address, *big.Int](sctx, slotBalances),
	}
}

// BalanceOf returns the token balance of addr.
func (c *Custody) BalanceOf(addr thor.Address) (*big.Int, error) {
	bal, err := c.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

// TotalSupply returns the amount ever minted.
func (c *Custody) TotalSupply() (*big.Int, error) {
	return c.supply.Get()
}

// Mint credits amount to addr out of thin air, used by genesis.
func (c *Custody) Mint(to thor.Address, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return nil
	}
	bal, err := c.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := c.balances.Set(to, bal.Add(bal, amount)); err != nil {
		return err
	}
	if err := c.supply.Add(amount); err != nil {
		return err
	}
	c.emitter.Emit(c.sctx.Address(), events.Transfer{To: to, Amount: new(big.Int).Set(amount)})
	return nil
}

// Transfer moves amount from one account to another.
func (c *Custody) Transfer(from, to thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New("negative transfer amount")
	}
	fromBal, err := c.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return reverts.New(ErrInsufficientBalance)
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}
	if err := c.balances.Set(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := c.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := c.balances.Set(to, toBal.Add(toBal, amount)); err != nil {
		return err
	}
	c.emitter.Emit(c.sctx.Address(), events.Transfer{From: from, To: to, Amount: new(big.Int).Set(amount)})
	return nil
}
