// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package votes keeps delegation and the checkpointed voting power of a staked token.
// Delegation is a single hop: received votes are never forwarded.
package votes

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/questledger/builtin/reverts"
	"github.com/vechain/questledger/builtin/solidity"
	"github.com/vechain/questledger/clock"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/thor"
)

var slotDelegates = thor.BytesToBytes32([]byte("delegates"))

const ErrNotYetMined = "block not yet mined"

// totalOwner keys the total supply history.
var totalOwner = thor.Address{}

type Votes struct {
	sctx      *solidity.Context
	emitter   events.Emitter
	clock     clock.Clock
	delegates *solidity.Mapping[thor.Address, thor.Address]
	accounts  *history
	total     *history
}

func New(sctx *solidity.Context, emitter events.Emitter, clk clock.Clock) *Votes {
	return &Votes{
		sctx:      sctx,
		emitter:   emitter,
		clock:     clk,
		delegates: solidity.NewMapping[thor.Address, thor.Address](sctx, slotDelegates),
		accounts:  newHistory(sctx, "account-checkpoints"),
		total:     newHistory(sctx, "total-checkpoints"),
	}
}

// Delegates returns the account receiving the votes of account, itself by default.
func (v *Votes) Delegates(account thor.Address) (thor.Address, error) {
	delegatee, err := v.delegates.Get(account)
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get delegate")
	}
	if delegatee.IsZero() {
		return account, nil
	}
	return delegatee, nil
}

// Delegate moves the balance worth of votes of delegator to delegatee.
// Delegating to the zero address or to itself restores self delegation.
func (v *Votes) Delegate(delegator, delegatee thor.Address, balance *big.Int) error {
	current, err := v.Delegates(delegator)
	if err != nil {
		return err
	}
	stored := delegatee
	if delegatee.IsZero() || delegatee == delegator {
		stored = thor.Address{}
		delegatee = delegator
	}
	if err := v.delegates.Set(delegator, stored); err != nil {
		return err
	}
	v.emitter.Emit(v.sctx.Address(), events.DelegateChanged{
		Delegator:    delegator,
		FromDelegate: current,
		ToDelegate:   delegatee,
	})
	return v.MoveVotingPower(current, delegatee, balance)
}

// MoveVotingPower moves amount votes from src to dst. A zero src mints votes,
// a zero dst burns them.
func (v *Votes) MoveVotingPower(src, dst thor.Address, amount *big.Int) error {
	if src == dst || amount.Sign() <= 0 {
		return nil
	}
	if !src.IsZero() {
		if err := v.adjust(src, new(big.Int).Neg(amount)); err != nil {
			return err
		}
	}
	if !dst.IsZero() {
		if err := v.adjust(dst, amount); err != nil {
			return err
		}
	}
	return nil
}

func (v *Votes) adjust(account thor.Address, delta *big.Int) error {
	old, err := v.accounts.latest(account)
	if err != nil {
		return err
	}
	updated := new(big.Int).Add(old, delta)
	if updated.Sign() < 0 {
		return solidity.ErrUnderflow
	}
	if err := v.accounts.write(account, v.clock.Height(), updated); err != nil {
		return err
	}
	v.emitter.Emit(v.sctx.Address(), events.DelegateVotesChanged{
		Delegate:        account,
		PreviousBalance: old,
		NewBalance:      new(big.Int).Set(updated),
	})
	return nil
}

// AdjustTotalSupply checkpoints the total supply after it changed by delta.
func (v *Votes) AdjustTotalSupply(delta *big.Int) error {
	if delta.Sign() == 0 {
		return nil
	}
	old, err := v.total.latest(totalOwner)
	if err != nil {
		return err
	}
	updated := new(big.Int).Add(old, delta)
	if updated.Sign() < 0 {
		return solidity.ErrUnderflow
	}
	return v.total.write(totalOwner, v.clock.Height(), updated)
}

// TotalSupply returns the current total supply.
func (v *Votes) TotalSupply() (*big.Int, error) {
	return v.total.latest(totalOwner)
}

// GetVotes returns the current votes of account.
func (v *Votes) GetVotes(account thor.Address) (*big.Int, error) {
	return v.accounts.latest(account)
}

// GetPastVotes returns the votes of account at the end of height.
func (v *Votes) GetPastVotes(account thor.Address, height uint32) (*big.Int, error) {
	if height >= v.clock.Height() {
		return nil, reverts.New(ErrNotYetMined)
	}
	return v.accounts.lookup(account, height)
}

// GetPastTotalSupply returns the total supply at the end of height.
func (v *Votes) GetPastTotalSupply(height uint32) (*big.Int, error) {
	if height >= v.clock.Height() {
		return nil, reverts.New(ErrNotYetMined)
	}
	return v.total.lookup(totalOwner, height)
}

func (v *Votes) NumCheckpoints(account thor.Address) (uint32, error) {
	return v.accounts.len(account)
}

// Checkpoints returns the checkpoint of account at pos.
func (v *Votes) Checkpoints(account thor.Address, pos uint32) (*Checkpoint, error) {
	n, err := v.accounts.len(account)
	if err != nil {
		return nil, err
	}
	if pos >= n {
		return nil, reverts.New("checkpoint out of range")
	}
	return v.accounts.at(account, pos)
}
