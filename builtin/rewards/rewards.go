// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/vechain/questledger/builtin/solidity"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/log"
	"github.com/vechain/questledger/state"
	"github.com/vechain/questledger/thor"
)

var (
	logger = log.WithContext("pkg", "rewards")

	slotPending     = thor.BytesToBytes32([]byte("pending-rewards"))
	slotDistributed = thor.BytesToBytes32([]byte("distributed-rewards"))
)

func SetLogger(l log.Logger) {
	logger = l
}

// Authorizer checks the governor role.
type Authorizer interface {
	RequireGovernor(caller thor.Address) error
}

// Transferer moves the underlying token.
type Transferer interface {
	Transfer(from, to thor.Address, amount *big.Int) error
}

// Rewards receives scaled-balance updates and withdrawal fees of one staked token.
// Fees stay in the custody of the vault until distributed.
type Rewards struct {
	sctx        *solidity.Context
	emitter     events.Emitter
	vault       thor.Address
	auth        Authorizer
	custody     Transferer
	pending     *solidity.Uint256
	distributed *solidity.Uint256
}

// New create a new instance.
func New(addr thor.Address, state *state.State, emitter events.Emitter, vault thor.Address, auth Authorizer, custody Transferer) *Rewards {
	sctx := solidity.NewContext(addr, state)
	return &Rewards{
		sctx:        sctx,
		emitter:     emitter,
		vault:       vault,
		auth:        auth,
		custody:     custody,
		pending:     solidity.NewUint256(sctx, slotPending),
		distributed: solidity.NewUint256(sctx, slotDistributed),
	}
}

// ScaledBalanceChanged records the new reward-bearing balance of account.
func (r *Rewards) ScaledBalanceChanged(account thor.Address, previous, current *big.Int) error {
	if previous.Cmp(current) == 0 {
		return nil
	}
	r.emitter.Emit(r.sctx.Address(), events.ScaledBalanceChanged{
		Account:  account,
		Previous: new(big.Int).Set(previous),
		Current:  new(big.Int).Set(current),
	})
	return nil
}

// NotifyAdditionalReward adds amount to the pool awaiting distribution.
func (r *Rewards) NotifyAdditionalReward(amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	if err := r.pending.Add(amount); err != nil {
		return err
	}
	pending, err := r.pending.Get()
	if err != nil {
		return err
	}
	r.emitter.Emit(r.sctx.Address(), events.RewardAdded{Amount: new(big.Int).Set(amount), Pending: pending})
	return nil
}

// Pending returns the undistributed pool and the amount distributed so far.
func (r *Rewards) Pending() (pending *big.Int, distributed *big.Int, err error) {
	if pending, err = r.pending.Get(); err != nil {
		return nil, nil, err
	}
	distributed, err = r.distributed.Get()
	return
}

// DistributePending pays the whole pool out of the vault to recipient.
func (r *Rewards) DistributePending(caller, recipient thor.Address) (*big.Int, error) {
	logger.Debug("distributing rewards", "caller", caller, "recipient", recipient)

	if err := r.auth.RequireGovernor(caller); err != nil {
		return nil, err
	}
	amount, err := r.pending.Get()
	if err != nil {
		return nil, err
	}
	if amount.Sign() == 0 {
		return amount, nil
	}
	if err := r.custody.Transfer(r.vault, recipient, amount); err != nil {
		logger.Info("distribute rewards failed", "error", err)
		return nil, err
	}
	r.pending.Set(new(big.Int))
	if err := r.distributed.Add(amount); err != nil {
		return nil, err
	}
	r.emitter.Emit(r.sctx.Address(), events.RewardDistributed{Recipient: recipient, Amount: new(big.Int).Set(amount)})

	logger.Info("distributed rewards", "recipient", recipient, "amount", amount)
	return amount, nil
}
