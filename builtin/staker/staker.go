// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/vechain/questledger/builtin/multiplier"
	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/builtin/safety"
	"github.com/vechain/questledger/builtin/solidity"
	"github.com/vechain/questledger/builtin/staker/balance"
	"github.com/vechain/questledger/builtin/votes"
	"github.com/vechain/questledger/clock"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/log"
	"github.com/vechain/questledger/state"
	"github.com/vechain/questledger/thor"
)

var (
	logger = log.WithContext("pkg", "staker")

	CooldownPeriod = solidity.NewConfigVariable("staker-cooldown-period", thor.OneWeek)
	UnstakeWindow  = solidity.NewConfigVariable("staker-unstake-window", 2*thor.OneDay)
)

func SetLogger(l log.Logger) {
	logger = l
}

// QuestChecker resolves the quest multiplier of an account, applying a pending season reset.
type QuestChecker interface {
	CheckForSeasonFinish(account thor.Address) (uint8, error)
}

// Custody holds the underlying token.
type Custody interface {
	BalanceOf(addr thor.Address) (*big.Int, error)
	Transfer(from, to thor.Address, amount *big.Int) error
}

// RewardsNotifier is told about reward-bearing balance changes and withdrawal fees.
type RewardsNotifier interface {
	ScaledBalanceChanged(account thor.Address, previous, current *big.Int) error
	NotifyAdditionalReward(amount *big.Int) error
}

// WithdrawOptions tune a withdrawal.
type WithdrawOptions struct {
	// AmountIncludesFee burns exactly the amount and pays it minus the fee,
	// otherwise the fee is burnt on top of the amount.
	AmountIncludesFee bool
	// ExitCooldown folds the cooldown units left after the withdrawal back into the stake.
	ExitCooldown bool
}

// Staker implements a staked token: the stakes, cooldowns and withdrawals of its accounts.
// Deposits are held in custody under the staker address.
type Staker struct {
	sctx    *solidity.Context
	emitter events.Emitter
	clock   clock.Clock

	balances *balance.Repository
	votes    *votes.Votes
	safety   *safety.Safety

	quests  QuestChecker
	custody Custody
	rewards RewardsNotifier
}

// New create a new instance.
func New(
	addr thor.Address,
	state *state.State,
	emitter events.Emitter,
	clk clock.Clock,
	roles *roles.Roles,
	quests QuestChecker,
	custody Custody,
	rewards RewardsNotifier,
) *Staker {
	sctx := solidity.NewContext(addr, state)
	return &Staker{
		sctx:     sctx,
		emitter:  emitter,
		clock:    clk,
		balances: balance.NewRepository(sctx),
		votes:    votes.New(sctx, emitter, clk),
		safety:   safety.New(sctx, emitter, addr, roles, custody),
		quests:   quests,
		custody:  custody,
		rewards:  rewards,
	}
}

// SetCooldown overrides the cooldown period and the unstake window, in seconds.
func (s *Staker) SetCooldown(cooldown, window uint64) {
	CooldownPeriod.Override(s.sctx, cooldown)
	UnstakeWindow.Override(s.sctx, window)
}

func (s *Staker) Address() thor.Address {
	return s.sctx.Address()
}

func (s *Staker) cooldown() (period uint64, window uint64) {
	return CooldownPeriod.Get(s.sctx), UnstakeWindow.Get(s.sctx)
}

//
// Getters - no state change
//

// BalanceOf returns the scaled balance of account.
func (s *Staker) BalanceOf(account thor.Address) (*big.Int, error) {
	bal, err := s.balances.Get(account)
	if err != nil {
		return nil, err
	}
	return bal.Scaled(), nil
}

// RawBalanceOf returns the raw and the cooldown units of account.
func (s *Staker) RawBalanceOf(account thor.Address) (raw *big.Int, cooldownUnits *big.Int, err error) {
	bal, err := s.balances.Get(account)
	if err != nil {
		return nil, nil, err
	}
	return bal.Raw, bal.CooldownUnits, nil
}

// Balance returns the full balance record of account.
func (s *Staker) Balance(account thor.Address) (*balance.Balance, error) {
	return s.balances.Get(account)
}

// TotalSupply returns the sum of all scaled balances.
func (s *Staker) TotalSupply() (*big.Int, error) {
	return s.votes.TotalSupply()
}

// CalcRedemptionFeeRate returns the exit fee rate of a stake weighted at weightedTimestamp.
func (s *Staker) CalcRedemptionFeeRate(weightedTimestamp uint64) *big.Int {
	return multiplier.ExitFeeRate(weightedTimestamp, s.clock.Now())
}

// SafetyData returns the collateralisation ratio and slashing percentage.
func (s *Staker) SafetyData() (*safety.Data, error) {
	return s.safety.Get()
}

func (s *Staker) Delegates(account thor.Address) (thor.Address, error) {
	return s.votes.Delegates(account)
}

func (s *Staker) GetVotes(account thor.Address) (*big.Int, error) {
	return s.votes.GetVotes(account)
}

func (s *Staker) GetPastVotes(account thor.Address, height uint32) (*big.Int, error) {
	return s.votes.GetPastVotes(account, height)
}

func (s *Staker) GetPastTotalSupply(height uint32) (*big.Int, error) {
	return s.votes.GetPastTotalSupply(height)
}

func (s *Staker) NumCheckpoints(account thor.Address) (uint32, error) {
	return s.votes.NumCheckpoints(account)
}

func (s *Staker) Checkpoints(account thor.Address, pos uint32) (*votes.Checkpoint, error) {
	return s.votes.Checkpoints(account, pos)
}

//
// Setters - state change
//

// Delegate moves the votes of caller to delegatee, the zero address meaning caller itself.
func (s *Staker) Delegate(caller, delegatee thor.Address) error {
	logger.Debug("delegating", "caller", caller, "delegatee", delegatee)

	scaled, err := s.BalanceOf(caller)
	if err != nil {
		return err
	}
	if err := s.votes.Delegate(caller, delegatee, scaled); err != nil {
		logger.Info("delegate failed", "caller", caller, "error", err)
		return err
	}
	return nil
}

// ChangeSlashingPercentage sets the share drained by a recollateralisation.
func (s *Staker) ChangeSlashingPercentage(caller thor.Address, pct *big.Int) error {
	return s.safety.ChangeSlashingPercentage(caller, pct)
}

// EmergencyRecollateralisation drains the slashing percentage of all deposits.
func (s *Staker) EmergencyRecollateralisation(caller thor.Address) (*big.Int, error) {
	return s.safety.EmergencyRecollateralisation(caller)
}

// ApplyQuestMultiplier caches a new quest multiplier for account and settles its scaled balance.
func (s *Staker) ApplyQuestMultiplier(account thor.Address, questMultiplier uint8) error {
	bal, err := s.balances.Get(account)
	if err != nil {
		return err
	}
	oldScaled := bal.Scaled()
	bal.QuestMultiplier = questMultiplier
	if err := s.balances.Set(account, bal); err != nil {
		return err
	}
	return s.settle(account, oldScaled, bal.Scaled())
}

// update refreshes the cached quest multiplier of account, lets fn mutate the
// balance and settles the change of the scaled balance. Nothing is stored if fn fails.
func (s *Staker) update(account thor.Address, fn func(bal *balance.Balance, now uint64) error) error {
	bal, err := s.balances.Get(account)
	if err != nil {
		return err
	}
	oldScaled := bal.Scaled()

	if bal.QuestMultiplier, err = s.quests.CheckForSeasonFinish(account); err != nil {
		return err
	}
	if err := fn(bal, s.clock.Now()); err != nil {
		return err
	}
	if err := s.balances.Set(account, bal); err != nil {
		return err
	}
	return s.settle(account, oldScaled, bal.Scaled())
}

// settle reports a scaled balance change to the total supply, the votes of the
// delegate of account and the rewards notifier.
func (s *Staker) settle(account thor.Address, oldScaled, newScaled *big.Int) error {
	delta := new(big.Int).Sub(newScaled, oldScaled)
	if delta.Sign() == 0 {
		return nil
	}
	if err := s.votes.AdjustTotalSupply(delta); err != nil {
		return err
	}
	delegatee, err := s.votes.Delegates(account)
	if err != nil {
		return err
	}
	if delta.Sign() > 0 {
		err = s.votes.MoveVotingPower(thor.Address{}, delegatee, delta)
	} else {
		err = s.votes.MoveVotingPower(delegatee, thor.Address{}, delta.Neg(delta))
	}
	if err != nil {
		return err
	}
	return s.rewards.ScaledBalanceChanged(account, oldScaled, newScaled)
}
