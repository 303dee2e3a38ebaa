// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/vechain/questledger/builtin/multiplier"
	"github.com/vechain/questledger/builtin/reverts"
	"github.com/vechain/questledger/builtin/staker/balance"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/thor"
)

const (
	ErrZeroAmount        = "INVALID_ZERO_AMOUNT"
	ErrBalanceOnCooldown = "INVALID_BALANCE_ON_COOLDOWN"
	ErrCooldownUnits     = "Must choose between 0 and 100%"
	ErrNoCooldown        = "No cooldown"
	ErrCooldownNotEnded  = "INSUFFICIENT_COOLDOWN"
	ErrWindowFinished    = "UNSTAKE_WINDOW_FINISHED"
	ErrExceedsWithdrawal = "Exceeds max withdrawal"
	ErrNothingToPoke     = "Nothing worth poking here"
	ErrNothingToIncrease = "Nothing to increase"
)

// windowLapsed reports whether the unstake window of a started cooldown is over.
func (s *Staker) windowLapsed(bal *balance.Balance, now uint64) bool {
	period, window := s.cooldown()
	return bal.InCooldown() && now > bal.CooldownTimestamp+period+window
}

// Deposit stakes amount of the underlying token of caller. A non-zero
// delegatee is delegated to first. The cooldown is exited when requested or
// when its unstake window lapsed.
func (s *Staker) Deposit(caller thor.Address, amount *big.Int, delegatee thor.Address, exitCooldown bool) error {
	logger.Debug("depositing", "caller", caller, "amount", amount, "delegatee", delegatee, "exitCooldown", exitCooldown)

	if err := s.safety.RequireCollateralised(); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return reverts.New(ErrZeroAmount)
	}
	if !delegatee.IsZero() {
		if err := s.Delegate(caller, delegatee); err != nil {
			return err
		}
	}

	bal, err := s.balances.Get(caller)
	if err != nil {
		return err
	}
	exit := exitCooldown || s.windowLapsed(bal, s.clock.Now())

	if err := s.custody.Transfer(caller, s.Address(), amount); err != nil {
		logger.Info("deposit transfer failed", "caller", caller, "error", err)
		return err
	}

	if err := s.update(caller, func(bal *balance.Balance, now uint64) error {
		totalRaw := bal.Total()
		bal.Raw = new(big.Int).Add(bal.Raw, amount)
		if exit {
			bal.ExitCooldown()
		}
		if bal.WeightedTimestamp == 0 {
			bal.WeightedTimestamp = now
		} else {
			bal.WeightedTimestamp = multiplier.ReweightDeposit(bal.WeightedTimestamp, now, totalRaw, amount)
		}
		bal.TimeMultiplier = multiplier.TimeMultiplier(bal.WeightedTimestamp, now)
		return nil
	}); err != nil {
		logger.Info("deposit failed", "caller", caller, "error", err)
		return err
	}

	if exit {
		s.emitter.Emit(s.Address(), events.CooldownExited{User: caller})
	}
	s.emitter.Emit(s.Address(), events.Staked{User: caller, Amount: new(big.Int).Set(amount), Delegatee: delegatee})

	logger.Info("deposited", "caller", caller, "amount", amount)
	return nil
}

// CreateLock stakes amount, kept for callers of the vote-escrow interface.
func (s *Staker) CreateLock(caller thor.Address, amount *big.Int) error {
	return s.Deposit(caller, amount, thor.Address{}, false)
}

// IncreaseLockAmount adds amount to an existing stake.
func (s *Staker) IncreaseLockAmount(caller thor.Address, amount *big.Int) error {
	scaled, err := s.BalanceOf(caller)
	if err != nil {
		return err
	}
	if scaled.Sign() == 0 {
		return reverts.New(ErrNothingToIncrease)
	}
	return s.Deposit(caller, amount, thor.Address{}, false)
}

// StartCooldown moves units out of the stake into a new cooldown, replacing any
// previous one. Units are counted over raw plus cooldown units.
func (s *Staker) StartCooldown(caller thor.Address, units *big.Int) error {
	logger.Debug("starting cooldown", "caller", caller, "units", units)

	if err := s.safety.RequireCollateralised(); err != nil {
		return err
	}
	scaled, err := s.BalanceOf(caller)
	if err != nil {
		return err
	}
	if scaled.Sign() == 0 {
		return reverts.New(ErrBalanceOnCooldown)
	}

	if err := s.update(caller, func(bal *balance.Balance, now uint64) error {
		total := bal.Total()
		if units == nil || units.Sign() <= 0 || units.Cmp(total) > 0 {
			return reverts.New(ErrCooldownUnits)
		}
		bal.TimeMultiplier = multiplier.TimeMultiplier(bal.WeightedTimestamp, now)
		bal.Raw = total.Sub(total, units)
		bal.CooldownUnits = new(big.Int).Set(units)
		bal.CooldownTimestamp = now
		return nil
	}); err != nil {
		logger.Info("start cooldown failed", "caller", caller, "error", err)
		return err
	}

	s.emitter.Emit(s.Address(), events.Cooldown{User: caller, Units: new(big.Int).Set(units)})
	return nil
}

// EndCooldown cancels the cooldown of caller, returning its units to the stake.
func (s *Staker) EndCooldown(caller thor.Address) error {
	logger.Debug("ending cooldown", "caller", caller)

	if err := s.safety.RequireCollateralised(); err != nil {
		return err
	}
	bal, err := s.balances.Get(caller)
	if err != nil {
		return err
	}
	if !bal.InCooldown() {
		return reverts.New(ErrNoCooldown)
	}

	if err := s.update(caller, func(bal *balance.Balance, _ uint64) error {
		bal.ExitCooldown()
		return nil
	}); err != nil {
		return err
	}
	s.emitter.Emit(s.Address(), events.CooldownExited{User: caller})
	return nil
}

// ReviewTimestamp refreshes the cached time multiplier of account.
func (s *Staker) ReviewTimestamp(account thor.Address) error {
	return s.update(account, func(bal *balance.Balance, now uint64) error {
		tm := multiplier.TimeMultiplier(bal.WeightedTimestamp, now)
		if tm == bal.TimeMultiplier {
			return reverts.New(ErrNothingToPoke)
		}
		bal.TimeMultiplier = tm
		return nil
	})
}
