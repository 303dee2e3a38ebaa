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

// Withdraw pays cooled down units of caller to recipient and returns the payout.
// Once recollateralised, any staked unit can be withdrawn without fee at the
// collateralisation ratio.
func (s *Staker) Withdraw(caller thor.Address, amount *big.Int, recipient thor.Address, opts WithdrawOptions) (*big.Int, error) {
	logger.Debug("withdrawing", "caller", caller, "amount", amount, "recipient", recipient, "opts", opts)

	paid, err := s.withdraw(caller, amount, recipient, opts)
	if err != nil {
		logger.Info("withdraw failed", "caller", caller, "error", err)
		return nil, err
	}

	s.emitter.Emit(s.Address(), events.Withdraw{User: caller, To: recipient, Amount: new(big.Int).Set(amount)})
	logger.Info("withdrew", "caller", caller, "paid", paid)
	return paid, nil
}

func (s *Staker) withdraw(caller thor.Address, amount *big.Int, recipient thor.Address, opts WithdrawOptions) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, reverts.New(ErrZeroAmount)
	}
	if recipient.IsZero() {
		recipient = caller
	}

	data, err := s.safety.Get()
	if err != nil {
		return nil, err
	}
	if !data.FullyCollateralised() {
		if err := s.burnRaw(caller, amount, false, true); err != nil {
			return nil, err
		}
		paid := new(big.Int).Mul(amount, data.CollateralisationRatio)
		paid.Quo(paid, thor.Ether)
		return paid, s.custody.Transfer(s.Address(), recipient, paid)
	}

	bal, err := s.balances.Get(caller)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	period, window := s.cooldown()
	if now <= bal.CooldownTimestamp+period {
		return nil, reverts.New(ErrCooldownNotEnded)
	}
	if now-(bal.CooldownTimestamp+period) > window {
		return nil, reverts.New(ErrWindowFinished)
	}

	total, paid := withdrawalAmounts(amount, multiplier.ExitFeeRate(bal.WeightedTimestamp, now), opts.AmountIncludesFee)
	if total.Cmp(bal.CooldownUnits) > 0 {
		return nil, reverts.New(ErrExceedsWithdrawal)
	}
	exit := opts.ExitCooldown || total.Cmp(bal.CooldownUnits) == 0

	if err := s.burnRaw(caller, total, exit, false); err != nil {
		return nil, err
	}
	if err := s.rewards.NotifyAdditionalReward(new(big.Int).Sub(total, paid)); err != nil {
		return nil, err
	}
	return paid, s.custody.Transfer(s.Address(), recipient, paid)
}

// withdrawalAmounts returns the units burnt and the units paid out for a
// withdrawal of amount at fee rate.
func withdrawalAmounts(amount, rate *big.Int, includesFee bool) (total *big.Int, paid *big.Int) {
	onePlusRate := new(big.Int).Add(thor.Ether, rate)
	total = new(big.Int).Set(amount)
	if !includesFee {
		total.Mul(total, onePlusRate).Quo(total, thor.Ether)
	}
	paid = new(big.Int).Mul(total, thor.Ether)
	paid.Quo(paid, onePlusRate)
	return total, paid
}

// burnRaw removes amount from the cooldown units of account. With finalise the
// whole stake is moved into cooldown first.
func (s *Staker) burnRaw(account thor.Address, amount *big.Int, exitCooldown, finalise bool) error {
	return s.update(account, func(bal *balance.Balance, now uint64) error {
		totalRaw := bal.Total()
		if finalise {
			bal.Raw = new(big.Int)
			bal.CooldownUnits = new(big.Int).Set(totalRaw)
		}
		if bal.CooldownUnits.Cmp(amount) < 0 {
			return reverts.New(ErrExceedsWithdrawal)
		}
		bal.CooldownUnits = new(big.Int).Sub(bal.CooldownUnits, amount)
		if exitCooldown {
			bal.ExitCooldown()
		}
		bal.WeightedTimestamp = multiplier.ReweightWithdraw(bal.WeightedTimestamp, now, totalRaw, amount)
		bal.TimeMultiplier = multiplier.TimeMultiplier(bal.WeightedTimestamp, now)
		return nil
	})
}

// Exit starts a cooldown of the whole stake, or withdraws all cooldown units
// fee inclusive when a cooldown is within its unstake window.
func (s *Staker) Exit(caller thor.Address) error {
	bal, err := s.balances.Get(caller)
	if err != nil {
		return err
	}
	if !bal.InCooldown() || s.windowLapsed(bal, s.clock.Now()) {
		return s.StartCooldown(caller, bal.Total())
	}
	_, err = s.Withdraw(caller, bal.CooldownUnits, caller, WithdrawOptions{AmountIncludesFee: true})
	return err
}
