// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/questledger/builtin/quest"
	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/builtin/staker"
	"github.com/vechain/questledger/thor"
)

//
// Staking
//

func (l *Ledger) Deposit(symbol string, caller thor.Address, amount *big.Int, delegatee thor.Address, exitCooldown bool) error {
	return l.apply("deposit", func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		return s.Deposit(caller, amount, delegatee, exitCooldown)
	})
}

func (l *Ledger) CreateLock(symbol string, caller thor.Address, amount *big.Int) error {
	return l.apply("createLock", func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		return s.CreateLock(caller, amount)
	})
}

func (l *Ledger) IncreaseLockAmount(symbol string, caller thor.Address, amount *big.Int) error {
	return l.apply("increaseLockAmount", func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		return s.IncreaseLockAmount(caller, amount)
	})
}

func (l *Ledger) StartCooldown(symbol string, caller thor.Address, units *big.Int) error {
	return l.apply("startCooldown", func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		return s.StartCooldown(caller, units)
	})
}

func (l *Ledger) EndCooldown(symbol string, caller thor.Address) error {
	return l.apply("endCooldown", func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		return s.EndCooldown(caller)
	})
}

// Withdraw returns the amount paid to recipient.
func (l *Ledger) Withdraw(symbol string, caller thor.Address, amount *big.Int, recipient thor.Address, opts staker.WithdrawOptions) (paid *big.Int, err error) {
	err = l.apply("withdraw", func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		paid, err = s.Withdraw(caller, amount, recipient, opts)
		return err
	})
	return
}

func (l *Ledger) Exit(symbol string, caller thor.Address) error {
	return l.apply("exit", func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		return s.Exit(caller)
	})
}

func (l *Ledger) ReviewTimestamp(symbol string, account thor.Address) error {
	return l.apply("reviewTimestamp", func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		return s.ReviewTimestamp(account)
	})
}

func (l *Ledger) Delegate(symbol string, caller, delegatee thor.Address) error {
	return l.apply("delegate", func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		return s.Delegate(caller, delegatee)
	})
}

//
// Safety
//

func (l *Ledger) ChangeSlashingPercentage(symbol string, caller thor.Address, pct *big.Int) error {
	return l.apply("changeSlashingPercentage", func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		return s.ChangeSlashingPercentage(caller, pct)
	})
}

// EmergencyRecollateralisation returns the amount drained to caller.
func (l *Ledger) EmergencyRecollateralisation(symbol string, caller thor.Address) (drained *big.Int, err error) {
	err = l.apply("emergencyRecollateralisation", func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		drained, err = s.EmergencyRecollateralisation(caller)
		return err
	})
	return
}

// DistributeRewards pays the pending withdrawal fees of symbol to recipient.
func (l *Ledger) DistributeRewards(symbol string, caller, recipient thor.Address) (amount *big.Int, err error) {
	err = l.apply("distributeRewards", func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		amount, err = s.Rewards.DistributePending(caller, recipient)
		return err
	})
	return
}

//
// Quests
//

func (l *Ledger) AddQuest(caller thor.Address, kind quest.Kind, multiplier uint8, expiry uint64) (id uint64, err error) {
	err = l.apply("addQuest", func() error {
		id, err = l.quests.AddQuest(caller, kind, multiplier, expiry)
		return err
	})
	return
}

func (l *Ledger) ExpireQuest(caller thor.Address, id uint64) error {
	return l.apply("expireQuest", func() error {
		return l.quests.ExpireQuest(caller, id)
	})
}

func (l *Ledger) StartNewQuestSeason(caller thor.Address) error {
	return l.apply("startNewQuestSeason", func() error {
		return l.quests.StartNewQuestSeason(caller)
	})
}

// CompleteUserQuests completes quests of account and applies its new quest
// multiplier to every registered staked token.
func (l *Ledger) CompleteUserQuests(account thor.Address, ids []uint64, signature []byte) (completion *quest.Completion, err error) {
	err = l.apply("completeUserQuests", func() error {
		if completion, err = l.quests.CompleteUserQuests(account, ids, signature); err != nil {
			return err
		}
		return l.applyQuestMultiplier(*completion)
	})
	return
}

// CompleteQuestUsers completes quest id for accounts and applies their new
// quest multipliers to every registered staked token.
func (l *Ledger) CompleteQuestUsers(id uint64, accounts []thor.Address, signature []byte) (completions []quest.Completion, err error) {
	err = l.apply("completeQuestUsers", func() error {
		if completions, err = l.quests.CompleteQuestUsers(id, accounts, signature); err != nil {
			return err
		}
		return l.applyQuestMultiplier(completions...)
	})
	return
}

func (l *Ledger) applyQuestMultiplier(completions ...quest.Completion) error {
	tokens, err := l.quests.StakedTokens()
	if err != nil {
		return err
	}
	for _, addr := range tokens {
		inst, ok := l.byAddress[addr]
		if !ok {
			return errors.Wrapf(ErrUnknownToken, "registered staked token %v", addr)
		}
		for _, c := range completions {
			if err := inst.ApplyQuestMultiplier(c.Account, c.Multiplier); err != nil {
				return err
			}
		}
	}
	return nil
}

//
// Administration
//

func (l *Ledger) SetQuestMaster(caller, master thor.Address) error {
	return l.apply("setQuestMaster", func() error {
		return l.quests.SetQuestMaster(caller, master)
	})
}

func (l *Ledger) SetQuestSigner(caller, signer thor.Address) error {
	return l.apply("setQuestSigner", func() error {
		return l.quests.SetQuestSigner(caller, signer)
	})
}

// AddStakedToken registers the bound staked token symbol for quest multiplier updates.
func (l *Ledger) AddStakedToken(caller thor.Address, symbol string) error {
	return l.apply("addStakedToken", func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		return l.quests.AddStakedToken(caller, s.Address())
	})
}

func (l *Ledger) SetRole(caller thor.Address, role roles.Role, account thor.Address) error {
	return l.apply("setRole", func() error {
		return l.roles.Set(caller, role, account)
	})
}

// Mint creates underlying tokens for to, on behalf of the governor.
func (l *Ledger) Mint(caller, to thor.Address, amount *big.Int) error {
	return l.apply("mint", func() error {
		if err := l.roles.RequireGovernor(caller); err != nil {
			return err
		}
		return l.token.Mint(to, amount)
	})
}

// Transfer moves underlying tokens between accounts.
func (l *Ledger) Transfer(caller, to thor.Address, amount *big.Int) error {
	return l.apply("transfer", func() error {
		return l.token.Transfer(caller, to, amount)
	})
}
