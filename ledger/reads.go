// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/vechain/questledger/builtin/quest"
	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/builtin/safety"
	"github.com/vechain/questledger/builtin/staker/balance"
	"github.com/vechain/questledger/thor"
)

// Token summarises one staked token.
type Token struct {
	Symbol      string
	Address     thor.Address
	TotalSupply *big.Int
	Custody     *big.Int
	Safety      *safety.Data
	Pending     *big.Int
	Distributed *big.Int
}

// Account is the stake of one account in one staked token.
type Account struct {
	Balance        *balance.Balance
	Scaled         *big.Int
	Delegate       thor.Address
	Votes          *big.Int
	NumCheckpoints uint32
}

// Season describes the quest season schedule.
type Season struct {
	StartTime   uint64
	Epoch       uint64
	Length      uint64
	QuestCount  uint64
	StakedCount int
}

func (l *Ledger) Token(symbol string) (tok *Token, err error) {
	err = l.view(func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		tok = &Token{Symbol: symbol, Address: s.Address()}
		if tok.TotalSupply, err = s.TotalSupply(); err != nil {
			return err
		}
		if tok.Custody, err = l.token.BalanceOf(s.Address()); err != nil {
			return err
		}
		if tok.Safety, err = s.SafetyData(); err != nil {
			return err
		}
		tok.Pending, tok.Distributed, err = s.Rewards.Pending()
		return err
	})
	return
}

func (l *Ledger) Account(symbol string, addr thor.Address) (acc *Account, err error) {
	err = l.view(func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		acc = &Account{}
		if acc.Balance, err = s.Balance(addr); err != nil {
			return err
		}
		acc.Scaled = acc.Balance.Scaled()
		if acc.Delegate, err = s.Delegates(addr); err != nil {
			return err
		}
		if acc.Votes, err = s.GetVotes(addr); err != nil {
			return err
		}
		acc.NumCheckpoints, err = s.NumCheckpoints(addr)
		return err
	})
	return
}

// Votes returns the current votes of addr, or its votes at the end of height when given.
func (l *Ledger) Votes(symbol string, addr thor.Address, height *uint32) (votes *big.Int, err error) {
	err = l.view(func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		if height == nil {
			votes, err = s.GetVotes(addr)
		} else {
			votes, err = s.GetPastVotes(addr, *height)
		}
		return err
	})
	return
}

// Supply returns the current total supply, or the supply at the end of height when given.
func (l *Ledger) Supply(symbol string, height *uint32) (supply *big.Int, err error) {
	err = l.view(func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		if height == nil {
			supply, err = s.TotalSupply()
		} else {
			supply, err = s.GetPastTotalSupply(*height)
		}
		return err
	})
	return
}

// FeeRate returns the exit fee rate, 1e18 based, of a stake weighted at weightedTimestamp.
func (l *Ledger) FeeRate(symbol string, weightedTimestamp uint64) (*big.Int, error) {
	var rate *big.Int
	err := l.view(func() error {
		s, err := l.staker(symbol)
		if err != nil {
			return err
		}
		rate = s.CalcRedemptionFeeRate(weightedTimestamp)
		return nil
	})
	return rate, err
}

func (l *Ledger) Quest(id uint64) (q *quest.Quest, ok bool, err error) {
	err = l.view(func() error {
		q, ok, err = l.quests.Quest(id)
		return err
	})
	return
}

func (l *Ledger) HasCompleted(addr thor.Address, id uint64) (done bool, err error) {
	err = l.view(func() error {
		done, err = l.quests.HasCompleted(addr, id)
		return err
	})
	return
}

// QuestBalance returns the quest multipliers of addr as stored. A pending
// season reset is applied on the next action of addr.
func (l *Ledger) QuestBalance(addr thor.Address) (bal *quest.Balance, err error) {
	err = l.view(func() error {
		bal, err = l.quests.Balance(addr)
		return err
	})
	return
}

func (l *Ledger) Season() (s *Season, err error) {
	err = l.view(func() error {
		s = &Season{Length: l.quests.SeasonDuration()}
		if s.StartTime, err = l.quests.StartTime(); err != nil {
			return err
		}
		if s.Epoch, err = l.quests.SeasonEpoch(); err != nil {
			return err
		}
		if s.QuestCount, err = l.quests.QuestCount(); err != nil {
			return err
		}
		tokens, err := l.quests.StakedTokens()
		s.StakedCount = len(tokens)
		return err
	})
	return
}

// TokenBalance returns the underlying token balance of addr.
func (l *Ledger) TokenBalance(addr thor.Address) (bal *big.Int, err error) {
	err = l.view(func() error {
		bal, err = l.token.BalanceOf(addr)
		return err
	})
	return
}

func (l *Ledger) Role(role roles.Role) (holder thor.Address, err error) {
	err = l.view(func() error {
		holder, err = l.roles.Get(role)
		return err
	})
	return
}
