// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package balance

import (
	"math/big"

	"github.com/vechain/questledger/builtin/multiplier"
)

// Balance is the stake of one account in a staked token.
type Balance struct {
	Raw               *big.Int // units earning bonuses
	WeightedTimestamp uint64   // effective staked-since instant, 0 if never staked
	TimeMultiplier    uint8    // cached age bonus in percent
	QuestMultiplier   uint8    // cached quest bonus in percent
	CooldownTimestamp uint64   // when the cooldown started, 0 if none
	CooldownUnits     *big.Int // units on their way out, earning nothing
}

func (b *Balance) normalize() *Balance {
	if b.Raw == nil {
		b.Raw = new(big.Int)
	}
	if b.CooldownUnits == nil {
		b.CooldownUnits = new(big.Int)
	}
	return b
}

// Total returns raw plus cooldown units.
func (b *Balance) Total() *big.Int {
	return new(big.Int).Add(b.Raw, b.CooldownUnits)
}

// Scaled returns the voting and reward bearing balance from the cached multipliers.
func (b *Balance) Scaled() *big.Int {
	return multiplier.ScaledBalance(b.Raw, b.QuestMultiplier, b.TimeMultiplier)
}

// InCooldown reports whether a cooldown was started and not yet exited.
func (b *Balance) InCooldown() bool {
	return b.CooldownTimestamp != 0
}

// ExitCooldown folds the cooldown units back into raw.
func (b *Balance) ExitCooldown() {
	b.Raw = new(big.Int).Add(b.Raw, b.CooldownUnits)
	b.CooldownUnits = new(big.Int)
	b.CooldownTimestamp = 0
}

func (b *Balance) IsEmpty() bool {
	return b.Raw.Sign() == 0 && b.CooldownUnits.Sign() == 0 && b.WeightedTimestamp == 0
}

func (b *Balance) Clone() *Balance {
	c := *b
	c.Raw = new(big.Int).Set(b.Raw)
	c.CooldownUnits = new(big.Int).Set(b.CooldownUnits)
	return &c
}
