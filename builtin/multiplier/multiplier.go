// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package multiplier holds the pure functions deriving bonuses and exit fees
// from the age of a stake.
package multiplier

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/questledger/thor"
)

// Tier grants Multiplier percent once a stake is at least Weeks old.
type Tier struct {
	Weeks      uint64
	Multiplier uint8
}

// TimeTiers is sorted by Weeks in ascending order.
var TimeTiers = []Tier{
	{Weeks: 13, Multiplier: 20},
	{Weeks: 26, Multiplier: 30},
	{Weeks: 52, Multiplier: 40},
	{Weeks: 78, Multiplier: 50},
	{Weeks: 104, Multiplier: 60},
}

var (
	precision = uint256.NewInt(1e18)

	// MaxFeeRate applies for the first three weeks of age.
	MaxFeeRate = big.NewInt(75e15)

	feeOffset    = uint256.NewInt(25e15)
	feeScale     = uint256.NewInt(1e7)
	feeFlatWeeks = new(uint256.Int).Mul(uint256.NewInt(3), precision)
	// 300e36
	feeNumerator = new(uint256.Int).Mul(uint256.NewInt(300), new(uint256.Int).Mul(precision, precision))
)

func elapsed(weightedTimestamp, now uint64) uint64 {
	if now <= weightedTimestamp {
		return 0
	}
	return now - weightedTimestamp
}

// TimeMultiplier returns the age bonus in percent. An account that never staked
// (weightedTimestamp == 0) earns nothing.
func TimeMultiplier(weightedTimestamp, now uint64) uint8 {
	if weightedTimestamp == 0 {
		return 0
	}
	age := elapsed(weightedTimestamp, now)
	for i := len(TimeTiers) - 1; i >= 0; i-- {
		if age >= TimeTiers[i].Weeks*thor.OneWeek {
			return TimeTiers[i].Multiplier
		}
	}
	return 0
}

// ExitFeeRate returns the withdrawal fee as a 1e18 fixed point fraction.
// It is flat at 7.5% up to three weeks, then follows sqrt(300/weeks)/100 - 2.5%
// until it reaches zero just before 48 weeks.
func ExitFeeRate(weightedTimestamp, now uint64) *big.Int {
	weeks := new(uint256.Int).Mul(uint256.NewInt(elapsed(weightedTimestamp, now)), precision)
	weeks.Div(weeks, uint256.NewInt(thor.OneWeek))

	if !weeks.Gt(feeFlatWeeks) {
		return new(big.Int).Set(MaxFeeRate)
	}

	rate := new(uint256.Int).Div(feeNumerator, weeks)
	rate.Sqrt(rate).Mul(rate, feeScale)
	if !rate.Gt(feeOffset) {
		return new(big.Int)
	}
	return rate.Sub(rate, feeOffset).ToBig()
}

// ScaledBalance applies the quest and time bonuses to raw, left to right
// with integer division after each step.
func ScaledBalance(raw *big.Int, questMultiplier, timeMultiplier uint8) *big.Int {
	scaled := new(big.Int).Mul(raw, big.NewInt(100+int64(questMultiplier)))
	scaled.Quo(scaled, big.NewInt(100))
	scaled.Mul(scaled, big.NewInt(100+int64(timeMultiplier)))
	return scaled.Quo(scaled, big.NewInt(100))
}

// Reweight moves the weighted timestamp after delta units are deposited or
// withdrawn from a stake holding totalRaw units (raw plus cooldown units).
func Reweight(weightedTimestamp, now uint64, totalRaw, delta *big.Int, isDeposit bool) uint64 {
	if isDeposit {
		return ReweightDeposit(weightedTimestamp, now, totalRaw, delta)
	}
	return ReweightWithdraw(weightedTimestamp, now, totalRaw, delta)
}

// ReweightDeposit dilutes the age as if only half of delta was new.
func ReweightDeposit(weightedTimestamp, now uint64, totalRaw, delta *big.Int) uint64 {
	denominator := new(big.Int).Rsh(delta, 1)
	denominator.Add(denominator, totalRaw)
	return rebase(weightedTimestamp, now, totalRaw, denominator)
}

// ReweightWithdraw dilutes the age as if only an eighth of delta was removed.
func ReweightWithdraw(weightedTimestamp, now uint64, totalRaw, delta *big.Int) uint64 {
	numerator := new(big.Int).Rsh(delta, 3)
	numerator.Sub(totalRaw, numerator)
	if numerator.Sign() < 0 {
		numerator.SetUint64(0)
	}
	return rebase(weightedTimestamp, now, numerator, totalRaw)
}

// rebase returns now - elapsed*numerator/denominator.
func rebase(weightedTimestamp, now uint64, numerator, denominator *big.Int) uint64 {
	if denominator.Sign() == 0 {
		return now
	}
	age := new(big.Int).SetUint64(elapsed(weightedTimestamp, now))
	age.Mul(age, numerator).Quo(age, denominator)
	if !age.IsUint64() || age.Uint64() > now {
		return 0
	}
	return now - age.Uint64()
}
