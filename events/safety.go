// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"math/big"

	"github.com/vechain/questledger/thor"
)

const (
	EventSlashRateChanged     = "SlashRateChanged"
	EventRecollateralised     = "Recollateralised"
	EventScaledBalanceChanged = "ScaledBalanceChanged"
	EventRewardAdded          = "RewardAdded"
	EventRewardDistributed    = "RewardDistributed"
	EventRoleChanged          = "RoleChanged"
)

type SlashRateChanged struct {
	NewRate *big.Int `json:"newRate"`
}

func (SlashRateChanged) EventType() string        { return EventSlashRateChanged }
func (SlashRateChanged) Subjects() []thor.Address { return nil }

type Recollateralised struct {
	Recipient thor.Address `json:"recipient"`
	Amount    *big.Int     `json:"amount"`
	Ratio     *big.Int     `json:"ratio"`
}

func (Recollateralised) EventType() string           { return EventRecollateralised }
func (e Recollateralised) Subjects() []thor.Address { return []thor.Address{e.Recipient} }

// ScaledBalanceChanged notifies reward accounting of a new scaled balance.
type ScaledBalanceChanged struct {
	Account  thor.Address `json:"account"`
	Previous *big.Int     `json:"previous"`
	Current  *big.Int     `json:"current"`
}

func (ScaledBalanceChanged) EventType() string           { return EventScaledBalanceChanged }
func (e ScaledBalanceChanged) Subjects() []thor.Address { return []thor.Address{e.Account} }

type RewardAdded struct {
	Amount  *big.Int `json:"amount"`
	Pending *big.Int `json:"pending"`
}

func (RewardAdded) EventType() string        { return EventRewardAdded }
func (RewardAdded) Subjects() []thor.Address { return nil }

type RewardDistributed struct {
	Recipient thor.Address `json:"recipient"`
	Amount    *big.Int     `json:"amount"`
}

func (RewardDistributed) EventType() string           { return EventRewardDistributed }
func (e RewardDistributed) Subjects() []thor.Address { return []thor.Address{e.Recipient} }

type RoleChanged struct {
	Role    string       `json:"role"`
	Account thor.Address `json:"account"`
}

func (RoleChanged) EventType() string           { return EventRoleChanged }
func (e RoleChanged) Subjects() []thor.Address { return []thor.Address{e.Account} }
