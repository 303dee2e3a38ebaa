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
	EventStaked         = "Staked"
	EventWithdraw       = "Withdraw"
	EventCooldown       = "Cooldown"
	EventCooldownExited = "CooldownExited"
	EventTransfer       = "Transfer"
)

type Staked struct {
	User      thor.Address `json:"user"`
	Amount    *big.Int     `json:"amount"`
	Delegatee thor.Address `json:"delegatee"`
}

func (Staked) EventType() string           { return EventStaked }
func (e Staked) Subjects() []thor.Address { return []thor.Address{e.User} }

type Withdraw struct {
	User   thor.Address `json:"user"`
	To     thor.Address `json:"to"`
	Amount *big.Int     `json:"amount"`
}

func (Withdraw) EventType() string           { return EventWithdraw }
func (e Withdraw) Subjects() []thor.Address { return []thor.Address{e.User, e.To} }

type Cooldown struct {
	User  thor.Address `json:"user"`
	Units *big.Int     `json:"units"`
}

func (Cooldown) EventType() string           { return EventCooldown }
func (e Cooldown) Subjects() []thor.Address { return []thor.Address{e.User} }

type CooldownExited struct {
	User thor.Address `json:"user"`
}

func (CooldownExited) EventType() string           { return EventCooldownExited }
func (e CooldownExited) Subjects() []thor.Address { return []thor.Address{e.User} }

// Transfer moves custody of the underlying token.
type Transfer struct {
	From   thor.Address `json:"from"`
	To     thor.Address `json:"to"`
	Amount *big.Int     `json:"amount"`
}

func (Transfer) EventType() string           { return EventTransfer }
func (e Transfer) Subjects() []thor.Address { return []thor.Address{e.From, e.To} }
