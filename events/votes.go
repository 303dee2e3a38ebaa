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
	EventDelegateChanged      = "DelegateChanged"
	EventDelegateVotesChanged = "DelegateVotesChanged"
)

type DelegateChanged struct {
	Delegator    thor.Address `json:"delegator"`
	FromDelegate thor.Address `json:"fromDelegate"`
	ToDelegate   thor.Address `json:"toDelegate"`
}

func (DelegateChanged) EventType() string { return EventDelegateChanged }
func (e DelegateChanged) Subjects() []thor.Address {
	return []thor.Address{e.Delegator, e.FromDelegate, e.ToDelegate}
}

type DelegateVotesChanged struct {
	Delegate        thor.Address `json:"delegate"`
	PreviousBalance *big.Int     `json:"previousBalance"`
	NewBalance      *big.Int     `json:"newBalance"`
}

func (DelegateVotesChanged) EventType() string           { return EventDelegateVotesChanged }
func (e DelegateVotesChanged) Subjects() []thor.Address { return []thor.Address{e.Delegate} }
