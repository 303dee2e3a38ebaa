// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package quest

import (
	"encoding/binary"

	"github.com/vechain/questledger/thor"
)

type Kind uint8

const (
	Permanent Kind = iota
	Seasonal
)

func (k Kind) String() string {
	if k == Seasonal {
		return "seasonal"
	}
	return "permanent"
}

// ParseKind accepts the names returned by String.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "permanent":
		return Permanent, true
	case "seasonal":
		return Seasonal, true
	}
	return 0, false
}

type Status uint8

const (
	Active Status = iota
	Expired
)

func (s Status) String() string {
	if s == Expired {
		return "expired"
	}
	return "active"
}

// Quest is a one time task granting a multiplier in percent.
type Quest struct {
	Kind        Kind
	Status      Status
	Multiplier  uint8
	Expiry      uint64
	SeasonEpoch uint64 // season the quest was added in, seasonal quests only
}

// Balance holds the quest multipliers earned by an account.
type Balance struct {
	LastAction uint64
	Permanent  uint8
	Seasonal   uint8
}

// Multiplier returns the combined quest bonus.
func (b *Balance) Multiplier() uint8 {
	return b.Permanent + b.Seasonal
}

// Completion is the new quest multiplier of an account after completing quests.
type Completion struct {
	Account    thor.Address `json:"account"`
	Multiplier uint8        `json:"multiplier"`
}

type questID uint64

func (id questID) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(id))
}

type completionKey struct {
	account thor.Address
	id      uint64
}

func (k completionKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(k.account.Bytes(), k.id)
}
