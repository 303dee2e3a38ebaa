// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/vechain/questledger/thor"
)

const (
	EventQuestAdded          = "QuestAdded"
	EventQuestExpired        = "QuestExpired"
	EventQuestCompleteQuests = "QuestCompleteQuests"
	EventQuestCompleteUsers  = "QuestCompleteUsers"
	EventQuestSeasonEnded    = "QuestSeasonEnded"
	EventQuestMaster         = "QuestMaster"
	EventQuestSigner         = "QuestSigner"
	EventStakedTokenAdded    = "StakedTokenAdded"
)

type QuestAdded struct {
	Adder      thor.Address `json:"adder"`
	ID         uint64       `json:"id"`
	Kind       string       `json:"kind"`
	Multiplier uint8        `json:"multiplier"`
	Status     string       `json:"status"`
	Expiry     uint64       `json:"expiry"`
}

func (QuestAdded) EventType() string           { return EventQuestAdded }
func (e QuestAdded) Subjects() []thor.Address { return []thor.Address{e.Adder} }

type QuestExpired struct {
	ID uint64 `json:"id"`
}

func (QuestExpired) EventType() string        { return EventQuestExpired }
func (QuestExpired) Subjects() []thor.Address { return nil }

// QuestCompleteQuests reports quests completed by a single user.
type QuestCompleteQuests struct {
	User thor.Address `json:"user"`
	IDs  []uint64     `json:"ids"`
}

func (QuestCompleteQuests) EventType() string           { return EventQuestCompleteQuests }
func (e QuestCompleteQuests) Subjects() []thor.Address { return []thor.Address{e.User} }

// QuestCompleteUsers reports users that completed a single quest.
type QuestCompleteUsers struct {
	ID    uint64         `json:"id"`
	Users []thor.Address `json:"users"`
}

func (QuestCompleteUsers) EventType() string           { return EventQuestCompleteUsers }
func (e QuestCompleteUsers) Subjects() []thor.Address { return e.Users }

type QuestSeasonEnded struct {
	SeasonEpoch uint64 `json:"seasonEpoch"`
}

func (QuestSeasonEnded) EventType() string        { return EventQuestSeasonEnded }
func (QuestSeasonEnded) Subjects() []thor.Address { return nil }

type QuestMaster struct {
	OldMaster thor.Address `json:"oldMaster"`
	NewMaster thor.Address `json:"newMaster"`
}

func (QuestMaster) EventType() string           { return EventQuestMaster }
func (e QuestMaster) Subjects() []thor.Address { return []thor.Address{e.OldMaster, e.NewMaster} }

type QuestSigner struct {
	OldSigner thor.Address `json:"oldSigner"`
	NewSigner thor.Address `json:"newSigner"`
}

func (QuestSigner) EventType() string           { return EventQuestSigner }
func (e QuestSigner) Subjects() []thor.Address { return []thor.Address{e.OldSigner, e.NewSigner} }

type StakedTokenAdded struct {
	StakedToken thor.Address `json:"stakedToken"`
}

func (StakedTokenAdded) EventType() string           { return EventStakedTokenAdded }
func (e StakedTokenAdded) Subjects() []thor.Address { return []thor.Address{e.StakedToken} }
