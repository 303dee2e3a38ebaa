// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package quests

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/questledger/api/utils"
	"github.com/vechain/questledger/ledger"
	"github.com/vechain/questledger/thor"
)

type Quest struct {
	ID          uint64 `json:"id"`
	Kind        string `json:"kind"`
	Status      string `json:"status"`
	Multiplier  uint8  `json:"multiplier"`
	Expiry      uint64 `json:"expiry"`
	SeasonEpoch uint64 `json:"seasonEpoch"`
}

type Season struct {
	StartTime    uint64 `json:"startTime"`
	Epoch        uint64 `json:"epoch"`
	Length       uint64 `json:"length"`
	QuestCount   uint64 `json:"questCount"`
	StakedTokens int    `json:"stakedTokens"`
}

type Completion struct {
	Account   thor.Address `json:"account"`
	ID        uint64       `json:"id"`
	Completed bool         `json:"completed"`
}

type Quests struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Quests {
	return &Quests{l}
}

func parseID(req *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (q *Quests) handleGetSeason(w http.ResponseWriter, _ *http.Request) error {
	s, err := q.ledger.Season()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Season{
		StartTime:    s.StartTime,
		Epoch:        s.Epoch,
		Length:       s.Length,
		QuestCount:   s.QuestCount,
		StakedTokens: s.StakedCount,
	})
}

func (q *Quests) handleGetQuest(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	quest, ok, err := q.ledger.Quest(id)
	if err != nil {
		return err
	}
	if !ok {
		return utils.NotFound(errors.New("quest not found"))
	}
	return utils.WriteJSON(w, &Quest{
		ID:          id,
		Kind:        quest.Kind.String(),
		Status:      quest.Status.String(),
		Multiplier:  quest.Multiplier,
		Expiry:      quest.Expiry,
		SeasonEpoch: quest.SeasonEpoch,
	})
}

func (q *Quests) handleGetCompletion(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	done, err := q.ledger.HasCompleted(*addr, id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Completion{Account: *addr, ID: id, Completed: done})
}

func (q *Quests) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/season").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(q.handleGetSeason))
	sub.Path("/{id:[0-9]+}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(q.handleGetQuest))
	sub.Path("/{id:[0-9]+}/completions/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(q.handleGetCompletion))
}
