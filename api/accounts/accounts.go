// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/questledger/api/utils"
	"github.com/vechain/questledger/ledger"
	"github.com/vechain/questledger/thor"
)

// Account is the underlying token balance of an address.
type Account struct {
	Address thor.Address          `json:"address"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

// QuestBalance is the quest multipliers of an address, in percent.
type QuestBalance struct {
	LastAction uint64 `json:"lastAction"`
	Permanent  uint8  `json:"permanent"`
	Seasonal   uint8  `json:"seasonal"`
	Multiplier uint8  `json:"multiplier"`
}

type Accounts struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Accounts {
	return &Accounts{l}
}

func parseAddress(req *http.Request) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return thor.Address{}, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return *addr, nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	bal, err := a.ledger.TokenBalance(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{Address: addr, Balance: (*math.HexOrDecimal256)(new(big.Int).Set(bal))})
}

func (a *Accounts) handleGetQuestBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	bal, err := a.ledger.QuestBalance(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &QuestBalance{
		LastAction: bal.LastAction,
		Permanent:  bal.Permanent,
		Seasonal:   bal.Seasonal,
		Multiplier: bal.Multiplier(),
	})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/quest-balance").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetQuestBalance))
}
