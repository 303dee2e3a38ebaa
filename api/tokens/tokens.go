// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/questledger/api/utils"
	"github.com/vechain/questledger/ledger"
	"github.com/vechain/questledger/thor"
)

type Tokens struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Tokens {
	return &Tokens{l}
}

func (t *Tokens) handleGetTokens(w http.ResponseWriter, _ *http.Request) error {
	symbols := t.ledger.Symbols()
	list := make([]*Token, 0, len(symbols))
	for _, symbol := range symbols {
		tok, err := t.ledger.Token(symbol)
		if err != nil {
			return err
		}
		list = append(list, convertToken(tok))
	}
	return utils.WriteJSON(w, list)
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	tok, err := t.ledger.Token(mux.Vars(req)["token"])
	if err != nil {
		return utils.LedgerError(err)
	}
	return utils.WriteJSON(w, convertToken(tok))
}

func (t *Tokens) handleGetSafety(w http.ResponseWriter, req *http.Request) error {
	tok, err := t.ledger.Token(mux.Vars(req)["token"])
	if err != nil {
		return utils.LedgerError(err)
	}
	return utils.WriteJSON(w, convertToken(tok).Safety)
}

func (t *Tokens) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	acc, err := t.ledger.Account(mux.Vars(req)["token"], *addr)
	if err != nil {
		return utils.LedgerError(err)
	}
	return utils.WriteJSON(w, convertAccount(acc))
}

func parseHeight(req *http.Request) (*uint32, error) {
	v, err := utils.ParseUint(req.URL.Query().Get("height"), 32)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "height"))
	}
	if v == nil {
		return nil, nil
	}
	h := uint32(*v)
	return &h, nil
}

func (t *Tokens) handleGetVotes(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	height, err := parseHeight(req)
	if err != nil {
		return err
	}
	votes, err := t.ledger.Votes(mux.Vars(req)["token"], *addr, height)
	if err != nil {
		return utils.LedgerError(err)
	}
	return utils.WriteJSON(w, &Amount{Height: height, Value: hexOrDecimal(votes)})
}

func (t *Tokens) handleGetSupply(w http.ResponseWriter, req *http.Request) error {
	height, err := parseHeight(req)
	if err != nil {
		return err
	}
	supply, err := t.ledger.Supply(mux.Vars(req)["token"], height)
	if err != nil {
		return utils.LedgerError(err)
	}
	return utils.WriteJSON(w, &Amount{Height: height, Value: hexOrDecimal(supply)})
}

func (t *Tokens) handleGetFeeRate(w http.ResponseWriter, req *http.Request) error {
	wts, err := utils.ParseUint(req.URL.Query().Get("weightedTimestamp"), 64)
	if err != nil || wts == nil {
		return utils.BadRequest(errors.New("weightedTimestamp: required unsigned integer"))
	}
	rate, err := t.ledger.FeeRate(mux.Vars(req)["token"], *wts)
	if err != nil {
		return utils.LedgerError(err)
	}
	return utils.WriteJSON(w, &Amount{Value: hexOrDecimal(rate)})
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(t.handleGetTokens))
	sub.Path("/{token}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/{token}/safety").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(t.handleGetSafety))
	sub.Path("/{token}/supply").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(t.handleGetSupply))
	sub.Path("/{token}/fee-rate").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(t.handleGetFeeRate))
	sub.Path("/{token}/accounts/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(t.handleGetAccount))
	sub.Path("/{token}/accounts/{address}/votes").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(t.handleGetVotes))
}
