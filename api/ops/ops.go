// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ops submits operations on behalf of any caller. It trusts the
// request body for the caller identity, so it's only mounted in dev mode.
package ops

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/questledger/api/utils"
	"github.com/vechain/questledger/ledger"
)

// Result is the outcome of a committed operation.
type Result struct {
	Op     string `json:"op"`
	Height uint32 `json:"height"`
	Result any    `json:"result"`
}

type Ops struct {
	dispatcher *ledger.Dispatcher
}

func New(d *ledger.Dispatcher) *Ops {
	return &Ops{d}
}

func (o *Ops) handleList(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, ledger.Ops())
}

func (o *Ops) handleExecute(w http.ResponseWriter, req *http.Request) error {
	var op ledger.Op
	if err := utils.ParseJSON(req.Body, &op); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if name := mux.Vars(req)["op"]; name != "" {
		op.Op = name
	}

	res, err := o.dispatcher.Execute(&op)
	if err != nil {
		return utils.LedgerError(err)
	}
	if v, ok := res.(*big.Int); ok {
		res = (*math.HexOrDecimal256)(v)
	}
	return utils.WriteJSON(w, &Result{
		Op:     op.Op,
		Height: o.dispatcher.Ledger().Clock().Height(),
		Result: res,
	})
}

func (o *Ops) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(o.handleList))
	sub.Path("").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(o.handleExecute))
	sub.Path("/{op}").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(o.handleExecute))
}
