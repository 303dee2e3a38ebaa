// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/questledger/api/utils"
	"github.com/vechain/questledger/eventdb"
	"github.com/vechain/questledger/thor"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

// New serves events from db, returning at most limit events per request.
func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{db, limit}
}

func parseAddress(name, value string) (*thor.Address, error) {
	if value == "" {
		return nil, nil
	}
	addr, err := thor.ParseAddress(value)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

func (e *Events) parseFilter(req *http.Request) (*eventdb.Filter, error) {
	query := req.URL.Query()
	filter := &eventdb.Filter{
		Order:   eventdb.ASC,
		Options: &eventdb.Options{Limit: e.limit},
	}

	var err error
	if filter.Account, err = parseAddress("account", query.Get("account")); err != nil {
		return nil, err
	}
	if filter.Emitter, err = parseAddress("emitter", query.Get("emitter")); err != nil {
		return nil, err
	}
	for _, name := range query["name"] {
		for _, n := range strings.Split(name, ",") {
			if n = strings.TrimSpace(n); n != "" {
				filter.Names = append(filter.Names, n)
			}
		}
	}

	switch order := eventdb.OrderType(strings.ToLower(query.Get("order"))); order {
	case "", eventdb.ASC:
	case eventdb.DESC:
		filter.Order = eventdb.DESC
	default:
		return nil, utils.BadRequest(errors.Errorf("order: unknown %q", order))
	}

	from, err := utils.ParseUint(query.Get("from"), 64)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "from"))
	}
	to, err := utils.ParseUint(query.Get("to"), 64)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "to"))
	}
	if from != nil || to != nil {
		filter.Range = &eventdb.Range{Unit: eventdb.Height}
		if query.Get("unit") == string(eventdb.Time) {
			filter.Range.Unit = eventdb.Time
		}
		if from != nil {
			filter.Range.From = *from
		}
		if to != nil {
			if *to < filter.Range.From {
				return nil, utils.BadRequest(errors.New("to: must not be below from"))
			}
			filter.Range.To = *to
		}
	}

	offset, err := utils.ParseUint(query.Get("offset"), 64)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "offset"))
	}
	if offset != nil {
		filter.Options.Offset = *offset
	}
	limit, err := utils.ParseUint(query.Get("limit"), 64)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "limit"))
	}
	if limit != nil {
		if *limit > e.limit {
			return nil, utils.Forbidden(errors.Errorf("limit: exceeds maximum %d", e.limit))
		}
		filter.Options.Limit = *limit
	}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req)
	if err != nil {
		return err
	}
	evs, err := e.db.Filter(filter)
	if err != nil {
		return err
	}
	if evs == nil {
		evs = []*eventdb.Event{}
	}
	return utils.WriteJSON(w, evs)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
