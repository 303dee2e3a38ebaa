// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/questledger/api/accounts"
	"github.com/vechain/questledger/api/events"
	"github.com/vechain/questledger/api/ops"
	"github.com/vechain/questledger/api/quests"
	"github.com/vechain/questledger/api/subscriptions"
	"github.com/vechain/questledger/api/tokens"
	"github.com/vechain/questledger/eventdb"
	"github.com/vechain/questledger/ledger"
	"github.com/vechain/questledger/log"
)

var logger = log.WithContext("pkg", "api")

const requestIDHeader = "x-request-id"

type Options struct {
	AllowedOrigins  string
	EventsLimit     uint64
	PprofOn         bool
	EnableReqLogger bool
	EnableMetrics   bool
	// DevMode exposes /ops, which executes operations for any caller.
	DevMode bool
}

// New return api router. The ledger is taken from the dispatcher and eventDB
// may be nil, leaving /events unmounted. Subscriptions are registered as a
// sink of the ledger.
func New(
	dispatcher *ledger.Dispatcher,
	eventDB *eventdb.EventDB,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	if opts.EventsLimit == 0 {
		opts.EventsLimit = 1000
	}
	l := dispatcher.Ledger()

	router := mux.NewRouter()

	tokens.New(l).
		Mount(router, "/tokens")
	accounts.New(l).
		Mount(router, "/accounts")
	quests.New(l).
		Mount(router, "/quests")
	if eventDB != nil {
		events.New(eventDB, opts.EventsLimit).
			Mount(router, "/events")
	}
	if opts.DevMode {
		ops.New(dispatcher).
			Mount(router, "/ops")
	}
	subs := subscriptions.New(origins)
	subs.Mount(router, "/subscriptions")
	l.AddSink(subs)

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
