// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/questledger/api/utils"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/log"
	"github.com/vechain/questledger/thor"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	pingPeriod   = 20 * time.Second
	writeTimeout = 10 * time.Second
	// events queued for a slow client before it misses some
	listenerBacklog = 256
)

// EventMessage is an event pushed to subscribers.
type EventMessage struct {
	Height  uint32          `json:"height"`
	Time    uint64          `json:"time"`
	Index   uint32          `json:"index"`
	Emitter thor.Address    `json:"emitter"`
	Name    string          `json:"name"`
	Data    json.RawMessage `json:"data"`

	subjects []thor.Address
}

type listener struct {
	ch      chan *EventMessage
	names   map[string]bool
	account *thor.Address
}

func (l *listener) match(msg *EventMessage) bool {
	if len(l.names) > 0 && !l.names[msg.Name] {
		return false
	}
	if l.account == nil {
		return true
	}
	for _, s := range msg.subjects {
		if s == *l.account {
			return true
		}
	}
	return false
}

// Subscriptions streams committed ledger events to websocket clients.
// It's a ledger sink.
type Subscriptions struct {
	upgrader  *websocket.Upgrader
	mu        sync.RWMutex
	listeners map[*listener]struct{}
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates Subscriptions. Websocket origins are checked against allowedOrigins
// unless it contains "*".
func New(allowedOrigins []string) *Subscriptions {
	origins := make(map[string]bool)
	for _, o := range allowedOrigins {
		origins[strings.ToLower(strings.TrimSpace(o))] = true
	}
	return &Subscriptions{
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins["*"] || origins[strings.ToLower(origin)]
			},
		},
		listeners: make(map[*listener]struct{}),
		done:      make(chan struct{}),
	}
}

// Write broadcasts records to the listeners whose filter matches. Slow
// listeners miss events instead of blocking the ledger.
func (s *Subscriptions) Write(height uint32, timestamp uint64, records []events.Record) error {
	msgs := make([]*EventMessage, 0, len(records))
	for i, rec := range records {
		data, err := json.Marshal(rec.Event)
		if err != nil {
			return errors.Wrap(err, "encode event")
		}
		msgs = append(msgs, &EventMessage{
			Height:   height,
			Time:     timestamp,
			Index:    uint32(i),
			Emitter:  rec.Emitter,
			Name:     rec.Event.EventType(),
			Data:     data,
			subjects: rec.Event.Subjects(),
		})
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for lsn := range s.listeners {
		for _, msg := range msgs {
			if !lsn.match(msg) {
				continue
			}
			select {
			case lsn.ch <- msg:
			default:
				metricDropped().Add(1)
			}
		}
	}
	return nil
}

func (s *Subscriptions) subscribe(lsn *listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[lsn] = struct{}{}
	metricListeners().Set(int64(len(s.listeners)))
}

func (s *Subscriptions) unsubscribe(lsn *listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, lsn)
	metricListeners().Set(int64(len(s.listeners)))
}

func parseListener(req *http.Request) (*listener, error) {
	query := req.URL.Query()
	lsn := &listener{
		ch:    make(chan *EventMessage, listenerBacklog),
		names: make(map[string]bool),
	}
	for _, name := range query["name"] {
		for _, n := range strings.Split(name, ",") {
			if n = strings.TrimSpace(n); n != "" {
				lsn.names[n] = true
			}
		}
	}
	if v := query.Get("account"); v != "" {
		addr, err := thor.ParseAddress(v)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "account"))
		}
		lsn.account = addr
	}
	return lsn, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	lsn, err := parseListener(req)
	if err != nil {
		return err
	}
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	s.subscribe(lsn)
	defer s.unsubscribe(lsn)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			// clients only send control frames, reading processes them
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg := <-lsn.ch:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				logger.Debug("write failed", "err", err)
				return nil
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return nil
			}
		case <-closed:
			return nil
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
				time.Now().Add(writeTimeout))
			return nil
		}
	}
}

// Close disconnects all subscribers and waits for their handlers to return.
func (s *Subscriptions) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
