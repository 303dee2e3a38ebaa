// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger serialises operations over the staking components. Each
// operation either commits all of its state changes and events or none.
package ledger

import (
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/questledger/builtin"
	"github.com/vechain/questledger/builtin/attestation"
	"github.com/vechain/questledger/builtin/custody"
	"github.com/vechain/questledger/builtin/quest"
	"github.com/vechain/questledger/builtin/reverts"
	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/clock"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/kv"
	"github.com/vechain/questledger/log"
	"github.com/vechain/questledger/state"
	"github.com/vechain/questledger/thor"
)

var logger = log.WithContext("pkg", "ledger")

// ErrUnknownToken is returned for a staked token symbol the ledger does not bind.
var ErrUnknownToken = errors.New("unknown staked token")

// Sink receives the events of every committed operation, in emission order.
type Sink interface {
	Write(height uint32, timestamp uint64, records []events.Record) error
}

// Options configures a Ledger.
type Options struct {
	// StakedTokens lists the symbols of the staked tokens to bind, defaults to stkMTA.
	StakedTokens []string
	// Verifier checks quest attestations, defaults to ECDSA signatures.
	Verifier  attestation.Verifier
	CacheSize int
	Sinks     []Sink
}

// Ledger owns the state of all components and runs operations one at a time.
type Ledger struct {
	mu     sync.Mutex
	state  *state.State
	clock  clock.Clock
	frozen *clock.Frozen // what components observe, fixed for the length of an op
	buf    *events.Buffer
	sinks  []Sink

	roles     *roles.Roles
	token     *custody.Custody
	quests    *quest.Registry
	symbols   []string
	stakers   map[string]*builtin.Instance
	byAddress map[thor.Address]*builtin.Instance
}

// New binds all components to the state kept in db.
func New(db kv.GetPutter, clk clock.Clock, opts Options) *Ledger {
	if len(opts.StakedTokens) == 0 {
		opts.StakedTokens = []string{"stkMTA"}
	}
	if opts.Verifier == nil {
		opts.Verifier = attestation.Signature{}
	}

	st := state.New(db, opts.CacheSize)
	buf := &events.Buffer{}
	frozen := clock.NewFrozen(clk)
	l := &Ledger{
		state:     st,
		clock:     clk,
		frozen:    frozen,
		buf:       buf,
		sinks:     opts.Sinks,
		stakers:   make(map[string]*builtin.Instance),
		byAddress: make(map[thor.Address]*builtin.Instance),
	}
	l.roles = builtin.Roles.WithState(st, buf)
	l.token = builtin.Token.WithState(st, buf)
	l.quests = builtin.Quests.WithState(st, buf, frozen, l.roles, opts.Verifier)
	for _, symbol := range opts.StakedTokens {
		if _, dup := l.stakers[symbol]; dup {
			continue
		}
		inst := builtin.StakedToken(symbol).WithState(st, buf, frozen, l.roles, l.quests, l.token)
		l.symbols = append(l.symbols, symbol)
		l.stakers[symbol] = inst
		l.byAddress[inst.Address()] = inst
	}
	return l
}

// AddSink registers a sink for the events of subsequent operations.
func (l *Ledger) AddSink(s Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, s)
}

// Clock returns the clock operations observe.
func (l *Ledger) Clock() clock.Clock {
	return l.clock
}

// Symbols returns the bound staked token symbols in binding order.
func (l *Ledger) Symbols() []string {
	return append([]string(nil), l.symbols...)
}

func (l *Ledger) staker(symbol string) (*builtin.Instance, error) {
	inst, ok := l.stakers[symbol]
	if !ok {
		return nil, errors.Wrap(ErrUnknownToken, symbol)
	}
	return inst, nil
}

// apply runs fn atomically. A failing fn leaves neither state changes nor events behind.
func (l *Ledger) apply(op string, fn func() error) (err error) {
	start := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	now, height := l.frozen.Freeze()
	defer l.frozen.Thaw()

	defer func() {
		result := "ok"
		switch {
		case err == nil:
		case reverts.IsRevertErr(err):
			result = "revert"
		default:
			result = "error"
		}
		metricOpCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
		metricOpDuration().ObserveWithLabels(time.Since(start).Microseconds(), map[string]string{"op": op})
	}()

	checkpoint := l.state.NewCheckpoint()
	if err = fn(); err != nil {
		l.state.RevertTo(checkpoint)
		l.buf.Reset()
		logger.Debug("operation reverted", "op", op, "error", err)
		return err
	}
	if _, err = l.state.Commit(); err != nil {
		l.state.RevertTo(checkpoint)
		l.buf.Reset()
		return errors.Wrap(err, "commit")
	}

	records := l.buf.Drain()
	for _, sink := range l.sinks {
		if err := sink.Write(height, now, records); err != nil {
			logger.Warn("failed to write events", "op", op, "error", err)
		}
	}
	l.observeSupply()
	return nil
}

// view runs a read-only fn under the ledger lock.
func (l *Ledger) view(fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frozen.Freeze()
	defer l.frozen.Thaw()
	return fn()
}

func (l *Ledger) observeSupply() {
	total := new(big.Int)
	for _, inst := range l.stakers {
		supply, err := inst.TotalSupply()
		if err != nil {
			logger.Warn("failed to read total supply", "token", inst.Address(), "error", err)
			return
		}
		total.Add(total, supply)
	}
	metricStakedSupply().Set(total.Div(total, thor.Ether).Int64())
}
