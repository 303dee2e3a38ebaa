// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events defines the typed events emitted by the ledger components.
package events

import (
	"github.com/vechain/questledger/thor"
)

// Event represents a structured state change emitted by a ledger component.
type Event interface {
	EventType() string
	// Subjects lists the accounts the event is about, used for indexing.
	Subjects() []thor.Address
}

// Emitter receives events from the component bound to address emitter.
type Emitter interface {
	Emit(emitter thor.Address, ev Event)
}

// NoopEmitter discards all events.
type NoopEmitter struct{}

func (NoopEmitter) Emit(thor.Address, Event) {}

// Record is an event together with the address of the component that emitted it.
type Record struct {
	Emitter thor.Address
	Event   Event
}

// Buffer collects events of an operation until it is known to succeed.
// It is not safe for concurrent use.
type Buffer struct {
	records []Record
}

func (b *Buffer) Emit(emitter thor.Address, ev Event) {
	b.records = append(b.records, Record{Emitter: emitter, Event: ev})
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int {
	return len(b.records)
}

// Drain returns the buffered events and empties the buffer.
func (b *Buffer) Drain() []Record {
	records := b.records
	b.records = nil
	return records
}

// Reset drops the buffered events.
func (b *Buffer) Reset() {
	b.records = nil
}
