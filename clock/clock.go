// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock provides the time and ordering height observed by ledger operations.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current unix timestamp and the height of the current ordering step.
// Operations landing in the same height share one checkpoint per account.
type Clock interface {
	Now() uint64
	Height() uint32
}

// Manual is a clock advanced explicitly, used by tests and scenario replay.
type Manual struct {
	mu     sync.RWMutex
	now    uint64
	height uint32
}

func NewManual(now uint64, height uint32) *Manual {
	return &Manual{now: now, height: height}
}

func (m *Manual) Now() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

func (m *Manual) Height() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.height
}

// Advance moves time forward by seconds and mines one height.
func (m *Manual) Advance(seconds uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += seconds
	m.height++
}

// Mine moves to the next height without moving time.
func (m *Manual) Mine() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.height++
}

// Read returns the time and height under one lock.
func (m *Manual) Read() (uint64, uint32) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now, m.height
}

// Set jumps to the given time and height.
func (m *Manual) Set(now uint64, height uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	m.height = height
}

// Wall derives heights from wall time: one height per interval since genesis.
type Wall struct {
	genesis  uint64
	interval uint64
	nowFn    func() time.Time
}

func NewWall(genesis uint64, interval uint64) *Wall {
	if interval == 0 {
		interval = 1
	}
	return &Wall{genesis: genesis, interval: interval, nowFn: time.Now}
}

func (w *Wall) Now() uint64 {
	now := w.nowFn().Unix()
	if now < 0 {
		return 0
	}
	return uint64(now)
}

func (w *Wall) Height() uint32 {
	_, height := w.Read()
	return height
}

// Read returns the time and the height derived from one wall time reading.
func (w *Wall) Read() (uint64, uint32) {
	now := w.Now()
	if now <= w.genesis {
		return now, 0
	}
	return now, uint32((now - w.genesis) / w.interval)
}

// Read returns the time and height of c from a single observation when c supports it.
func Read(c Clock) (uint64, uint32) {
	if r, ok := c.(interface{ Read() (uint64, uint32) }); ok {
		return r.Read()
	}
	return c.Now(), c.Height()
}

// Frozen passes its source through, except between Freeze and Thaw where it
// keeps answering with the reading taken by Freeze.
type Frozen struct {
	src Clock

	mu     sync.RWMutex
	frozen bool
	now    uint64
	height uint32
}

func NewFrozen(src Clock) *Frozen {
	return &Frozen{src: src}
}

// Freeze takes one reading of the source and holds it until Thaw.
func (f *Frozen) Freeze() (uint64, uint32) {
	now, height := Read(f.src)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frozen, f.now, f.height = true, now, height
	return now, height
}

func (f *Frozen) Thaw() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frozen = false
}

func (f *Frozen) Now() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.frozen {
		return f.now
	}
	return f.src.Now()
}

func (f *Frozen) Height() uint32 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.frozen {
		return f.height
	}
	return f.src.Height()
}
