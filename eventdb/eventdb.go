// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists ledger events into sqlite and filters them.
package eventdb

import (
	"database/sql"
	"encoding/json"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/log"
	"github.com/vechain/questledger/thor"
)

var logger = log.WithContext("pkg", "eventdb")

type RangeType string

const (
	Height RangeType = "height"
	Time   RangeType = "time"
)

type OrderType string

const (
	ASC  OrderType = "asc"
	DESC OrderType = "desc"
)

type Range struct {
	Unit RangeType `json:"unit"`
	From uint64    `json:"from"`
	To   uint64    `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events. Empty fields match everything.
type Filter struct {
	Account *thor.Address `json:"account"` // an account the event is about
	Emitter *thor.Address `json:"emitter"`
	Names   []string      `json:"names"`
	Order   OrderType     `json:"order"` // default asc
	Range   *Range        `json:"range"`
	Options *Options      `json:"options"`
}

// Event is a stored ledger event.
type Event struct {
	Seq     uint64          `json:"seq"`
	Height  uint32          `json:"height"`
	Time    uint64          `json:"time"`
	Index   uint32          `json:"index"`
	Emitter thor.Address    `json:"emitter"`
	Name    string          `json:"name"`
	Data    json.RawMessage `json:"data"`
}

// EventDB manages all events.
type EventDB struct {
	path          string
	db            *sql.DB
	sqliteVersion string
}

// New open a event db.
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// a memory db lives as long as its only connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		db.Close()
		return nil, err
	}
	s, _, _ := sqlite3.Version()
	logger.Debug("event db opened", "path", path, "sqlite", s)
	return &EventDB{
		path:          path,
		db:            db,
		sqliteVersion: s,
	}, nil
}

// NewMem create a memory sqlite db.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Write inserts the events of one operation, it makes EventDB a ledger sink.
func (db *EventDB) Write(height uint32, timestamp uint64, records []events.Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	for i, rec := range records {
		data, err := json.Marshal(rec.Event)
		if err != nil {
			tx.Rollback()
			return errors.Wrap(err, "encode event")
		}
		res, err := tx.Exec("INSERT INTO event(height, time, eventIndex, emitter, name, data) VALUES (?, ?, ?, ?, ?, ?);",
			height,
			timestamp,
			i,
			rec.Emitter.Bytes(),
			rec.Event.EventType(),
			string(data))
		if err != nil {
			tx.Rollback()
			return err
		}
		seq, err := res.LastInsertId()
		if err != nil {
			tx.Rollback()
			return err
		}
		seen := make(map[thor.Address]bool)
		for _, subject := range rec.Event.Subjects() {
			if subject.IsZero() || seen[subject] {
				continue
			}
			seen[subject] = true
			if _, err := tx.Exec("INSERT INTO subject(seq, account) VALUES (?, ?);", seq, subject.Bytes()); err != nil {
				tx.Rollback()
				return err
			}
		}
	}
	return tx.Commit()
}

// Filter return events with options.
func (db *EventDB) Filter(filter *Filter) ([]*Event, error) {
	const columns = "SELECT event.seq, height, time, eventIndex, emitter, name, data FROM event"
	if filter == nil {
		return db.query(columns + " ORDER BY event.seq ASC")
	}

	var args []any
	stmt := columns
	if filter.Account != nil {
		stmt += " JOIN subject ON subject.seq = event.seq AND subject.account = ?"
		args = append(args, filter.Account.Bytes())
	}
	stmt += " WHERE 1"
	if filter.Range != nil {
		condition := "height"
		if filter.Range.Unit == Time {
			condition = "time"
		}
		args = append(args, filter.Range.From)
		stmt += " AND " + condition + " >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND " + condition + " <= ?"
		}
	}
	if filter.Emitter != nil {
		args = append(args, filter.Emitter.Bytes())
		stmt += " AND emitter = ?"
	}
	if len(filter.Names) > 0 {
		stmt += " AND name IN (?" + strings.Repeat(", ?", len(filter.Names)-1) + ")"
		for _, name := range filter.Names {
			args = append(args, name)
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY event.seq DESC"
	} else {
		stmt += " ORDER BY event.seq ASC"
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(stmt, args...)
}

func (db *EventDB) query(stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.Query(stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			event   Event
			emitter []byte
			data    string
		)
		if err := rows.Scan(
			&event.Seq,
			&event.Height,
			&event.Time,
			&event.Index,
			&emitter,
			&event.Name,
			&data,
		); err != nil {
			return nil, err
		}
		event.Emitter = thor.BytesToAddress(emitter)
		event.Data = json.RawMessage(data)
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Path return db's file path.
func (db *EventDB) Path() string {
	return db.path
}

// Close close sqlite.
func (db *EventDB) Close() error {
	return db.db.Close()
}
