// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

// event holds one row per emitted event, subject one row per (event, account) pair.
const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	height INTEGER NOT NULL,
	time INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	emitter BLOB NOT NULL,
	name TEXT NOT NULL,
	data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS subject (
	seq INTEGER NOT NULL,
	account BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS heightIndex ON event(height);
CREATE INDEX IF NOT EXISTS timeIndex ON event(time);
CREATE INDEX IF NOT EXISTS nameIndex ON event(name);
CREATE INDEX IF NOT EXISTS subjectIndex ON subject(account, seq);
`
