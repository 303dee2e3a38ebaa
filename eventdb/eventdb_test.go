// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb_test

import (
	"encoding/json"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/questledger/eventdb"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/thor"
)

var (
	staker = thor.BytesToAddress([]byte("stkMTA"))
	token  = thor.BytesToAddress([]byte("MTA"))
	alice  = thor.BytesToAddress([]byte("alice"))
	bob    = thor.BytesToAddress([]byte("bob"))
)

func fill(t *testing.T, db *eventdb.EventDB) {
	for h := uint32(1); h <= 10; h++ {
		user := alice
		if h%2 == 0 {
			user = bob
		}
		require.NoError(t, db.Write(h, 1000+uint64(h)*10, []events.Record{
			{Emitter: token, Event: events.Transfer{From: user, To: staker, Amount: big.NewInt(int64(h))}},
			{Emitter: staker, Event: events.Staked{User: user, Amount: big.NewInt(int64(h))}},
		}))
	}
}

func TestWriteAndFilter(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	fill(t, db)

	all, err := db.Filter(nil)
	require.NoError(t, err)
	assert.Len(t, all, 20)
	assert.Equal(t, uint64(1), all[0].Seq)
	assert.Equal(t, events.EventTransfer, all[0].Name)
	assert.Equal(t, uint32(1), all[1].Index)

	var staked events.Staked
	require.NoError(t, json.Unmarshal(all[1].Data, &staked))
	assert.Equal(t, alice, staked.User)
	assert.Equal(t, "1", staked.Amount.String())

	byAccount, err := db.Filter(&eventdb.Filter{Account: &bob, Names: []string{events.EventStaked}})
	require.NoError(t, err)
	assert.Len(t, byAccount, 5)
	for _, ev := range byAccount {
		assert.Equal(t, staker, ev.Emitter)
		assert.Zero(t, ev.Height%2)
	}

	// staker is a subject of every transfer
	byEmitter, err := db.Filter(&eventdb.Filter{Account: &staker, Emitter: &token})
	require.NoError(t, err)
	assert.Len(t, byEmitter, 10)

	ranged, err := db.Filter(&eventdb.Filter{
		Range:   &eventdb.Range{Unit: eventdb.Time, From: 1030, To: 1050},
		Order:   eventdb.DESC,
		Options: &eventdb.Options{Offset: 1, Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, uint32(5), ranged[0].Height)
	assert.Equal(t, events.EventTransfer, ranged[0].Name)
	assert.Equal(t, uint32(4), ranged[1].Height)

	open, err := db.Filter(&eventdb.Filter{Range: &eventdb.Range{Unit: eventdb.Height, From: 9}})
	require.NoError(t, err)
	assert.Len(t, open, 4)
}

func TestWriteEmpty(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Write(1, 1, nil))
	all, err := db.Filter(nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := eventdb.New(path)
	require.NoError(t, err)
	fill(t, db)
	require.NoError(t, db.Close())

	db, err = eventdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())

	all, err := db.Filter(&eventdb.Filter{Names: []string{events.EventStaked, events.EventTransfer}})
	require.NoError(t, err)
	assert.Len(t, all, 20)
}
