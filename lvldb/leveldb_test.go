// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/questledger/kv"
)

func TestLevelDB(t *testing.T) {
	persistent, err := New(filepath.Join(t.TempDir(), "ledger"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persistent, mem} {
		key, value := []byte("123"), []byte("456")

		require.NoError(t, db.Put(key, value))
		got, err := db.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestBatchAndIterator(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bucket := kv.Bucket("s")
	batch := db.NewBatch()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, batch.Put(bucket.Key([]byte(k)), []byte(k)))
	}
	require.NoError(t, db.Put([]byte("t-outside"), []byte("x")))
	assert.Equal(t, 3, batch.Len())

	has, err := db.Has(bucket.Key([]byte("a")))
	require.NoError(t, err)
	assert.False(t, has, "batch must not apply before Write")

	require.NoError(t, batch.Write())

	it := db.NewIterator(bucket.Range())
	defer it.Release()
	var values []string
	for it.Next() {
		values = append(values, string(it.Value()))
	}
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"a", "b", "c"}, values)
}
