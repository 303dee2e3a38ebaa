// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/questledger/builtin/reverts"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/lvldb"
	"github.com/vechain/questledger/state"
	"github.com/vechain/questledger/thor"
)

func newRoles(t *testing.T) (*Roles, *events.Buffer) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	buf := &events.Buffer{}
	return New(thor.BytesToAddress([]byte("roles")), state.New(db, 0), buf), buf
}

func TestRoles(t *testing.T) {
	r, buf := newRoles(t)
	gov := thor.BytesToAddress([]byte("gov"))
	master := thor.BytesToAddress([]byte("master"))
	mallory := thor.BytesToAddress([]byte("mallory"))

	ok, err := r.Is(Governor, thor.Address{})
	require.NoError(t, err)
	assert.False(t, ok, "unassigned roles never match the zero address")

	r.Assign(Governor, gov)
	ok, err = r.Is(Governor, gov)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, buf.Len())

	err = r.Set(mallory, QuestMaster, mallory)
	assert.True(t, reverts.IsRevertErr(err))
	assert.EqualError(t, err, ErrOnlyGovernor)

	require.NoError(t, r.Set(gov, QuestMaster, master))
	holder, err := r.Get(QuestMaster)
	require.NoError(t, err)
	assert.Equal(t, master, holder)

	ok, err = r.IsAny(master, Governor, QuestMaster)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.IsAny(mallory, Governor, QuestMaster)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.EqualError(t, r.Set(gov, Role("janitor"), mallory), "Unknown role")
	assert.NoError(t, r.RequireGovernor(gov))
}
