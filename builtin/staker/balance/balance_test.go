// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package balance

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/questledger/builtin/solidity"
	"github.com/vechain/questledger/lvldb"
	"github.com/vechain/questledger/state"
	"github.com/vechain/questledger/thor"
)

func TestBalance(t *testing.T) {
	b := (&Balance{Raw: big.NewInt(700), CooldownUnits: big.NewInt(300), CooldownTimestamp: 5, QuestMultiplier: 10, TimeMultiplier: 20})

	assert.Equal(t, big.NewInt(1000), b.Total())
	assert.Equal(t, big.NewInt(924), b.Scaled(), "700 * 1.1 * 1.2")
	assert.True(t, b.InCooldown())

	c := b.Clone()
	c.ExitCooldown()
	assert.Equal(t, big.NewInt(1000), c.Raw)
	assert.Equal(t, 0, c.CooldownUnits.Sign())
	assert.False(t, c.InCooldown())
	assert.Equal(t, big.NewInt(700), b.Raw, "clone is independent")
}

func TestRepository(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(solidity.NewContext(thor.BytesToAddress([]byte("stkMTA")), state.New(db, 0)))
	alice := thor.BytesToAddress([]byte("alice"))

	bal, err := repo.Get(alice)
	require.NoError(t, err)
	assert.True(t, bal.IsEmpty())
	assert.NotNil(t, bal.Raw)

	bal.Raw = big.NewInt(42)
	bal.WeightedTimestamp = 1000
	bal.TimeMultiplier = 30
	require.NoError(t, repo.Set(alice, bal))

	got, err := repo.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), got.Raw)
	assert.Equal(t, uint64(1000), got.WeightedTimestamp)
	assert.Equal(t, uint8(30), got.TimeMultiplier)
	assert.Equal(t, 0, got.CooldownUnits.Sign())
}
