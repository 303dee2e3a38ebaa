// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/questledger/builtin/attestation"
	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/clock"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/lvldb"
	"github.com/vechain/questledger/state"
	"github.com/vechain/questledger/thor"
)

func TestAddresses(t *testing.T) {
	seen := make(map[thor.Address]string)
	stk := StakedToken("stkMTA")
	for _, c := range []*contract{Roles.contract, Token.contract, Quests.contract, stk.contract, stk.Rewards} {
		prev, dup := seen[c.Address]
		assert.False(t, dup, "%s collides with %s", c.Name(), prev)
		seen[c.Address] = c.Name()
	}
	assert.Equal(t, thor.BytesToAddress([]byte("stkMTARewards")), stk.Rewards.Address)
}

func TestWithState(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := state.New(db, 0)
	clk := clock.NewManual(1_600_000_000, 1)
	emitter := &events.Buffer{}
	user := thor.BytesToAddress([]byte("user"))

	r := Roles.WithState(st, emitter)
	token := Token.WithState(st, emitter)
	quests := Quests.WithState(st, emitter, clk, r, attestation.Signature{})
	stk := StakedToken("stkMTA").WithState(st, emitter, clk, r, quests, token)

	r.Assign(roles.Governor, user)
	require.NoError(t, quests.AddStakedToken(user, stk.Address()))
	require.NoError(t, token.Mint(user, big.NewInt(1000)))
	require.NoError(t, stk.Deposit(user, big.NewInt(400), thor.Address{}, false))

	supply, err := stk.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, "400", supply.String())

	held, err := token.BalanceOf(stk.Address())
	require.NoError(t, err)
	assert.Equal(t, "400", held.String())
}
