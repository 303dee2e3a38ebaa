// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/questledger/builtin/custody"
	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/lvldb"
	"github.com/vechain/questledger/state"
	"github.com/vechain/questledger/thor"
)

var (
	gov   = thor.BytesToAddress([]byte("gov"))
	vault = thor.BytesToAddress([]byte("vault"))
	alice = thor.BytesToAddress([]byte("alice"))
)

func newRewards(t *testing.T) (*Rewards, *custody.Custody, *events.Buffer) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db, 0)
	buf := &events.Buffer{}
	r := roles.New(thor.BytesToAddress([]byte("roles")), st, buf)
	r.Assign(roles.Governor, gov)
	c := custody.New(thor.BytesToAddress([]byte("mta")), st, buf)
	buf.Reset()

	return New(thor.BytesToAddress([]byte("rewards")), st, buf, vault, r, c), c, buf
}

func TestScaledBalanceChanged(t *testing.T) {
	r, _, buf := newRewards(t)

	require.NoError(t, r.ScaledBalanceChanged(alice, big.NewInt(10), big.NewInt(10)))
	assert.Zero(t, buf.Len(), "unchanged balances are not reported")

	require.NoError(t, r.ScaledBalanceChanged(alice, big.NewInt(10), big.NewInt(12)))
	records := buf.Drain()
	require.Len(t, records, 1)
	ev := records[0].Event.(events.ScaledBalanceChanged)
	assert.Equal(t, big.NewInt(12), ev.Current)
}

func TestDistributePending(t *testing.T) {
	r, c, _ := newRewards(t)
	require.NoError(t, c.Mint(vault, big.NewInt(100)))

	require.NoError(t, r.NotifyAdditionalReward(big.NewInt(8)))
	require.NoError(t, r.NotifyAdditionalReward(big.NewInt(2)))

	_, err := r.DistributePending(alice, alice)
	assert.EqualError(t, err, roles.ErrOnlyGovernor)

	paid, err := r.DistributePending(gov, alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), paid)

	bal, err := c.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), bal)

	pending, distributed, err := r.Pending()
	require.NoError(t, err)
	assert.Equal(t, 0, pending.Sign())
	assert.Equal(t, big.NewInt(10), distributed)
}
