// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/questledger/builtin/custody"
	"github.com/vechain/questledger/builtin/rewards"
	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/clock"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/lvldb"
	"github.com/vechain/questledger/state"
	"github.com/vechain/questledger/thor"
)

const genesisTime = uint64(1_600_000_000)

var (
	gov     = thor.BytesToAddress([]byte("gov"))
	recolla = thor.BytesToAddress([]byte("recollateraliser"))
	alice   = thor.BytesToAddress([]byte("alice"))
	bob     = thor.BytesToAddress([]byte("bob"))
	carol   = thor.BytesToAddress([]byte("carol"))
)

// ToWei converts whole tokens into base units.
func ToWei(tokens int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(tokens), thor.Ether)
}

// questStub serves fixed quest multipliers.
type questStub map[thor.Address]uint8

func (q questStub) CheckForSeasonFinish(account thor.Address) (uint8, error) {
	return q[account], nil
}

type StakerTest struct {
	*Staker
	t       *testing.T
	clock   *clock.Manual
	buf     *events.Buffer
	custody *custody.Custody
	rewards *rewards.Rewards
	quests  questStub
}

func newTest(t *testing.T) *StakerTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db, 0)
	clk := clock.NewManual(genesisTime, 1)
	buf := &events.Buffer{}
	stakerAddr := thor.BytesToAddress([]byte("stkMTA"))

	r := roles.New(thor.BytesToAddress([]byte("roles")), st, buf)
	r.Assign(roles.Governor, gov)
	r.Assign(roles.Recollateraliser, recolla)

	c := custody.New(thor.BytesToAddress([]byte("mta")), st, buf)
	for _, acc := range []thor.Address{alice, bob, carol} {
		require.NoError(t, c.Mint(acc, ToWei(1_000_000)))
	}
	rw := rewards.New(thor.BytesToAddress([]byte("rewards")), st, buf, stakerAddr, r, c)
	quests := questStub{}
	buf.Reset()

	return &StakerTest{
		Staker:  New(stakerAddr, st, buf, clk, r, quests, c, rw),
		t:       t,
		clock:   clk,
		buf:     buf,
		custody: c,
		rewards: rw,
		quests:  quests,
	}
}

// Advance moves time forward and mines a height.
func (ts *StakerTest) Advance(seconds uint64) *StakerTest {
	ts.clock.Advance(seconds)
	return ts
}

func (ts *StakerTest) Stake(account thor.Address, tokens int64) *StakerTest {
	require.NoError(ts.t, ts.Deposit(account, ToWei(tokens), thor.Address{}, false), "stake failed")
	return ts
}

func (ts *StakerTest) Cooldown(account thor.Address, units *big.Int) *StakerTest {
	require.NoError(ts.t, ts.StartCooldown(account, units), "start cooldown failed")
	return ts
}

func (ts *StakerTest) AssertRaw(account thor.Address, raw, cooldownUnits *big.Int) *StakerTest {
	r, cd, err := ts.RawBalanceOf(account)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, raw.String(), r.String(), "raw mismatch")
	assert.Equal(ts.t, cooldownUnits.String(), cd.String(), "cooldown units mismatch")
	return ts
}

func (ts *StakerTest) AssertScaled(account thor.Address, expected *big.Int) *StakerTest {
	scaled, err := ts.BalanceOf(account)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, expected.String(), scaled.String(), "scaled balance mismatch")
	return ts
}

func (ts *StakerTest) AssertVotes(account thor.Address, expected *big.Int) *StakerTest {
	votes, err := ts.GetVotes(account)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, expected.String(), votes.String(), "votes mismatch")
	return ts
}

func (ts *StakerTest) AssertTotalSupply(expected *big.Int) *StakerTest {
	supply, err := ts.TotalSupply()
	require.NoError(ts.t, err)
	assert.Equal(ts.t, expected.String(), supply.String(), "total supply mismatch")
	return ts
}

func (ts *StakerTest) AssertTokens(account thor.Address, expected *big.Int) *StakerTest {
	bal, err := ts.custody.BalanceOf(account)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, expected.String(), bal.String(), "token balance mismatch")
	return ts
}

func (ts *StakerTest) AssertRevert(err error, reason string) *StakerTest {
	require.Error(ts.t, err)
	assert.EqualError(ts.t, err, reason)
	return ts
}
