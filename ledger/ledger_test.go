// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"crypto/ecdsa"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/questledger/builtin/quest"
	"github.com/vechain/questledger/builtin/reverts"
	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/builtin/staker"
	"github.com/vechain/questledger/clock"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/lvldb"
	"github.com/vechain/questledger/thor"
)

const startTime = uint64(1_600_000_000)

var (
	gov   = thor.BytesToAddress([]byte("gov"))
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
)

type batch struct {
	height    uint32
	timestamp uint64
	records   []events.Record
}

type memSink struct {
	batches []batch
}

func (m *memSink) Write(height uint32, timestamp uint64, records []events.Record) error {
	m.batches = append(m.batches, batch{height, timestamp, records})
	return nil
}

func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), thor.Ether)
}

type fixture struct {
	*Ledger
	clock  *clock.Manual
	sink   *memSink
	signer *ecdsa.PrivateKey
}

func newFixture(t *testing.T, symbols ...string) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	clk := clock.NewManual(startTime, 1)
	sink := &memSink{}
	l := New(db, clk, Options{StakedTokens: symbols, Sinks: []Sink{sink}})
	require.NoError(t, l.Init(&Genesis{
		StartTime: startTime,
		Roles: map[string]thor.Address{
			"governor":    gov,
			"questSigner": thor.Address(crypto.PubkeyToAddress(key.PublicKey)),
		},
		Allocations: []Allocation{
			{Address: alice, Amount: "10000e18"},
			{Address: bob, Amount: "10000e18"},
		},
	}))
	return &fixture{Ledger: l, clock: clk, sink: sink, signer: key}
}

func TestInit(t *testing.T) {
	f := newFixture(t)

	ok, err := f.Initialised()
	require.NoError(t, err)
	assert.True(t, ok)

	holder, err := f.Role(roles.Governor)
	require.NoError(t, err)
	assert.Equal(t, gov, holder)

	bal, err := f.TokenBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, tokens(10000).String(), bal.String())

	season, err := f.Season()
	require.NoError(t, err)
	assert.Equal(t, startTime, season.StartTime)
	assert.Equal(t, 39*thor.OneWeek, season.Length)
	assert.Equal(t, 1, season.StakedCount)

	assert.Error(t, f.Init(&Genesis{StartTime: startTime, Roles: map[string]thor.Address{"governor": gov}}))
}

func TestInitRejects(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	l := New(db, clock.NewManual(startTime, 1), Options{})

	assert.ErrorContains(t, l.Init(&Genesis{StartTime: startTime}), "governor required")
	assert.ErrorContains(t, l.Init(&Genesis{StartTime: startTime, Roles: map[string]thor.Address{"king": gov}}), "unknown role")

	// nothing of the failed attempts is left behind
	ok, err := l.Initialised()
	require.NoError(t, err)
	assert.False(t, ok)
	holder, err := l.Role(roles.Governor)
	require.NoError(t, err)
	assert.True(t, holder.IsZero())
}

func TestOperationIsAtomic(t *testing.T) {
	f := newFixture(t)
	written := len(f.sink.batches)
	poor := thor.BytesToAddress([]byte("poor"))

	// delegation succeeds before the transfer fails
	err := f.Deposit("stkMTA", poor, tokens(1), alice, false)
	assert.True(t, reverts.IsRevertErr(err))

	acc, err := f.Account("stkMTA", poor)
	require.NoError(t, err)
	assert.Equal(t, poor, acc.Delegate)
	assert.Equal(t, written, len(f.sink.batches))
}

func TestOperationEvents(t *testing.T) {
	f := newFixture(t)
	f.clock.Advance(10)

	require.NoError(t, f.Deposit("stkMTA", alice, tokens(1000), thor.Address{}, false))
	last := f.sink.batches[len(f.sink.batches)-1]
	assert.Equal(t, uint32(2), last.height)
	assert.Equal(t, startTime+10, last.timestamp)

	var names []string
	for _, rec := range last.records {
		names = append(names, rec.Event.EventType())
	}
	assert.Contains(t, names, events.EventStaked)
	assert.Contains(t, names, events.EventTransfer)
	assert.Contains(t, names, events.EventDelegateVotesChanged)

	_, err := f.Supply("stkMTA", nil)
	require.NoError(t, err)
	_, err = f.Token("nope")
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestWithdrawFlow(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.Deposit("stkMTA", alice, tokens(1000), thor.Address{}, false))
	require.NoError(t, f.StartCooldown("stkMTA", alice, tokens(1000)))
	f.clock.Advance(thor.OneWeek + thor.OneDay)

	paid, err := f.Withdraw("stkMTA", alice, tokens(100), bob, staker.WithdrawOptions{})
	require.NoError(t, err)
	assert.Equal(t, tokens(100).String(), paid.String())

	tok, err := f.Token("stkMTA")
	require.NoError(t, err)
	fee := new(big.Int).Mul(big.NewInt(75), big.NewInt(1e17))
	assert.Equal(t, fee.String(), tok.Pending.String())
	assert.Equal(t, tokens(900).String(), tok.Custody.String())

	amount, err := f.DistributeRewards("stkMTA", gov, gov)
	require.NoError(t, err)
	assert.Equal(t, fee.String(), amount.String())
	_, err = f.DistributeRewards("stkMTA", alice, alice)
	assert.EqualError(t, err, roles.ErrOnlyGovernor)
}

func TestQuestCompletionReachesEveryToken(t *testing.T) {
	f := newFixture(t, "stkMTA", "stkBPT")
	d := NewDispatcher(f.Ledger, f.signer)

	for _, symbol := range f.Symbols() {
		require.NoError(t, f.Deposit(symbol, alice, tokens(1000), thor.Address{}, false))
	}
	id, err := f.AddQuest(gov, quest.Permanent, 10, startTime+thor.OneWeek)
	require.NoError(t, err)

	res, err := d.Execute(&Op{Op: "completeUserQuests", Caller: bob, Account: &alice, QuestIDs: []uint64{id}})
	require.NoError(t, err)
	assert.Equal(t, uint8(10), res.(*quest.Completion).Multiplier)

	for _, symbol := range f.Symbols() {
		acc, err := f.Account(symbol, alice)
		require.NoError(t, err)
		assert.Equal(t, tokens(1100).String(), acc.Scaled.String(), symbol)
		assert.Equal(t, tokens(1100).String(), acc.Votes.String(), symbol)
	}

	done, err := f.HasCompleted(alice, id)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestSeasonResetReachesTouchedToken(t *testing.T) {
	f := newFixture(t, "stkMTA", "stkBPT")
	d := NewDispatcher(f.Ledger, f.signer)

	for _, symbol := range f.Symbols() {
		require.NoError(t, f.Deposit(symbol, alice, tokens(1000), thor.Address{}, false))
	}
	id, err := f.AddQuest(gov, quest.Seasonal, 40, startTime+2*thor.OneWeek)
	require.NoError(t, err)
	_, err = d.Execute(&Op{Op: "completeUserQuests", Caller: alice, QuestIDs: []uint64{id}})
	require.NoError(t, err)

	f.clock.Advance(39*thor.OneWeek + thor.OneDay)
	require.NoError(t, f.StartNewQuestSeason(gov))

	// the reset lands on the next action of alice, stkMTA only
	require.NoError(t, f.ReviewTimestamp("stkMTA", alice))

	qb, err := f.QuestBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), qb.Seasonal)

	expected := map[string]struct {
		quest  uint8
		scaled *big.Int
	}{
		"stkMTA": {6, tokens(1378)}, // 1000 * 1.06 * 1.30
		"stkBPT": {40, tokens(1400)},
	}
	for symbol, want := range expected {
		acc, err := f.Account(symbol, alice)
		require.NoError(t, err)
		assert.Equal(t, want.quest, acc.Balance.QuestMultiplier, symbol)
		assert.Equal(t, want.scaled.String(), acc.Scaled.String(), symbol)
		assert.Equal(t, want.scaled.String(), acc.Votes.String(), symbol)

		supply, err := f.Supply(symbol, nil)
		require.NoError(t, err)
		assert.Equal(t, want.scaled.String(), supply.String(), symbol)
	}
}

// tickingClock moves one second forward on every reading of the time.
type tickingClock struct {
	now uint64
}

func (c *tickingClock) Now() uint64 {
	c.now++
	return c.now
}

func (c *tickingClock) Height() uint32 {
	return uint32(c.now - startTime)
}

func TestOperationObservesOneInstant(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clk := &tickingClock{now: startTime}
	sink := &memSink{}
	l := New(db, clk, Options{Sinks: []Sink{sink}})
	require.NoError(t, l.Init(&Genesis{
		StartTime:   startTime,
		Roles:       map[string]thor.Address{"governor": gov},
		Allocations: []Allocation{{Address: alice, Amount: "1000e18"}},
	}))

	require.NoError(t, l.Deposit("stkMTA", alice, tokens(100), thor.Address{}, false))
	last := sink.batches[len(sink.batches)-1]

	acc, err := l.Account("stkMTA", alice)
	require.NoError(t, err)
	assert.Equal(t, last.timestamp, acc.Balance.WeightedTimestamp)
	assert.Equal(t, uint32(last.timestamp-startTime), last.height)

	ckpt, err := l.stakers["stkMTA"].Checkpoints(alice, 0)
	require.NoError(t, err)
	assert.Equal(t, last.height, ckpt.Height)
}

func TestQuestCompletionRejectsForeignSigner(t *testing.T) {
	f := newFixture(t)
	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	d := NewDispatcher(f.Ledger, other)

	id, err := f.AddQuest(gov, quest.Seasonal, 20, startTime+thor.OneWeek)
	require.NoError(t, err)

	_, err = d.Execute(&Op{Op: "completeQuestUsers", QuestID: id, Accounts: []thor.Address{alice, bob}})
	assert.EqualError(t, err, "Invalid Quest Signer Signature")

	done, err := f.HasCompleted(alice, id)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestDispatch(t *testing.T) {
	f := newFixture(t)
	d := NewDispatcher(f.Ledger, nil)

	_, err := d.Execute(&Op{Op: "selfdestruct"})
	assert.ErrorIs(t, err, ErrUnknownOp)

	_, err = d.Execute(&Op{Op: "deposit", Token: "stkMTA", Caller: alice, Amount: "2.5e3"})
	require.NoError(t, err)
	acc, err := f.Account("stkMTA", alice)
	require.NoError(t, err)
	assert.Equal(t, "2500", acc.Balance.Raw.String())

	_, err = d.Execute(&Op{Op: "deposit", Token: "stkMTA", Caller: alice, Amount: "1.5"})
	assert.ErrorContains(t, err, "not integral")

	_, err = d.Execute(&Op{Op: "addQuest", Caller: gov, Kind: "daily"})
	assert.ErrorContains(t, err, "unknown quest kind")

	res, err := d.Execute(&Op{Op: "addQuest", Caller: gov, Kind: "permanent", Multiplier: 5, Expiry: startTime + thor.OneWeek})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), res)

	assert.Contains(t, Ops(), "emergencyRecollateralisation")
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1000", "1000", false},
		{"0x10", "16", false},
		{"1_000", "1000", false},
		{"1000e18", "1000000000000000000000", false},
		{"7.5e18", "7500000000000000000", false},
		{"1.5", "", true},
		{"", "", true},
		{"ten", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.String(), tt.in)
	}
}

func TestLoadGenesis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
startTime: 1600000000
blockInterval: 10
stakedTokens: [stkMTA, stkBPT]
roles:
  governor: "0x0000000000000000000000000000000000000001"
allocations:
  - address: "0x0000000000000000000000000000000000000002"
    amount: 1000e18
cooldown:
  period: 3600
  window: 600
`), 0o600))

	gen, err := LoadGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, startTime, gen.StartTime)
	assert.Equal(t, []string{"stkMTA", "stkBPT"}, gen.StakedTokens)
	assert.Equal(t, thor.BytesToAddress([]byte{1}), gen.Roles["governor"])
	assert.Equal(t, "1000e18", gen.Allocations[0].Amount)
	assert.Equal(t, uint64(600), gen.Cooldown.Window)

	_, err = LoadGenesis(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
