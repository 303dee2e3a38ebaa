// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package quest

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
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

const genesisTime = uint64(1_600_000_000)

var (
	gov    = thor.BytesToAddress([]byte("gov"))
	master = thor.BytesToAddress([]byte("master"))
	alice  = thor.BytesToAddress([]byte("alice"))
	bob    = thor.BytesToAddress([]byte("bob"))
)

type testRegistry struct {
	*Registry
	t     *testing.T
	clock *clock.Manual
	buf   *events.Buffer
	key   *ecdsa.PrivateKey
}

func newTestRegistry(t *testing.T) *testRegistry {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	st := state.New(db, 0)
	clk := clock.NewManual(genesisTime, 1)
	buf := &events.Buffer{}
	r := roles.New(thor.BytesToAddress([]byte("roles")), st, buf)
	r.Assign(roles.Governor, gov)
	r.Assign(roles.QuestMaster, master)
	r.Assign(roles.QuestSigner, thor.Address(crypto.PubkeyToAddress(key.PublicKey)))

	reg := New(thor.BytesToAddress([]byte("quests")), st, buf, clk, r, attestation.Signature{})
	require.NoError(t, reg.Initialize(genesisTime))
	buf.Reset()
	return &testRegistry{Registry: reg, t: t, clock: clk, buf: buf, key: key}
}

func (tr *testRegistry) add(kind Kind, multiplier uint8) uint64 {
	id, err := tr.AddQuest(gov, kind, multiplier, tr.clock.Now()+thor.OneWeek*52)
	require.NoError(tr.t, err)
	return id
}

func (tr *testRegistry) signUser(account thor.Address, ids ...uint64) []byte {
	sig, err := attestation.Sign(tr.key, attestation.UserQuestsMessage(account, ids))
	require.NoError(tr.t, err)
	return sig
}

func (tr *testRegistry) signQuest(id uint64, accounts ...thor.Address) []byte {
	sig, err := attestation.Sign(tr.key, attestation.QuestUsersMessage(id, accounts))
	require.NoError(tr.t, err)
	return sig
}

func TestAddQuest(t *testing.T) {
	tr := newTestRegistry(t)
	now := tr.clock.Now()

	tests := []struct {
		name       string
		caller     thor.Address
		multiplier uint8
		expiry     uint64
		err        string
	}{
		{"not governor", master, 10, now + thor.OneWeek, roles.ErrOnlyGovernor},
		{"window too small", gov, 10, now + thor.OneDay, "Quest window too small"},
		{"zero multiplier", gov, 0, now + thor.OneWeek, "Quest multiplier too large > 1.5x"},
		{"multiplier too large", gov, 51, now + thor.OneWeek, "Quest multiplier too large > 1.5x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.AddQuest(tt.caller, Permanent, tt.multiplier, tt.expiry)
			assert.EqualError(t, err, tt.err)
		})
	}

	id0 := tr.add(Permanent, 50)
	id1 := tr.add(Seasonal, 1)
	assert.Equal(t, uint64(0), id0)
	assert.Equal(t, uint64(1), id1)

	q, ok, err := tr.Quest(id1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Seasonal, q.Kind)
	assert.Equal(t, Active, q.Status)

	_, ok, err = tr.Quest(2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, tr.buf.Len())
}

func TestExpireQuest(t *testing.T) {
	tr := newTestRegistry(t)
	id := tr.add(Permanent, 10)

	assert.EqualError(t, tr.ExpireQuest(alice, id), "Not verified")
	assert.EqualError(t, tr.ExpireQuest(master, 5), "Quest does not exist")

	tr.clock.Advance(thor.OneDay)
	require.NoError(t, tr.ExpireQuest(master, id))
	q, _, _ := tr.Quest(id)
	assert.Equal(t, Expired, q.Status)
	assert.Equal(t, tr.clock.Now(), q.Expiry)

	assert.EqualError(t, tr.ExpireQuest(gov, id), "Quest already expired")
}

func TestCompleteUserQuests(t *testing.T) {
	tr := newTestRegistry(t)
	perm := tr.add(Permanent, 10)
	season := tr.add(Seasonal, 20)

	_, err := tr.CompleteUserQuests(alice, nil, nil)
	assert.EqualError(t, err, "No quest IDs")
	_, err = tr.CompleteUserQuests(alice, []uint64{9}, tr.signUser(alice, 9))
	assert.EqualError(t, err, "Err: Invalid Quest")
	_, err = tr.CompleteUserQuests(alice, []uint64{perm}, tr.signUser(bob, perm))
	assert.EqualError(t, err, errInvalidSignature)

	completion, err := tr.CompleteUserQuests(alice, []uint64{perm, season}, tr.signUser(alice, perm, season))
	require.NoError(t, err)
	assert.Equal(t, uint8(30), completion.Multiplier)

	bal, err := tr.Balance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint8(10), bal.Permanent)
	assert.Equal(t, uint8(20), bal.Seasonal)
	assert.Equal(t, tr.clock.Now(), bal.LastAction)

	done, err := tr.HasCompleted(alice, season)
	require.NoError(t, err)
	assert.True(t, done)

	_, err = tr.CompleteUserQuests(alice, []uint64{perm}, tr.signUser(alice, perm))
	assert.EqualError(t, err, "Err: Already Completed")
}

func TestCompleteUserQuestsExpired(t *testing.T) {
	tr := newTestRegistry(t)
	id, err := tr.AddQuest(gov, Permanent, 10, tr.clock.Now()+thor.OneDay*2)
	require.NoError(t, err)

	tr.clock.Advance(thor.OneDay * 2)
	_, err = tr.CompleteUserQuests(alice, []uint64{id}, tr.signUser(alice, id))
	assert.EqualError(t, err, "Err: Invalid Quest", "quests expire lazily")
}

func TestCompleteQuestUsers(t *testing.T) {
	tr := newTestRegistry(t)
	id := tr.add(Permanent, 25)

	_, err := tr.CompleteQuestUsers(id, nil, nil)
	assert.EqualError(t, err, "No accounts")
	_, err = tr.CompleteQuestUsers(7, []thor.Address{alice}, tr.signQuest(7, alice))
	assert.EqualError(t, err, "Invalid Quest ID")
	_, err = tr.CompleteQuestUsers(id, []thor.Address{alice, bob}, tr.signQuest(id, alice))
	assert.EqualError(t, err, errInvalidSignature)

	completions, err := tr.CompleteQuestUsers(id, []thor.Address{alice}, tr.signQuest(id, alice))
	require.NoError(t, err)
	require.Len(t, completions, 1)

	// alice is skipped, bob completes
	completions, err = tr.CompleteQuestUsers(id, []thor.Address{alice, bob}, tr.signQuest(id, alice, bob))
	require.NoError(t, err)
	require.Len(t, completions, 1)
	assert.Equal(t, Completion{Account: bob, Multiplier: 25}, completions[0])

	bal, _ := tr.Balance(alice)
	assert.Equal(t, uint8(25), bal.Permanent)
}

func TestMultiplierOverflow(t *testing.T) {
	tr := newTestRegistry(t)
	var ids []uint64
	for range 6 {
		ids = append(ids, tr.add(Permanent, 50))
	}
	_, err := tr.CompleteUserQuests(alice, ids[:5], tr.signUser(alice, ids[:5]...))
	require.NoError(t, err)
	_, err = tr.CompleteUserQuests(alice, ids[5:], tr.signUser(alice, ids[5:]...))
	assert.EqualError(t, err, "Quest multiplier overflow")
}

func TestQuestSeason(t *testing.T) {
	tr := newTestRegistry(t)
	seasonal := tr.add(Seasonal, 40)
	perm := tr.add(Permanent, 10)
	_, err := tr.CompleteUserQuests(alice, []uint64{seasonal, perm}, tr.signUser(alice, seasonal, perm))
	require.NoError(t, err)

	assert.EqualError(t, tr.StartNewQuestSeason(alice), "Not verified")
	assert.EqualError(t, tr.StartNewQuestSeason(master), "First season has not elapsed")

	tr.clock.Advance(thor.OneWeek * 39)
	assert.EqualError(t, tr.StartNewQuestSeason(master), "First season has not elapsed")

	tr.clock.Advance(1)
	assert.EqualError(t, tr.StartNewQuestSeason(master), "All seasonal quests must have expired")

	require.NoError(t, tr.ExpireQuest(master, seasonal))
	require.NoError(t, tr.StartNewQuestSeason(master))
	epoch, err := tr.SeasonEpoch()
	require.NoError(t, err)
	assert.Equal(t, tr.clock.Now(), epoch)

	tr.clock.Advance(thor.OneWeek)
	assert.EqualError(t, tr.StartNewQuestSeason(gov), "Season has not elapsed")

	// lazily applied
	bal, _ := tr.Balance(alice)
	assert.Equal(t, uint8(40), bal.Seasonal)
	multiplier, err := tr.CheckForSeasonFinish(alice)
	require.NoError(t, err)
	assert.Equal(t, uint8(16), multiplier)
	bal, _ = tr.Balance(alice)
	assert.Equal(t, uint8(6), bal.Seasonal)
	assert.Equal(t, tr.clock.Now(), bal.LastAction)

	// only once per season
	multiplier, err = tr.CheckForSeasonFinish(alice)
	require.NoError(t, err)
	assert.Equal(t, uint8(16), multiplier)

	// untouched accounts stay untouched
	multiplier, err = tr.CheckForSeasonFinish(bob)
	require.NoError(t, err)
	assert.Zero(t, multiplier)
}

func TestSeasonalQuestRecordsEpoch(t *testing.T) {
	tr := newTestRegistry(t)
	tr.clock.Advance(thor.OneWeek*39 + 1)
	require.NoError(t, tr.StartNewQuestSeason(gov))

	id := tr.add(Seasonal, 5)
	q, _, err := tr.Quest(id)
	require.NoError(t, err)
	assert.Equal(t, tr.clock.Now(), q.SeasonEpoch)
}

func TestAdministration(t *testing.T) {
	tr := newTestRegistry(t)
	newMaster := thor.BytesToAddress([]byte("new-master"))

	assert.EqualError(t, tr.SetQuestMaster(alice, alice), "Not verified")
	require.NoError(t, tr.SetQuestMaster(master, newMaster))
	assert.EqualError(t, tr.ExpireQuest(master, 0), "Not verified")

	assert.EqualError(t, tr.SetQuestSigner(newMaster, alice), roles.ErrOnlyGovernor)
	require.NoError(t, tr.SetQuestSigner(gov, alice))

	token := thor.BytesToAddress([]byte("stkMTA"))
	assert.EqualError(t, tr.AddStakedToken(gov, thor.Address{}), "Invalid StakedToken")
	require.NoError(t, tr.AddStakedToken(gov, token))
	assert.EqualError(t, tr.AddStakedToken(gov, token), "StakedToken already added")
	tokens, err := tr.StakedTokens()
	require.NoError(t, err)
	assert.Equal(t, []thor.Address{token}, tokens)
}

func TestSeasonLengthOverride(t *testing.T) {
	tr := newTestRegistry(t)
	tr.SetSeasonLength(thor.OneWeek)
	tr.clock.Advance(thor.OneWeek + 1)
	require.NoError(t, tr.StartNewQuestSeason(gov))
}
