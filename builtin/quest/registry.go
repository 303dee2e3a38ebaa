// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package quest

import (
	"github.com/pkg/errors"

	"github.com/vechain/questledger/builtin/attestation"
	"github.com/vechain/questledger/builtin/reverts"
	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/builtin/solidity"
	"github.com/vechain/questledger/clock"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/log"
	"github.com/vechain/questledger/state"
	"github.com/vechain/questledger/thor"
)

var (
	logger = log.WithContext("pkg", "quest")

	slotQuestCount   = thor.BytesToBytes32([]byte("quest-count"))
	slotQuests       = thor.BytesToBytes32([]byte("quests"))
	slotBalances     = thor.BytesToBytes32([]byte("quest-balances"))
	slotCompletions  = thor.BytesToBytes32([]byte("quest-completions"))
	slotSeasonEpoch  = thor.BytesToBytes32([]byte("season-epoch"))
	slotStartTime    = thor.BytesToBytes32([]byte("start-time"))
	slotStakedTokens = thor.BytesToBytes32([]byte("staked-tokens"))

	SeasonLength = solidity.NewConfigVariable("quest-season-length", 39*thor.OneWeek)
)

const (
	MaxMultiplier = 50
	// seasonal multipliers keep this share, in percent, once a season ends
	seasonCarryOver = 15
)

func SetLogger(l log.Logger) {
	logger = l
}

// Registry owns quest definitions and the quest multipliers of accounts.
type Registry struct {
	sctx     *solidity.Context
	emitter  events.Emitter
	clock    clock.Clock
	roles    *roles.Roles
	verifier attestation.Verifier

	questCount   *solidity.Raw[uint64]
	quests       *solidity.Mapping[questID, *Quest]
	balances     *solidity.Mapping[thor.Address, *Balance]
	completions  *solidity.Mapping[completionKey, bool]
	seasonEpoch  *solidity.Raw[uint64]
	startTime    *solidity.Raw[uint64]
	stakedTokens *solidity.Raw[[]thor.Address]
}

// New create a new instance.
func New(
	addr thor.Address,
	state *state.State,
	emitter events.Emitter,
	clk clock.Clock,
	roles *roles.Roles,
	verifier attestation.Verifier,
) *Registry {
	sctx := solidity.NewContext(addr, state)
	return &Registry{
		sctx:         sctx,
		emitter:      emitter,
		clock:        clk,
		roles:        roles,
		verifier:     verifier,
		questCount:   solidity.NewRaw[uint64](sctx, slotQuestCount),
		quests:       solidity.NewMapping[questID, *Quest](sctx, slotQuests),
		balances:     solidity.NewMapping[thor.Address, *Balance](sctx, slotBalances),
		completions:  solidity.NewMapping[completionKey, bool](sctx, slotCompletions),
		seasonEpoch:  solidity.NewRaw[uint64](sctx, slotSeasonEpoch),
		startTime:    solidity.NewRaw[uint64](sctx, slotStartTime),
		stakedTokens: solidity.NewRaw[[]thor.Address](sctx, slotStakedTokens),
	}
}

// Initialize records the start of the first season.
func (r *Registry) Initialize(startTime uint64) error {
	return r.startTime.Set(startTime)
}

// SetSeasonLength overrides the default season length.
func (r *Registry) SetSeasonLength(seconds uint64) {
	SeasonLength.Override(r.sctx, seconds)
}

//
// Getters - no state change
//

func (r *Registry) StartTime() (uint64, error) {
	return r.startTime.Get()
}

func (r *Registry) SeasonEpoch() (uint64, error) {
	return r.seasonEpoch.Get()
}

// SeasonDuration returns the minimum length of a season in seconds.
func (r *Registry) SeasonDuration() uint64 {
	return SeasonLength.Get(r.sctx)
}

// QuestCount returns the number of quests ever added, ids are below it.
func (r *Registry) QuestCount() (uint64, error) {
	return r.questCount.Get()
}

// Quest returns the quest with id, ok is false if it was never added.
func (r *Registry) Quest(id uint64) (quest *Quest, ok bool, err error) {
	count, err := r.questCount.Get()
	if err != nil || id >= count {
		return nil, false, err
	}
	quest, err = r.quests.Get(questID(id))
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to get quest")
	}
	return quest, true, nil
}

// Balance returns the quest balance of account as stored, without season reset.
func (r *Registry) Balance(account thor.Address) (*Balance, error) {
	bal, err := r.balances.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get quest balance")
	}
	return bal, nil
}

func (r *Registry) HasCompleted(account thor.Address, id uint64) (bool, error) {
	return r.completions.Get(completionKey{account, id})
}

// StakedTokens returns the staked tokens notified of new quest multipliers.
func (r *Registry) StakedTokens() ([]thor.Address, error) {
	return r.stakedTokens.Get()
}

func (r *Registry) validQuest(id uint64) (*Quest, bool, error) {
	quest, ok, err := r.Quest(id)
	if err != nil || !ok {
		return nil, false, err
	}
	return quest, quest.Status == Active && r.clock.Now() < quest.Expiry, nil
}

func (r *Registry) requireMaster(caller thor.Address) error {
	ok, err := r.roles.IsAny(caller, roles.Governor, roles.QuestMaster)
	if err != nil {
		return err
	}
	return reverts.Require(ok, "Not verified")
}

//
// Setters - state change
//

// SetQuestMaster hands the quest master role over, callable by the governor or the current master.
func (r *Registry) SetQuestMaster(caller, master thor.Address) error {
	if err := r.requireMaster(caller); err != nil {
		return err
	}
	old, err := r.roles.Get(roles.QuestMaster)
	if err != nil {
		return err
	}
	r.roles.Assign(roles.QuestMaster, master)
	r.emitter.Emit(r.sctx.Address(), events.QuestMaster{OldMaster: old, NewMaster: master})
	return nil
}

func (r *Registry) SetQuestSigner(caller, signer thor.Address) error {
	if err := r.roles.RequireGovernor(caller); err != nil {
		return err
	}
	old, err := r.roles.Get(roles.QuestSigner)
	if err != nil {
		return err
	}
	r.roles.Assign(roles.QuestSigner, signer)
	r.emitter.Emit(r.sctx.Address(), events.QuestSigner{OldSigner: old, NewSigner: signer})
	return nil
}

// AddStakedToken registers a staked token to be notified of quest completions.
func (r *Registry) AddStakedToken(caller, token thor.Address) error {
	if err := r.roles.RequireGovernor(caller); err != nil {
		return err
	}
	if token.IsZero() {
		return reverts.New("Invalid StakedToken")
	}
	tokens, err := r.stakedTokens.Get()
	if err != nil {
		return err
	}
	for _, t := range tokens {
		if t == token {
			return reverts.New("StakedToken already added")
		}
	}
	if err := r.stakedTokens.Set(append(tokens, token)); err != nil {
		return err
	}
	r.emitter.Emit(r.sctx.Address(), events.StakedTokenAdded{StakedToken: token})
	return nil
}

// AddQuest adds an active quest and returns its id.
func (r *Registry) AddQuest(caller thor.Address, kind Kind, multiplier uint8, expiry uint64) (uint64, error) {
	logger.Debug("adding quest", "kind", kind, "multiplier", multiplier, "expiry", expiry)

	if err := r.roles.RequireGovernor(caller); err != nil {
		return 0, err
	}
	if expiry <= r.clock.Now()+thor.OneDay {
		return 0, reverts.New("Quest window too small")
	}
	if multiplier == 0 || multiplier > MaxMultiplier {
		return 0, reverts.New("Quest multiplier too large > 1.5x")
	}

	id, err := r.questCount.Get()
	if err != nil {
		return 0, err
	}
	quest := &Quest{Kind: kind, Status: Active, Multiplier: multiplier, Expiry: expiry}
	if kind == Seasonal {
		if quest.SeasonEpoch, err = r.seasonEpoch.Get(); err != nil {
			return 0, err
		}
	}
	if err := r.quests.Set(questID(id), quest); err != nil {
		return 0, err
	}
	if err := r.questCount.Set(id + 1); err != nil {
		return 0, err
	}

	r.emitter.Emit(r.sctx.Address(), events.QuestAdded{
		Adder:      caller,
		ID:         id,
		Kind:       kind.String(),
		Multiplier: multiplier,
		Status:     Active.String(),
		Expiry:     expiry,
	})
	logger.Info("added quest", "id", id)
	return id, nil
}

// ExpireQuest ends an active quest now.
func (r *Registry) ExpireQuest(caller thor.Address, id uint64) error {
	if err := r.requireMaster(caller); err != nil {
		return err
	}
	quest, ok, err := r.Quest(id)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.New("Quest does not exist")
	}
	if quest.Status == Expired {
		return reverts.New("Quest already expired")
	}

	quest.Status = Expired
	if now := r.clock.Now(); now < quest.Expiry {
		quest.Expiry = now
	}
	if err := r.quests.Set(questID(id), quest); err != nil {
		return err
	}
	r.emitter.Emit(r.sctx.Address(), events.QuestExpired{ID: id})
	return nil
}

// StartNewQuestSeason starts a season once the current one lasted long
// enough and all of its seasonal quests expired. Accounts keep part of their
// seasonal multiplier, applied on their next action.
func (r *Registry) StartNewQuestSeason(caller thor.Address) error {
	logger.Debug("starting quest season", "caller", caller)

	if err := r.requireMaster(caller); err != nil {
		return err
	}
	now := r.clock.Now()
	length := SeasonLength.Get(r.sctx)

	start, err := r.startTime.Get()
	if err != nil {
		return err
	}
	if now <= start+length {
		return reverts.New("First season has not elapsed")
	}
	epoch, err := r.seasonEpoch.Get()
	if err != nil {
		return err
	}
	if now <= epoch+length {
		return reverts.New("Season has not elapsed")
	}

	count, err := r.questCount.Get()
	if err != nil {
		return err
	}
	for id := range count {
		quest, err := r.quests.Get(questID(id))
		if err != nil {
			return err
		}
		if quest.Kind == Seasonal && quest.Status == Active && now <= quest.Expiry {
			return reverts.New("All seasonal quests must have expired")
		}
	}

	if err := r.seasonEpoch.Set(now); err != nil {
		return err
	}
	r.emitter.Emit(r.sctx.Address(), events.QuestSeasonEnded{SeasonEpoch: now})
	logger.Info("started quest season", "epoch", now)
	return nil
}

// CheckForSeasonFinish applies a season reset to account if one happened since
// its last quest and returns its quest multiplier.
func (r *Registry) CheckForSeasonFinish(account thor.Address) (uint8, error) {
	bal, err := r.Balance(account)
	if err != nil {
		return 0, err
	}
	if _, err := r.checkForSeasonFinish(account, bal); err != nil {
		return 0, err
	}
	return bal.Multiplier(), nil
}

func (r *Registry) checkForSeasonFinish(account thor.Address, bal *Balance) (bool, error) {
	epoch, err := r.seasonEpoch.Get()
	if err != nil {
		return false, err
	}
	if bal.LastAction == 0 || bal.LastAction >= epoch {
		return false, nil
	}
	bal.Seasonal = uint8(uint16(bal.Seasonal) * seasonCarryOver / 100)
	bal.LastAction = r.clock.Now()
	return true, r.balances.Set(account, bal)
}
