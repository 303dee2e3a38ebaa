// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/questledger/builtin/attestation"
	"github.com/vechain/questledger/builtin/custody"
	"github.com/vechain/questledger/builtin/quest"
	"github.com/vechain/questledger/builtin/rewards"
	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/builtin/staker"
	"github.com/vechain/questledger/clock"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/state"
)

// Builtin components binding.
var (
	Roles  = &rolesContract{newContract("Roles")}
	Token  = &tokenContract{newContract("MTA")}
	Quests = &questsContract{newContract("QuestManager")}
)

type (
	rolesContract  struct{ *contract }
	tokenContract  struct{ *contract }
	questsContract struct{ *contract }
)

func (r *rolesContract) WithState(state *state.State, emitter events.Emitter) *roles.Roles {
	return roles.New(r.Address, state, emitter)
}

func (t *tokenContract) WithState(state *state.State, emitter events.Emitter) *custody.Custody {
	return custody.New(t.Address, state, emitter)
}

func (q *questsContract) WithState(
	state *state.State,
	emitter events.Emitter,
	clk clock.Clock,
	roles *roles.Roles,
	verifier attestation.Verifier,
) *quest.Registry {
	return quest.New(q.Address, state, emitter, clk, roles, verifier)
}

// StakedToken binds the staked token of the given symbol, e.g. "stkMTA", together
// with the rewards pool fed by its withdrawal fees.
func StakedToken(symbol string) *StakedTokenContract {
	return &StakedTokenContract{
		contract: newContract(symbol),
		Rewards:  newContract(symbol + "Rewards"),
	}
}

type StakedTokenContract struct {
	*contract
	Rewards *contract
}

// Instance is a staked token and its rewards pool bound to one state.
type Instance struct {
	*staker.Staker
	Rewards *rewards.Rewards
}

func (s *StakedTokenContract) WithState(
	state *state.State,
	emitter events.Emitter,
	clk clock.Clock,
	roles *roles.Roles,
	quests staker.QuestChecker,
	token *custody.Custody,
) *Instance {
	rw := rewards.New(s.Rewards.Address, state, emitter, s.Address, roles, token)
	return &Instance{
		Staker:  staker.New(s.Address, state, emitter, clk, roles, quests, token, rw),
		Rewards: rw,
	}
}
