// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package roles

import (
	"github.com/pkg/errors"

	"github.com/vechain/questledger/builtin/reverts"
	"github.com/vechain/questledger/builtin/solidity"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/state"
	"github.com/vechain/questledger/thor"
)

// Role names a privileged account of the ledger.
type Role string

const (
	Governor         Role = "governor"
	QuestMaster      Role = "questMaster"
	QuestSigner      Role = "questSigner"
	Recollateraliser Role = "recollateraliser"
)

// All lists every known role.
var All = []Role{Governor, QuestMaster, QuestSigner, Recollateraliser}

const ErrOnlyGovernor = "Only governor can execute"

func (r Role) slot() thor.Bytes32 {
	return thor.Blake2b([]byte("role"), []byte(r))
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, role := range All {
		if role == r {
			return true
		}
	}
	return false
}

// Roles resolves the account holding each privileged role.
type Roles struct {
	sctx    *solidity.Context
	emitter events.Emitter
}

// New create a new instance.
func New(addr thor.Address, state *state.State, emitter events.Emitter) *Roles {
	return &Roles{sctx: solidity.NewContext(addr, state), emitter: emitter}
}

func (r *Roles) holder(role Role) *solidity.Address {
	return solidity.NewAddress(r.sctx, role.slot())
}

// Get returns the holder of role, zero if unassigned.
func (r *Roles) Get(role Role) (thor.Address, error) {
	addr, err := r.holder(role).Get()
	if err != nil {
		return thor.Address{}, errors.Wrapf(err, "failed to get %s", role)
	}
	return addr, nil
}

// Is reports whether account holds role. The zero address never holds a role.
func (r *Roles) Is(role Role, account thor.Address) (bool, error) {
	if account.IsZero() {
		return false, nil
	}
	holder, err := r.Get(role)
	if err != nil {
		return false, err
	}
	return holder == account, nil
}

// IsAny reports whether account holds at least one of roles.
func (r *Roles) IsAny(account thor.Address, roles ...Role) (bool, error) {
	for _, role := range roles {
		ok, err := r.Is(role, account)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// RequireGovernor reverts unless caller is the governor.
func (r *Roles) RequireGovernor(caller thor.Address) error {
	ok, err := r.Is(Governor, caller)
	if err != nil {
		return err
	}
	return reverts.Require(ok, ErrOnlyGovernor)
}

// Assign sets the holder of role without authorization, used at genesis and by
// components that perform their own checks.
func (r *Roles) Assign(role Role, account thor.Address) {
	r.holder(role).Set(&account)
	r.emitter.Emit(r.sctx.Address(), events.RoleChanged{Role: string(role), Account: account})
}

// Set assigns role on behalf of the governor.
func (r *Roles) Set(caller thor.Address, role Role, account thor.Address) error {
	if !role.Valid() {
		return reverts.New("Unknown role")
	}
	if err := r.RequireGovernor(caller); err != nil {
		return err
	}
	r.Assign(role, account)
	return nil
}
