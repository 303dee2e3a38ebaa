// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package balance

import (
	"github.com/pkg/errors"

	"github.com/vechain/questledger/builtin/solidity"
	"github.com/vechain/questledger/thor"
)

var slotBalances = thor.BytesToBytes32([]byte("staker-balances"))

type Repository struct {
	balances *solidity.Mapping[thor.Address, *Balance]
}

func NewRepository(sctx *solidity.Context) *Repository {
	return &Repository{balances: solidity.NewMapping[thor.Address, *Balance](sctx, slotBalances)}
}

// Get returns the balance of account, an empty balance if it never staked.
func (r *Repository) Get(account thor.Address) (*Balance, error) {
	bal, err := r.balances.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal.normalize(), nil
}

func (r *Repository) Set(account thor.Address, bal *Balance) error {
	if err := r.balances.Set(account, bal.normalize()); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}
