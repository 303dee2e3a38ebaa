// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"github.com/pkg/errors"

	"github.com/vechain/questledger/builtin/reverts"
	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/ledger"
)

// reasons of reverts caused by a caller lacking a role
var forbidden = map[string]bool{
	roles.ErrOnlyGovernor:            true,
	"Not verified":                   true,
	"Only Recollateralisation Module": true,
}

// LedgerError maps a ledger error onto an http error.
func LedgerError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ledger.ErrUnknownToken) {
		return NotFound(err)
	}
	var argErr *ledger.ArgumentError
	if errors.Is(err, ledger.ErrUnknownOp) || errors.As(err, &argErr) {
		return BadRequest(err)
	}
	if rev, ok := reverts.AsRevert(err); ok {
		if forbidden[rev.Error()] {
			return Forbidden(err)
		}
		return BadRequest(err)
	}
	return err
}
