// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// ParseAmount parses an integral amount of base units. Besides plain and 0x
// prefixed integers it accepts exponent notation such as 1000e18 or 7.5e18.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if s == "" {
		return nil, errors.New("empty amount")
	}
	if v, ok := new(big.Int).SetString(s, 0); ok {
		return v, nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, errors.Errorf("invalid amount %q", s)
	}
	if !r.IsInt() {
		return nil, errors.Errorf("amount %q is not integral", s)
	}
	return new(big.Int).Set(r.Num()), nil
}
