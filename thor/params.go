// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import "math/big"

// time units, in seconds
const (
	OneDay  uint64 = 24 * 60 * 60
	OneWeek uint64 = 7 * OneDay
)

// BlockInterval is the default gap between two ledger heights of the wall clock.
const BlockInterval uint64 = 10

// Ether is the scale of one whole token and of every 1e18 fixed point fraction.
var Ether = big.NewInt(1e18)
