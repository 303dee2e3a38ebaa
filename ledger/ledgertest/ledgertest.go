// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledgertest builds initialised in-memory ledgers for tests.
package ledgertest

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/vechain/questledger/clock"
	"github.com/vechain/questledger/ledger"
	"github.com/vechain/questledger/lvldb"
	"github.com/vechain/questledger/thor"
)

const StartTime = uint64(1_600_000_000)

var (
	Governor = thor.BytesToAddress([]byte("governor"))
	Alice    = thor.BytesToAddress([]byte("alice"))
	Bob      = thor.BytesToAddress([]byte("bob"))
)

// Tokens converts whole tokens into base units.
func Tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), thor.Ether)
}

// Chain is an initialised ledger with a manual clock and a quest signer key.
type Chain struct {
	Ledger     *ledger.Ledger
	Clock      *clock.Manual
	Signer     *ecdsa.PrivateKey
	Dispatcher *ledger.Dispatcher
}

// New returns a ledger binding stkMTA, where Alice and Bob own 10000 tokens each.
func New(t testing.TB, sinks ...ledger.Sink) *Chain {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	clk := clock.NewManual(StartTime, 1)
	l := ledger.New(db, clk, ledger.Options{Sinks: sinks})
	require.NoError(t, l.Init(&ledger.Genesis{
		StartTime: StartTime,
		Roles: map[string]thor.Address{
			"governor":    Governor,
			"questSigner": thor.Address(crypto.PubkeyToAddress(key.PublicKey)),
		},
		Allocations: []ledger.Allocation{
			{Address: Alice, Amount: "10000e18"},
			{Address: Bob, Amount: "10000e18"},
		},
	}))
	return &Chain{
		Ledger:     l,
		Clock:      clk,
		Signer:     key,
		Dispatcher: ledger.NewDispatcher(l, key),
	}
}
