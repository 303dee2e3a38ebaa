// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/questledger/ledger"
	"github.com/vechain/questledger/thor"
)

func TestReplayScenario(t *testing.T) {
	sc, err := loadScenario("testdata/scenario.yaml")
	require.NoError(t, err)
	require.Len(t, sc.Steps, 9)
	assert.Equal(t, "1000e18", sc.Steps[0].Op.Amount)

	var out bytes.Buffer
	failed, err := runScenario(sc, &out, false)
	require.NoError(t, err)
	assert.Zero(t, failed, out.String())
	assert.NotContains(t, out.String(), "FAIL")
}

func TestReplayReportsMismatch(t *testing.T) {
	alice := thor.BytesToAddress([]byte("alice"))
	sc := &Scenario{
		Genesis: ledger.Genesis{
			StartTime:   1_600_000_000,
			Roles:       map[string]thor.Address{"governor": thor.BytesToAddress([]byte("gov"))},
			Allocations: []ledger.Allocation{{Address: alice, Amount: "100"}},
		},
		Steps: []Step{
			{Op: &ledger.Op{Op: "deposit", Token: "stkMTA", Caller: alice, Amount: "100"}, Check: &Check{Token: "stkMTA", Account: alice, Raw: "99"}},
			{Op: &ledger.Op{Op: "deposit", Token: "stkMTA", Caller: alice, Amount: "1"}},
			{Op: &ledger.Op{Op: "endCooldown", Token: "stkMTA", Caller: alice}, Expect: &Expect{Error: "No cooldown"}},
		},
	}

	var out bytes.Buffer
	failed, err := runScenario(sc, &out, false)
	require.NoError(t, err)
	assert.Equal(t, 2, failed)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "raw: got 100, want 99")
	assert.Contains(t, lines[2], "unexpected error")
	assert.True(t, strings.HasPrefix(lines[3], "ok    #2"))
}

func TestReplayUnknownToken(t *testing.T) {
	sc := &Scenario{
		Genesis: ledger.Genesis{
			StartTime: 1_600_000_000,
			Roles:     map[string]thor.Address{"governor": thor.BytesToAddress([]byte("gov"))},
		},
		Steps: []Step{{Check: &Check{Token: "stkXYZ"}}},
	}
	_, err := runScenario(sc, &bytes.Buffer{}, false)
	assert.ErrorIs(t, err, ledger.ErrUnknownToken)
}
