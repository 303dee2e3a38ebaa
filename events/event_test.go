// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/questledger/thor"
)

func TestBuffer(t *testing.T) {
	var buf Buffer
	token := thor.BytesToAddress([]byte("token"))
	alice := thor.BytesToAddress([]byte("alice"))

	buf.Emit(token, Staked{User: alice, Amount: big.NewInt(10)})
	buf.Emit(token, Cooldown{User: alice, Units: big.NewInt(4)})
	assert.Equal(t, 2, buf.Len())

	records := buf.Drain()
	require.Len(t, records, 2)
	assert.Equal(t, EventStaked, records[0].Event.EventType())
	assert.Equal(t, token, records[1].Emitter)
	assert.Zero(t, buf.Len())

	buf.Emit(token, CooldownExited{User: alice})
	buf.Reset()
	assert.Empty(t, buf.Drain())
}

func TestEventJSON(t *testing.T) {
	alice := thor.BytesToAddress([]byte("alice"))
	data, err := json.Marshal(Withdraw{User: alice, To: alice, Amount: big.NewInt(92)})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, alice.String(), decoded["user"])
	assert.EqualValues(t, 92, decoded["amount"])
}
