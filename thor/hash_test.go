// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestKeccak256(t *testing.T) {
	data := [][]byte{[]byte("quest"), []byte("ledger")}
	assert.Equal(t, Bytes32(crypto.Keccak256Hash(data...)), Keccak256(data...))
	// pooled state must be reset between calls
	assert.Equal(t, Keccak256(data...), Keccak256(data...))
}

func TestBlake2b(t *testing.T) {
	joined := Blake2b([]byte("questledger"))
	assert.Equal(t, joined, Blake2b([]byte("quest"), []byte("ledger")))
	assert.NotEqual(t, joined, Blake2b([]byte("ledger"), []byte("quest")))
}
