// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Reverts(t *testing.T) {
	revert := New("test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)

	assert.True(t, IsRevertErr(revert))
	assert.True(t, IsRevertErr(errors.Wrap(revert, "deposit")))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func TestRequire(t *testing.T) {
	assert.NoError(t, Require(true, "never"))
	err := Require(false, "INVALID_ZERO_AMOUNT")
	re, ok := AsRevert(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_ZERO_AMOUNT", re.Error())
}

func TestBytes(t *testing.T) {
	for _, msg := range []string{"", "No cooldown", "All seasonal quests must have expired by now"} {
		reason, err := abi.UnpackRevert(New(msg).Bytes())
		require.NoError(t, err)
		assert.Equal(t, msg, reason)
	}
	var nilRevert *ErrRevert
	assert.Nil(t, nilRevert.Bytes())
}
