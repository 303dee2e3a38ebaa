// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens_test

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/questledger/api/tokens"
	"github.com/vechain/questledger/ledger/ledgertest"
	"github.com/vechain/questledger/thor"
)

var ts *httptest.Server

func httpGet(t *testing.T, path string) (int, []byte) {
	res, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, body
}

func TestTokens(t *testing.T) {
	chain := ledgertest.New(t)
	l := chain.Ledger
	require.NoError(t, l.Deposit("stkMTA", ledgertest.Alice, ledgertest.Tokens(1000), thor.Address{}, false))
	chain.Clock.Advance(60)
	require.NoError(t, l.Deposit("stkMTA", ledgertest.Bob, ledgertest.Tokens(500), ledgertest.Alice, false))
	chain.Clock.Advance(60)

	router := mux.NewRouter()
	tokens.New(l).Mount(router, "/tokens")
	ts = httptest.NewServer(router)
	defer ts.Close()

	for name, tt := range map[string]func(t *testing.T){
		"list":         testList,
		"account":      testAccount,
		"votes":        testVotes,
		"supply":       testSupply,
		"feeRate":      testFeeRate,
		"unknownToken": testUnknownToken,
		"badInput":     testBadInput,
	} {
		t.Run(name, tt)
	}
}

func testList(t *testing.T) {
	code, body := httpGet(t, "/tokens")
	require.Equal(t, http.StatusOK, code)

	var list []tokens.Token
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "stkMTA", list[0].Symbol)
	assert.Equal(t, ledgertest.Tokens(1500).String(), (*big.Int)(list[0].TotalSupply).String())
	assert.Equal(t, ledgertest.Tokens(1500).String(), (*big.Int)(list[0].Custody).String())
	assert.Equal(t, "1000000000000000000", (*big.Int)(list[0].Safety.CollateralisationRatio).String())

	code, body = httpGet(t, "/tokens/stkMTA/safety")
	require.Equal(t, http.StatusOK, code)
	var safety tokens.Safety
	require.NoError(t, json.Unmarshal(body, &safety))
	assert.Zero(t, (*big.Int)(safety.SlashingPercentage).Sign())
}

func testAccount(t *testing.T) {
	code, body := httpGet(t, "/tokens/stkMTA/accounts/"+ledgertest.Bob.String())
	require.Equal(t, http.StatusOK, code)

	var acc tokens.Account
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, ledgertest.Tokens(500).String(), (*big.Int)(acc.Raw).String())
	assert.Equal(t, ledgertest.Alice, acc.Delegate)
	assert.Zero(t, (*big.Int)(acc.Votes).Sign())
	assert.Equal(t, ledgertest.StartTime+60, acc.WeightedTimestamp)
}

func testVotes(t *testing.T) {
	path := "/tokens/stkMTA/accounts/" + ledgertest.Alice.String() + "/votes"
	code, body := httpGet(t, path)
	require.Equal(t, http.StatusOK, code)
	var amount tokens.Amount
	require.NoError(t, json.Unmarshal(body, &amount))
	assert.Nil(t, amount.Height)
	assert.Equal(t, ledgertest.Tokens(1500).String(), (*big.Int)(amount.Value).String())

	code, body = httpGet(t, path+"?height=1")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &amount))
	assert.Equal(t, uint32(1), *amount.Height)
	assert.Equal(t, ledgertest.Tokens(1000).String(), (*big.Int)(amount.Value).String())

	code, _ = httpGet(t, path+"?height=3")
	assert.Equal(t, http.StatusBadRequest, code)
}

func testSupply(t *testing.T) {
	code, body := httpGet(t, "/tokens/stkMTA/supply?height=2")
	require.Equal(t, http.StatusOK, code)
	var amount tokens.Amount
	require.NoError(t, json.Unmarshal(body, &amount))
	assert.Equal(t, ledgertest.Tokens(1500).String(), (*big.Int)(amount.Value).String())
}

func testFeeRate(t *testing.T) {
	code, body := httpGet(t, "/tokens/stkMTA/fee-rate?weightedTimestamp=1")
	require.Equal(t, http.StatusOK, code)
	var amount tokens.Amount
	require.NoError(t, json.Unmarshal(body, &amount))
	assert.Zero(t, (*big.Int)(amount.Value).Sign())

	code, _ = httpGet(t, "/tokens/stkMTA/fee-rate")
	assert.Equal(t, http.StatusBadRequest, code)
}

func testUnknownToken(t *testing.T) {
	code, body := httpGet(t, "/tokens/stkXYZ")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, string(body), "unknown staked token")
}

func testBadInput(t *testing.T) {
	code, _ := httpGet(t, "/tokens/stkMTA/accounts/0xzz")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = httpGet(t, "/tokens/stkMTA/supply?height=x")
	assert.Equal(t, http.StatusBadRequest, code)
}
