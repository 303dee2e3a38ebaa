// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ops_test

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/questledger/api/ops"
	"github.com/vechain/questledger/ledger/ledgertest"
)

func TestOps(t *testing.T) {
	chain := ledgertest.New(t)
	router := mux.NewRouter()
	ops.New(chain.Dispatcher).Mount(router, "/ops")

	post := func(path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
		return rec
	}
	alice := ledgertest.Alice.String()

	t.Run("list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ops", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var names []string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
		assert.Contains(t, names, "deposit")
		assert.Contains(t, names, "completeQuestUsers")
	})

	t.Run("deposit", func(t *testing.T) {
		rec := post("/ops", `{"op":"deposit","token":"stkMTA","caller":"`+alice+`","amount":"1000e18"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		acc, err := chain.Ledger.Account("stkMTA", ledgertest.Alice)
		require.NoError(t, err)
		assert.Equal(t, ledgertest.Tokens(1000).String(), acc.Balance.Raw.String())
	})

	t.Run("withdraw", func(t *testing.T) {
		chain.Clock.Advance(10)
		require.Equal(t, http.StatusOK, post("/ops/startCooldown", `{"token":"stkMTA","caller":"`+alice+`","amount":"200e18"}`).Code)
		chain.Clock.Advance(8 * 24 * 3600)

		rec := post("/ops/withdraw", `{"token":"stkMTA","caller":"`+alice+`","amount":"100e18","exitCooldown":true}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var res struct {
			Op     string
			Height uint32
			Result *math.HexOrDecimal256
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "withdraw", res.Op)
		assert.Equal(t, chain.Clock.Height(), res.Height)
		assert.Equal(t, ledgertest.Tokens(100).String(), (*big.Int)(res.Result).String())
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			path, body string
			status     int
		}{
			{"/ops", `{"op":"burn"}`, http.StatusBadRequest},
			{"/ops", `{"op":"deposit","extra":1}`, http.StatusBadRequest},
			{"/ops", `{"op":"deposit","token":"stkMTA","caller":"` + alice + `","amount":"lots"}`, http.StatusBadRequest},
			{"/ops", `{"op":"deposit","token":"stkXYZ","caller":"` + alice + `","amount":"1"}`, http.StatusNotFound},
			{"/ops/changeSlashingPercentage", `{"token":"stkMTA","caller":"` + alice + `","amount":"1e17"}`, http.StatusForbidden},
			{"/ops/withdraw", `{"token":"stkMTA","caller":"` + alice + `","amount":"1e30"}`, http.StatusBadRequest},
		}
		for _, tt := range tests {
			rec := post(tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, tt.body)
		}
	})
}
