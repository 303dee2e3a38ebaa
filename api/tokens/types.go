// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/questledger/ledger"
	"github.com/vechain/questledger/thor"
)

func hexOrDecimal(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

type Safety struct {
	CollateralisationRatio *math.HexOrDecimal256 `json:"collateralisationRatio"`
	SlashingPercentage     *math.HexOrDecimal256 `json:"slashingPercentage"`
}

type Token struct {
	Symbol      string                `json:"symbol"`
	Address     thor.Address          `json:"address"`
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
	Custody     *math.HexOrDecimal256 `json:"custody"`
	Safety      Safety                `json:"safety"`
	Rewards     Rewards               `json:"rewards"`
}

type Rewards struct {
	Pending     *math.HexOrDecimal256 `json:"pending"`
	Distributed *math.HexOrDecimal256 `json:"distributed"`
}

func convertToken(t *ledger.Token) *Token {
	return &Token{
		Symbol:      t.Symbol,
		Address:     t.Address,
		TotalSupply: hexOrDecimal(t.TotalSupply),
		Custody:     hexOrDecimal(t.Custody),
		Safety: Safety{
			CollateralisationRatio: hexOrDecimal(t.Safety.CollateralisationRatio),
			SlashingPercentage:     hexOrDecimal(t.Safety.SlashingPercentage),
		},
		Rewards: Rewards{
			Pending:     hexOrDecimal(t.Pending),
			Distributed: hexOrDecimal(t.Distributed),
		},
	}
}

type Account struct {
	Raw               *math.HexOrDecimal256 `json:"raw"`
	Scaled            *math.HexOrDecimal256 `json:"scaled"`
	WeightedTimestamp uint64                `json:"weightedTimestamp"`
	TimeMultiplier    uint8                 `json:"timeMultiplier"`
	QuestMultiplier   uint8                 `json:"questMultiplier"`
	CooldownTimestamp uint64                `json:"cooldownTimestamp"`
	CooldownUnits     *math.HexOrDecimal256 `json:"cooldownUnits"`
	Delegate          thor.Address          `json:"delegate"`
	Votes             *math.HexOrDecimal256 `json:"votes"`
	Checkpoints       uint32                `json:"checkpoints"`
}

func convertAccount(a *ledger.Account) *Account {
	return &Account{
		Raw:               hexOrDecimal(a.Balance.Raw),
		Scaled:            hexOrDecimal(a.Scaled),
		WeightedTimestamp: a.Balance.WeightedTimestamp,
		TimeMultiplier:    a.Balance.TimeMultiplier,
		QuestMultiplier:   a.Balance.QuestMultiplier,
		CooldownTimestamp: a.Balance.CooldownTimestamp,
		CooldownUnits:     hexOrDecimal(a.Balance.CooldownUnits),
		Delegate:          a.Delegate,
		Votes:             hexOrDecimal(a.Votes),
		Checkpoints:       a.NumCheckpoints,
	}
}

// Amount is a single amount, optionally as of a past height.
type Amount struct {
	Height *uint32               `json:"height,omitempty"`
	Value  *math.HexOrDecimal256 `json:"value"`
}
