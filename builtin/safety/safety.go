// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package safety

import (
	"math/big"

	"github.com/vechain/questledger/builtin/reverts"
	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/builtin/solidity"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/log"
	"github.com/vechain/questledger/thor"
)

var (
	logger = log.WithContext("pkg", "safety")

	slotData = thor.BytesToBytes32([]byte("safety-data"))

	// MaxSlashingPercentage is 50% in 1e18 fixed point.
	MaxSlashingPercentage = big.NewInt(5e17)
)

const ErrNotCollateralised = "Only while fully collateralised"

func SetLogger(l log.Logger) {
	logger = l
}

// Data is the collateralisation of a staked token, both values 1e18 fixed point.
type Data struct {
	CollateralisationRatio *big.Int
	SlashingPercentage     *big.Int
}

// FullyCollateralised reports whether no recollateralisation happened.
func (d *Data) FullyCollateralised() bool {
	return d.CollateralisationRatio.Cmp(thor.Ether) == 0
}

// Custody holds the underlying token of the staked token.
type Custody interface {
	BalanceOf(addr thor.Address) (*big.Int, error)
	Transfer(from, to thor.Address, amount *big.Int) error
}

// Safety is the slashing valve of one staked token, whose deposits are held by vault.
type Safety struct {
	sctx    *solidity.Context
	emitter events.Emitter
	vault   thor.Address
	roles   *roles.Roles
	custody Custody
	data    *solidity.Raw[*Data]
}

func New(sctx *solidity.Context, emitter events.Emitter, vault thor.Address, roles *roles.Roles, custody Custody) *Safety {
	return &Safety{
		sctx:    sctx,
		emitter: emitter,
		vault:   vault,
		roles:   roles,
		custody: custody,
		data:    solidity.NewRaw[*Data](sctx, slotData),
	}
}

// Get returns the safety data, fully collateralised with no slashing by default.
func (s *Safety) Get() (*Data, error) {
	data, err := s.data.Get()
	if err != nil {
		return nil, err
	}
	if data.CollateralisationRatio == nil {
		data.CollateralisationRatio = new(big.Int).Set(thor.Ether)
	}
	if data.SlashingPercentage == nil {
		data.SlashingPercentage = new(big.Int)
	}
	return data, nil
}

// RequireCollateralised reverts once a recollateralisation happened.
func (s *Safety) RequireCollateralised() error {
	data, err := s.Get()
	if err != nil {
		return err
	}
	return reverts.Require(data.FullyCollateralised(), ErrNotCollateralised)
}

// ChangeSlashingPercentage sets the share drained by a future recollateralisation.
func (s *Safety) ChangeSlashingPercentage(caller thor.Address, pct *big.Int) error {
	logger.Debug("changing slashing percentage", "caller", caller, "pct", pct)

	if err := s.roles.RequireGovernor(caller); err != nil {
		return err
	}
	data, err := s.Get()
	if err != nil {
		return err
	}
	if !data.FullyCollateralised() {
		return reverts.New(ErrNotCollateralised)
	}
	if pct.Sign() < 0 || pct.Cmp(MaxSlashingPercentage) > 0 {
		return reverts.New("Cannot exceed 50%")
	}

	data.SlashingPercentage = new(big.Int).Set(pct)
	if err := s.data.Set(data); err != nil {
		return err
	}
	s.emitter.Emit(s.sctx.Address(), events.SlashRateChanged{NewRate: new(big.Int).Set(pct)})
	return nil
}

// EmergencyRecollateralisation drains the slashing percentage of the deposits
// to the recollateraliser and discounts every later withdrawal by it.
func (s *Safety) EmergencyRecollateralisation(caller thor.Address) (*big.Int, error) {
	logger.Debug("emergency recollateralisation", "caller", caller)

	ok, err := s.roles.Is(roles.Recollateraliser, caller)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.New("Only Recollateralisation Module")
	}
	data, err := s.Get()
	if err != nil {
		return nil, err
	}
	if !data.FullyCollateralised() {
		return nil, reverts.New(ErrNotCollateralised)
	}

	balance, err := s.custody.BalanceOf(s.vault)
	if err != nil {
		return nil, err
	}
	drained := new(big.Int).Mul(balance, data.SlashingPercentage)
	drained.Quo(drained, thor.Ether)
	if err := s.custody.Transfer(s.vault, caller, drained); err != nil {
		return nil, err
	}

	data.CollateralisationRatio = new(big.Int).Sub(thor.Ether, data.SlashingPercentage)
	if err := s.data.Set(data); err != nil {
		return nil, err
	}
	s.emitter.Emit(s.sctx.Address(), events.Recollateralised{
		Recipient: caller,
		Amount:    new(big.Int).Set(drained),
		Ratio:     new(big.Int).Set(data.CollateralisationRatio),
	})

	logger.Info("recollateralised", "drained", drained, "ratio", data.CollateralisationRatio)
	return drained, nil
}
