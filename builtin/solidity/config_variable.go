// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/vechain/questledger/log"
	"github.com/vechain/questledger/thor"
)

// ConfigVariable is a protocol parameter with a compiled-in default that
// can be overridden at genesis by writing the named storage slot.
type ConfigVariable struct {
	slot         thor.Bytes32
	name         string
	defaultValue uint64
}

func NewConfigVariable(name string, defaultValue uint64) *ConfigVariable {
	return &ConfigVariable{
		slot:         thor.BytesToBytes32([]byte(name)),
		name:         name,
		defaultValue: defaultValue,
	}
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Slot() thor.Bytes32 {
	return c.slot
}

func (c *ConfigVariable) Default() uint64 {
	return c.defaultValue
}

// Get returns the overridden value when present, the default otherwise.
func (c *ConfigVariable) Get(ctx *Context) uint64 {
	storage, err := ctx.state.GetStorage(ctx.address, c.slot)
	if err != nil {
		log.Warn("failed to read config value", "slot", c.name, "error", err)
		return c.defaultValue
	}
	if storage.IsZero() {
		return c.defaultValue
	}
	return new(big.Int).SetBytes(storage.Bytes()).Uint64()
}

// Override writes value into the slot of the variable.
func (c *ConfigVariable) Override(ctx *Context, value uint64) {
	log.Debug("overriding config value", "name", c.name, "value", value)
	ctx.state.SetStorage(ctx.address, c.slot, thor.Uint64ToBytes32(value))
}
