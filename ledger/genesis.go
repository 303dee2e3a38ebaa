// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/thor"
)

// Allocation mints Amount underlying tokens to Address at genesis.
type Allocation struct {
	Address thor.Address `yaml:"address" json:"address"`
	Amount  string       `yaml:"amount" json:"amount"`
}

// CooldownConfig overrides the cooldown period and unstake window, in seconds.
type CooldownConfig struct {
	Period uint64 `yaml:"period" json:"period"`
	Window uint64 `yaml:"window" json:"window"`
}

// Genesis describes the initial state of a ledger.
type Genesis struct {
	StartTime     uint64                  `yaml:"startTime" json:"startTime"`
	BlockInterval uint64                  `yaml:"blockInterval" json:"blockInterval"`
	StakedTokens  []string                `yaml:"stakedTokens" json:"stakedTokens"`
	Roles         map[string]thor.Address `yaml:"roles" json:"roles"`
	Allocations   []Allocation            `yaml:"allocations" json:"allocations"`
	Cooldown      *CooldownConfig         `yaml:"cooldown,omitempty" json:"cooldown,omitempty"`
	SeasonLength  uint64                  `yaml:"seasonLength,omitempty" json:"seasonLength,omitempty"`
}

// LoadGenesis reads a YAML genesis file.
func LoadGenesis(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	var gen Genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return &gen, nil
}

// Init writes gen into a fresh ledger. The governor role is required since it
// registers the staked tokens with the quest registry.
func (l *Ledger) Init(gen *Genesis) error {
	return l.apply("genesis", func() error {
		start, err := l.quests.StartTime()
		if err != nil {
			return err
		}
		if start != 0 {
			return errors.New("ledger already initialised")
		}
		if gen.StartTime == 0 {
			return errors.New("genesis start time required")
		}

		for name, holder := range gen.Roles {
			role := roles.Role(name)
			if !role.Valid() {
				return errors.Errorf("unknown role %q", name)
			}
			l.roles.Assign(role, holder)
		}
		governor, err := l.roles.Get(roles.Governor)
		if err != nil {
			return err
		}
		if governor.IsZero() {
			return errors.New("genesis governor required")
		}

		for _, alloc := range gen.Allocations {
			amount, err := ParseAmount(alloc.Amount)
			if err != nil {
				return errors.Wrapf(err, "allocation of %v", alloc.Address)
			}
			if err := l.token.Mint(alloc.Address, amount); err != nil {
				return err
			}
		}

		if err := l.quests.Initialize(gen.StartTime); err != nil {
			return err
		}
		if gen.SeasonLength != 0 {
			l.quests.SetSeasonLength(gen.SeasonLength)
		}
		for _, symbol := range l.symbols {
			s := l.stakers[symbol]
			if gen.Cooldown != nil {
				s.SetCooldown(gen.Cooldown.Period, gen.Cooldown.Window)
			}
			if err := l.quests.AddStakedToken(governor, s.Address()); err != nil {
				return err
			}
		}
		logger.Info("ledger initialised", "start", gen.StartTime, "tokens", len(l.symbols), "allocations", len(gen.Allocations))
		return nil
	})
}

// Initialised reports whether a genesis was written into the ledger.
func (l *Ledger) Initialised() (bool, error) {
	var start uint64
	err := l.view(func() (err error) {
		start, err = l.quests.StartTime()
		return
	})
	return start != 0, err
}
