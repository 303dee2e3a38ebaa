// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"crypto/ecdsa"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/vechain/questledger/builtin/attestation"
	"github.com/vechain/questledger/builtin/quest"
	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/builtin/staker"
	"github.com/vechain/questledger/thor"
)

// ErrUnknownOp is returned for an operation name with no handler.
var ErrUnknownOp = errors.New("unknown operation")

// ArgumentError reports an Op argument that could not be decoded.
type ArgumentError struct {
	Field string
	Err   error
}

func (e *ArgumentError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// Op is one named operation with its arguments, as submitted to the dev API or
// listed in a replay scenario. Unused fields are ignored by the operation.
type Op struct {
	Op           string         `json:"op" yaml:"op"`
	Caller       thor.Address   `json:"caller" yaml:"caller"`
	Token        string         `json:"token,omitempty" yaml:"token,omitempty"`
	Account      *thor.Address  `json:"account,omitempty" yaml:"account,omitempty"`
	Accounts     []thor.Address `json:"accounts,omitempty" yaml:"accounts,omitempty"`
	Amount       string         `json:"amount,omitempty" yaml:"amount,omitempty"`
	QuestID      uint64         `json:"questId,omitempty" yaml:"questId,omitempty"`
	QuestIDs     []uint64       `json:"questIds,omitempty" yaml:"questIds,omitempty"`
	Kind         string         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Multiplier   uint8          `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
	Expiry       uint64         `json:"expiry,omitempty" yaml:"expiry,omitempty"`
	Role         string         `json:"role,omitempty" yaml:"role,omitempty"`
	Signature    string         `json:"signature,omitempty" yaml:"signature,omitempty"`
	IncludesFee  bool           `json:"includesFee,omitempty" yaml:"includesFee,omitempty"`
	ExitCooldown bool           `json:"exitCooldown,omitempty" yaml:"exitCooldown,omitempty"`
}

// account returns the target account, defaulting to the caller.
func (op *Op) account() thor.Address {
	if op.Account != nil {
		return *op.Account
	}
	return op.Caller
}

func (op *Op) target() thor.Address {
	if op.Account != nil {
		return *op.Account
	}
	return thor.Address{}
}

func (op *Op) amount() (*big.Int, error) {
	v, err := ParseAmount(op.Amount)
	if err != nil {
		return nil, &ArgumentError{"amount", err}
	}
	return v, nil
}

// Dispatcher executes Ops against a ledger. With a signer key it signs quest
// completions that come without a signature.
type Dispatcher struct {
	ledger *Ledger
	signer *ecdsa.PrivateKey
}

func NewDispatcher(l *Ledger, signer *ecdsa.PrivateKey) *Dispatcher {
	return &Dispatcher{ledger: l, signer: signer}
}

func (d *Dispatcher) Ledger() *Ledger {
	return d.ledger
}

// Execute runs op and returns its result, nil for operations without one.
func (d *Dispatcher) Execute(op *Op) (any, error) {
	run, ok := opTable[op.Op]
	if !ok {
		return nil, errors.Wrap(ErrUnknownOp, op.Op)
	}
	return run(d, op)
}

func (d *Dispatcher) signature(op *Op, message func() []byte) ([]byte, error) {
	if op.Signature != "" {
		sig, err := hexutil.Decode(op.Signature)
		if err != nil {
			return nil, &ArgumentError{"signature", err}
		}
		return sig, nil
	}
	if d.signer == nil {
		return nil, nil
	}
	return attestation.Sign(d.signer, message())
}

// Ops lists the names of all operations.
func Ops() []string {
	names := make([]string, 0, len(opTable))
	for name := range opTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type opFunc func(d *Dispatcher, op *Op) (any, error)

var opTable = make(map[string]opFunc)

func withAmount(fn func(l *Ledger, op *Op, amount *big.Int) error) opFunc {
	return func(d *Dispatcher, op *Op) (any, error) {
		amount, err := op.amount()
		if err != nil {
			return nil, err
		}
		return nil, fn(d.ledger, op, amount)
	}
}

func init() {
	defines := []struct {
		name string
		run  opFunc
	}{
		{"deposit", withAmount(func(l *Ledger, op *Op, amount *big.Int) error {
			return l.Deposit(op.Token, op.Caller, amount, op.target(), op.ExitCooldown)
		})},
		{"createLock", withAmount(func(l *Ledger, op *Op, amount *big.Int) error {
			return l.CreateLock(op.Token, op.Caller, amount)
		})},
		{"increaseLockAmount", withAmount(func(l *Ledger, op *Op, amount *big.Int) error {
			return l.IncreaseLockAmount(op.Token, op.Caller, amount)
		})},
		{"startCooldown", withAmount(func(l *Ledger, op *Op, units *big.Int) error {
			return l.StartCooldown(op.Token, op.Caller, units)
		})},
		{"endCooldown", func(d *Dispatcher, op *Op) (any, error) {
			return nil, d.ledger.EndCooldown(op.Token, op.Caller)
		}},
		{"withdraw", func(d *Dispatcher, op *Op) (any, error) {
			amount, err := op.amount()
			if err != nil {
				return nil, err
			}
			return d.ledger.Withdraw(op.Token, op.Caller, amount, op.target(), staker.WithdrawOptions{
				AmountIncludesFee: op.IncludesFee,
				ExitCooldown:      op.ExitCooldown,
			})
		}},
		{"exit", func(d *Dispatcher, op *Op) (any, error) {
			return nil, d.ledger.Exit(op.Token, op.Caller)
		}},
		{"reviewTimestamp", func(d *Dispatcher, op *Op) (any, error) {
			return nil, d.ledger.ReviewTimestamp(op.Token, op.account())
		}},
		{"delegate", func(d *Dispatcher, op *Op) (any, error) {
			return nil, d.ledger.Delegate(op.Token, op.Caller, op.target())
		}},
		{"changeSlashingPercentage", withAmount(func(l *Ledger, op *Op, pct *big.Int) error {
			return l.ChangeSlashingPercentage(op.Token, op.Caller, pct)
		})},
		{"emergencyRecollateralisation", func(d *Dispatcher, op *Op) (any, error) {
			return d.ledger.EmergencyRecollateralisation(op.Token, op.Caller)
		}},
		{"distributeRewards", func(d *Dispatcher, op *Op) (any, error) {
			return d.ledger.DistributeRewards(op.Token, op.Caller, op.account())
		}},
		{"addQuest", func(d *Dispatcher, op *Op) (any, error) {
			kind, ok := quest.ParseKind(op.Kind)
			if !ok {
				return nil, &ArgumentError{"kind", errors.Errorf("unknown quest kind %q", op.Kind)}
			}
			return d.ledger.AddQuest(op.Caller, kind, op.Multiplier, op.Expiry)
		}},
		{"expireQuest", func(d *Dispatcher, op *Op) (any, error) {
			return nil, d.ledger.ExpireQuest(op.Caller, op.QuestID)
		}},
		{"startNewQuestSeason", func(d *Dispatcher, op *Op) (any, error) {
			return nil, d.ledger.StartNewQuestSeason(op.Caller)
		}},
		{"completeUserQuests", func(d *Dispatcher, op *Op) (any, error) {
			account := op.account()
			sig, err := d.signature(op, func() []byte { return attestation.UserQuestsMessage(account, op.QuestIDs) })
			if err != nil {
				return nil, err
			}
			return d.ledger.CompleteUserQuests(account, op.QuestIDs, sig)
		}},
		{"completeQuestUsers", func(d *Dispatcher, op *Op) (any, error) {
			sig, err := d.signature(op, func() []byte { return attestation.QuestUsersMessage(op.QuestID, op.Accounts) })
			if err != nil {
				return nil, err
			}
			return d.ledger.CompleteQuestUsers(op.QuestID, op.Accounts, sig)
		}},
		{"setQuestMaster", func(d *Dispatcher, op *Op) (any, error) {
			return nil, d.ledger.SetQuestMaster(op.Caller, op.target())
		}},
		{"setQuestSigner", func(d *Dispatcher, op *Op) (any, error) {
			return nil, d.ledger.SetQuestSigner(op.Caller, op.target())
		}},
		{"addStakedToken", func(d *Dispatcher, op *Op) (any, error) {
			return nil, d.ledger.AddStakedToken(op.Caller, op.Token)
		}},
		{"setRole", func(d *Dispatcher, op *Op) (any, error) {
			return nil, d.ledger.SetRole(op.Caller, roles.Role(op.Role), op.target())
		}},
		{"mint", withAmount(func(l *Ledger, op *Op, amount *big.Int) error {
			return l.Mint(op.Caller, op.account(), amount)
		})},
		{"transfer", withAmount(func(l *Ledger, op *Op, amount *big.Int) error {
			return l.Transfer(op.Caller, op.target(), amount)
		})},
	}
	for _, def := range defines {
		if _, dup := opTable[def.name]; dup {
			panic("duplicate operation " + def.name)
		}
		opTable[def.name] = def.run
	}
}
