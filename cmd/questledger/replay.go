// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	"gopkg.in/yaml.v3"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/clock"
	"github.com/vechain/questledger/ledger"
	"github.com/vechain/questledger/lvldb"
	"github.com/vechain/questledger/thor"
)

// Scenario is a genesis followed by steps run against a manual clock.
type Scenario struct {
	Genesis ledger.Genesis `yaml:"genesis"`
	Steps   []Step         `yaml:"steps"`
}

// Step does one of: advance time, mine a height, run an op or check an account.
type Step struct {
	Name    string     `yaml:"name,omitempty"`
	Advance uint64     `yaml:"advance,omitempty"` // seconds, also mines a height
	Mine    bool       `yaml:"mine,omitempty"`
	Op      *ledger.Op `yaml:"op,omitempty"`
	Expect  *Expect    `yaml:"expect,omitempty"`
	Check   *Check     `yaml:"check,omitempty"`
}

// Expect is the outcome of an op. Without Error the op must succeed.
type Expect struct {
	Error  string `yaml:"error,omitempty"`
	Result string `yaml:"result,omitempty"`
}

// Check compares the stake of an account. Empty fields are not compared.
type Check struct {
	Token         string       `yaml:"token"`
	Account       thor.Address `yaml:"account"`
	Raw           string       `yaml:"raw,omitempty"`
	CooldownUnits string       `yaml:"cooldownUnits,omitempty"`
	Scaled        string       `yaml:"scaled,omitempty"`
	Votes         string       `yaml:"votes,omitempty"`
	Tokens        string       `yaml:"tokens,omitempty"` // underlying balance
}

func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}
	return &sc, nil
}

type replayer struct {
	chain  *ledger.Dispatcher
	clock  *clock.Manual
	out    io.Writer
	failed int
}

// runScenario replays sc and reports every step to out. It returns the number
// of failed expectations.
func runScenario(sc *Scenario, out io.Writer, progress bool) (int, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	key, err := crypto.GenerateKey()
	if err != nil {
		return 0, err
	}
	gen := sc.Genesis
	setSignerRole(&gen, key)

	clk := clock.NewManual(gen.StartTime, 1)
	l := ledger.New(db, clk, ledger.Options{StakedTokens: gen.StakedTokens})
	if err := l.Init(&gen); err != nil {
		return 0, errors.Wrap(err, "init ledger")
	}
	r := &replayer{chain: ledger.NewDispatcher(l, key), clock: clk, out: out}

	var bar *pb.ProgressBar
	if progress {
		bar = pb.New(len(sc.Steps)).SetMaxWidth(90).Start()
		defer func() { bar.NotPrint = true }()
	}
	for i := range sc.Steps {
		if err := r.run(i, &sc.Steps[i]); err != nil {
			return r.failed, errors.Wrapf(err, "step %d", i)
		}
		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}
	return r.failed, nil
}

// setSignerRole lets the replay key sign quest completions unless the
// scenario names its own signer.
func setSignerRole(gen *ledger.Genesis, key *ecdsa.PrivateKey) {
	if gen.Roles == nil {
		gen.Roles = make(map[string]thor.Address)
	}
	if _, ok := gen.Roles[string(roles.QuestSigner)]; !ok {
		gen.Roles[string(roles.QuestSigner)] = thor.Address(crypto.PubkeyToAddress(key.PublicKey))
	}
}

func (r *replayer) failf(i int, format string, args ...any) {
	r.failed++
	fmt.Fprintf(r.out, "FAIL  #%d %s\n", i, fmt.Sprintf(format, args...))
}

func (r *replayer) run(i int, step *Step) error {
	if step.Advance > 0 {
		r.clock.Advance(step.Advance)
	}
	if step.Mine {
		r.clock.Mine()
	}
	if step.Op != nil {
		r.runOp(i, step)
	}
	if step.Check != nil {
		return r.check(i, step.Check)
	}
	return nil
}

func (r *replayer) runOp(i int, step *Step) {
	res, err := r.chain.Execute(step.Op)
	expect := step.Expect
	if expect == nil {
		expect = &Expect{}
	}
	switch {
	case err != nil && expect.Error == "":
		r.failf(i, "%s: unexpected error: %v", step.Op.Op, err)
	case err != nil && err.Error() != expect.Error:
		r.failf(i, "%s: error %q, want %q", step.Op.Op, err, expect.Error)
	case err == nil && expect.Error != "":
		r.failf(i, "%s: succeeded, want error %q", step.Op.Op, expect.Error)
	case err == nil && expect.Result != "" && formatResult(res) != expect.Result:
		r.failf(i, "%s: result %s, want %s", step.Op.Op, formatResult(res), expect.Result)
	default:
		fmt.Fprintf(r.out, "ok    #%d @%d %s %s\n", i, r.clock.Height(), step.Op.Op, describe(res, err))
	}
}

func describe(res any, err error) string {
	if err != nil {
		return "reverted: " + err.Error()
	}
	if res == nil {
		return ""
	}
	return "-> " + formatResult(res)
}

func formatResult(res any) string {
	switch v := res.(type) {
	case *big.Int:
		return v.String()
	default:
		return fmt.Sprintf("%+v", v)
	}
}

func (r *replayer) check(i int, c *Check) error {
	l := r.chain.Ledger()
	acc, err := l.Account(c.Token, c.Account)
	if err != nil {
		return err
	}
	tokens, err := l.TokenBalance(c.Account)
	if err != nil {
		return err
	}
	fields := []struct {
		name string
		want string
		got  *big.Int
	}{
		{"raw", c.Raw, acc.Balance.Raw},
		{"cooldownUnits", c.CooldownUnits, acc.Balance.CooldownUnits},
		{"scaled", c.Scaled, acc.Scaled},
		{"votes", c.Votes, acc.Votes},
		{"tokens", c.Tokens, tokens},
	}
	ok := true
	for _, f := range fields {
		if f.want == "" {
			continue
		}
		want, err := ledger.ParseAmount(f.want)
		if err != nil {
			return errors.Wrap(err, f.name)
		}
		if want.Cmp(f.got) != 0 {
			ok = false
			r.failf(i, "check %v %s: got %v, want %v", c.Account, f.name, f.got, want)
		}
	}
	if ok {
		fmt.Fprintf(r.out, "ok    #%d @%d check %v\n", i, r.clock.Height(), c.Account)
	}
	return nil
}

func replayAction(ctx *cli.Context) error {
	initLogger(ctx)

	if ctx.NArg() != 1 {
		return errors.New("scenario file required")
	}
	sc, err := loadScenario(ctx.Args().First())
	if err != nil {
		return err
	}
	failed, err := runScenario(sc, os.Stdout, !ctx.Bool(quietFlag.Name))
	if err != nil {
		return err
	}
	if failed > 0 {
		return errors.Errorf("%d of %d steps failed", failed, len(sc.Steps))
	}
	fmt.Printf("all %d steps passed\n", len(sc.Steps))
	return nil
}
