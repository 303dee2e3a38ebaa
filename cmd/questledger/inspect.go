// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/questledger/builtin/quest"
	"github.com/vechain/questledger/clock"
	"github.com/vechain/questledger/ledger"
	"github.com/vechain/questledger/lvldb"
	"github.com/vechain/questledger/thor"
)

// Snapshot is everything the ledger knows about an account.
type Snapshot struct {
	Address      thor.Address
	Tokens       string
	QuestBalance *quest.Balance
	Stakes       map[string]*ledger.Account
}

func snapshot(l *ledger.Ledger, addr thor.Address) (*Snapshot, error) {
	bal, err := l.TokenBalance(addr)
	if err != nil {
		return nil, err
	}
	qb, err := l.QuestBalance(addr)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Address:      addr,
		Tokens:       bal.String(),
		QuestBalance: qb,
		Stakes:       make(map[string]*ledger.Account),
	}
	for _, symbol := range l.Symbols() {
		acc, err := l.Account(symbol, addr)
		if err != nil {
			return nil, err
		}
		snap.Stakes[symbol] = acc
	}
	return snap, nil
}

func dump(w io.Writer, snap *Snapshot) {
	cfg := spew.ConfigState{Indent: "  ", DisableMethods: false, DisablePointerAddresses: true, SortKeys: true}
	cfg.Fdump(w, snap)
}

func inspectAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("account address required")
	}
	addr, err := thor.ParseAddress(ctx.Args().First())
	if err != nil {
		return errors.WithMessage(err, "address")
	}

	dataDir := ctx.String(dataDirFlag.Name)
	symbols := ctx.StringSlice(tokenFlag.Name)
	if len(symbols) == 0 {
		path := ctx.String(genesisFlag.Name)
		if path == "" {
			path = filepath.Join(dataDir, genesisFileName)
		}
		if gen, err := ledger.LoadGenesis(path); err == nil {
			symbols = gen.StakedTokens
		}
	}

	db, err := lvldb.New(filepath.Join(dataDir, "main.db"), lvldb.Options{})
	if err != nil {
		return errors.Wrap(err, "open main database")
	}
	defer db.Close()

	l := ledger.New(db, clock.NewWall(0, 1), ledger.Options{StakedTokens: symbols})
	ok, err := l.Initialised()
	if err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("no ledger in %v", dataDir)
	}
	snap, err := snapshot(l, *addr)
	if err != nil {
		return err
	}
	dump(os.Stdout, snap)
	return nil
}
