// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/co"
	"github.com/vechain/questledger/eventdb"
	"github.com/vechain/questledger/ledger"
	"github.com/vechain/questledger/log"
	"github.com/vechain/questledger/lvldb"
	"github.com/vechain/questledger/metrics"
	"github.com/vechain/questledger/thor"
)

const (
	genesisFileName = "genesis.yaml"
	signerKeyName   = "quest-signer.key"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, &level)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, &level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// copy from go-ethereum
func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.questledger")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.questledger")
		default:
			return filepath.Join(home, ".org.vechain.questledger")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

// openMainDB opens the ledger store in dataDir, or in memory if dataDir is empty.
func openMainDB(dataDir string, cacheMB int) *lvldb.LevelDB {
	if dataDir == "" {
		db, err := lvldb.NewMem()
		if err != nil {
			fatal(fmt.Sprintf("open main database: %v", err))
		}
		return db
	}

	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	dir := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", dir, err))
	}
	return db
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 64 {
		sizeMB = 64
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/4 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 4)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		fatal("failed to get fd limit:", err)
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

func openEventDB(dataDir string) *eventdb.EventDB {
	if dataDir == "" {
		db, err := eventdb.NewMem()
		if err != nil {
			fatal(fmt.Sprintf("open event database: %v", err))
		}
		return db
	}
	dir := filepath.Join(dataDir, "events.db")
	db, err := eventdb.New(dir)
	if err != nil {
		fatal(fmt.Sprintf("open event database [%v]: %v", dir, err))
	}
	return db
}

// loadSignerKey loads the dev key from dataDir, generating it on first use.
// Without dataDir the key only lives in memory.
func loadSignerKey(dataDir string) (*ecdsa.PrivateKey, error) {
	if dataDir == "" {
		return crypto.GenerateKey()
	}
	keyFile := filepath.Join(dataDir, signerKeyName)
	key, err := crypto.LoadECDSA(keyFile)
	if err == nil {
		return key, nil
	}
	if !os.IsNotExist(errors.Cause(err)) {
		return nil, err
	}

	// no such file, generate new key and write in
	if key, err = crypto.GenerateKey(); err != nil {
		return nil, err
	}
	if err := crypto.SaveECDSA(keyFile, key); err != nil {
		return nil, err
	}
	return key, nil
}

func devGenesis() *ledger.Genesis {
	return &ledger.Genesis{
		StartTime:     uint64(time.Now().Unix()),
		BlockInterval: 10,
		StakedTokens:  []string{"stkMTA"},
	}
}

// setDevRoles hands every unassigned role to the dev key, which also gets
// an allocation when the genesis has none.
func setDevRoles(gen *ledger.Genesis, key *ecdsa.PrivateKey) {
	addr := thor.Address(crypto.PubkeyToAddress(key.PublicKey))
	if gen.Roles == nil {
		gen.Roles = make(map[string]thor.Address)
	}
	for _, role := range roles.All {
		if _, ok := gen.Roles[string(role)]; !ok {
			gen.Roles[string(role)] = addr
		}
	}
	if len(gen.Allocations) == 0 {
		gen.Allocations = []ledger.Allocation{{Address: addr, Amount: "1000000e18"}}
	}
}

// loadGenesis reads the genesis flag, then the genesis kept in the data dir.
// A fresh dev genesis is written into the data dir so restarts keep heights stable.
func loadGenesis(ctx *cli.Context) (*ledger.Genesis, error) {
	if path := ctx.String(genesisFlag.Name); path != "" {
		return ledger.LoadGenesis(path)
	}
	if !ctx.Bool(persistFlag.Name) {
		return devGenesis(), nil
	}

	path := filepath.Join(makeDataDir(ctx), genesisFileName)
	gen, err := ledger.LoadGenesis(path)
	if err == nil {
		return gen, nil
	}
	if !os.IsNotExist(errors.Cause(err)) {
		return nil, err
	}
	gen = devGenesis()
	data, err := yaml.Marshal(gen)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, errors.Wrap(err, "write genesis")
	}
	return gen, nil
}

func startAPIServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 10 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func startMetricsServer(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics API addr [%v]", addr)
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

// checkClockOffset warns when the local clock drifts by half a height or more,
// since the wall clock derives heights from it.
func checkClockOffset(interval uint64) {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > time.Duration(interval)*time.Second/2 {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

func printSoloStartupMessage(gen *ledger.Genesis, l *ledger.Ledger, dataDir, apiURL string, signer *ecdsa.PrivateKey) {
	if dataDir == "" {
		dataDir = "Memory"
	}
	fmt.Printf(`Starting %v
    Genesis      [ %v, %vs per height ]
    Tokens       [ %v ]
    Data dir     [ %v ]
    API portal   [ %v ]
    Dev key      [ %v ]
`,
		fmt.Sprintf("%s/%s", "QuestLedger solo", fullVersion()),
		time.Unix(int64(gen.StartTime), 0), gen.BlockInterval,
		l.Symbols(),
		dataDir,
		apiURL,
		thor.Address(crypto.PubkeyToAddress(signer.PublicKey)))
}
