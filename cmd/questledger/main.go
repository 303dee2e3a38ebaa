// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/questledger/api"
	"github.com/vechain/questledger/clock"
	"github.com/vechain/questledger/ledger"
	"github.com/vechain/questledger/log"
	"github.com/vechain/questledger/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "QuestLedger",
		Usage:     "Gamified staking ledger",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "run a dev ledger behind the REST API",
				Flags: []cli.Flag{
					genesisFlag,
					dataDirFlag,
					persistFlag,
					cacheFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiEventsLimitFlag,
					enableAPILogsFlag,
					pprofFlag,
					enableMetricsFlag,
					metricsAddrFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: soloAction,
			},
			{
				Name:      "replay",
				Usage:     "replay a scenario against a fresh in-memory ledger",
				ArgsUsage: "<scenario.yaml>",
				Flags: []cli.Flag{
					quietFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: replayAction,
			},
			{
				Name:      "inspect",
				Usage:     "dump the stake of an account from a persisted ledger",
				ArgsUsage: "<address>",
				Flags: []cli.Flag{
					dataDirFlag,
					tokenFlag,
					genesisFlag,
				},
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func soloAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	initLogger(ctx)

	gen, err := loadGenesis(ctx)
	if err != nil {
		return err
	}

	var dataDir string
	if ctx.Bool(persistFlag.Name) {
		dataDir = makeDataDir(ctx)
	}
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	mainDB := openMainDB(dataDir, cacheMB)
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	eventDB := openEventDB(dataDir)
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	signer, err := loadSignerKey(dataDir)
	if err != nil {
		return errors.Wrap(err, "load quest signer key")
	}
	setDevRoles(gen, signer)

	clk := clock.NewWall(gen.StartTime, gen.BlockInterval)
	// slots are around a kilobyte including their keys
	l := ledger.New(mainDB, clk, ledger.Options{
		StakedTokens: gen.StakedTokens,
		CacheSize:    cacheMB / 2 * 1024,
		Sinks:        []ledger.Sink{eventDB},
	})
	initialised, err := l.Initialised()
	if err != nil {
		return err
	}
	if !initialised {
		if err := l.Init(gen); err != nil {
			return errors.Wrap(err, "init ledger")
		}
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, stop, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); stop() }()
		logger.Info("metrics server started", "url", url)
	}

	handler, closeAPI := api.New(ledger.NewDispatcher(l, signer), eventDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EventsLimit:     ctx.Uint64(apiEventsLimitFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		DevMode:         true,
	})
	defer func() { logger.Info("closing subscriptions..."); closeAPI() }()

	apiURL, stopAPI, err := startAPIServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	printSoloStartupMessage(gen, l, dataDir, apiURL, signer)

	g, gctx := errgroup.WithContext(exitSignal)
	g.Go(func() error {
		checkClockOffset(gen.BlockInterval)
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				checkClockOffset(gen.BlockInterval)
			}
		}
	})
	return g.Wait()
}
