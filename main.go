package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/player-qa/player-contract-tests/client"
	"github.com/player-qa/player-contract-tests/config"
	"github.com/player-qa/player-contract-tests/framework"
	"github.com/player-qa/player-contract-tests/logging"
	"github.com/player-qa/player-contract-tests/playerapi"
	"github.com/player-qa/player-contract-tests/playertests"
	"github.com/player-qa/player-contract-tests/playertwin"
	"github.com/player-qa/player-contract-tests/validate"
)

const defaultTwinPort = 8111
const statusQueryTimeout = time.Second * 10

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	var params commandParams
	if !params.Read(args) {
		return 2
	}

	level, err := logging.ParseLevel(params.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	mainLogger := logging.Discard()
	if params.debugAll {
		mainLogger = logging.New(os.Stderr, level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	serviceURL := params.serviceURL
	if params.twin {
		twin, err := playertwin.Start(fmt.Sprintf("127.0.0.1:%d", params.twinPort),
			mainLogger.WithField("component", "twin"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Can't start fake player service: %s\n", err)
			return 1
		}
		defer twin.Close()
		serviceURL = twin.URL
		fmt.Printf("Fake player service listening at %s\n", twin.URL)
	}

	cfg, err := config.Load(config.Options{
		Environment:     params.env,
		Dir:             params.configDir,
		BaseURLOverride: serviceURL,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %s\n", err)
		return 1
	}
	fmt.Printf("Environment %q, configuration from %s, service at %s\n", cfg.Environment, cfg.Source, cfg.BaseURL)

	if err := client.AwaitService(ctx, cfg.BaseURL, statusQueryTimeout, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Player service error: %s\n", err)
		return 1
	}

	schemas, err := validate.LoadSchemas()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can't load response schemas: %s\n", err)
		return 1
	}
	httpClient := client.New(client.Options{
		BaseURL:           cfg.BaseURL,
		RequestTimeout:    cfg.RequestTimeout,
		ConnectionTimeout: cfg.ConnectionTimeout,
		MaxRetries:        cfg.MaxRetries,
		RetryDelay:        cfg.RetryDelay,
		Logger:            mainLogger,
	})
	api := playerapi.New(httpClient, schemas, mainLogger)

	fmt.Println()
	framework.PrintFilterDescription(params.filters, os.Stdout)

	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		Out:                  os.Stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := playertests.RunTestSuite(ctx, api, debugLevel(level, params), params.filters.AsFilter, testLogger)

	fmt.Println()
	framework.PrintResults(results, os.Stdout)
	if !results.OK() {
		fmt.Println()
		fmt.Println("To rerun the failed tests:")
		fmt.Println("  " + params.rerunArgs(args[0], results.Failures).String())
		return 1
	}
	return 0
}

// debugLevel is the level of the per-test logs. They are only shown with -debug or -debug-all;
// otherwise only warnings are captured.
func debugLevel(level logrus.Level, params commandParams) logrus.Level {
	if !params.debug && !params.debugAll && level > logrus.WarnLevel {
		return logrus.WarnLevel
	}
	return level
}
