package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/hnx/internal/services"
	"github.com/desertthunder/hnx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config, err := shared.ResolveConfig("config.toml")
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		config = shared.DefaultConfig()
	}

	if level, err := shared.ParseLogLevel(config.Log.Level); err != nil {
		logger.Warn("ignoring log level", "error", err)
	} else {
		shared.SetLogLevel(logger, level)
	}

	httpClient := services.NewHTTPClient(config.API.Timeout())
	client := services.NewHackOrSnoozeService(config.API.BaseURL, httpClient, config.API.RequestsPerSecond)
	apiService := services.NewAPIService(config.API.BaseURL, httpClient)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Client:     client,
		API:        apiService,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "hnx",
		Usage:    "Read, submit and favorite Hack or Snooze stories",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err = app.Run(context.Background(), os.Args)
	if cerr := runner.Close(); cerr != nil {
		logger.Warn("failed to close database", "error", cerr)
	}

	if err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
