package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/hnx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when missing, then initializes the database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config, err := shared.LoadConfig(configPath)
	switch {
	case errors.Is(err, shared.ErrMissingConfig):
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	case err != nil:
		r.logger.Warn("failed to load config, using defaults", "error", err)
		config = shared.DefaultConfig()
	}

	if err := shared.ApplyEnv(config); err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("✓ Config: %s\n", configPath)
	r.writePlain("✓ Database: %s\n", config.Database.Path)
	return nil
}
