// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/canonical/lms-bridge/internal/config"
	"github.com/canonical/lms-bridge/internal/db"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/migrations"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Manage the lilac_v1 database schema",
	Long:      `Apply, roll back or inspect the database migrations used by the lilac_v1 backend.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMigrate(cmd, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	migrateCmd.Flags().String("dsn", "", "Database DSN, defaults to DSN")
	migrateCmd.Flags().String("db-driver", "", "Database driver (pgx or sqlite3), defaults to DB_DRIVER")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, action string) error {
	dsn, _ := cmd.Flags().GetString("dsn")
	driver, _ := cmd.Flags().GetString("db-driver")

	specs := new(config.EnvSpec)
	_ = envconfig.Process("", specs)
	if dsn != "" {
		specs.DSN = dsn
	}
	if driver != "" {
		specs.DBDriver = driver
	}
	if specs.DSN == "" {
		return fmt.Errorf("a DSN is required, use --dsn or the DSN env var")
	}

	logger := logging.NewLogger(specs.LogLevel)
	defer logger.Sync()

	dbClient, err := db.NewDBClient(dbConfig(specs), tracing.NewNoopTracer(), monitoring.NewNoopMonitor("lms-bridge", logger), logger)
	if err != nil {
		return fmt.Errorf("failed to create database client: %v", err)
	}
	defer dbClient.Close()

	switch action {
	case "up":
		return migrations.Up(dbClient.DB(), dbClient.Dialect())
	case "down":
		return migrations.Down(dbClient.DB(), dbClient.Dialect())
	case "status":
		return migrations.Status(dbClient.DB(), dbClient.Dialect())
	default:
		return fmt.Errorf("unknown migration action %q", action)
	}
}
