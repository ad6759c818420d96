// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/canonical/lms-bridge/internal/authorization"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/openfga"
	"github.com/canonical/lms-bridge/internal/tracing"
)

var createFgaModelCmd = &cobra.Command{
	Use:   "create-fga-model",
	Short: "Creates an openfga model",
	Long:  `Writes the API permission model to an openfga store and prints the model id.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := createModel(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create model: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	createFgaModelCmd.Flags().String("fga-api-url", "", "The openfga API URL")
	createFgaModelCmd.Flags().String("fga-api-token", "", "The openfga API token")
	createFgaModelCmd.Flags().String("fga-store-id", "", "The openfga store to create the model in")
	createFgaModelCmd.Flags().String("fga-api-scheme", "http", "The openfga API scheme")

	_ = createFgaModelCmd.MarkFlagRequired("fga-api-url")
	_ = createFgaModelCmd.MarkFlagRequired("fga-api-token")
	_ = createFgaModelCmd.MarkFlagRequired("fga-store-id")

	rootCmd.AddCommand(createFgaModelCmd)
}

func createModel(cmd *cobra.Command) error {
	apiURL, _ := cmd.Flags().GetString("fga-api-url")
	apiToken, _ := cmd.Flags().GetString("fga-api-token")
	storeID, _ := cmd.Flags().GetString("fga-store-id")
	scheme, _ := cmd.Flags().GetString("fga-api-scheme")

	logger := logging.NewNoopLogger()
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("lms-bridge", logger)

	client := openfga.NewClient(
		openfga.NewConfig(scheme, apiURL, storeID, apiToken, "", false, tracer, monitor, logger),
	)

	modelID, err := authorization.NewAuthorizer(client, tracer, monitor, logger).WriteModel(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created model: %s\n", modelID)
	return nil
}
