// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lms-bridge",
	Short: "REST bridge to a learning management platform",
	Long:  `lms-bridge exposes user, enrollment, group and social auth endpoints backed by a configurable platform backend.`,
}

// Execute runs the root command and exits non zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
