// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package main

import "github.com/canonical/lms-bridge/cmd"

func main() {
	cmd.Execute()
}
