// nexa - Nepal's digital services hub for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"os"

	"github.com/jeranaias/nexa-tui/internal/cli"
	"github.com/jeranaias/nexa-tui/internal/logging"
)

func main() {
	code := cli.Execute(context.Background(), os.Args[1:])
	logging.Sync()
	os.Exit(code)
}
