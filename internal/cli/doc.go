// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the nexa command tree.
//
// # Commands
//
//   - nexa: Full-screen terminal UI (requires a terminal)
//   - nexa chat: Line-mode assistant with input history
//   - nexa reviews list [subject]: Review summaries or one subject's reviews
//   - nexa reviews add <subject>: Append a review
//   - nexa config [show|path|init|get|set]: Configuration
//   - nexa serve: Local JSON API
//   - nexa version: Build information
//
// Every command shares the persistent flags --config, --provider and
// --verbose, and builds its collaborators through OpenRuntime.
//
// # Exit Codes
//
// Execute maps errors to the Exit* constants with GetExitCode.
package cli
