// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package modules holds the presentation-independent state of each screen:
// its form inputs, their validation, the requests it issues and the results
// it keeps. The TUI and the HTTP server both bind to these types.
//
// Every remote request goes through a Slot, which stamps it with a sequence
// number. Only the response to the most recent request is kept; anything
// older is discarded when it arrives.
package modules
