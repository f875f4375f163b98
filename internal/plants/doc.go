// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package plants provides the HTTP client for the plant species and pest
// lookup service (Perenual-compatible API).
//
// Requests are paced with a token bucket so that panel refreshes cannot
// exceed the service's free-tier limits. Overview fetches the species and
// pest panels concurrently.
package plants
