// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds the few helpers nexa packages share: AtomicWriteFile
// for the config and review blobs, and display-width aware string fitting
// (TruncateWidth, PadRight, DisplayTag) for the terminal layout.
package util
