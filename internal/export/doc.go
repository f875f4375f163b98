// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes assistant conversations to files.
//
// # Formats
//
//   - Markdown: front matter, one heading per turn, model text kept as-is
//   - JSON: the Transcript structure, suitable for re-reading
//
// # Usage
//
//	t := export.Transcript{Title: "Trek prep", Provider: "gemini", Turns: turns}
//	path, err := export.ToFile(t, export.ForPath("trek.md"), "trek.md")
package export
