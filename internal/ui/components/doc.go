// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable visual pieces of the NEXA TUI.
//
// Components are small value types with a View method. Stateful ones
// (Spinner, Boot, ToastManager) also expose bubbletea-style Update/Tick
// helpers so the root model can drive them from its event loop.
//
// # Key Components
//
//   - Header: brand, current screen tag and session status
//   - Sidebar: module navigation list
//   - Boot: the overlay shown while a screen handoff runs
//   - Spinner: inline loading indicator for remote calls
//   - ToastManager: transient error and status notifications
//   - Markdown: glamour renderer for lesson and chat text
//   - Field: labelled form input with an inline error line
package components
