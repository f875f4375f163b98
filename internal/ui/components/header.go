// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/ui/styles"
	"github.com/jeranaias/nexa-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Brand is the product name shown in the header.
const Brand = "NEXA"

// Header is the single-line title bar.
type Header struct {
	Screen  router.Screen
	Session router.Session
	Width   int
	theme   *styles.Theme
}

// NewHeader creates a header for the landing screen.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Screen:  router.ScreenLanding,
		Session: router.Session{DisplayName: router.DefaultGuestName, StatusLabel: router.StatusOffline},
		Width:   80,
		theme:   theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// Sync copies the screen and session from a router snapshot.
func (h *Header) Sync(st router.State) {
	h.Screen = st.Current
	h.Session = st.Session
}

// View renders "NEXA // TRAVEL.OTA ........ Asha [Online]".
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}
	inner := width - 2

	left := h.theme.HeaderBrand.Render(Brand) + " " +
		h.theme.Muted.Render("//") + " " +
		h.theme.HeaderTag.Render(util.DisplayTag(h.Screen.String()))

	status := h.theme.StatusStyle(h.Session.Authenticated).Render("[" + h.Session.StatusLabel + "]")
	name := util.TruncateWidth(h.Session.DisplayName, inner/3)
	right := h.theme.Value.Render(name) + " " + status

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	return h.theme.Header.Width(width).Render(line)
}
