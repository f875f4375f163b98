// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/ui/styles"
)

// SidebarWidth is the rendered width of the open sidebar, border included.
const SidebarWidth = 24

// Sidebar lists the module screens. Cursor is independent of the current
// screen so the user can browse before pressing enter.
type Sidebar struct {
	Items  []router.Screen
	Cursor int
	theme  *styles.Theme
}

// NewSidebar returns a sidebar over router.ModuleScreens.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{Items: router.ModuleScreens(), theme: theme}
}

// Up moves the cursor up, wrapping at the top.
func (s *Sidebar) Up() {
	if len(s.Items) == 0 {
		return
	}
	s.Cursor = (s.Cursor - 1 + len(s.Items)) % len(s.Items)
}

// Down moves the cursor down, wrapping at the bottom.
func (s *Sidebar) Down() {
	if len(s.Items) == 0 {
		return
	}
	s.Cursor = (s.Cursor + 1) % len(s.Items)
}

// Selected returns the screen under the cursor.
func (s *Sidebar) Selected() router.Screen {
	if s.Cursor < 0 || s.Cursor >= len(s.Items) {
		return router.ScreenDashboard
	}
	return s.Items[s.Cursor]
}

// Focus moves the cursor onto screen if it is listed.
func (s *Sidebar) Focus(screen router.Screen) {
	for i, item := range s.Items {
		if item == screen {
			s.Cursor = i
			return
		}
	}
}

// View renders the list with current marked and the cursor highlighted.
func (s *Sidebar) View(current router.Screen, height int) string {
	var b strings.Builder
	b.WriteString(s.theme.SidebarSection.Render("MODULES"))
	b.WriteString("\n")
	for i, item := range s.Items {
		marker := "  "
		if item == current {
			marker = "> "
		}
		style := s.theme.SidebarItem
		if i == s.Cursor {
			style = s.theme.SidebarActive
		}
		b.WriteString(style.Render(marker + item.Title()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(s.theme.Muted.Render("  ctrl+b hide"))

	style := s.theme.Sidebar.Width(SidebarWidth - 1)
	if height > 0 {
		style = style.Height(height)
	}
	return style.Render(b.String())
}
