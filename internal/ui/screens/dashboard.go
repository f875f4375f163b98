// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nexa-tui/internal/modules"
	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/ui/components"
)

// Dashboard is the signed-in home: greeting, active booking and module
// tiles.
type Dashboard struct {
	deps   Deps
	cursor int
}

// NewDashboard creates the dashboard.
func NewDashboard(deps Deps) *Dashboard { return &Dashboard{deps: deps} }

func (d *Dashboard) ID() router.Screen { return router.ScreenDashboard }
func (d *Dashboard) Enter() tea.Cmd    { return nil }
func (d *Dashboard) Leave()            {}
func (d *Dashboard) Capturing() bool   { return false }

func (d *Dashboard) Help() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Submit}
}

// Selected returns the tile under the cursor.
func (d *Dashboard) Selected() modules.Tile {
	return modules.DashboardTiles[d.cursor]
}

func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	n := len(modules.DashboardTiles)
	switch {
	case key.Matches(km, keys.Up), key.Matches(km, keys.Left):
		d.cursor = cycle(d.cursor, -1, n)
	case key.Matches(km, keys.Down), key.Matches(km, keys.Right):
		d.cursor = cycle(d.cursor, 1, n)
	case key.Matches(km, keys.Submit):
		return Navigate(d.Selected().Screen)
	}
	return nil
}

func (d *Dashboard) View(width, height int) string {
	th := d.deps.Theme
	session := d.deps.Router.Session()

	greeting := lipgloss.JoinVertical(lipgloss.Left,
		th.Title.Render(fmt.Sprintf("%s, %s", modules.Greeting(d.deps.now()), session.DisplayName)),
		th.Muted.Render("STATUS ")+th.StatusStyle(session.Authenticated).Render(session.StatusLabel),
	)

	cardWidth := width - 4
	if cardWidth > 64 {
		cardWidth = 64
	}

	var booking string
	if b, ok := d.deps.Router.ActiveBooking(); ok {
		altitude := th.Success.Render(b.Altitude.String())
		if b.Altitude == router.AltitudeHigh {
			altitude = th.Warning.Render(b.Altitude.String())
		}
		booking = components.Card(th, "Active Booking", lipgloss.JoinVertical(lipgloss.Left,
			components.KeyValue(th, "destination", b.Destination),
			components.KeyValue(th, "duration", b.DurationDays+" days"),
			th.Label.Render("ALTITUDE")+"  "+altitude,
		), cardWidth)
	} else {
		booking = components.Card(th, "Active Booking",
			th.Muted.Render("No trip planned. Plan one in Travel to sync health advice."), cardWidth)
	}

	tiles := make([]string, len(modules.DashboardTiles))
	for i, tile := range modules.DashboardTiles {
		title := th.Value.Render(tile.Title)
		prefix := "  "
		if i == d.cursor {
			title = th.Selected.Render(tile.Title)
			prefix = th.Accent.Render("> ")
		}
		tiles[i] = prefix + title + "  " + th.Muted.Render(tile.Description)
	}

	page := lipgloss.JoinVertical(lipgloss.Left,
		greeting,
		"",
		booking,
		"",
		th.CardTitle.Render("Modules"),
		lipgloss.JoinVertical(lipgloss.Left, tiles...),
	)
	return lipgloss.NewStyle().Padding(1, 2).MaxWidth(width).MaxHeight(height).Render(page)
}
