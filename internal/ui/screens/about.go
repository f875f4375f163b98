// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/ui/components"
)

type pillar struct {
	heading, body string
}

var pillars = []pillar{
	{"Mission", "To provide a unified ecosystem for education, health, and logistics in hard-to-reach zones."},
	{"Vision", "A Nepal where every student, traveler, farmer, and patient is synced to a verified matrix of care."},
	{"Values", "Local first, Privacy always, and relentless pursuit of high-altitude excellence."},
}

// About is the static about page.
type About struct {
	deps Deps
}

// NewAbout creates the about page.
func NewAbout(deps Deps) *About { return &About{deps: deps} }

func (a *About) ID() router.Screen { return router.ScreenAbout }
func (a *About) Enter() tea.Cmd    { return nil }
func (a *About) Leave()            {}
func (a *About) Capturing() bool   { return false }

func (a *About) Help() []key.Binding {
	return []key.Binding{keys.Back, keys.Contact, keys.HomeLink}
}

func (a *About) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(km, keys.Back), key.Matches(km, keys.HomeLink):
		return Navigate(router.ScreenLanding)
	case key.Matches(km, keys.Contact):
		return Navigate(router.ScreenContact)
	}
	return nil
}

func (a *About) View(width, height int) string {
	th := a.deps.Theme
	cardWidth := width - 4
	if cardWidth > 72 {
		cardWidth = 72
	}

	rows := []string{
		th.Muted.Render("OUR ORIGIN"),
		th.Title.Render("Harmonizing Himalayan Modernity."),
		th.Value.Width(cardWidth).Render("Nexo was founded on the belief that geography should never limit " +
			"opportunity. We build the digital infrastructure that connects Nepal's unique terrain " +
			"with global-standard intelligence."),
		"",
	}
	for _, p := range pillars {
		rows = append(rows, components.Card(th, p.heading, th.Value.Render(p.body), cardWidth))
	}
	rows = append(rows, "",
		th.CardTitle.Render("Our Promise"),
		th.Subtitle.Width(cardWidth).Render("\"Nexo is not just an app; it is a commitment to the citizens of Nepal.\""),
		th.Muted.Render("The Nexo Collective"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}
