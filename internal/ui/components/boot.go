// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nexa-tui/internal/ui/styles"
)

// BootMessage is the text shown while a screen handoff runs.
const BootMessage = "Initializing NEXA Matrix..."

// BootFrameMsg advances the boot animation.
type BootFrameMsg struct {
	ID   int
	Time time.Time
}

// Boot is the full-screen overlay drawn during a transition. It animates
// independently of the transition timer so a missed frame never delays
// the handoff itself.
type Boot struct {
	Duration time.Duration

	id      int
	frame   int
	started time.Time
	active  bool
	theme   *styles.Theme
}

// NewBoot creates an inactive overlay for a handoff of duration d.
func NewBoot(theme *styles.Theme, d time.Duration) Boot {
	return Boot{Duration: d, theme: theme}
}

// Start activates the overlay and returns the first frame tick.
func (b *Boot) Start(now time.Time) tea.Cmd {
	b.id++
	b.frame = 0
	b.started = now
	b.active = true
	return b.tick()
}

// Stop hides the overlay. Pending frame ticks become no-ops.
func (b *Boot) Stop() {
	b.active = false
	b.id++
}

// Active reports whether the overlay is showing.
func (b Boot) Active() bool {
	return b.active
}

// Update consumes BootFrameMsg for this overlay.
func (b Boot) Update(msg tea.Msg) (Boot, tea.Cmd) {
	m, ok := msg.(BootFrameMsg)
	if !ok || !b.active || m.ID != b.id {
		return b, nil
	}
	b.frame++
	return b, b.tick()
}

func (b Boot) tick() tea.Cmd {
	id := b.id
	return tea.Tick(styles.PulseSpinner.Duration(), func(t time.Time) tea.Msg {
		return BootFrameMsg{ID: id, Time: t}
	})
}

// Percent returns how far through the handoff the overlay is, 0-100.
func (b Boot) Percent(now time.Time) float64 {
	if !b.active || b.Duration <= 0 {
		return 100
	}
	p := float64(now.Sub(b.started)) / float64(b.Duration) * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// View renders the overlay centered in width x height.
func (b Boot) View(width, height int, now time.Time) string {
	frames := styles.PulseSpinner.Frames
	pulse := frames[b.frame%len(frames)]

	bar := styles.RenderProgressBar(28, b.Percent(now))
	body := lipgloss.JoinVertical(lipgloss.Center,
		b.theme.BootText.Render(pulse),
		"",
		b.theme.BootText.Render(BootMessage),
		"",
		b.theme.Muted.Render(bar),
	)
	box := b.theme.Boot.Render(body)
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
