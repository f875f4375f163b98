// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nexa-tui/internal/ui/styles"
)

// SlowAfter is how long a request runs before the spinner says so.
const SlowAfter = 15 * time.Second

// Spinner shows that a module is waiting on the assistant.
type Spinner struct {
	model   spinner.Model
	label   string
	started time.Time
	running bool
	theme   *styles.Theme

	now func() time.Time
}

// NewSpinner returns a stopped spinner labelled with the activity, for
// example "Generating lesson".
func NewSpinner(theme *styles.Theme, label string) Spinner {
	m := spinner.New()
	m.Spinner = spinner.Spinner{
		Frames: styles.LineSpinner.Frames,
		FPS:    styles.LineSpinner.Duration(),
	}
	m.Style = theme.Accent
	return Spinner{model: m, label: label, theme: theme, now: time.Now}
}

// Start resets the clock and returns the first tick.
func (s *Spinner) Start() tea.Cmd {
	s.running = true
	s.started = s.now()
	return s.model.Tick
}

// Stop hides the spinner. Ticks still queued are ignored.
func (s *Spinner) Stop() { s.running = false }

// Update advances the animation while running.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.running {
		return s, nil
	}
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return s, cmd
}

// View renders "| Generating lesson... (3s)", with a hint once the wait
// passes SlowAfter.
func (s Spinner) View() string {
	if !s.running {
		return ""
	}
	elapsed := s.now().Sub(s.started)
	out := s.model.View() + " " + s.theme.Subtitle.Render(s.label+"...") +
		s.theme.Muted.Render(" ("+formatElapsed(elapsed)+")")
	if elapsed >= SlowAfter {
		out += "  " + s.theme.Muted.Render("the assistant is slow right now; Esc to go back")
	}
	return out
}

// formatElapsed formats a duration as "42s" or "1m 5s".
func formatElapsed(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 60 {
		return strconv.Itoa(seconds) + "s"
	}
	return strconv.Itoa(seconds/60) + "m " + strconv.Itoa(seconds%60) + "s"
}
