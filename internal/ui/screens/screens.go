// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package screens holds one bubbletea model per NEXA screen. Screens own
// their form widgets and a modules state value; remote calls are issued as
// tea.Cmds and their results come back as messages that the owning screen
// applies through its slot.
package screens

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/nexa-tui/internal/modules"
	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/ui/components"
	"github.com/jeranaias/nexa-tui/internal/ui/styles"
)

// =============================================================================
// SCREEN CONTRACT
// =============================================================================

// Screen is a top-level view driven by the app model.
type Screen interface {
	// ID returns the router screen this model renders.
	ID() router.Screen
	// Enter is called each time the screen becomes current.
	Enter() tea.Cmd
	// Leave is called when the screen stops being current.
	Leave()
	// Update handles keys (only while current) and result messages
	// (always; stale results are dropped by the screen's slots).
	Update(msg tea.Msg) tea.Cmd
	// View renders the content area.
	View(width, height int) string
	// Help lists the screen's own key bindings for the footer.
	Help() []key.Binding
	// Capturing reports whether a text field has focus, in which case
	// single-letter global shortcuts must not fire.
	Capturing() bool
}

// Deps is shared by every screen.
type Deps struct {
	Router   *router.Router
	Theme    *styles.Theme
	Markdown *components.Markdown
	Logger   *zap.Logger
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d Deps) markdown(md string, width int) string {
	if d.Markdown == nil {
		return md
	}
	return d.Markdown.Render(md, width)
}

// =============================================================================
// MESSAGES TO THE APP
// =============================================================================

// NavigateMsg asks the app to switch screens immediately.
type NavigateMsg struct {
	Target router.Screen
}

// LaunchMsg asks the app to start a timed handoff to Target.
type LaunchMsg struct {
	Target router.Screen
}

// SignedInMsg reports a successful sign-in on the landing page.
type SignedInMsg struct {
	Name string
}

// ToastMsg asks the app to show a notification.
type ToastMsg struct {
	Kind    components.ToastKind
	Message string
}

// Navigate returns a command emitting NavigateMsg.
func Navigate(target router.Screen) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Target: target} }
}

func launch(target router.Screen) tea.Cmd {
	return func() tea.Msg { return LaunchMsg{Target: target} }
}

func toast(kind components.ToastKind, message string) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Kind: kind, Message: message} }
}

// run executes p off the event loop and wraps its response.
func run[T any, M tea.Msg](p modules.Pending[T], wrap func(modules.Response[T]) M) tea.Cmd {
	return func() tea.Msg {
		return wrap(p.Do(context.Background()))
	}
}

// =============================================================================
// KEY BINDINGS
// =============================================================================

type keyMap struct {
	Submit   key.Binding
	Send     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Left     key.Binding
	Right    key.Binding
	Back     key.Binding
	Tab      key.Binding
	Up       key.Binding
	Down     key.Binding
	Refresh  key.Binding
	Review   key.Binding
	Clear    key.Binding
	Launch   key.Binding
	About    key.Binding
	Contact  key.Binding
	HomeLink key.Binding
}

var keys = keyMap{
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Send:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "send")),
	Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("left", "previous option")),
	Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("right", "next option")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Tab:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "switch tab")),
	Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("up", "previous")),
	Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("down", "next")),
	Refresh:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
	Review:   key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "write review")),
	Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	Launch:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "launch hub")),
	About:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "about")),
	Contact:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "contact")),
	HomeLink: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "home")),
}

// cycle moves i by delta within [0, n).
func cycle(i, delta, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i+delta)%n + n) % n
}
