// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the shell-wide bindings. Screen bindings live with the
// screens.
type KeyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Sidebar     key.Binding
	SidebarUp   key.Binding
	SidebarDown key.Binding
	SidebarOpen key.Binding
	Jump        key.Binding
	Home        key.Binding
	SignOut     key.Binding
}

// DefaultKeyMap returns the shell bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Sidebar: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("C-b", "modules"),
		),
		SidebarUp: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "prev module"),
		),
		SidebarDown: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "next module"),
		),
		SidebarOpen: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "open module"),
		),
		Jump: key.NewBinding(
			key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6"),
			key.WithHelp("M-1..6", "jump"),
		),
		Home: key.NewBinding(
			key.WithKeys("alt+0"),
			key.WithHelp("M-0", "landing"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "sign out"),
		),
	}
}

// jumpIndex maps alt+N to a zero-based module index.
func jumpIndex(k string) (int, bool) {
	if len(k) != len("alt+1") || k[:4] != "alt+" {
		return 0, false
	}
	d := int(k[4] - '1')
	if d < 0 || d > 8 {
		return 0, false
	}
	return d, true
}
