// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nexa-tui/internal/ui/styles"
)

// Line-mode output styles. The TUI builds its own from styles.Theme.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Saffron)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(16)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	// PromptStyle renders the chat prompt.
	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Saffron).
			Bold(true)

	// ReplyStyle renders the assistant's label in chat.
	ReplyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")).
			Bold(true)
)

// RenderSeparator renders a horizontal separator line, 60 columns unless
// a width is given.
func RenderSeparator(width ...int) string {
	w := 60
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return DimStyle.Render(strings.Repeat("-", w))
}

// RenderLabel renders "label" padded for a label/value row.
func RenderLabel(label string) string {
	return LabelStyle.Render(label + ":")
}
