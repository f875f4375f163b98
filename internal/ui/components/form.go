// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nexa-tui/internal/apperr"
	"github.com/jeranaias/nexa-tui/internal/ui/styles"
)

// =============================================================================
// FORM PIECES
// =============================================================================

// Field renders a labelled input. input is the already rendered widget
// (textinput/textarea View); errMsg, when set, is shown under it.
func Field(theme *styles.Theme, label, input string, focused bool, errMsg string) string {
	box := theme.InputBlurred
	if focused {
		box = theme.InputFocused
	}
	parts := []string{theme.Label.Render(strings.ToUpper(label)), box.Render(input)}
	if errMsg != "" {
		parts = append(parts, theme.FieldError.Render(errMsg))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Choice renders a one-line selector: "< Science >".
func Choice(theme *styles.Theme, label, value string, focused bool) string {
	v := "< " + value + " >"
	style := theme.Muted
	if focused {
		style = theme.Selected
	}
	return theme.Label.Render(strings.ToUpper(label)) + "\n" + style.Render(v)
}

// Button renders a submit button.
func Button(theme *styles.Theme, label string, focused bool) string {
	if focused {
		return theme.ButtonFocused.Render(label)
	}
	return theme.Button.Render("[ " + label + " ]")
}

// Tabs renders a tab strip with active highlighted.
func Tabs(theme *styles.Theme, labels []string, active int) string {
	rendered := make([]string, len(labels))
	for i, l := range labels {
		if i == active {
			rendered[i] = theme.TabActive.Render(l)
		} else {
			rendered[i] = theme.Tab.Render(l)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// Card draws a titled rounded box width columns wide.
func Card(theme *styles.Theme, title, body string, width int) string {
	content := body
	if title != "" {
		content = theme.CardTitle.Render(title) + "\n" + body
	}
	style := theme.Card
	if width > 0 {
		style = style.Width(width - 2)
	}
	return style.Render(content)
}

// KeyValue renders "LABEL  value".
func KeyValue(theme *styles.Theme, label, value string) string {
	return theme.Label.Render(strings.ToUpper(label)) + "  " + theme.Value.Render(value)
}

// Bullets renders items as a dash list.
func Bullets(theme *styles.Theme, items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(theme.Accent.Render("- "))
		b.WriteString(theme.Value.Render(item))
	}
	return b.String()
}

// ErrorLine renders a failed call on the issuing screen.
func ErrorLine(theme *styles.Theme, err error) string {
	if err == nil {
		return ""
	}
	return theme.Error.Render(apperr.UserMessage(err))
}
