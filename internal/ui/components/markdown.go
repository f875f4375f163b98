// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/jeranaias/nexa-tui/internal/ui/styles"
)

// Markdown renders model text with glamour. Renderers are cached per wrap
// width since building one parses a full style sheet.
type Markdown struct {
	mu        sync.Mutex
	style     string
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdown picks a glamour style matching theme.
func NewMarkdown(theme *styles.Theme) *Markdown {
	style := "dark"
	switch {
	case theme.ColorProfile == termenv.Ascii:
		style = "notty"
	case !theme.IsDark:
		style = "light"
	}
	return &Markdown{style: style, renderers: make(map[int]*glamour.TermRenderer)}
}

// Render wraps md to width columns. On renderer failure the raw text is
// returned so a reply is never lost.
func (m *Markdown) Render(md string, width int) string {
	if width < 20 {
		width = 20
	}
	r, err := m.renderer(width)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func (m *Markdown) renderer(width int) (*glamour.TermRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	m.renderers[width] = r
	return r, nil
}
