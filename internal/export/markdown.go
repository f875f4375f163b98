// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports conversations to Markdown format.
type MarkdownExporter struct {
	now func() time.Time
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{now: time.Now}
}

// Export converts a transcript to Markdown.
func (e *MarkdownExporter) Export(t Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	title := t.Title
	if strings.TrimSpace(title) == "" {
		title = "NEXA conversation"
	}

	var sb strings.Builder

	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "title: %s\n", escapeYAML(title))
	if t.Provider != "" {
		fmt.Fprintf(&sb, "provider: %s\n", t.Provider)
	}
	fmt.Fprintf(&sb, "date: %s\n", t.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "messages: %d\n", len(t.Turns))
	sb.WriteString("---\n\n")

	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(title))

	for i, turn := range t.Turns {
		fmt.Fprintf(&sb, "### %s\n\n", roleLabel(turn.Role))
		sb.WriteString(strings.TrimSpace(turn.Text))
		sb.WriteString("\n\n")
		if i < len(t.Turns)-1 {
			sb.WriteString("---\n\n")
		}
	}

	fmt.Fprintf(&sb, "\n*Exported from NEXA on %s*\n", e.now().Format("January 2, 2006 at 3:04 PM"))
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

func roleLabel(role string) string {
	switch role {
	case "user":
		return "You"
	case "model":
		return "NEXA"
	case "":
		return "Unknown"
	default:
		return strings.ToUpper(role[:1]) + role[1:]
	}
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes characters that would break a heading.
func escapeMarkdown(s string) string {
	return strings.NewReplacer(
		"#", "\\#",
		"*", "\\*",
		"_", "\\_",
		"[", "\\[",
		"]", "\\]",
	).Replace(s)
}

// escapeYAML quotes s when it contains YAML syntax.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
