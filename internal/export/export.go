// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/util"
)

// ErrEmpty is returned when a transcript has no turns.
var ErrEmpty = errors.New("conversation has no messages")

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is a conversation ready for export.
type Transcript struct {
	Title     string    `json:"title"`
	Provider  string    `json:"provider,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Turns     []Turn    `json:"turns"`
}

// Turn is one exported message.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// FromTurns converts completion history into export turns.
func FromTurns(turns []completion.Turn) []Turn {
	out := make([]Turn, len(turns))
	for i, t := range turns {
		out[i] = Turn{Role: string(t.Role), Text: t.Text}
	}
	return out
}

func (t Transcript) validate() error {
	if len(t.Turns) == 0 {
		return ErrEmpty
	}
	if t.CreatedAt.IsZero() {
		return fmt.Errorf("conversation has invalid creation timestamp")
	}
	return nil
}

// =============================================================================
// EXPORTER INTERFACE
// =============================================================================

// Exporter defines the interface for conversation exporters.
type Exporter interface {
	// Export converts a transcript to the target format.
	Export(t Transcript) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md").
	FileExtension() string
}

// ForPath picks an exporter from path's extension. Anything other than
// .json is written as Markdown.
func ForPath(path string) Exporter {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONExporter()
	}
	return NewMarkdownExporter()
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ToFile writes t to path. An empty path or a directory gets a generated
// file name from the title and creation time. The written path is returned.
func ToFile(t Transcript, exporter Exporter, path string) (string, error) {
	content, err := exporter.Export(t)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	if path == "" || strings.HasSuffix(path, string(os.PathSeparator)) {
		path = filepath.Join(path, DefaultFilename(t, exporter))
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFilename(t, exporter))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := util.AtomicWriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// DefaultFilename returns nexa_<title>_<yyyymmdd_hhmmss><ext>.
func DefaultFilename(t Transcript, exporter Exporter) string {
	return fmt.Sprintf("nexa_%s_%s%s",
		sanitizeFilename(t.Title),
		t.CreatedAt.Format("20060102_150405"),
		exporter.FileExtension(),
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	const maxLen = 50
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}

	result := make([]rune, 0, len(runes))
	for _, r := range runes {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			result = append(result, '-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			result = append(result, '_')
		case r < 32 || r == 127:
			result = append(result, '-')
		default:
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "chat"
	}
	return string(result)
}
