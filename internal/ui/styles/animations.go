// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"time"
)

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// LineSpinner is a simple ASCII line rotation.
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// DotsSpinner is the classic three-dot animation.
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// PulseSpinner is used on the boot overlay.
var PulseSpinner = SpinnerConfig{
	Frames: []string{"( )", "(o)", "(O)", "(o)"},
	FPS:    8,
}

// =============================================================================
// PROGRESS INDICATORS
// =============================================================================

var (
	ProgressFull    = "#"
	ProgressEmpty   = "-"
	ProgressPartial = []string{".", ":", "+"}
)

// RenderProgressBar renders a bar width cells wide, percent (0-100) full.
func RenderProgressBar(width int, percent float64) string {
	if width <= 0 {
		return ""
	}
	percent = clamp(percent, 0, 100)

	filled := float64(width) * percent / 100
	full := int(filled)
	partial := int((filled - float64(full)) * float64(len(ProgressPartial)+1))

	var sb strings.Builder
	sb.Grow(width)
	sb.WriteString(strings.Repeat(ProgressFull, full))
	if full < width && partial > 0 {
		sb.WriteString(ProgressPartial[partial-1])
		full++
	}
	if full < width {
		sb.WriteString(strings.Repeat(ProgressEmpty, width-full))
	}
	return sb.String()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Separator renders a horizontal rule.
func Separator(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("─", width)
}
