// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// isInteractive reports whether both ends of the session are a terminal.
// Tests replace it.
var isInteractive = func() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

// RequiresTTY returns a *TTYRequiredError naming operation when nexa is
// not attached to a terminal.
func RequiresTTY(operation string) error {
	if !isInteractive() {
		return &TTYRequiredError{Operation: operation}
	}
	return nil
}

// TTYRequiredError is returned by commands that draw to the terminal.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	if e.Operation != "" {
		return "not a terminal; cannot " + e.Operation + " (try `nexa reviews` or `nexa serve`)"
	}
	return "not a terminal; interactive input not available"
}

// =============================================================================
// REPLY WIDTH
// =============================================================================

// Replies are wrapped to the terminal, within these bounds.
const (
	minReplyWidth     = 40
	maxReplyWidth     = 100
	defaultReplyWidth = 80
)

// replyWidth is the column budget for rendered chat replies.
func replyWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	switch {
	case err != nil || width <= 0:
		return defaultReplyWidth
	case width < minReplyWidth:
		return minReplyWidth
	case width > maxReplyWidth:
		return maxReplyWidth
	}
	return width
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

var colorsEnabled = sync.OnceValue(func() bool {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return false
	case os.Getenv("FORCE_COLOR") != "":
		return true
	case os.Getenv("TERM") == "dumb":
		return false
	}
	return isTerminal(os.Stdout)
})

// ColorsEnabled reports whether CLI output is styled. NO_COLOR beats
// FORCE_COLOR, which beats terminal detection.
func ColorsEnabled() bool { return colorsEnabled() }

// colorProfile is the lipgloss profile for line-mode output.
func colorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
