// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/nexa-tui/internal/apperr"
	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates the completion or lookup service failed
	ExitNetworkError = 5
	// ExitNoTerminal indicates an interactive command ran without a TTY
	ExitNoTerminal = 9
)

// usageError marks errors caused by bad arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...interface{}) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// GetExitCode determines the exit code for an error returned by a command.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *usageError
	if errors.As(err, &usage) {
		return ExitUsageError
	}
	var tty *TTYRequiredError
	if errors.As(err, &tty) {
		return ExitNoTerminal
	}

	var cfgErrs config.ValidateErrors
	var cfgErr config.ValidationError
	if errors.As(err, &cfgErrs) || errors.As(err, &cfgErr) {
		return ExitConfigError
	}

	switch apperr.KindOf(err) {
	case apperr.KindValidationRejected:
		return ExitUsageError
	case apperr.KindServiceUnavailable, apperr.KindMalformedResponse:
		return ExitNetworkError
	}
	if errors.Is(err, completion.ErrNotConfigured) {
		return ExitConfigError
	}
	return ExitGeneralError
}

// DisplayError prints err in the CLI's error style.
func DisplayError(w io.Writer, err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	if apperr.KindOf(err) == apperr.KindValidationRejected {
		msg = apperr.UserMessage(err)
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), msg)
}
