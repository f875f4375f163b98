// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apperr defines the error kinds shared across nexa.
//
// Screens never inspect concrete error types from the transport or storage
// layers. They classify failures with errors.Is against the sentinels below
// and pick the message to show from Kind.
package apperr

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrServiceUnavailable means a remote call failed at the transport level
	// or came back with a non-success status.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrMalformedResponse means the remote answered but the payload did not
	// parse or did not match the requested shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrValidationRejected means local input failed validation.
	ErrValidationRejected = errors.New("validation rejected")
)

// Kind is a coarse classification used for user-facing messages.
type Kind int

const (
	KindNone Kind = iota
	KindServiceUnavailable
	KindMalformedResponse
	KindValidationRejected
	KindUnknown
)

// String returns the display label for the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindServiceUnavailable:
		return "service unavailable"
	case KindMalformedResponse:
		return "malformed response"
	case KindValidationRejected:
		return "validation rejected"
	default:
		return "unknown"
	}
}

// KindOf classifies err against the sentinel errors.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidationRejected):
		return KindValidationRejected
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformedResponse
	case errors.Is(err, ErrServiceUnavailable):
		return KindServiceUnavailable
	default:
		return KindUnknown
	}
}

// UserMessage returns a short, non-technical line for err suitable for the
// status line of a screen.
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindNone:
		return ""
	case KindServiceUnavailable:
		return "The service could not be reached. Press enter to try again."
	case KindMalformedResponse:
		return "The service sent an unexpected answer. Press enter to try again."
	case KindValidationRejected:
		var ve *ValidationError
		if errors.As(err, &ve) {
			return ve.Message
		}
		return "Please check your input."
	default:
		return "Something went wrong. Press enter to try again."
	}
}

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError reports a single rejected input field. It matches
// ErrValidationRejected under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is reports whether target is ErrValidationRejected.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationRejected
}

// Unavailable wraps cause as a service failure for the named operation.
func Unavailable(op string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", op, ErrServiceUnavailable)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrServiceUnavailable, cause)
}

// Malformed wraps cause as a malformed-response failure for the named operation.
func Malformed(op string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", op, ErrMalformedResponse)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrMalformedResponse, cause)
}
