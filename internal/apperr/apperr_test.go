// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"unavailable", Unavailable("lesson", errors.New("dial tcp")), KindServiceUnavailable},
		{"malformed", Malformed("lesson", nil), KindMalformedResponse},
		{"validation", NewValidationError("rating", "out of range"), KindValidationRejected},
		{"wrapped validation", fmt.Errorf("append: %w", NewValidationError("comment", "empty")), KindValidationRejected},
		{"other", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage_ValidationUsesFieldMessage(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewValidationError("comment", "Comment cannot be empty"))
	if got := UserMessage(err); got != "Comment cannot be empty" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestUnavailable_KeepsCauseText(t *testing.T) {
	err := Unavailable("itinerary", errors.New("status 503"))
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatal("expected ErrServiceUnavailable")
	}
	if err.Error() != "itinerary: service unavailable: status 503" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

type statusError struct{ code int }

func (e *statusError) Error() string { return fmt.Sprintf("status %d", e.code) }

func TestWrappersKeepCauseInChain(t *testing.T) {
	noKey := errors.New("api key not set")

	tests := []struct {
		name  string
		err   error
		cause error
		kind  Kind
	}{
		{"unavailable", Unavailable("plants", noKey), noKey, KindServiceUnavailable},
		{"canceled", Unavailable("lesson", fmt.Errorf("request: %w", context.Canceled)), context.Canceled, KindServiceUnavailable},
		{"malformed", Malformed("hotels", noKey), noKey, KindMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.cause) {
				t.Errorf("cause %v missing from chain of %v", tt.cause, tt.err)
			}
			if got := KindOf(tt.err); got != tt.kind {
				t.Errorf("KindOf() = %v, want %v", got, tt.kind)
			}
		})
	}

	var se *statusError
	if !errors.As(Unavailable("chat", &statusError{code: 429}), &se) || se.code != 429 {
		t.Error("typed cause not reachable with errors.As")
	}
}
