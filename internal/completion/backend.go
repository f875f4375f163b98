// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeranaias/nexa-tui/internal/config"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one earlier message in a conversation.
type Turn struct {
	Role Role
	Text string
}

// Request is a single generation call.
type Request struct {
	// System is an optional instruction placed ahead of the conversation.
	System string

	// History holds earlier turns, oldest first. Prompt is appended after it.
	History []Turn

	Prompt string

	// Schema, when set, asks for a JSON document of that shape.
	Schema *Schema
}

// Backend produces raw text for a request.
type Backend interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, req Request) (string, error)

// Name implements Backend.
func (f BackendFunc) Name() string { return "func" }

// Generate implements Backend.
func (f BackendFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// ErrNotConfigured is returned when a backend is selected without credentials.
var ErrNotConfigured = errors.New("completion backend not configured")

// NewBackend builds the backend selected by cfg.Provider.
func NewBackend(ctx context.Context, cfg config.CompletionConfig) (Backend, error) {
	switch cfg.Provider {
	case config.ProviderGemini, "":
		return NewGeminiBackend(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
	case config.ProviderOpenRouter:
		return NewOpenRouterBackend(cfg.OpenRouterKey,
			WithOpenRouterModel(cfg.OpenRouterModel),
			WithOpenRouterBaseURL(cfg.BaseURL),
		)
	case config.ProviderMock:
		return NewMockBackend(), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}
