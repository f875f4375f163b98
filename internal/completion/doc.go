// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package completion talks to the generative completion service.
//
// Every screen describes the JSON shape it wants as a Schema, sends one
// prompt and receives a typed record back. The response is checked against
// the schema before it is decoded: missing required fields or wrong kinds
// are reported as apperr.ErrMalformedResponse rather than papered over with
// defaults. Transport failures and non-success statuses are
// apperr.ErrServiceUnavailable. The client never retries; the user retries
// from the screen.
//
// # Backends
//
//   - GeminiBackend: Google Gemini through google.golang.org/genai
//   - OpenRouterBackend: OpenRouter chat completions with json_schema output
//   - MockBackend: offline, synthesises documents that satisfy the schema
//
// # Usage
//
//	backend, err := completion.NewBackend(ctx, cfg.Completion)
//	client := completion.NewClient(backend, completion.WithLogger(logger))
//	lesson, err := client.Lesson(ctx, 10, "Science", "Photosynthesis")
package completion
