// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-3-flash-preview"

// GeminiBackend generates content with the Gemini API.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend creates a Gemini backend. baseURL is optional and is
// mostly useful for pointing at a proxy.
func NewGeminiBackend(ctx context.Context, apiKey, model, baseURL string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w: set GEMINI_API_KEY or completion.api_key", ErrNotConfigured)
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiBackend{client: client, model: model}, nil
}

// Name implements Backend.
func (b *GeminiBackend) Name() string { return "gemini:" + b.model }

// Generate implements Backend.
func (b *GeminiBackend) Generate(ctx context.Context, req Request) (string, error) {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		role := genai.Role(genai.RoleUser)
		if turn.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(req.Prompt, genai.RoleUser))

	var gc *genai.GenerateContentConfig
	if req.Schema != nil || req.System != "" {
		gc = &genai.GenerateContentConfig{}
		if req.Schema != nil {
			gc.ResponseMIMEType = "application/json"
			gc.ResponseSchema = req.Schema.Genai()
		}
		if req.System != "" {
			gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
		}
	}

	res, err := b.client.Models.GenerateContent(ctx, b.model, contents, gc)
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}
