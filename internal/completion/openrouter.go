// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the OpenRouter API.
const (
	// DefaultOpenRouterURL is the base URL for the OpenRouter API.
	DefaultOpenRouterURL = "https://openrouter.ai/api/v1"

	// DefaultOpenRouterModel is used when no model is configured.
	DefaultOpenRouterModel = "google/gemini-2.5-flash"

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024
)

var (
	// ErrAuthFailed indicates the API key was rejected.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates the rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the requested model does not exist.
	ErrModelNotFound = errors.New("model not found")

	// ErrInsufficientCredits indicates the account has run out of credits.
	ErrInsufficientCredits = errors.New("insufficient credits")
)

// OpenRouterError represents an error from the OpenRouter API.
type OpenRouterError struct {
	Code    string
	Message string
	Status  int
}

// Error implements the error interface.
func (e *OpenRouterError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("OpenRouter error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("OpenRouter error (HTTP %d): %s", e.Status, e.Message)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchemaFormat struct {
	Name   string                 `json:"name"`
	Strict bool                   `json:"strict"`
	Schema map[string]interface{} `json:"schema"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Stream         bool            `json:"stream"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

func (r *chatResponse) content() (string, bool) {
	if len(r.Choices) == 0 {
		return "", false
	}
	return r.Choices[0].Message.Content, true
}

type apiErrorResponse struct {
	Error struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
	} `json:"error"`
}

// OpenRouterBackend sends chat completions to OpenRouter.
type OpenRouterBackend struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	siteURL    string
	siteName   string
}

// OpenRouterOption configures an OpenRouterBackend.
type OpenRouterOption func(*OpenRouterBackend)

// WithOpenRouterModel sets the model id. Empty keeps the default.
func WithOpenRouterModel(model string) OpenRouterOption {
	return func(b *OpenRouterBackend) {
		if model != "" {
			b.model = model
		}
	}
}

// WithOpenRouterBaseURL overrides the API base URL. Empty keeps the default.
func WithOpenRouterBaseURL(url string) OpenRouterOption {
	return func(b *OpenRouterBackend) {
		if url != "" {
			b.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) OpenRouterOption {
	return func(b *OpenRouterBackend) { b.httpClient = c }
}

// NewOpenRouterBackend creates an OpenRouter backend.
func NewOpenRouterBackend(apiKey string, opts ...OpenRouterOption) (*OpenRouterBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter: %w: set OPENROUTER_API_KEY or completion.openrouter_key", ErrNotConfigured)
	}
	b := &OpenRouterBackend{
		apiKey:     apiKey,
		baseURL:    DefaultOpenRouterURL,
		model:      DefaultOpenRouterModel,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		siteURL:    "https://github.com/jeranaias/nexa-tui",
		siteName:   "NEXA",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Name implements Backend.
func (b *OpenRouterBackend) Name() string { return "openrouter:" + b.model }

// Generate implements Backend.
func (b *OpenRouterBackend) Generate(ctx context.Context, req Request) (string, error) {
	body := chatRequest{Model: b.model}
	if req.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.System})
	}
	for _, turn := range req.History {
		role := "user"
		if turn.Role == RoleModel {
			role = "assistant"
		}
		body.Messages = append(body.Messages, chatMessage{Role: role, Content: turn.Text})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.Prompt})

	if req.Schema != nil {
		body.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaFormat{
				Name:   "response",
				Strict: true,
				Schema: req.Schema.JSONSchema(),
			},
		}
	}

	resp, err := b.doRequest(ctx, b.baseURL+"/chat/completions", body)
	if err != nil {
		return "", err
	}
	text, ok := resp.content()
	if !ok {
		return "", errors.New("openrouter: response has no choices")
	}
	return text, nil
}

func (b *OpenRouterBackend) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "nexa/1.0")

	if b.siteURL != "" {
		req.Header.Set("HTTP-Referer", b.siteURL)
	}
	if b.siteName != "" {
		req.Header.Set("X-Title", b.siteName)
	}
}

// readResponse reads the body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

func (b *OpenRouterBackend) doRequest(ctx context.Context, requestURL string, reqBody chatRequest) (*chatResponse, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	b.setHeaders(req)

	resp, err := b.httpClient.Do(req)
	req.Header.Del("Authorization")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, handleErrorResponse(resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &chatResp, nil
}

// handleErrorResponse converts HTTP error responses to Go errors.
func handleErrorResponse(statusCode int, body []byte) error {
	orErr := &OpenRouterError{Message: strings.TrimSpace(string(body)), Status: statusCode}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		orErr.Message = apiErr.Error.Message
		orErr.Code = strings.Trim(string(apiErr.Error.Code), `"`)
	}

	var sentinel error
	switch statusCode {
	case http.StatusUnauthorized:
		sentinel = ErrAuthFailed
	case http.StatusPaymentRequired:
		sentinel = ErrInsufficientCredits
	case http.StatusNotFound:
		sentinel = ErrModelNotFound
	case http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	default:
		return orErr
	}
	return fmt.Errorf("%w: %w", sentinel, orErr)
}
