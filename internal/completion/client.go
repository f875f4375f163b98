// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/nexa-tui/internal/apperr"
)

// Placeholder is returned by GenerateText when the service fails.
const Placeholder = "The assistant is unavailable right now. Please try again."

// DefaultTimeout bounds a single call when no timeout is configured.
const DefaultTimeout = 60 * time.Second

// Client sends prompts to a Backend and decodes the replies.
type Client struct {
	backend Backend
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each call. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient wraps backend.
func NewClient(backend Backend, opts ...Option) *Client {
	c := &Client{
		backend: backend,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backend returns the underlying backend.
func (c *Client) Backend() Backend { return c.backend }

func (c *Client) generate(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.backend.Generate(ctx, req)
}

// GenerateJSON sends prompt with schema and decodes the reply into out.
// The reply must satisfy schema; nothing is filled in on its behalf.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, schema *Schema, out interface{}) error {
	return c.generateJSON(ctx, "generate", Request{Prompt: prompt, Schema: schema}, out)
}

func (c *Client) generateJSON(ctx context.Context, op string, req Request, out interface{}) error {
	start := time.Now()
	text, err := c.generate(ctx, req)
	if err != nil {
		c.logger.Warn("completion failed",
			zap.String("op", op),
			zap.String("backend", c.backend.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return apperr.Unavailable(op, err)
	}

	if err := decodeShaped(text, req.Schema, out); err != nil {
		c.logger.Warn("malformed completion",
			zap.String("op", op),
			zap.String("backend", c.backend.Name()),
			zap.Int("bytes", len(text)),
			zap.Error(err),
		)
		return apperr.Malformed(op, err)
	}

	c.logger.Debug("completion ok",
		zap.String("op", op),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// GenerateText sends prompt and returns the reply text, or Placeholder if
// the call fails or comes back empty.
func (c *Client) GenerateText(ctx context.Context, prompt string) string {
	return c.text(ctx, "text", Request{Prompt: prompt})
}

func (c *Client) text(ctx context.Context, op string, req Request) string {
	text, err := c.generate(ctx, req)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty reply")
	}
	if err != nil {
		c.logger.Warn("text completion failed",
			zap.String("op", op),
			zap.String("backend", c.backend.Name()),
			zap.Error(err),
		)
		return Placeholder
	}
	return strings.TrimSpace(text)
}

// decodeShaped parses text, checks it against schema and decodes it into out.
func decodeShaped(text string, schema *Schema, out interface{}) error {
	raw := []byte(stripFences(text))
	if len(bytes.TrimSpace(raw)) == 0 {
		return errors.New("empty reply")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("trailing data after JSON value")
	}

	if schema != nil {
		if err := schema.Validate(doc); err != nil {
			return err
		}
		doc = schema.normalize(doc)
	}

	// Re-encode the checked document so that enum spellings are canonical.
	canonical, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(canonical, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// stripFences removes a surrounding ``` or ```json fence if present.
func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		t = t[i+1:]
	} else {
		t = strings.TrimPrefix(t, "json")
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

// normalize rewrites enum values to their declared spelling and whole
// numbers to integer literals. v must
// already have passed Validate.
func (s *Schema) normalize(v interface{}) interface{} {
	switch s.Kind {
	case KindString:
		if str, ok := v.(string); ok && len(s.Enum) > 0 {
			return canonicalEnum(s.Enum, str)
		}
	case KindInteger:
		if f, ok := numberValue(v); ok {
			return json.Number(strconv.FormatInt(int64(f), 10))
		}
	case KindArray:
		if items, ok := v.([]interface{}); ok {
			for i := range items {
				items[i] = s.Items.normalize(items[i])
			}
		}
	case KindObject:
		if obj, ok := v.(map[string]interface{}); ok {
			for _, f := range s.Fields {
				if val, present := obj[f.Name]; present && val != nil {
					obj[f.Name] = f.Schema.normalize(val)
				}
			}
		}
	}
	return v
}
