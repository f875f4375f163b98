// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package plants

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/jeranaias/nexa-tui/internal/apperr"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrNoAPIKey is returned when the client has no API key.
var ErrNoAPIKey = errors.New("plant lookup API key not set")

// StatusError is a non-success HTTP status from the service.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("plant lookup: HTTP %d", e.Status)
	}
	return fmt.Sprintf("plant lookup: HTTP %d: %s", e.Status, e.Body)
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultBaseURL is the Perenual API root.
const DefaultBaseURL = "https://perenual.com/api"

// maxBodySize limits the size of a decoded page.
const maxBodySize = 4 * 1024 * 1024

// ClientConfig holds configuration options for the plant lookup client.
type ClientConfig struct {
	BaseURL string
	APIKey  string

	// RequestsPerSec paces outgoing requests (default: 2).
	RequestsPerSec float64

	// Timeout for a single request (default: 15s)
	Timeout time.Duration

	Logger *zap.Logger
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:        DefaultBaseURL,
		RequestsPerSec: 2,
		Timeout:        15 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the plant lookup service. It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a client, filling zero values from DefaultConfig.
func NewClient(config *ClientConfig) *Client {
	def := DefaultConfig()
	if config == nil {
		config = def
	}
	if config.BaseURL == "" {
		config.BaseURL = def.BaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.RequestsPerSec <= 0 {
		config.RequestsPerSec = def.RequestsPerSec
	}
	if config.Timeout == 0 {
		config.Timeout = def.Timeout
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSec), 1),
		logger:     logger,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c.config.APIKey != "" }

// Species returns one page of the species list. Pages start at 1.
func (c *Client) Species(ctx context.Context, page int) (*Page[Species], error) {
	var out Page[Species]
	if err := c.get(ctx, "/species-list", pageQuery(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SpeciesDetails returns the details record for id.
func (c *Client) SpeciesDetails(ctx context.Context, id int) (*SpeciesDetails, error) {
	var out SpeciesDetails
	if err := c.get(ctx, "/species/details/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Pests returns one page of the pest and disease list.
func (c *Client) Pests(ctx context.Context, page int) (*Page[Pest], error) {
	var out Page[Pest]
	if err := c.get(ctx, "/pest-disease-list", pageQuery(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Overview fetches the first species and pest pages concurrently. Either
// failure fails the whole call.
func (c *Client) Overview(ctx context.Context) (*Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := c.Species(gctx, 1)
		out.Species = page
		return err
	})
	g.Go(func() error {
		page, err := c.Pests(gctx, 1)
		out.Pests = page
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	op := "plants" + path
	if !c.Configured() {
		return apperr.Unavailable(op, ErrNoAPIKey)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return apperr.Unavailable(op, err)
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("key", c.config.APIKey)
	reqURL := c.config.BaseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("plant lookup failed", zap.String("path", path), zap.Error(redact(err)))
		return apperr.Unavailable(op, redact(err))
	}
	defer drainAndClose(resp.Body)

	c.logger.Debug("plant lookup",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperr.Unavailable(op, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))})
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		return apperr.Malformed(op, err)
	}
	return nil
}

// redact strips the query string (and with it the API key) from URL errors.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		if u, perr := url.Parse(uerr.URL); perr == nil {
			u.RawQuery = ""
			return &url.Error{Op: uerr.Op, URL: u.String(), Err: uerr.Err}
		}
	}
	return err
}

func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, r)
	r.Close()
}
