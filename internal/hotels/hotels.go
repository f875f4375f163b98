// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package hotels finds lodging for a destination. The listing service is
// best-effort: when it is not configured, fails or returns nothing, the
// generative completion service synthesises listings instead.
package hotels

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/nexa-tui/internal/completion"
)

// Source says where a result came from.
type Source string

const (
	SourceListing   Source = "listing"
	SourceGenerated Source = "generated"
)

// Generator synthesises hotels. *completion.Client implements it.
type Generator interface {
	SearchHotels(ctx context.Context, location string) ([]completion.Hotel, error)
}

// listing is the raw record returned by the listing service.
type listing struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	Amenities   []string `json:"amenities"`
	Description string   `json:"description"`
}

func (l listing) hotel(location string) completion.Hotel {
	loc := l.Address
	if loc == "" {
		loc = l.City
	}
	if loc == "" {
		loc = location
	}
	return completion.Hotel{
		Name:          l.Name,
		Location:      loc,
		PricePerNight: l.Price,
		Rating:        l.Rating,
		Amenities:     l.Amenities,
		Description:   l.Description,
	}
}

// Finder looks up hotels.
type Finder struct {
	baseURL    string
	httpClient *http.Client
	generator  Generator
	logger     *zap.Logger
}

// NewFinder creates a Finder. baseURL may be empty, in which case every
// search goes to the generator.
func NewFinder(baseURL string, timeout time.Duration, generator Generator, logger *zap.Logger) *Finder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		generator:  generator,
		logger:     logger,
	}
}

// Search returns hotels for location and where they came from. Only a
// generator failure is returned as an error.
func (f *Finder) Search(ctx context.Context, location string) ([]completion.Hotel, Source, error) {
	if f.baseURL != "" {
		hotels, err := f.fetch(ctx, location)
		switch {
		case err != nil:
			f.logger.Info("hotel listing unavailable, generating", zap.String("location", location), zap.Error(err))
		case len(hotels) == 0:
			f.logger.Info("hotel listing empty, generating", zap.String("location", location))
		default:
			return hotels, SourceListing, nil
		}
	}

	hotels, err := f.generator.SearchHotels(ctx, location)
	if err != nil {
		return nil, SourceGenerated, err
	}
	return hotels, SourceGenerated, nil
}

func (f *Finder) fetch(ctx context.Context, location string) ([]completion.Hotel, error) {
	reqURL := f.baseURL + "/hotels?" + url.Values{"location": {location}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing service: HTTP %d", resp.StatusCode)
	}

	var raw []listing
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("listing service: %w", err)
	}

	out := make([]completion.Hotel, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l.Name) == "" {
			continue
		}
		out = append(out, l.hotel(location))
	}
	return out, nil
}
