// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// highAltitudePlaces are destinations the mock backend reports as high
// altitude.
var highAltitudePlaces = []string{
	"everest", "namche", "mustang", "manang", "langtang", "annapurna base",
	"gokyo", "dolpo", "rara", "lobuche", "kala patthar", "tilicho",
}

var itineraryPromptRE = regexp.MustCompile(`^Plan (\S+) days in (.+?) with (\S+) budget`)

// MockBackend produces deterministic replies without any network access.
// Structured replies always satisfy the requested schema.
type MockBackend struct{}

// NewMockBackend creates a MockBackend.
func NewMockBackend() *MockBackend { return &MockBackend{} }

// Name implements Backend.
func (m *MockBackend) Name() string { return "mock" }

// Generate implements Backend.
func (m *MockBackend) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if req.Schema == nil {
		return mockChat(req.Prompt), nil
	}

	var doc interface{}
	switch req.Schema {
	case ItinerarySchema:
		doc = mockItinerary(req.Prompt)
	case HotelsSchema:
		doc = mockHotels(req.Prompt)
	default:
		doc = req.Schema.Example()
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Example returns a placeholder document that satisfies s.
func (s *Schema) Example() interface{} {
	switch s.Kind {
	case KindString:
		if len(s.Enum) > 0 {
			return s.Enum[0]
		}
		if s.Description != "" {
			return s.Description
		}
		return "Sample text"
	case KindNumber:
		return 1.5
	case KindInteger:
		return 1
	case KindBoolean:
		return false
	case KindArray:
		return []interface{}{s.Items.Example()}
	case KindObject:
		obj := make(map[string]interface{}, len(s.Fields))
		for _, f := range s.Fields {
			obj[f.Name] = f.Schema.Example()
		}
		return obj
	}
	return nil
}

func mockItinerary(prompt string) map[string]interface{} {
	days, dest, budget := 3, "Kathmandu", "Standard"
	if m := itineraryPromptRE.FindStringSubmatch(prompt); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 && n <= 30 {
			days = n
		}
		dest, budget = m[2], m[3]
	}

	plan := make([]interface{}, 0, days)
	for i := 0; i < days; i++ {
		plan = append(plan, map[string]interface{}{
			"day":        i + 1,
			"desc":       fmt.Sprintf("Day %d exploring %s.", i+1, dest),
			"budgetLine": fmt.Sprintf("%s spend for day %d", budget, i+1),
		})
	}
	return map[string]interface{}{
		"title":          fmt.Sprintf("%d Days in %s", days, dest),
		"isHighAltitude": isHighAltitude(dest),
		"plan":           plan,
	}
}

func isHighAltitude(dest string) bool {
	d := strings.ToLower(dest)
	for _, place := range highAltitudePlaces {
		if strings.Contains(d, place) {
			return true
		}
	}
	return false
}

func mockHotels(prompt string) []interface{} {
	location := "Kathmandu"
	if rest, ok := strings.CutPrefix(prompt, "Find 4 top-rated hotels in "); ok {
		if i := strings.Index(rest, ", Nepal"); i > 0 {
			location = rest[:i]
		}
	}
	names := []string{"Himalayan Retreat", "Lakeside Residency", "Heritage Courtyard", "Summit View Lodge"}
	out := make([]interface{}, 0, len(names))
	for i, name := range names {
		out = append(out, map[string]interface{}{
			"name":          name,
			"location":      location,
			"pricePerNight": 4500 + 2500*i,
			"rating":        4.8 - 0.2*float64(i),
			"amenities":     []string{"Wi-Fi", "Breakfast", "Mountain View"},
			"description":   fmt.Sprintf("A calm stay in the heart of %s.", location),
		})
	}
	return out
}

func mockChat(prompt string) string {
	p := strings.TrimSpace(prompt)
	if p == "" {
		return "Namaste! How can I help?"
	}
	return fmt.Sprintf("Namaste! You asked: %q. I am running in offline mode, so this is a canned reply.", p)
}
