// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modules

import (
	"context"
	"strings"

	"github.com/jeranaias/nexa-tui/internal/apperr"
	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/plants"
)

// Collaborators of the agriculture screen.
type (
	// AgroAnalyzer is implemented by *completion.Client.
	AgroAnalyzer interface {
		AnalyzeAgro(ctx context.Context, location, crop string) (*completion.AgroReport, error)
	}

	// PlantLookup is implemented by *plants.Client.
	PlantLookup interface {
		Configured() bool
		Overview(ctx context.Context) (*plants.Overview, error)
	}
)

// Seed is an entry of the seed vault.
type Seed struct {
	Name   string
	Crop   string
	Region string
	Yield  string
}

// SeedVault is the certified seed catalogue.
var SeedVault = []Seed{
	{Name: "Khumal-Rice 4", Crop: "Rice", Region: "Hills/Mountain", Yield: "5.5 t/ha"},
	{Name: "Janaki Wheat", Crop: "Wheat", Region: "Terai", Yield: "4.2 t/ha"},
	{Name: "Manakamana-3", Crop: "Maize", Region: "Hills", Yield: "6.0 t/ha"},
	{Name: "Rampura Hybrid", Crop: "Maize", Region: "Terai", Yield: "7.5 t/ha"},
}

// Trend is the direction of a market price.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// MarketPrice is a wholesale price per kilogram.
type MarketPrice struct {
	Item  string
	Price float64
	Trend Trend
}

// Market is the static market board.
var Market = []MarketPrice{
	{Item: "Potato (Red)", Price: 45, Trend: TrendDown},
	{Item: "Tomato (Local)", Price: 85, Trend: TrendUp},
	{Item: "Onion", Price: 110, Trend: TrendStable},
}

// AgroForm is the crop analysis request entered by the user.
type AgroForm struct {
	Location string
	Crop     string
}

// Validate checks the form.
func (f AgroForm) Validate() error {
	if strings.TrimSpace(f.Location) == "" {
		return apperr.NewValidationError("location", "Enter a location")
	}
	if strings.TrimSpace(f.Crop) == "" {
		return apperr.NewValidationError("crop", "Enter a crop")
	}
	return nil
}

// Agriculture is the state of the agriculture screen.
type Agriculture struct {
	Form   AgroForm
	Report Slot[*completion.AgroReport]
	Plants Slot[*plants.Overview]

	analyzer AgroAnalyzer
	lookup   PlantLookup
}

// NewAgriculture creates the agriculture state. lookup may be nil.
func NewAgriculture(analyzer AgroAnalyzer, lookup PlantLookup) *Agriculture {
	return &Agriculture{analyzer: analyzer, lookup: lookup}
}

// Submit validates the form and issues an analysis request.
func (a *Agriculture) Submit() (Pending[*completion.AgroReport], error) {
	if err := a.Form.Validate(); err != nil {
		return Pending[*completion.AgroReport]{}, err
	}
	location := strings.TrimSpace(a.Form.Location)
	crop := strings.TrimSpace(a.Form.Crop)
	return a.Report.Issue(func(ctx context.Context) (*completion.AgroReport, error) {
		return a.analyzer.AnalyzeAgro(ctx, location, crop)
	}), nil
}

// PlantsAvailable reports whether the plant panels can be loaded.
func (a *Agriculture) PlantsAvailable() bool {
	return a.lookup != nil && a.lookup.Configured()
}

// RefreshPlants issues a request for the species and pest panels. ok is
// false when no plant lookup is configured.
func (a *Agriculture) RefreshPlants() (p Pending[*plants.Overview], ok bool) {
	if !a.PlantsAvailable() {
		return p, false
	}
	return a.Plants.Issue(a.lookup.Overview), true
}

// Leave discards requests in flight.
func (a *Agriculture) Leave() {
	a.Report.Invalidate()
	a.Plants.Invalidate()
}
