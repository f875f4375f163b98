// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package plants

// Image is a set of renditions of one picture.
type Image struct {
	License      int    `json:"license,omitempty"`
	OriginalURL  string `json:"original_url,omitempty"`
	RegularURL   string `json:"regular_url,omitempty"`
	MediumURL    string `json:"medium_url,omitempty"`
	SmallURL     string `json:"small_url,omitempty"`
	ThumbnailURL string `json:"thumbnail,omitempty"`
}

// Species is one record of the species list.
type Species struct {
	ID             int      `json:"id"`
	CommonName     string   `json:"common_name"`
	ScientificName []string `json:"scientific_name"`
	Cycle          string   `json:"cycle"`
	Watering       string   `json:"watering"`
	Sunlight       []string `json:"sunlight"`
	DefaultImage   *Image   `json:"default_image"`
}

// PrimaryScientificName returns the first scientific name or "".
func (s Species) PrimaryScientificName() string {
	if len(s.ScientificName) == 0 {
		return ""
	}
	return s.ScientificName[0]
}

// SpeciesDetails is the follow-up record for one species id.
type SpeciesDetails struct {
	Species
	Family      string   `json:"family"`
	Origin      []string `json:"origin"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	CareLevel   string   `json:"care_level"`
	Indoor      bool     `json:"indoor"`
	Edible      bool     `json:"edible_fruit"`
}

// Section is one titled paragraph of a pest description.
type Section struct {
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
}

// Pest is one record of the pest and disease list.
type Pest struct {
	ID             int       `json:"id"`
	CommonName     string    `json:"common_name"`
	ScientificName string    `json:"scientific_name"`
	Family         string    `json:"family"`
	Description    []Section `json:"description"`
	Images         []Image   `json:"images"`
}

// Summary returns the first non-empty description paragraph.
func (p Pest) Summary() string {
	for _, s := range p.Description {
		if s.Description != "" {
			return s.Description
		}
	}
	return ""
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Data        []T `json:"data"`
	To          int `json:"to"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
}

// HasNext reports whether another page follows.
func (p *Page[T]) HasNext() bool { return p.CurrentPage < p.LastPage }

// Overview combines the panels shown on the agriculture screen.
type Overview struct {
	Species *Page[Species]
	Pests   *Page[Pest]
}
