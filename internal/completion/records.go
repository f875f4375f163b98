// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"fmt"
	"strings"
)

// =============================================================================
// EDUCATION
// =============================================================================

// Lesson is a short NEB-aligned explanation of a topic.
type Lesson struct {
	Concept     string   `json:"concept"`
	Explanation string   `json:"explanation"`
	Analogy     string   `json:"analogy"`
	QuickQuiz   []string `json:"quickQuiz"`
}

// LessonSchema is the shape requested for a Lesson.
var LessonSchema = Object(
	Required("concept", String()),
	Required("explanation", String()),
	Required("analogy", String()),
	Required("quickQuiz", ArrayOf(String())),
)

// LessonPrompt builds the lesson prompt.
func LessonPrompt(grade int, subject, topic string) string {
	return fmt.Sprintf("Explain %q for Grade %d %s in Nepal's NEB context.", topic, grade, subject)
}

// Lesson asks for an explanation of topic.
func (c *Client) Lesson(ctx context.Context, grade int, subject, topic string) (*Lesson, error) {
	var out Lesson
	req := Request{Prompt: LessonPrompt(grade, subject, topic), Schema: LessonSchema}
	if err := c.generateJSON(ctx, "lesson", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// HEALTH
// =============================================================================

// Urgency levels for a Diagnosis.
const (
	UrgencyRoutine   = "Routine"
	UrgencyUrgent    = "Urgent"
	UrgencyEmergency = "Emergency"
)

// Diagnosis is a preliminary symptom analysis.
type Diagnosis struct {
	Diagnosis  string   `json:"diagnosis"`
	Specialist string   `json:"specialist"`
	Hospitals  []string `json:"hospitals"`
	Urgency    string   `json:"urgency"`
}

// DiagnosisSchema is the shape requested for a Diagnosis.
var DiagnosisSchema = Object(
	Required("diagnosis", String()),
	Required("specialist", String()),
	Required("hospitals", ArrayOf(String())),
	Required("urgency", Enum(UrgencyRoutine, UrgencyUrgent, UrgencyEmergency)),
)

// DiagnosisPrompt builds the symptom analysis prompt.
func DiagnosisPrompt(symptoms string) string {
	return fmt.Sprintf("Symptom analysis: %q. Provide a professional diagnosis (with disclaimer), "+
		"recommended specialist type, and list 3 major hospitals in Nepal.", symptoms)
}

// Diagnose analyses a free-text symptom description.
func (c *Client) Diagnose(ctx context.Context, symptoms string) (*Diagnosis, error) {
	var out Diagnosis
	req := Request{Prompt: DiagnosisPrompt(symptoms), Schema: DiagnosisSchema}
	if err := c.generateJSON(ctx, "diagnose", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// TRAVEL
// =============================================================================

// DayPlan is one day of an itinerary.
type DayPlan struct {
	Day        int    `json:"day"`
	Desc       string `json:"desc"`
	BudgetLine string `json:"budgetLine"`
}

// Itinerary is a multi-day travel plan.
type Itinerary struct {
	Title          string    `json:"title"`
	IsHighAltitude bool      `json:"isHighAltitude"`
	Plan           []DayPlan `json:"plan"`
}

// ItinerarySchema is the shape requested for an Itinerary.
var ItinerarySchema = Object(
	Required("title", String()),
	Required("isHighAltitude", Boolean()),
	Required("plan", ArrayOf(Object(
		Required("day", Integer()),
		Required("desc", String()),
		Required("budgetLine", String()),
	))),
)

// ItineraryPrompt builds the itinerary prompt. days is passed through as
// entered.
func ItineraryPrompt(destination, budget, days string) string {
	return fmt.Sprintf("Plan %s days in %s with %s budget. Indicate if it is high altitude.",
		strings.TrimSpace(days), destination, budget)
}

// PlanItinerary asks for a plan of the given length and budget.
func (c *Client) PlanItinerary(ctx context.Context, destination, budget, days string) (*Itinerary, error) {
	var out Itinerary
	req := Request{Prompt: ItineraryPrompt(destination, budget, days), Schema: ItinerarySchema}
	if err := c.generateJSON(ctx, "itinerary", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Hotel is one synthesised lodging listing.
type Hotel struct {
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	PricePerNight float64  `json:"pricePerNight"`
	Rating        float64  `json:"rating"`
	Amenities     []string `json:"amenities"`
	Description   string   `json:"description"`
}

// HotelsSchema is the shape requested for SearchHotels.
var HotelsSchema = ArrayOf(Object(
	Required("name", String()),
	Required("location", String()),
	Required("pricePerNight", Number()),
	Required("rating", Number()),
	Required("amenities", ArrayOf(String())),
	Required("description", String()),
))

// HotelsPrompt builds the hotel search prompt.
func HotelsPrompt(location string) string {
	return fmt.Sprintf("Find 4 top-rated hotels in %s, Nepal. Include pricing in NPR, key amenities, "+
		"and a short luxury description.", location)
}

// SearchHotels asks for lodging listings in location.
func (c *Client) SearchHotels(ctx context.Context, location string) ([]Hotel, error) {
	var out []Hotel
	req := Request{Prompt: HotelsPrompt(location), Schema: HotelsSchema}
	if err := c.generateJSON(ctx, "hotels", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// =============================================================================
// AGRICULTURE
// =============================================================================

// AgroReport is a crop suitability analysis for a location.
type AgroReport struct {
	Suitability string `json:"suitability"`
	SoilTips    string `json:"soilTips"`
	BestVariety string `json:"bestVariety"`
	ClimateRisk string `json:"climateRisk"`
}

// AgroSchema is the shape requested for an AgroReport.
var AgroSchema = Object(
	Required("suitability", String()),
	Required("soilTips", String()),
	Required("bestVariety", String()),
	Required("climateRisk", String()),
)

// AgroPrompt builds the crop analysis prompt.
func AgroPrompt(location, crop string) string {
	return fmt.Sprintf("Analyze %s for %s in Nepal. Include soil tips and suitability.", location, crop)
}

// AnalyzeAgro asks how well crop suits location.
func (c *Client) AnalyzeAgro(ctx context.Context, location, crop string) (*AgroReport, error) {
	var out AgroReport
	req := Request{Prompt: AgroPrompt(location, crop), Schema: AgroSchema}
	if err := c.generateJSON(ctx, "agro", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// CHAT
// =============================================================================

// ChatSystemPrompt frames the assistant.
const ChatSystemPrompt = "You are NEXA, a helpful assistant for people living in and visiting Nepal. " +
	"Answer concisely. Use Markdown where it helps."

// Chat continues a conversation. It never fails; see GenerateText.
func (c *Client) Chat(ctx context.Context, history []Turn, message string) string {
	return c.text(ctx, "chat", Request{
		System:  ChatSystemPrompt,
		History: history,
		Prompt:  message,
	})
}
