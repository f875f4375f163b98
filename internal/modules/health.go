// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modules

import (
	"context"
	"strings"

	"github.com/jeranaias/nexa-tui/internal/apperr"
	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/util"
)

// Diagnoser analyses symptoms. *completion.Client implements it.
type Diagnoser interface {
	Diagnose(ctx context.Context, symptoms string) (*completion.Diagnosis, error)
}

// Doctor is an entry of the static specialist roster.
type Doctor struct {
	Name      string
	Specialty string
	Hospital  string
}

// Doctors is the specialist roster.
var Doctors = []Doctor{
	{Name: "Dr. Binod Poudel", Specialty: "Cardiology (High Altitude)", Hospital: "TUTH Central"},
	{Name: "Dr. Sita Gurung", Specialty: "Emergency Med", Hospital: "Himalayan Rescue"},
	{Name: "Dr. Amit Shah", Specialty: "Internal Diagnostics", Hospital: "Medicity"},
}

var (
	highAltitudeTips = []string{
		"Acclimatize: Diamox 250mg twice daily.",
		"Hydration: 5L water intake target.",
		"Oxygen saturation check every morning.",
	}
	lowlandTips = []string{
		"SPF 50+ application is mandatory.",
		"Potable water sterilization required.",
		"Anti-histamine pack for lowlands.",
	}
)

// TravelTips returns the health advice for a booking, nil when no trip is
// booked. Anything below a high altitude booking gets the lowland advice.
func TravelTips(b *router.Booking) []string {
	if b == nil {
		return nil
	}
	if b.Altitude == router.AltitudeHigh {
		return append([]string(nil), highAltitudeTips...)
	}
	return append([]string(nil), lowlandTips...)
}

// MaxSymptomsLength bounds the symptom description, in runes.
const MaxSymptomsLength = 1000

// Health is the state of the health screen.
type Health struct {
	Symptoms  string
	Diagnosis Slot[*completion.Diagnosis]

	diagnoser Diagnoser
}

// NewHealth creates the health state.
func NewHealth(d Diagnoser) *Health {
	return &Health{diagnoser: d}
}

// Submit validates the symptoms and issues an analysis request.
func (h *Health) Submit() (Pending[*completion.Diagnosis], error) {
	symptoms := strings.TrimSpace(h.Symptoms)
	if symptoms == "" {
		return Pending[*completion.Diagnosis]{}, apperr.NewValidationError("symptoms", "Describe your symptoms")
	}
	if util.RuneLen(symptoms) > MaxSymptomsLength {
		return Pending[*completion.Diagnosis]{}, apperr.NewValidationError("symptoms", "Description is too long")
	}
	return h.Diagnosis.Issue(func(ctx context.Context) (*completion.Diagnosis, error) {
		return h.diagnoser.Diagnose(ctx, symptoms)
	}), nil
}

// Leave discards requests in flight.
func (h *Health) Leave() { h.Diagnosis.Invalidate() }
