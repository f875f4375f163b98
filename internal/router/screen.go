// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// SCREEN TYPE
// ============================================================================

// Screen identifies one top-level view.
type Screen int

const (
	// ScreenLanding is the public entry page.
	ScreenLanding Screen = iota
	// ScreenAbout is the public about page.
	ScreenAbout
	// ScreenContact is the public contact form.
	ScreenContact
	// ScreenDashboard is the signed-in home.
	ScreenDashboard
	// ScreenEducation is the NEB lesson helper.
	ScreenEducation
	// ScreenTravel is the itinerary planner, hotels and vehicle fleet.
	ScreenTravel
	// ScreenChat is the free-form assistant.
	ScreenChat
	// ScreenHealth is the symptom checker.
	ScreenHealth
	// ScreenAgriculture is the crop and location analysis.
	ScreenAgriculture

	screenCount
)

var screenTags = [...]string{
	ScreenLanding:     "LANDING",
	ScreenAbout:       "ABOUT",
	ScreenContact:     "CONTACT",
	ScreenDashboard:   "DASHBOARD",
	ScreenEducation:   "EDU_SYNC",
	ScreenTravel:      "TRAVEL_OTA",
	ScreenChat:        "AI_CHAT",
	ScreenHealth:      "HEALTH_HUB",
	ScreenAgriculture: "AGRI_CLIMATE",
}

var screenTitles = [...]string{
	ScreenLanding:     "Home",
	ScreenAbout:       "About",
	ScreenContact:     "Contact",
	ScreenDashboard:   "Dashboard",
	ScreenEducation:   "Education",
	ScreenTravel:      "Travel",
	ScreenChat:        "Assistant",
	ScreenHealth:      "Health",
	ScreenAgriculture: "Agriculture",
}

// ErrUnknownScreen is returned by ParseScreen.
var ErrUnknownScreen = errors.New("unknown screen")

// String returns the screen tag, e.g. "TRAVEL_OTA".
func (s Screen) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Screen(%d)", int(s))
	}
	return screenTags[s]
}

// Title returns the human-readable name used in menus.
func (s Screen) Title() string {
	if !s.Valid() {
		return s.String()
	}
	return screenTitles[s]
}

// Valid reports whether s is one of the defined screens.
func (s Screen) Valid() bool {
	return s >= ScreenLanding && s < screenCount
}

// IsPublic reports whether s can be shown without signing in.
func (s Screen) IsPublic() bool {
	return s == ScreenLanding || s == ScreenAbout || s == ScreenContact
}

// IsProtected reports whether s requires an authenticated session.
// Unknown values count as protected.
func (s Screen) IsProtected() bool {
	return !s.IsPublic()
}

// MarshalText encodes the screen as its tag.
func (s Screen) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownScreen, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a screen tag.
func (s *Screen) UnmarshalText(b []byte) error {
	parsed, err := ParseScreen(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseScreen accepts a tag ("TRAVEL_OTA", case-insensitive, "." or "-" in
// place of "_") or a title ("travel").
func ParseScreen(s string) (Screen, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(".", "_", "-", "_", " ", "_").Replace(norm)
	for i := ScreenLanding; i < screenCount; i++ {
		if screenTags[i] == norm || strings.ToUpper(screenTitles[i]) == norm {
			return i, nil
		}
	}
	return ScreenLanding, fmt.Errorf("%w: %q", ErrUnknownScreen, s)
}

// AllScreens returns every screen in declaration order.
func AllScreens() []Screen {
	out := make([]Screen, 0, screenCount)
	for i := ScreenLanding; i < screenCount; i++ {
		out = append(out, i)
	}
	return out
}

// ModuleScreens returns the protected screens reachable from the sidebar,
// in menu order.
func ModuleScreens() []Screen {
	return []Screen{
		ScreenDashboard,
		ScreenEducation,
		ScreenTravel,
		ScreenHealth,
		ScreenAgriculture,
		ScreenChat,
	}
}

// ============================================================================
// BOOKING
// ============================================================================

// AltitudeBand classifies a destination's elevation.
type AltitudeBand int

const (
	AltitudeLow AltitudeBand = iota
	AltitudeMid
	AltitudeHigh
)

// String returns "Low", "Mid" or "High".
func (a AltitudeBand) String() string {
	switch a {
	case AltitudeLow:
		return "Low"
	case AltitudeMid:
		return "Mid"
	case AltitudeHigh:
		return "High"
	default:
		return fmt.Sprintf("AltitudeBand(%d)", int(a))
	}
}

// MarshalText encodes the band as its name.
func (a AltitudeBand) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes "Low", "Mid" or "High".
func (a *AltitudeBand) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "low":
		*a = AltitudeLow
	case "mid":
		*a = AltitudeMid
	case "high":
		*a = AltitudeHigh
	default:
		return fmt.Errorf("unknown altitude band %q", string(b))
	}
	return nil
}

// Booking is the trip produced by the last successful itinerary.
type Booking struct {
	Destination  string       `json:"destination"`
	DurationDays string       `json:"duration"`
	Altitude     AltitudeBand `json:"altitude"`
}

// Session describes the signed-in user.
type Session struct {
	Authenticated bool   `json:"authenticated"`
	DisplayName   string `json:"displayName"`
	StatusLabel   string `json:"statusLabel"`
}

// Status labels.
const (
	StatusOffline = "Offline"
	StatusOnline  = "Online"
)
