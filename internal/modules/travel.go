// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modules

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jeranaias/nexa-tui/internal/apperr"
	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/hotels"
	"github.com/jeranaias/nexa-tui/internal/reviews"
	"github.com/jeranaias/nexa-tui/internal/router"
)

// TravelTab is a sub-view of the travel screen.
type TravelTab int

const (
	TabPlan TravelTab = iota
	TabHotels
	TabCars
)

// TravelTabs lists the tabs in display order.
var TravelTabs = []TravelTab{TabPlan, TabHotels, TabCars}

func (t TravelTab) String() string {
	switch t {
	case TabPlan:
		return "Plan"
	case TabHotels:
		return "Hotels"
	case TabCars:
		return "Cars"
	default:
		return fmt.Sprintf("TravelTab(%d)", int(t))
	}
}

// Budgets offered by the planner.
var Budgets = []string{"Affordable", "Standard", "Premium"}

// MaxTripDays bounds the length of a planned trip.
const MaxTripDays = 30

// Vehicle is a rental in the static fleet.
type Vehicle struct {
	ID          string
	Name        string
	Type        string
	PricePerDay float64
	Specs       string
}

// Fleet is the rental catalogue shown on the cars tab.
var Fleet = []Vehicle{
	{ID: "1", Name: "Scorpio 4x4", Type: "SUV", PricePerDay: 9500, Specs: "7 Seater, Diesel"},
	{ID: "2", Name: "Himalayan Bike", Type: "Bike", PricePerDay: 3500, Specs: "Off-road Adventure"},
	{ID: "3", Name: "Toyota Hilux", Type: "SUV", PricePerDay: 12000, Specs: "Heavy Duty Truck"},
	{ID: "7", Name: "Electric Car", Type: "EV", PricePerDay: 15000, Specs: "Long Range EV"},
}

// Collaborators of the travel screen.
type (
	// ItineraryPlanner is implemented by *completion.Client.
	ItineraryPlanner interface {
		PlanItinerary(ctx context.Context, destination, budget, days string) (*completion.Itinerary, error)
	}

	// HotelSearcher is implemented by *hotels.Finder.
	HotelSearcher interface {
		Search(ctx context.Context, location string) ([]completion.Hotel, hotels.Source, error)
	}

	// ReviewBook is implemented by *reviews.Store.
	ReviewBook interface {
		Append(ctx context.Context, subjectID string, d reviews.Draft) (reviews.Review, error)
		Reviews(subjectID string) []reviews.Review
		Average(subjectID string) (float64, bool)
	}

	// BookingSink receives the trip of a successful plan. *router.Router
	// implements it.
	BookingSink interface {
		SetActiveBooking(b router.Booking)
	}
)

// TravelForm is the itinerary request entered by the user.
type TravelForm struct {
	Destination string
	Days        string
	Budget      string
}

// DefaultTravelForm returns a three day standard trip with no destination.
func DefaultTravelForm() TravelForm {
	return TravelForm{Days: "3", Budget: "Standard"}
}

// Validate checks the form.
func (f TravelForm) Validate() error {
	if strings.TrimSpace(f.Destination) == "" {
		return apperr.NewValidationError("destination", "Enter a destination")
	}
	n, err := strconv.Atoi(strings.TrimSpace(f.Days))
	if err != nil || n < 1 || n > MaxTripDays {
		return apperr.NewValidationError("days", fmt.Sprintf("Days must be between 1 and %d", MaxTripDays))
	}
	if !slices.Contains(Budgets, f.Budget) {
		return apperr.NewValidationError("budget", "Choose a budget")
	}
	return nil
}

// Trip is a completed plan together with the inputs that produced it.
type Trip struct {
	Destination string
	Days        string
	Itinerary   *completion.Itinerary
}

// Booking derives the active booking for t.
func (t *Trip) Booking() router.Booking {
	band := router.AltitudeMid
	if t.Itinerary.IsHighAltitude {
		band = router.AltitudeHigh
	}
	return router.Booking{Destination: t.Destination, DurationDays: t.Days, Altitude: band}
}

// HotelListing is a hotel with its review subject id.
type HotelListing struct {
	ID string
	completion.Hotel
}

// HotelResults is the outcome of a hotel search.
type HotelResults struct {
	Location string
	Source   hotels.Source
	Hotels   []HotelListing
}

// HotelID returns the review subject id of the i-th hotel found for location.
func HotelID(location string, i int) string {
	return fmt.Sprintf("hotel-%s-%d", strings.ToLower(strings.TrimSpace(location)), i)
}

// Travel is the state of the travel screen.
type Travel struct {
	Tab    TravelTab
	Form   TravelForm
	Plan   Slot[*Trip]
	Hotels Slot[*HotelResults]

	planner  ItineraryPlanner
	searcher HotelSearcher
	reviews  ReviewBook
	sink     BookingSink
}

// NewTravel creates the travel state.
func NewTravel(planner ItineraryPlanner, searcher HotelSearcher, book ReviewBook, sink BookingSink) *Travel {
	return &Travel{
		Form:     DefaultTravelForm(),
		planner:  planner,
		searcher: searcher,
		reviews:  book,
		sink:     sink,
	}
}

// SubmitPlan validates the form and issues an itinerary request.
func (t *Travel) SubmitPlan() (Pending[*Trip], error) {
	if err := t.Form.Validate(); err != nil {
		return Pending[*Trip]{}, err
	}
	dest := strings.TrimSpace(t.Form.Destination)
	days := strings.TrimSpace(t.Form.Days)
	budget := t.Form.Budget
	return t.Plan.Issue(func(ctx context.Context) (*Trip, error) {
		it, err := t.planner.PlanItinerary(ctx, dest, budget, days)
		if err != nil {
			return nil, err
		}
		return &Trip{Destination: dest, Days: days, Itinerary: it}, nil
	}), nil
}

// ApplyPlan records a plan response. A current, successful plan replaces
// the active booking. It reports whether the response was current.
func (t *Travel) ApplyPlan(r Response[*Trip]) bool {
	if !t.Plan.Apply(r) {
		return false
	}
	if r.Err == nil && r.Value != nil && t.sink != nil {
		t.sink.SetActiveBooking(r.Value.Booking())
	}
	return true
}

// SearchHotels issues a hotel search for location, or for the form's
// destination when location is blank.
func (t *Travel) SearchHotels(location string) (Pending[*HotelResults], error) {
	location = strings.TrimSpace(location)
	if location == "" {
		location = strings.TrimSpace(t.Form.Destination)
	}
	if location == "" {
		return Pending[*HotelResults]{}, apperr.NewValidationError("destination", "Enter a destination")
	}
	return t.Hotels.Issue(func(ctx context.Context) (*HotelResults, error) {
		found, src, err := t.searcher.Search(ctx, location)
		if err != nil {
			return nil, err
		}
		res := &HotelResults{Location: location, Source: src, Hotels: make([]HotelListing, len(found))}
		for i, h := range found {
			res.Hotels[i] = HotelListing{ID: HotelID(location, i), Hotel: h}
		}
		return res, nil
	}), nil
}

// SubmitReview stores a review for a hotel.
func (t *Travel) SubmitReview(ctx context.Context, hotelID string, d reviews.Draft) (reviews.Review, error) {
	return t.reviews.Append(ctx, hotelID, d)
}

// HotelReviews returns the reviews of a hotel in submission order.
func (t *Travel) HotelReviews(hotelID string) []reviews.Review {
	return t.reviews.Reviews(hotelID)
}

// HotelRating returns the mean review rating of a hotel.
func (t *Travel) HotelRating(hotelID string) (float64, bool) {
	return t.reviews.Average(hotelID)
}

// NextTab cycles the tab forward.
func (t *Travel) NextTab() {
	t.Tab = TravelTabs[(int(t.Tab)+1)%len(TravelTabs)]
}

// Leave discards requests in flight.
func (t *Travel) Leave() {
	t.Plan.Invalidate()
	t.Hotels.Invalidate()
}
