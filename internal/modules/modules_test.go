// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modules

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeranaias/nexa-tui/internal/apperr"
	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/hotels"
	"github.com/jeranaias/nexa-tui/internal/plants"
	"github.com/jeranaias/nexa-tui/internal/reviews"
	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/storage"
)

// =============================================================================
// FAKES
// =============================================================================

type fakePlanner struct {
	highAltitude bool
	err          error
	gotDays      string
}

func (f *fakePlanner) PlanItinerary(ctx context.Context, destination, budget, days string) (*completion.Itinerary, error) {
	f.gotDays = days
	if f.err != nil {
		return nil, f.err
	}
	return &completion.Itinerary{
		Title:          destination,
		IsHighAltitude: f.highAltitude,
		Plan:           []completion.DayPlan{{Day: 1, Desc: "Arrive", BudgetLine: "Rs. 3,000"}},
	}, nil
}

type fakeSearcher struct{}

func (fakeSearcher) Search(ctx context.Context, location string) ([]completion.Hotel, hotels.Source, error) {
	return []completion.Hotel{{Name: "Lakeside"}, {Name: "Sarangkot View"}}, hotels.SourceGenerated, nil
}

func newReviewStore(t *testing.T, dir string) *reviews.Store {
	t.Helper()
	kv, err := storage.NewFileKV(dir)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	s := reviews.NewStore(kv, zap.NewNop())
	s.Load(context.Background())
	return s
}

// =============================================================================
// TRAVEL
// =============================================================================

func TestTravel_PlanSetsBooking(t *testing.T) {
	r := router.New(router.Options{})
	planner := &fakePlanner{}
	tr := NewTravel(planner, fakeSearcher{}, nil, r)
	tr.Form = TravelForm{Destination: "Pokhara", Days: "3", Budget: "Standard"}

	p, err := tr.SubmitPlan()
	require.NoError(t, err)
	assert.True(t, tr.ApplyPlan(p.Do(context.Background())))

	got, ok := r.ActiveBooking()
	require.True(t, ok)
	want := router.Booking{Destination: "Pokhara", DurationDays: "3", Altitude: router.AltitudeMid}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("booking mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "3", planner.gotDays)
}

func TestTravel_HighAltitudeBooking(t *testing.T) {
	r := router.New(router.Options{})
	tr := NewTravel(&fakePlanner{highAltitude: true}, fakeSearcher{}, nil, r)
	tr.Form = TravelForm{Destination: " Namche Bazaar ", Days: "7", Budget: "Premium"}

	p, err := tr.SubmitPlan()
	require.NoError(t, err)
	tr.ApplyPlan(p.Do(context.Background()))

	got, _ := r.ActiveBooking()
	assert.Equal(t, router.AltitudeHigh, got.Altitude)
	assert.Equal(t, "Namche Bazaar", got.Destination)
}

func TestTravel_FailedPlanKeepsBooking(t *testing.T) {
	r := router.New(router.Options{})
	previous := router.Booking{Destination: "Chitwan", DurationDays: "2", Altitude: router.AltitudeMid}
	r.SetActiveBooking(previous)

	tr := NewTravel(&fakePlanner{err: apperr.Unavailable("itinerary", errors.New("offline"))}, fakeSearcher{}, nil, r)
	tr.Form = TravelForm{Destination: "Pokhara", Days: "3", Budget: "Standard"}
	p, err := tr.SubmitPlan()
	require.NoError(t, err)
	assert.True(t, tr.ApplyPlan(p.Do(context.Background())))

	assert.ErrorIs(t, tr.Plan.Err(), apperr.ErrServiceUnavailable)
	got, _ := r.ActiveBooking()
	assert.Equal(t, previous, got)
}

func TestTravel_StalePlanDiscarded(t *testing.T) {
	r := router.New(router.Options{})
	tr := NewTravel(&fakePlanner{}, fakeSearcher{}, nil, r)

	tr.Form = TravelForm{Destination: "Lumbini", Days: "2", Budget: "Affordable"}
	first, err := tr.SubmitPlan()
	require.NoError(t, err)
	tr.Form = TravelForm{Destination: "Pokhara", Days: "3", Budget: "Standard"}
	second, err := tr.SubmitPlan()
	require.NoError(t, err)

	rb := second.Do(context.Background())
	ra := first.Do(context.Background())
	assert.True(t, tr.ApplyPlan(rb))
	assert.False(t, tr.ApplyPlan(ra))

	got, _ := r.ActiveBooking()
	assert.Equal(t, "Pokhara", got.Destination)
}

func TestTravelForm_Validate(t *testing.T) {
	tests := []struct {
		form  TravelForm
		field string
	}{
		{TravelForm{Destination: "", Days: "3", Budget: "Standard"}, "destination"},
		{TravelForm{Destination: "Ilam", Days: "0", Budget: "Standard"}, "days"},
		{TravelForm{Destination: "Ilam", Days: "three", Budget: "Standard"}, "days"},
		{TravelForm{Destination: "Ilam", Days: "31", Budget: "Standard"}, "days"},
		{TravelForm{Destination: "Ilam", Days: "3", Budget: "Luxury"}, "budget"},
		{TravelForm{Destination: "Ilam", Days: " 30 ", Budget: "Premium"}, ""},
	}
	for _, tt := range tests {
		err := tt.form.Validate()
		if tt.field == "" {
			assert.NoError(t, err)
			continue
		}
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve, "%+v", tt.form)
		assert.Equal(t, tt.field, ve.Field)
	}
}

func TestTravel_HotelIDsAndReviews(t *testing.T) {
	dir := t.TempDir()
	tr := NewTravel(&fakePlanner{}, fakeSearcher{}, newReviewStore(t, dir), nil)

	p, err := tr.SearchHotels("Pokhara")
	require.NoError(t, err)
	require.True(t, tr.Hotels.Apply(p.Do(context.Background())))

	res, ok := tr.Hotels.Value()
	require.True(t, ok)
	require.Len(t, res.Hotels, 2)
	assert.Equal(t, "hotel-pokhara-0", res.Hotels[0].ID)
	assert.Equal(t, "hotel-pokhara-1", res.Hotels[1].ID)

	_, err = tr.SubmitReview(context.Background(), "hotel-pokhara-0", reviews.Draft{Rating: 4, Comment: "Nice stay"})
	require.NoError(t, err)

	// Empty comment is rejected and leaves the list unchanged.
	_, err = tr.SubmitReview(context.Background(), "hotel-pokhara-1", reviews.Draft{Rating: 5, Comment: ""})
	assert.ErrorIs(t, err, apperr.ErrValidationRejected)
	assert.Empty(t, tr.HotelReviews("hotel-pokhara-1"))

	// A fresh store over the same directory sees the persisted review.
	reloaded := newReviewStore(t, dir)
	got := reloaded.Reviews("hotel-pokhara-0")
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Rating)
	assert.Equal(t, "Nice stay", got[0].Comment)
	assert.NotEmpty(t, got[0].ID)
}

func TestTravel_SearchNeedsLocation(t *testing.T) {
	tr := NewTravel(&fakePlanner{}, fakeSearcher{}, nil, nil)
	_, err := tr.SearchHotels("  ")
	assert.ErrorIs(t, err, apperr.ErrValidationRejected)

	tr.Form.Destination = "Bandipur"
	p, err := tr.SearchHotels("")
	require.NoError(t, err)
	tr.Hotels.Apply(p.Do(context.Background()))
	res, _ := tr.Hotels.Value()
	assert.Equal(t, "Bandipur", res.Location)
}

func TestTravel_NextTab(t *testing.T) {
	tr := NewTravel(nil, nil, nil, nil)
	var seen []string
	for i := 0; i < 4; i++ {
		seen = append(seen, tr.Tab.String())
		tr.NextTab()
	}
	assert.Equal(t, []string{"Plan", "Hotels", "Cars", "Plan"}, seen)
}

// =============================================================================
// EDUCATION / HEALTH / AGRICULTURE
// =============================================================================

type lessonFunc func(ctx context.Context, grade int, subject, topic string) (*completion.Lesson, error)

func (f lessonFunc) Lesson(ctx context.Context, grade int, subject, topic string) (*completion.Lesson, error) {
	return f(ctx, grade, subject, topic)
}

func TestEducation_Submit(t *testing.T) {
	var got string
	e := NewEducation(lessonFunc(func(ctx context.Context, grade int, subject, topic string) (*completion.Lesson, error) {
		got = completion.LessonPrompt(grade, subject, topic)
		return &completion.Lesson{Concept: topic}, nil
	}))

	_, err := e.Submit()
	assert.ErrorIs(t, err, apperr.ErrValidationRejected, "topic is required")

	e.Form.Topic = "  Photosynthesis "
	p, err := e.Submit()
	require.NoError(t, err)
	e.Lesson.Apply(p.Do(context.Background()))

	l, ok := e.Lesson.Value()
	require.True(t, ok)
	assert.Equal(t, "Photosynthesis", l.Concept)
	assert.Equal(t, `Explain "Photosynthesis" for Grade 10 Science in Nepal's NEB context.`, got)

	e.Form.Grade = 11
	_, err = e.Submit()
	assert.ErrorIs(t, err, apperr.ErrValidationRejected)
}

func TestTravelTips(t *testing.T) {
	high := &router.Booking{Altitude: router.AltitudeHigh}
	mid := &router.Booking{Altitude: router.AltitudeMid}

	assert.Equal(t, "Acclimatize: Diamox 250mg twice daily.", TravelTips(high)[0])
	assert.Equal(t, "SPF 50+ application is mandatory.", TravelTips(mid)[0])
	assert.Empty(t, TravelTips(nil))

	tips := TravelTips(high)
	tips[0] = "changed"
	assert.NotEqual(t, "changed", TravelTips(high)[0])
}

type diagnoseFunc func(ctx context.Context, s string) (*completion.Diagnosis, error)

func (f diagnoseFunc) Diagnose(ctx context.Context, s string) (*completion.Diagnosis, error) {
	return f(ctx, s)
}

func TestHealth_Submit(t *testing.T) {
	h := NewHealth(diagnoseFunc(func(ctx context.Context, s string) (*completion.Diagnosis, error) {
		return nil, apperr.Malformed("diagnose", errors.New("missing urgency"))
	}))

	_, err := h.Submit()
	assert.ErrorIs(t, err, apperr.ErrValidationRejected)

	h.Symptoms = "headache and nausea at 4000m"
	p, err := h.Submit()
	require.NoError(t, err)
	assert.True(t, h.Diagnosis.Apply(p.Do(context.Background())))
	assert.Equal(t, apperr.KindMalformedResponse, apperr.KindOf(h.Diagnosis.Err()))
}

type fakeLookup struct{ configured bool }

func (f fakeLookup) Configured() bool { return f.configured }
func (f fakeLookup) Overview(ctx context.Context) (*plants.Overview, error) {
	return &plants.Overview{Species: &plants.Page[plants.Species]{Data: []plants.Species{{ID: 1}}}}, nil
}

type agroFunc func(ctx context.Context, location, crop string) (*completion.AgroReport, error)

func (f agroFunc) AnalyzeAgro(ctx context.Context, location, crop string) (*completion.AgroReport, error) {
	return f(ctx, location, crop)
}

func TestAgriculture(t *testing.T) {
	a := NewAgriculture(agroFunc(func(ctx context.Context, location, crop string) (*completion.AgroReport, error) {
		return &completion.AgroReport{Suitability: location + "/" + crop}, nil
	}), fakeLookup{configured: true})

	a.Form = AgroForm{Location: "Kapilvastu"}
	_, err := a.Submit()
	assert.ErrorIs(t, err, apperr.ErrValidationRejected)

	a.Form.Crop = "Rice"
	p, err := a.Submit()
	require.NoError(t, err)
	a.Report.Apply(p.Do(context.Background()))
	rep, _ := a.Report.Value()
	assert.Equal(t, "Kapilvastu/Rice", rep.Suitability)

	pp, ok := a.RefreshPlants()
	require.True(t, ok)
	a.Plants.Apply(pp.Do(context.Background()))
	ov, _ := a.Plants.Value()
	assert.Len(t, ov.Species.Data, 1)

	_, ok = NewAgriculture(nil, fakeLookup{}).RefreshPlants()
	assert.False(t, ok)
	_, ok = NewAgriculture(nil, nil).RefreshPlants()
	assert.False(t, ok)
}

// =============================================================================
// CHAT
// =============================================================================

type chatFunc func(ctx context.Context, history []completion.Turn, message string) string

func (f chatFunc) Chat(ctx context.Context, history []completion.Turn, message string) string {
	return f(ctx, history, message)
}

func TestChat_Transcript(t *testing.T) {
	var gotHistory []completion.Turn
	c := NewChat(chatFunc(func(ctx context.Context, history []completion.Turn, message string) string {
		gotHistory = history
		return "re: " + message
	}))

	_, ok := c.Send("   ")
	assert.False(t, ok, "blank input is ignored")

	p, ok := c.Send("Namaste")
	require.True(t, ok)
	_, ok = c.Send("again")
	assert.False(t, ok, "input is ignored while a reply is pending")

	assert.True(t, c.ApplyReply(p.Do(context.Background())))

	p, ok = c.Send("Weather in Jomsom?")
	require.True(t, ok)
	c.ApplyReply(p.Do(context.Background()))

	want := []completion.Turn{
		{Role: completion.RoleUser, Text: "Namaste"},
		{Role: completion.RoleModel, Text: "re: Namaste"},
		{Role: completion.RoleUser, Text: "Weather in Jomsom?"},
		{Role: completion.RoleModel, Text: "re: Weather in Jomsom?"},
	}
	assert.Equal(t, want, c.Transcript())
	assert.Equal(t, want[:2], gotHistory)
}

func TestChat_ResetDropsLateReply(t *testing.T) {
	c := NewChat(chatFunc(func(ctx context.Context, history []completion.Turn, message string) string {
		return "late"
	}))
	p, ok := c.Send("hello")
	require.True(t, ok)

	c.Reset()
	assert.False(t, c.ApplyReply(p.Do(context.Background())))
	assert.Empty(t, c.Transcript())

	_, ok = c.Send("fresh start")
	assert.True(t, ok)
}

// =============================================================================
// CONTACT / FORMAT
// =============================================================================

func TestContactForm_Validate(t *testing.T) {
	err := ContactForm{Email: "nope"}.Validate()
	require.ErrorIs(t, err, apperr.ErrValidationRejected)
	assert.Equal(t, map[string]string{
		"name":    "Enter your name",
		"email":   "Enter a valid email address",
		"message": "Enter a message",
	}, FieldErrors(err))

	assert.NoError(t, ContactForm{Name: "Asha", Email: "asha@example.com", Message: "Hi"}.Validate())
	assert.NoError(t, ContactForm{Subject: "Partnership", Name: "Asha", Email: "asha@example.com", Message: "Hi"}.Validate())
	assert.Equal(t, map[string]string{"subject": "Choose a subject"},
		FieldErrors(ContactForm{Subject: "Spam", Name: "Asha", Email: "asha@example.com", Message: "Hi"}.Validate()))
	assert.Empty(t, FieldErrors(nil))
}

func TestFormatNPR(t *testing.T) {
	assert.Equal(t, "Rs. 45", FormatNPR(45))
	assert.Equal(t, "Rs. 9,500", FormatNPR(9500))
	assert.Equal(t, "Rs. 3,501", FormatNPR(3500.6))
}

func TestGreeting(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2025, 1, 1, h, 30, 0, 0, time.Local) }
	assert.Equal(t, "Good Morning", Greeting(at(0)))
	assert.Equal(t, "Good Morning", Greeting(at(11)))
	assert.Equal(t, "Good Afternoon", Greeting(at(12)))
	assert.Equal(t, "Good Afternoon", Greeting(at(16)))
	assert.Equal(t, "Good Evening", Greeting(at(17)))
	assert.Equal(t, "Good Evening", Greeting(at(23)))
}
