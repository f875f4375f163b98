// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/nexa-tui/internal/apperr"
	"github.com/jeranaias/nexa-tui/internal/hotels"
	"github.com/jeranaias/nexa-tui/internal/modules"
	"github.com/jeranaias/nexa-tui/internal/reviews"
	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/ui/components"
)

type (
	planMsg   modules.Response[*modules.Trip]
	hotelsMsg modules.Response[*modules.HotelResults]
)

// Travel is the itinerary planner with hotel search, reviews and the
// rental fleet.
type Travel struct {
	deps  Deps
	state *modules.Travel

	// plan tab
	plan       fields
	destIn     int
	daysIn     int
	budgetPos  int
	planBtnPos int

	// hotels tab
	search      fields
	locationIn  int
	searchPos   int
	listPos     int
	hotelCursor int

	// review form, open over the hotels tab
	reviewing   bool
	review      fields
	ratingPos   int
	commentIn   int
	reviewPos   int
	draftRating int

	fieldErr map[string]string
	spinner  components.Spinner
}

// NewTravel creates the travel screen over state.
func NewTravel(deps Deps, state *modules.Travel) *Travel {
	t := &Travel{deps: deps, state: state, spinner: components.NewSpinner(deps.Theme, "Contacting travel desk")}

	t.destIn = t.plan.add(newInput("e.g. Pokhara", 80))
	days := newInput("3", 2)
	days.SetValue(state.Form.Days)
	t.daysIn = t.plan.add(days)
	t.budgetPos = t.plan.control()
	t.planBtnPos = t.plan.control()

	t.locationIn = t.search.add(newInput("City or region", 80))
	t.searchPos = t.search.control()
	t.listPos = t.search.control()

	t.ratingPos = t.review.control()
	t.commentIn = t.review.add(newInput("Details of your stay...", 500))
	t.reviewPos = t.review.control()
	t.draftRating = reviews.MaxRating
	return t
}

func (t *Travel) ID() router.Screen { return router.ScreenTravel }

func (t *Travel) Enter() tea.Cmd { return t.focusTab() }

func (t *Travel) Leave() {
	t.state.Leave()
	t.spinner.Stop()
	t.reviewing = false
	t.plan.blurAll()
	t.search.blurAll()
	t.review.blurAll()
}

func (t *Travel) Capturing() bool {
	switch {
	case t.reviewing:
		return t.review.onInput()
	case t.state.Tab == modules.TabPlan:
		return t.plan.onInput()
	case t.state.Tab == modules.TabHotels:
		return t.search.onInput()
	}
	return false
}

func (t *Travel) Help() []key.Binding {
	switch {
	case t.reviewing:
		return []key.Binding{keys.Next, keys.Left, keys.Right, keys.Submit, keys.Back}
	case t.state.Tab == modules.TabHotels:
		return []key.Binding{keys.Tab, keys.Next, keys.Up, keys.Down, keys.Review, keys.Submit}
	case t.state.Tab == modules.TabCars:
		return []key.Binding{keys.Tab}
	}
	return []key.Binding{keys.Tab, keys.Next, keys.Left, keys.Right, keys.Submit}
}

func (t *Travel) focusTab() tea.Cmd {
	t.plan.blurAll()
	t.search.blurAll()
	switch t.state.Tab {
	case modules.TabPlan:
		return t.plan.sync()
	case modules.TabHotels:
		if t.search.value(t.locationIn) == "" {
			t.search.inputs[t.locationIn].SetValue(strings.TrimSpace(t.plan.value(t.destIn)))
		}
		return t.search.sync()
	}
	return nil
}

// SelectedHotel returns the hotel under the cursor.
func (t *Travel) SelectedHotel() (modules.HotelListing, bool) {
	res, ok := t.state.Hotels.Value()
	if !ok || res == nil || t.hotelCursor >= len(res.Hotels) {
		return modules.HotelListing{}, false
	}
	return res.Hotels[t.hotelCursor], true
}

func (t *Travel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case planMsg:
		r := modules.Response[*modules.Trip](msg)
		if !t.state.ApplyPlan(r) {
			return nil
		}
		t.settleSpinner()
		if r.Err == nil && r.Value != nil {
			b := r.Value.Booking()
			return toast(components.ToastSuccess,
				fmt.Sprintf("Booking synced: %s (%s altitude)", b.Destination, b.Altitude))
		}
		return nil
	case hotelsMsg:
		if t.state.Hotels.Apply(modules.Response[*modules.HotelResults](msg)) {
			t.hotelCursor = 0
			t.settleSpinner()
		}
		return nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		t.spinner, cmd = t.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		if t.reviewing {
			return t.reviewKey(msg)
		}
		if key.Matches(msg, keys.Tab) {
			t.state.NextTab()
			t.fieldErr = nil
			return t.focusTab()
		}
		switch t.state.Tab {
		case modules.TabPlan:
			return t.planKey(msg)
		case modules.TabHotels:
			return t.hotelsKey(msg)
		}
	}
	return nil
}

func (t *Travel) settleSpinner() {
	if !t.state.Plan.Loading() && !t.state.Hotels.Loading() {
		t.spinner.Stop()
	}
}

func (t *Travel) planKey(km tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(km, keys.Next):
		return t.plan.move(1)
	case key.Matches(km, keys.Prev):
		return t.plan.move(-1)
	case key.Matches(km, keys.Submit):
		return t.submitPlan()
	case t.plan.at(t.budgetPos) && (key.Matches(km, keys.Left) || key.Matches(km, keys.Right)):
		delta := 1
		if key.Matches(km, keys.Left) {
			delta = -1
		}
		i := slices.Index(modules.Budgets, t.state.Form.Budget)
		t.state.Form.Budget = modules.Budgets[cycle(i, delta, len(modules.Budgets))]
		return nil
	}
	return t.plan.update(km)
}

func (t *Travel) submitPlan() tea.Cmd {
	t.state.Form.Destination = t.plan.value(t.destIn)
	t.state.Form.Days = t.plan.value(t.daysIn)
	pending, err := t.state.SubmitPlan()
	if err != nil {
		t.fieldErr = modules.FieldErrors(err)
		return nil
	}
	t.fieldErr = nil
	return tea.Batch(t.spinner.Start(), run(pending, func(r modules.Response[*modules.Trip]) planMsg {
		return planMsg(r)
	}))
}

func (t *Travel) hotelsKey(km tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(km, keys.Next):
		return t.search.move(1)
	case key.Matches(km, keys.Prev):
		return t.search.move(-1)
	case key.Matches(km, keys.Review):
		if _, ok := t.SelectedHotel(); ok {
			return t.openReview()
		}
		return nil
	}

	if t.search.at(t.listPos) {
		res, _ := t.state.Hotels.Value()
		n := 0
		if res != nil {
			n = len(res.Hotels)
		}
		switch {
		case key.Matches(km, keys.Up):
			t.hotelCursor = cycle(t.hotelCursor, -1, n)
		case key.Matches(km, keys.Down):
			t.hotelCursor = cycle(t.hotelCursor, 1, n)
		case key.Matches(km, keys.Submit):
			if _, ok := t.SelectedHotel(); ok {
				return t.openReview()
			}
		}
		return nil
	}

	if key.Matches(km, keys.Submit) {
		return t.submitSearch()
	}
	return t.search.update(km)
}

func (t *Travel) submitSearch() tea.Cmd {
	pending, err := t.state.SearchHotels(t.search.value(t.locationIn))
	if err != nil {
		t.fieldErr = map[string]string{"location": apperr.UserMessage(err)}
		return nil
	}
	t.fieldErr = nil
	return tea.Batch(t.spinner.Start(), run(pending, func(r modules.Response[*modules.HotelResults]) hotelsMsg {
		return hotelsMsg(r)
	}))
}

func (t *Travel) openReview() tea.Cmd {
	t.reviewing = true
	t.fieldErr = nil
	t.draftRating = reviews.MaxRating
	t.review.inputs[t.commentIn].Reset()
	t.search.blurAll()
	return t.review.focusAt(t.review.positionOf(t.commentIn))
}

func (t *Travel) reviewKey(km tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(km, keys.Back):
		t.reviewing = false
		t.fieldErr = nil
		t.review.blurAll()
		return t.search.focusAt(t.listPos)
	case key.Matches(km, keys.Next):
		return t.review.move(1)
	case key.Matches(km, keys.Prev):
		return t.review.move(-1)
	case key.Matches(km, keys.Submit):
		return t.submitReview()
	case t.review.at(t.ratingPos) && key.Matches(km, keys.Left):
		if t.draftRating > reviews.MinRating {
			t.draftRating--
		}
		return nil
	case t.review.at(t.ratingPos) && key.Matches(km, keys.Right):
		if t.draftRating < reviews.MaxRating {
			t.draftRating++
		}
		return nil
	}
	return t.review.update(km)
}

func (t *Travel) submitReview() tea.Cmd {
	hotel, ok := t.SelectedHotel()
	if !ok {
		t.reviewing = false
		return nil
	}
	draft := reviews.Draft{
		UserName: t.deps.Router.Session().DisplayName,
		Rating:   t.draftRating,
		Comment:  t.review.value(t.commentIn),
	}
	// Local store write, done inline.
	if _, err := t.state.SubmitReview(context.Background(), hotel.ID, draft); err != nil {
		if fe := modules.FieldErrors(err); len(fe) > 0 {
			t.fieldErr = fe
			return nil
		}
		t.deps.logger().Warn("review not saved", zap.String("hotel", hotel.ID), zap.Error(err))
		return toast(components.ToastError, "Review could not be saved.")
	}
	t.reviewing = false
	t.fieldErr = nil
	t.review.blurAll()
	return tea.Batch(t.search.focusAt(t.listPos),
		toast(components.ToastSuccess, "Review posted for "+hotel.Name))
}

// =============================================================================
// VIEW
// =============================================================================

func (t *Travel) View(width, height int) string {
	th := t.deps.Theme
	labels := make([]string, len(modules.TravelTabs))
	for i, tab := range modules.TravelTabs {
		labels[i] = tab.String()
	}

	var body string
	switch t.state.Tab {
	case modules.TabPlan:
		body = t.planView(width - 4)
	case modules.TabHotels:
		body = t.hotelsView(width - 4)
	case modules.TabCars:
		body = t.carsView()
	}

	page := lipgloss.JoinVertical(lipgloss.Left,
		th.Title.Render("Travel.OTA"),
		components.Tabs(th, labels, int(t.state.Tab)),
		"",
		body,
	)
	return lipgloss.NewStyle().Padding(1, 2).MaxWidth(width).MaxHeight(height).Render(page)
}

func (t *Travel) planView(width int) string {
	th := t.deps.Theme
	form := lipgloss.JoinVertical(lipgloss.Left,
		components.Field(th, "destination", t.plan.view(t.destIn), t.plan.focused(t.destIn), t.fieldErr["destination"]),
		components.Field(th, "days", t.plan.view(t.daysIn), t.plan.focused(t.daysIn), t.fieldErr["days"]),
		components.Choice(th, "budget", t.state.Form.Budget, t.plan.at(t.budgetPos)),
		"",
		components.Button(th, "Generate Itinerary", t.plan.at(t.planBtnPos)),
	)

	var result string
	switch {
	case t.state.Plan.Loading():
		result = t.spinner.View()
	case t.state.Plan.Err() != nil:
		result = components.ErrorLine(th, t.state.Plan.Err())
	}
	if trip, ok := t.state.Plan.Value(); ok && trip != nil && trip.Itinerary != nil {
		result = lipgloss.JoinVertical(lipgloss.Left, result, t.itineraryView(trip, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, form, "", result)
}

func (t *Travel) itineraryView(trip *modules.Trip, width int) string {
	th := t.deps.Theme
	it := trip.Itinerary
	badge := th.Success.Render("Standard altitude")
	if it.IsHighAltitude {
		badge = th.Warning.Render("High altitude")
	}
	rows := []string{badge, ""}
	for _, day := range it.Plan {
		rows = append(rows,
			th.Accent.Render("Day "+strconv.Itoa(day.Day))+"  "+th.Value.Render(day.Desc),
			"       "+th.Muted.Render(day.BudgetLine))
	}
	return components.Card(th, it.Title, lipgloss.JoinVertical(lipgloss.Left, rows...), width)
}

func (t *Travel) hotelsView(width int) string {
	th := t.deps.Theme
	form := lipgloss.JoinHorizontal(lipgloss.Bottom,
		components.Field(th, "location", t.search.view(t.locationIn), t.search.focused(t.locationIn), t.fieldErr["location"]),
		"  ",
		components.Button(th, "Search", t.search.at(t.searchPos)),
	)

	var status string
	switch {
	case t.state.Hotels.Loading():
		status = t.spinner.View()
	case t.state.Hotels.Err() != nil:
		status = components.ErrorLine(th, t.state.Hotels.Err())
	}

	res, ok := t.state.Hotels.Value()
	if !ok || res == nil {
		return lipgloss.JoinVertical(lipgloss.Left, form, "", status)
	}

	source := "Live listings"
	if res.Source == hotels.SourceGenerated {
		source = "Curated by the assistant"
	}
	rows := []string{th.Muted.Render(fmt.Sprintf("%d stays in %s. %s.", len(res.Hotels), res.Location, source))}
	for i, h := range res.Hotels {
		prefix := "  "
		name := th.Value.Render(h.Name)
		if i == t.hotelCursor && t.search.at(t.listPos) {
			prefix = th.Accent.Render("> ")
			name = th.Selected.Render(h.Name)
		}
		rating := fmt.Sprintf("* %.1f", h.Rating)
		if avg, ok := t.state.HotelRating(h.ID); ok {
			rating += fmt.Sprintf("  guests %.1f (%d)", avg, len(t.state.HotelReviews(h.ID)))
		}
		rows = append(rows, prefix+name+"  "+th.Accent.Render(modules.FormatNPR(h.PricePerNight))+
			th.Muted.Render("/night  "+rating))
	}

	detail := ""
	if h, ok := t.SelectedHotel(); ok {
		detail = t.hotelDetail(h, width)
	}
	return lipgloss.JoinVertical(lipgloss.Left, form, "", status, lipgloss.JoinVertical(lipgloss.Left, rows...), "", detail)
}

func (t *Travel) hotelDetail(h modules.HotelListing, width int) string {
	th := t.deps.Theme
	rows := []string{
		th.Muted.Render(h.Location),
		th.Value.Render(h.Description),
		th.Muted.Render(strings.Join(h.Amenities, " . ")),
		"",
		th.CardTitle.Render("Guest reviews"),
	}
	list := t.state.HotelReviews(h.ID)
	if len(list) == 0 {
		rows = append(rows, th.Muted.Render("No reviews yet. Press ctrl+e to write one."))
	}
	for _, r := range list {
		rows = append(rows, th.Label.Render(strings.ToUpper(r.UserName))+"  "+
			th.Accent.Render(stars(r.Rating))+"  "+th.Value.Render(r.Comment))
	}
	if t.reviewing {
		rows = append(rows, "", t.reviewFormView())
	}
	return components.Card(th, h.Name, lipgloss.JoinVertical(lipgloss.Left, rows...), width)
}

func (t *Travel) reviewFormView() string {
	th := t.deps.Theme
	rating := th.Label.Render("RATING") + "  " + th.Accent.Render(stars(t.draftRating))
	if t.review.at(t.ratingPos) {
		rating = th.Label.Render("RATING") + "  " + th.Selected.Render("< "+stars(t.draftRating)+" >")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		rating,
		th.FieldError.Render(t.fieldErr["rating"]),
		components.Field(th, "comment", t.review.view(t.commentIn), t.review.focused(t.commentIn), t.fieldErr["comment"]),
		components.Button(th, "Post Review", t.review.at(t.reviewPos)),
	)
}

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > reviews.MaxRating {
		n = reviews.MaxRating
	}
	return strings.Repeat("*", n) + strings.Repeat(".", reviews.MaxRating-n)
}

func (t *Travel) carsView() string {
	th := t.deps.Theme
	rows := make([]string, 0, len(modules.Fleet))
	for _, v := range modules.Fleet {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			th.Value.Width(18).Render(v.Name),
			th.Muted.Width(8).Render(v.Type),
			th.Muted.Width(22).Render(v.Specs),
			th.Accent.Render(modules.FormatNPR(v.PricePerDay)),
			th.Muted.Render("/day"),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		th.CardTitle.Render("Rental Fleet"),
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
