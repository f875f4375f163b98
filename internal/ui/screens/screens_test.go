// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeranaias/nexa-tui/internal/auth"
	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/hotels"
	"github.com/jeranaias/nexa-tui/internal/modules"
	"github.com/jeranaias/nexa-tui/internal/reviews"
	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/storage"
	"github.com/jeranaias/nexa-tui/internal/ui/components"
	"github.com/jeranaias/nexa-tui/internal/ui/styles"
)

// =============================================================================
// HELPERS
// =============================================================================

func testDeps(t *testing.T) Deps {
	t.Helper()
	return Deps{
		Router: router.New(router.Options{Logger: zap.NewNop()}),
		Theme:  styles.NewTheme(styles.ModeDark, true),
		Logger: zap.NewNop(),
		Now:    func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) },
	}
}

func signedIn(t *testing.T, deps Deps, name string) {
	t.Helper()
	deps.Router.Authenticate(name)
	deps.Router.CompleteTransition()
}

func mockClient() *completion.Client {
	return completion.NewClient(completion.NewMockBackend(), completion.WithLogger(zap.NewNop()))
}

func typeText(s Screen, text string) {
	s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func press(s Screen, k tea.KeyType) tea.Cmd {
	return s.Update(tea.KeyMsg{Type: k})
}

// drain runs cmd and every command batched inside it, returning the
// messages produced. Commands that wait (cursor blink, ticks) are given a
// bounded time.
func drain(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var (
		mu   sync.Mutex
		out  []tea.Msg
		wg   sync.WaitGroup
		exec func(tea.Cmd)
	)
	exec = func(c tea.Cmd) {
		if c == nil {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, inner := range batch {
					exec(inner)
				}
				return
			}
			mu.Lock()
			out = append(out, msg)
			mu.Unlock()
		}()
	}
	exec(cmd)

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("commands did not finish")
	}
	return out
}

func find[M tea.Msg](msgs []tea.Msg) (M, bool) {
	for _, m := range msgs {
		if v, ok := m.(M); ok {
			return v, true
		}
	}
	var zero M
	return zero, false
}

// =============================================================================
// LANDING
// =============================================================================

func TestLanding_EnterOpensSignInAndSubmitsName(t *testing.T) {
	deps := testDeps(t)
	l := NewLanding(deps, nil)
	l.Enter()

	press(l, tea.KeyEnter)
	require.True(t, l.SigningIn())
	assert.True(t, l.Capturing())

	typeText(l, "Asha")
	msgs := drain(t, press(l, tea.KeyEnter))
	got, ok := find[SignedInMsg](msgs)
	require.True(t, ok, "expected SignedInMsg, got %v", msgs)
	assert.Equal(t, "Asha", got.Name)
	assert.False(t, l.SigningIn())
}

func TestLanding_AuthenticatedLaunchesDirectly(t *testing.T) {
	deps := testDeps(t)
	signedIn(t, deps, "Asha")
	deps.Router.Navigate(router.ScreenLanding)

	l := NewLanding(deps, nil)
	msgs := drain(t, press(l, tea.KeyEnter))
	got, ok := find[LaunchMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, router.ScreenDashboard, got.Target)
	assert.False(t, l.SigningIn())
}

func TestLanding_ShortcutsAndEscape(t *testing.T) {
	l := NewLanding(testDeps(t), nil)

	got, ok := find[NavigateMsg](drain(t, l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})))
	require.True(t, ok)
	assert.Equal(t, router.ScreenAbout, got.Target)

	press(l, tea.KeyEnter)
	press(l, tea.KeyEsc)
	assert.False(t, l.SigningIn())
}

func TestLanding_RequiresValidCode(t *testing.T) {
	const secret = "JBSWY3DPEHPK3PXP"
	l := NewLanding(testDeps(t), auth.NewVerifier(secret))
	press(l, tea.KeyEnter)
	typeText(l, "Asha")

	_, signed := find[SignedInMsg](drain(t, press(l, tea.KeyEnter)))
	assert.False(t, signed)
	assert.Equal(t, "Enter the 6-digit code", l.fieldErr["code"])
	assert.True(t, l.form.focused(l.codeIn), "focus should move to the code field")

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	typeText(l, code)
	got, ok := find[SignedInMsg](drain(t, press(l, tea.KeyEnter)))
	require.True(t, ok)
	assert.Equal(t, "Asha", got.Name)
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestDashboard_GreetingBookingAndTiles(t *testing.T) {
	deps := testDeps(t)
	signedIn(t, deps, "Asha")
	d := NewDashboard(deps)

	view := d.View(100, 40)
	assert.Contains(t, view, "Good Morning, Asha")
	assert.Contains(t, view, "No trip planned")

	deps.Router.SetActiveBooking(router.Booking{Destination: "Pokhara", DurationDays: "3", Altitude: router.AltitudeMid})
	view = d.View(100, 40)
	assert.Contains(t, view, "Pokhara")
	assert.Contains(t, view, "Mid")

	press(d, tea.KeyDown)
	got, ok := find[NavigateMsg](drain(t, press(d, tea.KeyEnter)))
	require.True(t, ok)
	assert.Equal(t, modules.DashboardTiles[1].Screen, got.Target)
}

// =============================================================================
// TRAVEL
// =============================================================================

func newTravel(t *testing.T, deps Deps) (*Travel, *reviews.Store) {
	t.Helper()
	client := mockClient()
	store := reviews.NewStore(storage.NewMemoryKV(), zap.NewNop())
	store.Load(context.Background())
	finder := hotels.NewFinder("", time.Second, client, zap.NewNop())
	state := modules.NewTravel(client, finder, store, deps.Router)
	return NewTravel(deps, state), store
}

func TestTravel_PlanSetsBooking(t *testing.T) {
	deps := testDeps(t)
	signedIn(t, deps, "Asha")
	tr, _ := newTravel(t, deps)
	tr.Enter()

	typeText(tr, "Pokhara")
	msgs := drain(t, press(tr, tea.KeyEnter))
	plan, ok := find[planMsg](msgs)
	require.True(t, ok, "expected plan result, got %v", msgs)

	toastMsgs := drain(t, tr.Update(plan))
	note, ok := find[ToastMsg](toastMsgs)
	require.True(t, ok)
	assert.Equal(t, components.ToastSuccess, note.Kind)

	b, ok := deps.Router.ActiveBooking()
	require.True(t, ok)
	assert.Equal(t, router.Booking{Destination: "Pokhara", DurationDays: "3", Altitude: router.AltitudeMid}, b)
	assert.Contains(t, tr.View(100, 60), "3 Days in Pokhara")
}

func TestTravel_InvalidDaysShowsFieldError(t *testing.T) {
	deps := testDeps(t)
	tr, _ := newTravel(t, deps)
	tr.Enter()
	typeText(tr, "Pokhara")
	press(tr, tea.KeyTab)
	press(tr, tea.KeyBackspace)
	typeText(tr, "0")

	assert.Nil(t, press(tr, tea.KeyEnter))
	assert.Contains(t, tr.fieldErr["days"], "between 1 and 30")
	assert.False(t, tr.state.Plan.Loading())
}

func TestTravel_HotelReviewRoundTrip(t *testing.T) {
	deps := testDeps(t)
	signedIn(t, deps, "Asha")
	tr, store := newTravel(t, deps)
	tr.Enter()
	typeText(tr, "Pokhara")

	press(tr, tea.KeyCtrlT)
	require.Equal(t, modules.TabHotels, tr.state.Tab)
	assert.Equal(t, "Pokhara", tr.search.value(tr.locationIn))

	res, ok := find[hotelsMsg](drain(t, press(tr, tea.KeyEnter)))
	require.True(t, ok)
	tr.Update(res)

	hotel, ok := tr.SelectedHotel()
	require.True(t, ok)
	assert.Equal(t, "hotel-pokhara-0", hotel.ID)

	// Empty comment is rejected and nothing is stored.
	press(tr, tea.KeyCtrlE)
	require.True(t, tr.reviewing)
	assert.Nil(t, press(tr, tea.KeyEnter))
	assert.Equal(t, "Comment cannot be empty", tr.fieldErr["comment"])
	assert.Equal(t, 0, store.Count(hotel.ID))

	typeText(tr, "Lovely lake views")
	note, ok := find[ToastMsg](drain(t, press(tr, tea.KeyEnter)))
	require.True(t, ok)
	assert.Equal(t, components.ToastSuccess, note.Kind)
	assert.False(t, tr.reviewing)

	got := store.Reviews(hotel.ID)
	require.Len(t, got, 1)
	assert.Equal(t, "Asha", got[0].UserName)
	assert.Equal(t, 5, got[0].Rating)
	assert.Equal(t, "Lovely lake views", got[0].Comment)
	assert.Contains(t, tr.View(120, 80), "Lovely lake views")
}

func TestTravel_LeaveDropsPlanInFlight(t *testing.T) {
	deps := testDeps(t)
	signedIn(t, deps, "Asha")
	tr, _ := newTravel(t, deps)
	tr.Enter()
	typeText(tr, "Pokhara")

	plan, ok := find[planMsg](drain(t, press(tr, tea.KeyEnter)))
	require.True(t, ok)
	tr.Leave()

	assert.Nil(t, tr.Update(plan))
	_, booked := deps.Router.ActiveBooking()
	assert.False(t, booked, "a plan resolved after leaving must not set the booking")
}

func TestTravel_CarsTabListsFleetInRupees(t *testing.T) {
	deps := testDeps(t)
	tr, _ := newTravel(t, deps)
	press(tr, tea.KeyCtrlT)
	press(tr, tea.KeyCtrlT)
	require.Equal(t, modules.TabCars, tr.state.Tab)
	view := tr.View(120, 40)
	assert.Contains(t, view, "Scorpio 4x4")
	assert.Contains(t, view, "Rs. 9,500")
}

// =============================================================================
// HEALTH / EDUCATION / AGRICULTURE
// =============================================================================

func TestHealth_TipsFollowBooking(t *testing.T) {
	deps := testDeps(t)
	h := NewHealth(deps, modules.NewHealth(mockClient()))
	view := h.View(120, 60)
	assert.Contains(t, view, "No trip planned")
	assert.NotContains(t, view, "SPF 50+")

	deps.Router.SetActiveBooking(router.Booking{Destination: "Everest Base Camp", DurationDays: "12", Altitude: router.AltitudeHigh})
	view = h.View(120, 60)
	assert.Contains(t, view, "Diamox")
	assert.Contains(t, view, "Everest Base Camp")
}

func TestHealth_SubmitAndBlankRejected(t *testing.T) {
	deps := testDeps(t)
	h := NewHealth(deps, modules.NewHealth(mockClient()))
	h.Enter()

	assert.Nil(t, h.Update(tea.KeyMsg{Type: tea.KeyCtrlS}))
	assert.Equal(t, "Describe your symptoms", h.fieldErr)

	typeText(h, "headache and nausea at 4000m")
	res, ok := find[diagnosisMsg](drain(t, h.Update(tea.KeyMsg{Type: tea.KeyCtrlS})))
	require.True(t, ok)
	h.Update(res)
	d, ok := h.state.Diagnosis.Value()
	require.True(t, ok)
	assert.Equal(t, completion.UrgencyRoutine, d.Urgency)
}

func TestEducation_CyclesChoicesAndGenerates(t *testing.T) {
	deps := testDeps(t)
	e := NewEducation(deps, modules.NewEducation(mockClient()))
	e.Enter()
	require.True(t, e.Capturing())

	press(e, tea.KeyShiftTab)
	press(e, tea.KeyRight)
	assert.Equal(t, "Mathematics", e.state.Form.Subject)
	press(e, tea.KeyShiftTab)
	press(e, tea.KeyRight)
	assert.Equal(t, 8, e.state.Form.Grade, "grade should wrap from 10 to 8")

	assert.Nil(t, press(e, tea.KeyEnter))
	assert.Equal(t, "Enter a topic", e.fieldErr["topic"])

	press(e, tea.KeyTab)
	press(e, tea.KeyTab)
	typeText(e, "Photosynthesis")
	res, ok := find[lessonMsg](drain(t, press(e, tea.KeyEnter)))
	require.True(t, ok)
	e.Update(res)
	lesson, ok := e.state.Lesson.Value()
	require.True(t, ok)
	assert.NotEmpty(t, lesson.QuickQuiz)
	assert.Contains(t, e.View(100, 60), "Quick Quiz")
}

func TestAgriculture_NoPlantLookup(t *testing.T) {
	deps := testDeps(t)
	a := NewAgriculture(deps, modules.NewAgriculture(mockClient(), nil))
	a.Enter()
	assert.False(t, a.state.Plants.Loading())

	view := a.View(120, 80)
	assert.Contains(t, view, "Plant library offline")
	assert.Contains(t, view, "Khumal-Rice 4")
	assert.Contains(t, view, "Rs. 110")
}

func TestAgriculture_Analyze(t *testing.T) {
	deps := testDeps(t)
	a := NewAgriculture(deps, modules.NewAgriculture(mockClient(), nil))
	a.Enter()
	typeText(a, "Chitwan")
	assert.Nil(t, press(a, tea.KeyEnter))
	assert.Equal(t, "Enter a crop", a.fieldErr["crop"])

	press(a, tea.KeyTab)
	typeText(a, "Rice")
	res, ok := find[agroMsg](drain(t, press(a, tea.KeyEnter)))
	require.True(t, ok)
	a.Update(res)
	assert.Contains(t, a.View(120, 80), "Field Report")
}

// =============================================================================
// CHAT / CONTACT / ABOUT
// =============================================================================

func TestChat_SendReplyAndReset(t *testing.T) {
	deps := testDeps(t)
	c := NewChat(deps, modules.NewChat(mockClient()))
	c.Enter()

	assert.Nil(t, press(c, tea.KeyEnter), "blank input is ignored")

	typeText(c, "Namaste")
	reply, ok := find[replyMsg](drain(t, press(c, tea.KeyEnter)))
	require.True(t, ok)
	c.Update(reply)

	turns := c.state.Transcript()
	require.Len(t, turns, 2)
	assert.Equal(t, completion.RoleUser, turns[0].Role)
	assert.Equal(t, completion.RoleModel, turns[1].Role)
	assert.Contains(t, c.View(100, 30), "Namaste")

	c.Leave()
	c.Enter()
	assert.Empty(t, c.state.Transcript(), "entering the screen starts a new conversation")
}

func TestChat_LateReplyDroppedAfterReenter(t *testing.T) {
	deps := testDeps(t)
	c := NewChat(deps, modules.NewChat(mockClient()))
	c.Enter()
	typeText(c, "hello")
	reply, ok := find[replyMsg](drain(t, press(c, tea.KeyEnter)))
	require.True(t, ok)

	c.Leave()
	c.Enter()
	c.Update(reply)
	assert.Empty(t, c.state.Transcript())
}

func TestContact_ValidationAndAcknowledge(t *testing.T) {
	deps := testDeps(t)
	c := NewContact(deps)
	c.Enter()

	// Jump to the send button and submit the empty form.
	press(c, tea.KeyTab)
	press(c, tea.KeyTab)
	press(c, tea.KeyTab)
	assert.Nil(t, press(c, tea.KeyEnter))
	assert.Equal(t, "Enter your name", c.fieldErr["name"])
	assert.Equal(t, "Enter a valid email address", c.fieldErr["email"])

	c.focusAt(c.form.positionOf(c.nameIn))
	typeText(c, "Asha")
	press(c, tea.KeyTab)
	typeText(c, "asha@example.com")
	press(c, tea.KeyTab)
	typeText(c, "Partnership idea")
	press(c, tea.KeyTab)

	note, ok := find[ToastMsg](drain(t, press(c, tea.KeyEnter)))
	require.True(t, ok)
	assert.Equal(t, components.ToastSuccess, note.Kind)
	assert.Empty(t, c.fieldErr)
	assert.Empty(t, c.Form().Name, "form is cleared after acknowledging")
}

func TestAbout_EscapeReturnsHome(t *testing.T) {
	a := NewAbout(testDeps(t))
	assert.Contains(t, a.View(100, 40), "Harmonizing Himalayan Modernity.")
	got, ok := find[NavigateMsg](drain(t, press(a, tea.KeyEsc)))
	require.True(t, ok)
	assert.Equal(t, router.ScreenLanding, got.Target)
}

func TestCycle(t *testing.T) {
	assert.Equal(t, 2, cycle(0, -1, 3))
	assert.Equal(t, 0, cycle(2, 1, 3))
	assert.Equal(t, 0, cycle(5, 1, 0))
}
