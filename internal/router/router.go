// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/nexa-tui/internal/logging"
)

// DefaultGuestName is the display name before sign-in.
const DefaultGuestName = "Guest"

// Outcome describes what a navigation request did.
type Outcome struct {
	// Requested is the screen the caller asked for.
	Requested Screen `json:"requested"`
	// Target is where the request resolves to after the auth guard.
	Target Screen `json:"target"`
	// Redirected is true when a protected screen was refused.
	Redirected bool `json:"redirected"`
	// Started is true when a timed handoff began; the caller must call
	// CompleteTransition after the delay.
	Started bool `json:"started"`
	// Queued is true when the request waits behind a running handoff.
	Queued bool `json:"queued"`
	// Switched is true when the current screen changed immediately.
	Switched bool `json:"switched"`
}

// Options configures a Router.
type Options struct {
	GuestName  string
	BookingTTL time.Duration
	Logger     *zap.Logger
	Now        func() time.Time
}

// Router is the application state machine. All methods are safe for
// concurrent use.
type Router struct {
	mu sync.Mutex

	current       Screen
	session       Session
	guestName     string
	sidebarOpen   bool
	transitioning bool
	target        Screen
	pending       *Screen

	booking    *Booking
	bookedAt   time.Time
	bookingTTL time.Duration

	now    func() time.Time
	logger *zap.Logger
}

// New returns a router on Landing with a guest session.
func New(opts Options) *Router {
	guest := strings.TrimSpace(opts.GuestName)
	if guest == "" {
		guest = DefaultGuestName
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Router{
		current:    ScreenLanding,
		guestName:  guest,
		session:    Session{DisplayName: guest, StatusLabel: StatusOffline},
		bookingTTL: opts.BookingTTL,
		now:        now,
		logger:     logging.Named(opts.Logger, "router"),
	}
}

// =============================================================================
// NAVIGATION
// =============================================================================

// resolveLocked applies the auth guard.
func (r *Router) resolveLocked(target Screen) (Screen, bool) {
	if !target.Valid() || (target.IsProtected() && !r.session.Authenticated) {
		return ScreenLanding, true
	}
	return target, false
}

// RequestTransition asks for a timed handoff to target.
//
// A protected target without a session is refused and the router switches
// straight to Landing. While a handoff is running the request is queued,
// replacing any earlier queued request.
func (r *Router) RequestTransition(target Screen) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requestLocked(target, true)
}

// Navigate switches to target immediately, subject to the same auth guard.
// Requests made during a handoff are queued like RequestTransition.
func (r *Router) Navigate(target Screen) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requestLocked(target, false)
}

func (r *Router) requestLocked(requested Screen, timed bool) Outcome {
	resolved, redirected := r.resolveLocked(requested)
	out := Outcome{Requested: requested, Target: resolved, Redirected: redirected}

	if redirected {
		r.logger.Info("redirecting unauthenticated request",
			zap.Stringer("requested", requested))
	}

	if r.transitioning {
		r.pending = &resolved
		out.Queued = true
		r.logger.Debug("transition queued", zap.Stringer("target", resolved))
		return out
	}

	if timed && !redirected {
		r.transitioning = true
		r.target = resolved
		out.Started = true
		r.logger.Debug("transition started", zap.Stringer("target", resolved))
		return out
	}

	r.switchLocked(resolved)
	out.Switched = true
	return out
}

// switchLocked makes target current and updates the sidebar: entering the
// modules from a public page opens it, public pages close it.
func (r *Router) switchLocked(target Screen) {
	prev := r.current
	r.current = target
	if target.IsPublic() {
		r.sidebarOpen = false
	} else if prev.IsPublic() {
		r.sidebarOpen = true
	}
}

// CompleteTransition finishes the running handoff. If a request was queued
// it is started (or applied) and its Outcome returned; otherwise the zero
// Outcome is returned. Calling it with no handoff running does nothing.
func (r *Router) CompleteTransition() Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.transitioning {
		return Outcome{}
	}

	// Session may have changed while the handoff ran.
	target, _ := r.resolveLocked(r.target)
	r.transitioning = false
	r.switchLocked(target)
	r.logger.Debug("transition completed", zap.Stringer("current", target))

	if r.pending == nil {
		return Outcome{}
	}
	next := *r.pending
	r.pending = nil
	return r.requestLocked(next, true)
}

// =============================================================================
// SESSION
// =============================================================================

// Authenticate marks the session signed in as displayName (the guest name
// when blank) and starts a transition to the Dashboard. Calling it again
// overwrites the session fields.
func (r *Router) Authenticate(displayName string) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = r.guestName
	}
	r.session = Session{
		Authenticated: true,
		DisplayName:   name,
		StatusLabel:   StatusOnline,
	}
	r.logger.Info("session authenticated", zap.String("name", name))
	return r.requestLocked(ScreenDashboard, true)
}

// SignOut clears the session and returns to Landing.
func (r *Router) SignOut() Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.session = Session{DisplayName: r.guestName, StatusLabel: StatusOffline}
	r.pending = nil
	r.transitioning = false
	r.switchLocked(ScreenLanding)
	return Outcome{Requested: ScreenLanding, Target: ScreenLanding, Switched: true}
}

// =============================================================================
// BOOKING
// =============================================================================

// SetActiveBooking replaces the active booking.
func (r *Router) SetActiveBooking(b Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking := b
	r.booking = &booking
	r.bookedAt = r.now()
	r.logger.Info("active booking set",
		zap.String("destination", b.Destination), zap.Stringer("altitude", b.Altitude))
}

// ActiveBooking returns the active booking, if any. With a booking TTL
// configured, an expired booking is cleared and reported as absent.
func (r *Router) ActiveBooking() (Booking, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.booking == nil {
		return Booking{}, false
	}
	if r.bookingTTL > 0 && r.now().Sub(r.bookedAt) >= r.bookingTTL {
		r.booking = nil
		r.logger.Debug("active booking expired")
		return Booking{}, false
	}
	return *r.booking, true
}

// ClearActiveBooking removes the active booking.
func (r *Router) ClearActiveBooking() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.booking = nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// ToggleSidebar flips sidebar visibility and returns the new value.
func (r *Router) ToggleSidebar() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sidebarOpen = !r.sidebarOpen
	return r.sidebarOpen
}

// Current returns the current screen.
func (r *Router) Current() Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Session returns a copy of the session.
func (r *Router) Session() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// IsTransitioning reports whether a handoff is running.
func (r *Router) IsTransitioning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transitioning
}

// State is a point-in-time copy of the router.
type State struct {
	Current       Screen   `json:"current"`
	Session       Session  `json:"session"`
	Booking       *Booking `json:"activeBooking,omitempty"`
	SidebarOpen   bool     `json:"sidebarOpen"`
	Transitioning bool     `json:"transitioning"`
	Target        *Screen  `json:"target,omitempty"`
	Pending       *Screen  `json:"pending,omitempty"`
}

// Snapshot returns the full state.
func (r *Router) Snapshot() State {
	booking, ok := r.ActiveBooking()

	r.mu.Lock()
	defer r.mu.Unlock()
	st := State{
		Current:       r.current,
		Session:       r.session,
		SidebarOpen:   r.sidebarOpen,
		Transitioning: r.transitioning,
	}
	if ok {
		st.Booking = &booking
	}
	if r.transitioning {
		target := r.target
		st.Target = &target
	}
	if r.pending != nil {
		pending := *r.pending
		st.Pending = &pending
	}
	return st
}
