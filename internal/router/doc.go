// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router holds nexa's process-wide view state: which screen is
// current, who is signed in, the active travel booking, sidebar visibility
// and whether a boot transition is running.
//
// # Screens
//
// Landing, About and Contact are public. Every other screen is protected:
// an unauthenticated request for one resolves to Landing instead, silently.
//
// # Transitions
//
// RequestTransition starts a timed handoff. The caller (the TUI's Update
// loop) schedules a tick for the configured delay and then calls
// CompleteTransition. While a handoff runs, further requests are queued in a
// single slot where the latest request wins; the queued request starts as
// soon as the running one completes. Navigate switches immediately, for
// sidebar and header links.
//
// # Usage
//
//	r := router.New(router.Options{GuestName: "Guest"})
//	out := r.Authenticate("Asha")
//	if out.Started {
//	    // after the delay:
//	    r.CompleteTransition()
//	}
//	r.Current() // router.ScreenDashboard
package router
