// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes the hub over a local JSON API so other programs
// can drive the same router, review store and completion client as the
// terminal UI.
//
// # Endpoints
//
//   - GET    /healthz                    - Liveness
//   - GET    /api/state                  - Router snapshot
//   - POST   /api/navigate               - Request a screen (auth guard applies)
//   - POST   /api/session                - Sign in
//   - DELETE /api/session                - Sign out
//   - GET    /api/booking                - Active booking
//   - DELETE /api/booking                - Clear the booking
//   - GET    /api/reviews/{subject}      - Reviews and average for a subject
//   - POST   /api/reviews/{subject}      - Append a review
//   - POST   /api/contact                - Validate a contact message
//
// Signed-in only:
//
//   - POST /api/education/lesson
//   - POST /api/travel/plan               - Also replaces the active booking
//   - GET  /api/travel/hotels?location=X
//   - GET  /api/travel/fleet
//   - POST /api/health/diagnose
//   - GET  /api/health/tips
//   - POST /api/agriculture/analyze
//   - GET  /api/agriculture/plants
//   - POST /api/chat
//
// # Security
//
//   - Optional bearer token, compared in constant time
//   - Per-address rate limiting
//   - Security headers on every response
//   - Request bodies capped at MaxRequestBodySize
package server
