// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jeranaias/nexa-tui/internal/apperr"
	"github.com/jeranaias/nexa-tui/internal/auth"
	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/hotels"
	"github.com/jeranaias/nexa-tui/internal/logging"
	"github.com/jeranaias/nexa-tui/internal/modules"
	"github.com/jeranaias/nexa-tui/internal/reviews"
	"github.com/jeranaias/nexa-tui/internal/router"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is used when Options.Addr is empty.
	DefaultAddr = "127.0.0.1:8787"

	// MaxRequestBodySize caps JSON request bodies (64KB).
	MaxRequestBodySize = 64 * 1024

	// MaxChatHistory bounds the turns accepted by POST /api/chat.
	MaxChatHistory = 100
)

// ============================================================================
// SERVER
// ============================================================================

// Options wires the server to the same collaborators the terminal UI uses.
type Options struct {
	Addr   string
	Token  string
	Logger *zap.Logger

	// RequestsPerSec limits each client address. Zero disables limiting.
	RequestsPerSec float64

	// TransitionDelay is how long a timed handoff runs before the router
	// completes it. Zero completes it before the response is written.
	TransitionDelay time.Duration

	Router     *router.Router
	Verifier   *auth.Verifier
	Completion *completion.Client
	Hotels     *hotels.Finder
	Reviews    *reviews.Store
	// Plants may be nil when no plant lookup is configured.
	Plants modules.PlantLookup
}

// Server is the local JSON API.
type Server struct {
	opts    Options
	logger  *zap.Logger
	handler http.Handler
	srv     *http.Server

	mu     sync.Mutex
	timers []*time.Timer
}

// New builds the server and its routes. It does not listen until Run.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Verifier == nil {
		opts.Verifier = auth.NewVerifier("")
	}
	s := &Server{opts: opts, logger: logging.Named(opts.Logger, "server")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware())
	if opts.RequestsPerSec > 0 {
		r.Use(RateLimitMiddleware(NewRateLimiter(opts.RequestsPerSec, int(opts.RequestsPerSec)+1), s.logger))
	}
	r.Use(AuthMiddleware(opts.Token, s.logger))
	s.addRoutes(r)

	s.handler = r
	s.srv = &http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.opts.Addr
}

// Run listens and serves until ctx is cancelled or the server fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	s.logger.Info("server started", zap.String("addr", ln.Addr().String()))

	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errc
		return nil
	}
}

// Shutdown stops pending handoff timers and drains connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.mu.Unlock()

	s.logger.Info("server shutting down")
	return s.srv.Shutdown(ctx)
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) addRoutes(r chi.Router) {
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/navigate", s.handleNavigate)
		r.Post("/session", s.handleSignIn)
		r.Delete("/session", s.handleSignOut)
		r.Get("/booking", s.handleBooking)
		r.Delete("/booking", s.handleClearBooking)
		r.Get("/reviews/{subject}", s.handleListReviews)
		r.Post("/reviews/{subject}", s.handleAddReview)
		r.Post("/contact", s.handleContact)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/education/lesson", s.handleLesson)
			r.Post("/travel/plan", s.handlePlan)
			r.Get("/travel/hotels", s.handleHotels)
			r.Get("/travel/fleet", s.handleFleet)
			r.Post("/health/diagnose", s.handleDiagnose)
			r.Get("/health/tips", s.handleTips)
			r.Post("/agriculture/analyze", s.handleAgro)
			r.Get("/agriculture/plants", s.handlePlants)
			r.Post("/chat", s.handleChat)
		})
	})
}

// requireSession mirrors the router's guard for the module endpoints.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.opts.Router.Session().Authenticated {
			s.writeJSON(w, http.StatusUnauthorized, errorBody{
				Error:    errorDetail{Message: "sign in required", Code: http.StatusUnauthorized},
				Redirect: router.ScreenLanding.String(),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ============================================================================
// TRANSITIONS
// ============================================================================

// settle drives a started handoff to completion, following any queued
// request the completion starts.
func (s *Server) settle(out router.Outcome) {
	if !out.Started {
		return
	}
	if s.opts.TransitionDelay <= 0 {
		for out.Started {
			out = s.opts.Router.CompleteTransition()
		}
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers = append(s.timers, time.AfterFunc(s.opts.TransitionDelay, func() {
		s.settle(s.opts.Router.CompleteTransition())
	}))
}

// ============================================================================
// HELPERS
// ============================================================================

type errorDetail struct {
	Message string            `json:"message"`
	Code    int               `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorBody struct {
	Error    errorDetail `json:"error"`
	Redirect string      `json:"redirect,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	writeJSON(w, status, v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Message: message, Code: status}})
}

// writeFailure maps err onto a status code. Validation errors carry their
// fields; everything else gets the same short line the UI shows.
func (s *Server) writeFailure(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidationRejected:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Message: apperr.UserMessage(err),
			Code:    http.StatusBadRequest,
			Fields:  modules.FieldErrors(err),
		}})
		return
	case apperr.KindServiceUnavailable:
		status = http.StatusServiceUnavailable
	case apperr.KindMalformedResponse:
		status = http.StatusBadGateway
	}
	s.logger.Warn("request failed", zap.String("op", op), zap.Error(err))
	writeError(w, status, apperr.UserMessage(err))
}

// decode reads a bounded JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", MaxRequestBodySize))
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
