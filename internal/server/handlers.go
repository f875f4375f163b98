// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/modules"
	"github.com/jeranaias/nexa-tui/internal/reviews"
	"github.com/jeranaias/nexa-tui/internal/router"
)

// Module endpoints build a fresh module state per request. Each request is
// its own sequence, so the slot only carries validation and the call.

// ============================================================================
// ROUTER AND SESSION
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.opts.Router.Snapshot())
}

type navigateRequest struct {
	Target string `json:"target"`
	// Timed runs the boot handoff instead of switching immediately.
	Timed bool `json:"timed"`
}

type navigateResponse struct {
	Outcome router.Outcome `json:"outcome"`
	State   router.State   `json:"state"`
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if !decode(w, r, &req) {
		return
	}
	target, err := router.ParseScreen(req.Target)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown screen "+strings.TrimSpace(req.Target))
		return
	}

	var out router.Outcome
	if req.Timed {
		out = s.opts.Router.RequestTransition(target)
	} else {
		out = s.opts.Router.Navigate(target)
	}
	s.settle(out)
	s.writeJSON(w, http.StatusOK, navigateResponse{Outcome: out, State: s.opts.Router.Snapshot()})
}

type signInRequest struct {
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decode(w, r, &req) {
		return
	}
	name, err := s.opts.Verifier.SignIn(req.Name, req.Code)
	if err != nil {
		s.writeFailure(w, "sign in", err)
		return
	}
	s.settle(s.opts.Router.Authenticate(name))
	s.writeJSON(w, http.StatusOK, s.opts.Router.Snapshot())
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	s.opts.Router.SignOut()
	s.writeJSON(w, http.StatusOK, s.opts.Router.Snapshot())
}

func (s *Server) handleBooking(w http.ResponseWriter, r *http.Request) {
	b, ok := s.opts.Router.ActiveBooking()
	if !ok {
		writeError(w, http.StatusNotFound, "no active booking")
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleClearBooking(w http.ResponseWriter, r *http.Request) {
	s.opts.Router.ClearActiveBooking()
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// REVIEWS AND CONTACT
// ============================================================================

type reviewsResponse struct {
	Subject string           `json:"subject"`
	Reviews []reviews.Review `json:"reviews"`
	Average *float64         `json:"average,omitempty"`
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	resp := reviewsResponse{Subject: subject, Reviews: s.opts.Reviews.Reviews(subject)}
	if resp.Reviews == nil {
		resp.Reviews = []reviews.Review{}
	}
	if avg, ok := s.opts.Reviews.Average(subject); ok {
		resp.Average = &avg
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type reviewRequest struct {
	UserName string `json:"userName"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

func (s *Server) handleAddReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.UserName) == "" {
		req.UserName = s.opts.Router.Session().DisplayName
	}
	rev, err := s.opts.Reviews.Append(r.Context(), chi.URLParam(r, "subject"), reviews.Draft{
		UserName: req.UserName,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		s.writeFailure(w, "append review", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rev)
}

type contactRequest struct {
	Subject string `json:"subject"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// handleContact validates the message. Nothing is sent anywhere.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decode(w, r, &req) {
		return
	}
	form := modules.ContactForm{Subject: req.Subject, Name: req.Name, Email: req.Email, Message: req.Message}
	if err := form.Validate(); err != nil {
		s.writeFailure(w, "contact", err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "received"})
}

// ============================================================================
// MODULES
// ============================================================================

type lessonRequest struct {
	Grade   int    `json:"grade"`
	Subject string `json:"subject"`
	Topic   string `json:"topic"`
}

func (s *Server) handleLesson(w http.ResponseWriter, r *http.Request) {
	req := lessonRequest{Grade: modules.DefaultEducationForm().Grade, Subject: modules.DefaultEducationForm().Subject}
	if !decode(w, r, &req) {
		return
	}
	ed := modules.NewEducation(s.opts.Completion)
	ed.Form = modules.EducationForm{Grade: req.Grade, Subject: req.Subject, Topic: req.Topic}
	pending, err := ed.Submit()
	if err != nil {
		s.writeFailure(w, "lesson", err)
		return
	}
	res := pending.Do(r.Context())
	if res.Err != nil {
		s.writeFailure(w, "lesson", res.Err)
		return
	}
	s.writeJSON(w, http.StatusOK, res.Value)
}

type planRequest struct {
	Destination string `json:"destination"`
	Days        string `json:"days"`
	Budget      string `json:"budget"`
}

type planResponse struct {
	Itinerary *completion.Itinerary `json:"itinerary"`
	Booking   router.Booking        `json:"booking"`
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	def := modules.DefaultTravelForm()
	req := planRequest{Days: def.Days, Budget: def.Budget}
	if !decode(w, r, &req) {
		return
	}
	travel := modules.NewTravel(s.opts.Completion, s.opts.Hotels, s.opts.Reviews, s.opts.Router)
	travel.Form = modules.TravelForm{Destination: req.Destination, Days: req.Days, Budget: req.Budget}
	pending, err := travel.SubmitPlan()
	if err != nil {
		s.writeFailure(w, "plan", err)
		return
	}
	res := pending.Do(r.Context())
	travel.ApplyPlan(res)
	if res.Err != nil {
		s.writeFailure(w, "plan", res.Err)
		return
	}
	s.writeJSON(w, http.StatusOK, planResponse{Itinerary: res.Value.Itinerary, Booking: res.Value.Booking()})
}

type hotelView struct {
	ID string `json:"id"`
	completion.Hotel
	GuestRating *float64 `json:"guestRating,omitempty"`
	ReviewCount int      `json:"reviewCount"`
}

type hotelsResponse struct {
	Location string      `json:"location"`
	Source   string      `json:"source"`
	Hotels   []hotelView `json:"hotels"`
}

func (s *Server) handleHotels(w http.ResponseWriter, r *http.Request) {
	travel := modules.NewTravel(s.opts.Completion, s.opts.Hotels, s.opts.Reviews, s.opts.Router)
	location := r.URL.Query().Get("location")
	if strings.TrimSpace(location) == "" {
		if b, ok := s.opts.Router.ActiveBooking(); ok {
			location = b.Destination
		}
	}
	pending, err := travel.SearchHotels(location)
	if err != nil {
		s.writeFailure(w, "hotels", err)
		return
	}
	res := pending.Do(r.Context())
	if res.Err != nil {
		s.writeFailure(w, "hotels", res.Err)
		return
	}
	out := hotelsResponse{Location: res.Value.Location, Source: string(res.Value.Source), Hotels: make([]hotelView, len(res.Value.Hotels))}
	for i, h := range res.Value.Hotels {
		v := hotelView{ID: h.ID, Hotel: h.Hotel, ReviewCount: s.opts.Reviews.Count(h.ID)}
		if avg, ok := travel.HotelRating(h.ID); ok {
			v.GuestRating = &avg
		}
		out.Hotels[i] = v
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFleet(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, modules.Fleet)
}

type diagnoseRequest struct {
	Symptoms string `json:"symptoms"`
}

func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	var req diagnoseRequest
	if !decode(w, r, &req) {
		return
	}
	health := modules.NewHealth(s.opts.Completion)
	health.Symptoms = req.Symptoms
	pending, err := health.Submit()
	if err != nil {
		s.writeFailure(w, "diagnose", err)
		return
	}
	res := pending.Do(r.Context())
	if res.Err != nil {
		s.writeFailure(w, "diagnose", res.Err)
		return
	}
	s.writeJSON(w, http.StatusOK, res.Value)
}

type tipsResponse struct {
	Booking *router.Booking `json:"booking,omitempty"`
	Tips    []string        `json:"tips"`
}

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	var resp tipsResponse
	if b, ok := s.opts.Router.ActiveBooking(); ok {
		resp.Booking = &b
	}
	resp.Tips = modules.TravelTips(resp.Booking)
	if resp.Tips == nil {
		resp.Tips = []string{}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type agroRequest struct {
	Location string `json:"location"`
	Crop     string `json:"crop"`
}

func (s *Server) handleAgro(w http.ResponseWriter, r *http.Request) {
	var req agroRequest
	if !decode(w, r, &req) {
		return
	}
	agro := modules.NewAgriculture(s.opts.Completion, s.opts.Plants)
	agro.Form = modules.AgroForm{Location: req.Location, Crop: req.Crop}
	pending, err := agro.Submit()
	if err != nil {
		s.writeFailure(w, "agro", err)
		return
	}
	res := pending.Do(r.Context())
	if res.Err != nil {
		s.writeFailure(w, "agro", res.Err)
		return
	}
	s.writeJSON(w, http.StatusOK, res.Value)
}

func (s *Server) handlePlants(w http.ResponseWriter, r *http.Request) {
	agro := modules.NewAgriculture(s.opts.Completion, s.opts.Plants)
	pending, ok := agro.RefreshPlants()
	if !ok {
		writeError(w, http.StatusNotImplemented, "plant lookup is not configured")
		return
	}
	res := pending.Do(r.Context())
	if res.Err != nil {
		s.writeFailure(w, "plants", res.Err)
		return
	}
	s.writeJSON(w, http.StatusOK, res.Value)
}

type chatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type chatRequest struct {
	History []chatTurn `json:"history"`
	Message string     `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is empty")
		return
	}
	if len(req.History) > MaxChatHistory {
		writeError(w, http.StatusBadRequest, "history is too long")
		return
	}
	history := make([]completion.Turn, 0, len(req.History))
	for _, t := range req.History {
		role := completion.Role(t.Role)
		if role != completion.RoleUser && role != completion.RoleModel {
			writeError(w, http.StatusBadRequest, "history roles must be user or model")
			return
		}
		history = append(history, completion.Turn{Role: role, Text: t.Text})
	}
	reply := s.opts.Completion.Chat(r.Context(), history, strings.TrimSpace(req.Message))
	s.writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}
