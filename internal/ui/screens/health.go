// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/modules"
	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/ui/components"
)

type diagnosisMsg modules.Response[*completion.Diagnosis]

// Health is the symptom checker with booking-aware travel advice.
type Health struct {
	deps  Deps
	state *modules.Health

	symptoms textarea.Model
	onButton bool
	fieldErr string
	spinner  components.Spinner
}

// NewHealth creates the health screen over state.
func NewHealth(deps Deps, state *modules.Health) *Health {
	ta := textarea.New()
	ta.Placeholder = "Describe what you are feeling, since when, and where you are..."
	ta.ShowLineNumbers = false
	ta.CharLimit = modules.MaxSymptomsLength
	ta.SetHeight(4)
	ta.SetWidth(56)
	return &Health{
		deps:     deps,
		state:    state,
		symptoms: ta,
		spinner:  components.NewSpinner(deps.Theme, "Analyzing symptoms"),
	}
}

func (h *Health) ID() router.Screen { return router.ScreenHealth }

func (h *Health) Enter() tea.Cmd {
	h.onButton = false
	return h.symptoms.Focus()
}

func (h *Health) Leave() {
	h.state.Leave()
	h.spinner.Stop()
	h.symptoms.Blur()
}

func (h *Health) Capturing() bool { return !h.onButton }

func (h *Health) Help() []key.Binding {
	return []key.Binding{keys.Send, keys.Next}
}

func (h *Health) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case diagnosisMsg:
		h.state.Diagnosis.Apply(modules.Response[*completion.Diagnosis](msg))
		if !h.state.Diagnosis.Loading() {
			h.spinner.Stop()
		}
		return nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		h.spinner, cmd = h.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Send):
			return h.submit()
		case key.Matches(msg, keys.Next), key.Matches(msg, keys.Prev):
			h.onButton = !h.onButton
			if h.onButton {
				h.symptoms.Blur()
				return nil
			}
			return h.symptoms.Focus()
		case h.onButton && key.Matches(msg, keys.Submit):
			return h.submit()
		case h.onButton:
			return nil
		}
		var cmd tea.Cmd
		h.symptoms, cmd = h.symptoms.Update(msg)
		return cmd
	}
	return nil
}

func (h *Health) submit() tea.Cmd {
	h.state.Symptoms = h.symptoms.Value()
	pending, err := h.state.Submit()
	if err != nil {
		h.fieldErr = modules.FieldErrors(err)["symptoms"]
		return nil
	}
	h.fieldErr = ""
	return tea.Batch(h.spinner.Start(), run(pending, func(r modules.Response[*completion.Diagnosis]) diagnosisMsg {
		return diagnosisMsg(r)
	}))
}

func (h *Health) View(width, height int) string {
	th := h.deps.Theme
	inner := width - 4
	if inner > 96 {
		inner = 96
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		components.Field(th, "symptoms", h.symptoms.View(), !h.onButton, h.fieldErr),
		components.Button(th, "Analyze", h.onButton),
		"",
		h.resultView(inner),
	)

	page := lipgloss.JoinVertical(lipgloss.Left,
		th.Title.Render("Health.Hub"),
		th.Subtitle.Render("Preliminary triage. Not a substitute for a doctor."),
		"",
		left,
		"",
		h.tipsView(inner),
		"",
		h.doctorsView(inner),
	)
	return lipgloss.NewStyle().Padding(1, 2).MaxWidth(width).MaxHeight(height).Render(page)
}

func (h *Health) resultView(width int) string {
	th := h.deps.Theme
	var status string
	switch {
	case h.state.Diagnosis.Loading():
		status = h.spinner.View()
	case h.state.Diagnosis.Err() != nil:
		status = components.ErrorLine(th, h.state.Diagnosis.Err())
	}
	d, ok := h.state.Diagnosis.Value()
	if !ok || d == nil {
		return status
	}
	card := components.Card(th, "Assessment", lipgloss.JoinVertical(lipgloss.Left,
		th.Value.Width(width-4).Render(d.Diagnosis),
		"",
		th.Label.Render("URGENCY")+"  "+th.UrgencyStyle(d.Urgency).Render(d.Urgency),
		components.KeyValue(th, "specialist", d.Specialist),
		th.Label.Render("HOSPITALS"),
		components.Bullets(th, d.Hospitals),
	), width)
	return lipgloss.JoinVertical(lipgloss.Left, status, card)
}

func (h *Health) tipsView(width int) string {
	th := h.deps.Theme
	b, ok := h.deps.Router.ActiveBooking()
	if !ok {
		return components.Card(th, "Travel Health",
			th.Muted.Render("No trip planned. Plan one in Travel for altitude advice."), width)
	}
	title := "Travel Health: " + b.Destination + " (" + b.Altitude.String() + ")"
	return components.Card(th, title, components.Bullets(th, modules.TravelTips(&b)), width)
}

func (h *Health) doctorsView(width int) string {
	th := h.deps.Theme
	rows := make([]string, len(modules.Doctors))
	for i, d := range modules.Doctors {
		rows[i] = th.Value.Render(d.Name) + "  " + th.Muted.Render(d.Specialty+" . "+d.Hospital)
	}
	return components.Card(th, "Specialists on call", lipgloss.JoinVertical(lipgloss.Left, rows...), width)
}
