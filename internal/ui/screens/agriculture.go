// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/modules"
	"github.com/jeranaias/nexa-tui/internal/plants"
	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/ui/components"
)

type (
	agroMsg   modules.Response[*completion.AgroReport]
	plantsMsg modules.Response[*plants.Overview]
)

// maxPlantRows bounds each plant panel.
const maxPlantRows = 5

// Agriculture is the crop analysis screen with the seed vault, market
// board and plant lookup panels.
type Agriculture struct {
	deps  Deps
	state *modules.Agriculture

	form       fields
	locationIn int
	cropIn     int
	sendPos    int
	fieldErr   map[string]string
	spinner    components.Spinner
}

// NewAgriculture creates the agriculture screen over state.
func NewAgriculture(deps Deps, state *modules.Agriculture) *Agriculture {
	a := &Agriculture{deps: deps, state: state, spinner: components.NewSpinner(deps.Theme, "Analyzing soil and climate")}
	a.locationIn = a.form.add(newInput("e.g. Chitwan", 80))
	a.cropIn = a.form.add(newInput("e.g. Rice", 40))
	a.sendPos = a.form.control()
	return a
}

func (a *Agriculture) ID() router.Screen { return router.ScreenAgriculture }

// Enter focuses the form and loads the plant panels the first time.
func (a *Agriculture) Enter() tea.Cmd {
	cmd := a.form.focusAt(0)
	if _, loaded := a.state.Plants.Value(); loaded || a.state.Plants.Loading() {
		return cmd
	}
	return tea.Batch(cmd, a.refreshPlants())
}

func (a *Agriculture) Leave() {
	a.state.Leave()
	a.spinner.Stop()
	a.form.blurAll()
}

func (a *Agriculture) Capturing() bool { return a.form.onInput() }

func (a *Agriculture) Help() []key.Binding {
	h := []key.Binding{keys.Next, keys.Submit}
	if a.state.PlantsAvailable() {
		h = append(h, keys.Refresh)
	}
	return h
}

func (a *Agriculture) refreshPlants() tea.Cmd {
	pending, ok := a.state.RefreshPlants()
	if !ok {
		return nil
	}
	return run(pending, func(r modules.Response[*plants.Overview]) plantsMsg { return plantsMsg(r) })
}

func (a *Agriculture) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case agroMsg:
		a.state.Report.Apply(modules.Response[*completion.AgroReport](msg))
		if !a.state.Report.Loading() {
			a.spinner.Stop()
		}
		return nil
	case plantsMsg:
		a.state.Plants.Apply(modules.Response[*plants.Overview](msg))
		return nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Next):
			return a.form.move(1)
		case key.Matches(msg, keys.Prev):
			return a.form.move(-1)
		case key.Matches(msg, keys.Refresh):
			return a.refreshPlants()
		case key.Matches(msg, keys.Submit):
			return a.submit()
		}
		return a.form.update(msg)
	}
	return nil
}

func (a *Agriculture) submit() tea.Cmd {
	a.state.Form = modules.AgroForm{
		Location: a.form.value(a.locationIn),
		Crop:     a.form.value(a.cropIn),
	}
	pending, err := a.state.Submit()
	if err != nil {
		a.fieldErr = modules.FieldErrors(err)
		return nil
	}
	a.fieldErr = nil
	return tea.Batch(a.spinner.Start(), run(pending, func(r modules.Response[*completion.AgroReport]) agroMsg {
		return agroMsg(r)
	}))
}

func (a *Agriculture) View(width, height int) string {
	th := a.deps.Theme
	inner := width - 4
	if inner > 96 {
		inner = 96
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top,
			components.Field(th, "location", a.form.view(a.locationIn), a.form.focused(a.locationIn), a.fieldErr["location"]),
			"  ",
			components.Field(th, "crop", a.form.view(a.cropIn), a.form.focused(a.cropIn), a.fieldErr["crop"]),
		),
		components.Button(th, "Analyze", a.form.at(a.sendPos)),
	)

	page := lipgloss.JoinVertical(lipgloss.Left,
		th.Title.Render("Agri.Climate"),
		form,
		"",
		a.reportView(inner),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, a.seedsView(inner/2), " ", a.marketView(inner-inner/2-1)),
		"",
		a.plantsView(inner),
	)
	return lipgloss.NewStyle().Padding(1, 2).MaxWidth(width).MaxHeight(height).Render(page)
}

func (a *Agriculture) reportView(width int) string {
	th := a.deps.Theme
	var status string
	switch {
	case a.state.Report.Loading():
		status = a.spinner.View()
	case a.state.Report.Err() != nil:
		status = components.ErrorLine(th, a.state.Report.Err())
	}
	r, ok := a.state.Report.Value()
	if !ok || r == nil {
		return status
	}
	wrap := th.Value.Width(width - 16)
	card := components.Card(th, "Field Report", lipgloss.JoinVertical(lipgloss.Left,
		th.Label.Width(14).Render("SUITABILITY")+wrap.Render(r.Suitability),
		th.Label.Width(14).Render("BEST VARIETY")+wrap.Render(r.BestVariety),
		th.Label.Width(14).Render("SOIL")+wrap.Render(r.SoilTips),
		th.Label.Width(14).Render("CLIMATE RISK")+th.Warning.Width(width-16).Render(r.ClimateRisk),
	), width)
	return lipgloss.JoinVertical(lipgloss.Left, status, card)
}

func (a *Agriculture) seedsView(width int) string {
	th := a.deps.Theme
	rows := make([]string, len(modules.SeedVault))
	for i, s := range modules.SeedVault {
		rows[i] = th.Value.Render(s.Name) + "  " + th.Muted.Render(s.Crop+" . "+s.Region+" . "+s.Yield)
	}
	return components.Card(th, "Seed Vault", lipgloss.JoinVertical(lipgloss.Left, rows...), width)
}

func (a *Agriculture) marketView(width int) string {
	th := a.deps.Theme
	rows := make([]string, len(modules.Market))
	for i, m := range modules.Market {
		trend := th.Muted.Render("=")
		switch m.Trend {
		case modules.TrendUp:
			trend = th.Success.Render("^")
		case modules.TrendDown:
			trend = th.Error.Render("v")
		}
		rows[i] = th.Value.Width(16).Render(m.Item) + th.Accent.Render(modules.FormatNPR(m.Price)) +
			th.Muted.Render("/kg ") + trend
	}
	return components.Card(th, "Market Hub", lipgloss.JoinVertical(lipgloss.Left, rows...), width)
}

func (a *Agriculture) plantsView(width int) string {
	th := a.deps.Theme
	if !a.state.PlantsAvailable() {
		return th.Muted.Render("Plant library offline. Set plants.api_key to enable species and pest lookup.")
	}
	if a.state.Plants.Loading() {
		return th.Muted.Render("Loading plant library...")
	}
	if err := a.state.Plants.Err(); err != nil {
		if _, ok := a.state.Plants.Value(); !ok {
			return components.ErrorLine(th, err)
		}
	}
	ov, ok := a.state.Plants.Value()
	if !ok || ov == nil {
		return ""
	}

	var species, pests []string
	if ov.Species != nil {
		for i, s := range ov.Species.Data {
			if i == maxPlantRows {
				break
			}
			species = append(species, th.Value.Render(s.CommonName)+"  "+
				th.Muted.Render(s.PrimaryScientificName()+" . "+s.Watering+" water"))
		}
	}
	if ov.Pests != nil {
		for i, p := range ov.Pests.Data {
			if i == maxPlantRows {
				break
			}
			line := th.Value.Render(p.CommonName)
			if summary := strings.TrimSpace(p.Summary()); summary != "" {
				line += "  " + th.Muted.Render(firstSentence(summary))
			}
			pests = append(pests, line)
		}
	}
	half := width / 2
	return lipgloss.JoinHorizontal(lipgloss.Top,
		components.Card(th, "Species", lipgloss.JoinVertical(lipgloss.Left, species...), half),
		" ",
		components.Card(th, "Pests & Disease", lipgloss.JoinVertical(lipgloss.Left, pests...), width-half-1),
	)
}

func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i > 0 {
		return s[:i+1]
	}
	return s
}
