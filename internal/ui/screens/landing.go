// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nexa-tui/internal/apperr"
	"github.com/jeranaias/nexa-tui/internal/auth"
	"github.com/jeranaias/nexa-tui/internal/modules"
	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/ui/components"
)

// Landing is the public entry page. Enter launches the hub, asking for a
// name (and a one-time code when configured) if nobody is signed in.
type Landing struct {
	deps     Deps
	verifier *auth.Verifier

	signingIn bool
	form      fields
	nameIn    int
	codeIn    int
	fieldErr  map[string]string
}

// NewLanding creates the landing page.
func NewLanding(deps Deps, verifier *auth.Verifier) *Landing {
	if verifier == nil {
		verifier = auth.NewVerifier("")
	}
	l := &Landing{deps: deps, verifier: verifier, codeIn: noInput}
	l.nameIn = l.form.add(newInput("Your name", auth.MaxNameLength))
	if verifier.RequiresCode() {
		code := newInput("123456", 6)
		l.codeIn = l.form.add(code)
	}
	l.form.control()
	return l
}

func (l *Landing) ID() router.Screen { return router.ScreenLanding }

func (l *Landing) Enter() tea.Cmd {
	l.closeSignIn()
	return nil
}

func (l *Landing) Leave() { l.closeSignIn() }

func (l *Landing) Capturing() bool { return l.signingIn }

// SigningIn reports whether the sign-in prompt is open.
func (l *Landing) SigningIn() bool { return l.signingIn }

func (l *Landing) Help() []key.Binding {
	if l.signingIn {
		return []key.Binding{keys.Submit, keys.Next, keys.Back}
	}
	return []key.Binding{keys.Launch, keys.About, keys.Contact}
}

func (l *Landing) openSignIn() tea.Cmd {
	l.signingIn = true
	l.fieldErr = nil
	for i := range l.form.inputs {
		l.form.inputs[i].Reset()
	}
	return l.form.focusAt(0)
}

func (l *Landing) closeSignIn() {
	l.signingIn = false
	l.fieldErr = nil
	l.form.blurAll()
}

func (l *Landing) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if !l.signingIn {
		switch {
		case key.Matches(km, keys.Launch):
			if l.deps.Router.Session().Authenticated {
				return launch(router.ScreenDashboard)
			}
			return l.openSignIn()
		case key.Matches(km, keys.About):
			return Navigate(router.ScreenAbout)
		case key.Matches(km, keys.Contact):
			return Navigate(router.ScreenContact)
		}
		return nil
	}

	switch {
	case key.Matches(km, keys.Back):
		l.closeSignIn()
		return nil
	case key.Matches(km, keys.Next):
		return l.form.move(1)
	case key.Matches(km, keys.Prev):
		return l.form.move(-1)
	case key.Matches(km, keys.Submit):
		return l.submit()
	}
	return l.form.update(msg)
}

func (l *Landing) submit() tea.Cmd {
	code := ""
	if l.codeIn != noInput {
		code = l.form.value(l.codeIn)
	}
	name, err := l.verifier.SignIn(l.form.value(l.nameIn), code)
	if err != nil {
		l.fieldErr = modules.FieldErrors(err)
		if len(l.fieldErr) == 0 {
			l.fieldErr = map[string]string{"name": apperr.UserMessage(err)}
		}
		if _, bad := l.fieldErr["code"]; bad && l.codeIn != noInput {
			return l.form.focusAt(l.form.positionOf(l.codeIn))
		}
		return l.form.focusAt(l.form.positionOf(l.nameIn))
	}
	l.closeSignIn()
	return func() tea.Msg { return SignedInMsg{Name: name} }
}

func (l *Landing) View(width, height int) string {
	th := l.deps.Theme
	hero := lipgloss.JoinVertical(lipgloss.Center,
		th.Muted.Render("UNIVERSAL CORE PROTOCOL"),
		"",
		th.HeaderBrand.Render("N E X A"),
		th.Title.Render("The Integrated Himalayan Intelligence."),
		th.Subtitle.Render("Elevating Human Potential through Integrated Technology."),
	)

	var subsystems []string
	for _, tile := range modules.DashboardTiles {
		subsystems = append(subsystems, th.Accent.Render(tile.Title)+"  "+th.Muted.Render(tile.Description))
	}

	var body string
	if l.signingIn {
		body = l.signInView()
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left,
			th.CardTitle.Render("Integrated Subsystems"),
			strings.Join(subsystems, "\n"),
			"",
			components.Button(th, "Launch Hub", true)+"   "+
				th.Muted.Render("a about  c contact"),
		)
	}

	page := lipgloss.JoinVertical(lipgloss.Center, hero, "", body, "",
		th.Muted.Render("Privacy by Design. Developed in the Himalayas."))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, page)
}

func (l *Landing) signInView() string {
	th := l.deps.Theme
	rows := []string{
		th.CardTitle.Render("Sign in"),
		components.Field(th, "name", l.form.view(l.nameIn), l.form.focused(l.nameIn), l.fieldErr["name"]),
	}
	if l.codeIn != noInput {
		rows = append(rows, components.Field(th, "one-time code", l.form.view(l.codeIn),
			l.form.focused(l.codeIn), l.fieldErr["code"]))
	}
	rows = append(rows, "", components.Button(th, "Enter", !l.form.onInput()))
	return th.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
