// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nexa-tui/internal/modules"
	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/ui/components"
)

var contactChannels = [][2]string{
	{"System Uplink", "+977-1-4XXXXXX"},
	{"Data Portal", "matrix@nexa.core"},
	{"Physical Node", "Lalitpur, Nepal"},
}

// Contact is the public message form. A valid form is acknowledged and
// cleared; nothing leaves the machine.
type Contact struct {
	deps Deps

	form     fields
	subject  int
	subjPos  int
	nameIn   int
	emailIn  int
	msgPos   int
	sendPos  int
	message  textarea.Model
	fieldErr map[string]string
}

// NewContact creates the contact page.
func NewContact(deps Deps) *Contact {
	c := &Contact{deps: deps}
	c.subjPos = c.form.control()
	c.nameIn = c.form.add(newInput("John Doe", 64))
	c.emailIn = c.form.add(newInput("john@example.com", 128))
	c.msgPos = c.form.control()
	c.sendPos = c.form.control()

	c.message = textarea.New()
	c.message.Placeholder = "Describe the inquiry..."
	c.message.ShowLineNumbers = false
	c.message.SetHeight(4)
	c.message.SetWidth(40)
	c.message.CharLimit = 2000
	return c
}

func (c *Contact) ID() router.Screen { return router.ScreenContact }

func (c *Contact) Enter() tea.Cmd {
	return c.focusAt(c.form.positionOf(c.nameIn))
}

func (c *Contact) Leave() {
	c.form.blurAll()
	c.message.Blur()
}

func (c *Contact) Capturing() bool {
	return c.form.onInput() || c.form.at(c.msgPos)
}

func (c *Contact) Help() []key.Binding {
	return []key.Binding{keys.Next, keys.Prev, keys.Submit, keys.Back}
}

func (c *Contact) focusAt(pos int) tea.Cmd {
	cmd := c.form.focusAt(pos)
	if c.form.at(c.msgPos) {
		return c.message.Focus()
	}
	c.message.Blur()
	return cmd
}

// Form returns the current field values.
func (c *Contact) Form() modules.ContactForm {
	return modules.ContactForm{
		Subject: modules.ContactSubjects[c.subject],
		Name:    c.form.value(c.nameIn),
		Email:   c.form.value(c.emailIn),
		Message: c.message.Value(),
	}
}

func (c *Contact) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(km, keys.Back):
		return Navigate(router.ScreenLanding)
	case key.Matches(km, keys.Next):
		return c.focusAt(c.form.focus + 1)
	case key.Matches(km, keys.Prev):
		return c.focusAt(c.form.focus - 1)
	}

	switch {
	case c.form.at(c.subjPos):
		switch {
		case key.Matches(km, keys.Left):
			c.subject = cycle(c.subject, -1, len(modules.ContactSubjects))
		case key.Matches(km, keys.Right):
			c.subject = cycle(c.subject, 1, len(modules.ContactSubjects))
		case key.Matches(km, keys.Submit):
			return c.focusAt(c.form.focus + 1)
		}
		return nil
	case c.form.at(c.msgPos):
		var cmd tea.Cmd
		c.message, cmd = c.message.Update(msg)
		return cmd
	case key.Matches(km, keys.Submit):
		if c.form.at(c.sendPos) {
			return c.submit()
		}
		return c.focusAt(c.form.focus + 1)
	}
	return c.form.update(msg)
}

func (c *Contact) submit() tea.Cmd {
	if err := c.Form().Validate(); err != nil {
		c.fieldErr = modules.FieldErrors(err)
		return nil
	}
	c.fieldErr = nil
	c.subject = 0
	for i := range c.form.inputs {
		c.form.inputs[i].Reset()
	}
	c.message.Reset()
	return tea.Batch(
		toast(components.ToastSuccess, "Payload received. Our support cadre will respond shortly."),
		c.focusAt(c.form.positionOf(c.nameIn)),
	)
}

func (c *Contact) View(width, height int) string {
	th := c.deps.Theme

	var channels []string
	for _, ch := range contactChannels {
		channels = append(channels, components.KeyValue(th, ch[0], ch[1]))
	}
	intro := lipgloss.JoinVertical(lipgloss.Left,
		th.Title.Render("Initiate Communication."),
		th.Subtitle.Render("Our support cadre is standing by to resolve any interface anomalies or partnership inquiries."),
		"",
		lipgloss.JoinVertical(lipgloss.Left, channels...),
	)

	form := lipgloss.JoinVertical(lipgloss.Left,
		components.Choice(th, "subject matter", modules.ContactSubjects[c.subject], c.form.at(c.subjPos)),
		th.FieldError.Render(c.fieldErr["subject"]),
		components.Field(th, "full name", c.form.view(c.nameIn), c.form.focused(c.nameIn), c.fieldErr["name"]),
		components.Field(th, "node id (email)", c.form.view(c.emailIn), c.form.focused(c.emailIn), c.fieldErr["email"]),
		components.Field(th, "message payload", c.message.View(), c.form.at(c.msgPos), c.fieldErr["message"]),
		"",
		components.Button(th, "Transmit Payload", c.form.at(c.sendPos)),
	)

	page := lipgloss.JoinVertical(lipgloss.Left, intro, "", form)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, page)
}
