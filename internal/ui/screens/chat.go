// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/modules"
	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/ui/components"
)

type replyMsg modules.Response[string]

// Chat is the free-form assistant. The transcript starts empty every time
// the screen is entered.
type Chat struct {
	deps  Deps
	state *modules.Chat

	input    textinput.Model
	viewport viewport.Model
	spinner  components.Spinner
	width    int
}

// NewChat creates the chat screen over state.
func NewChat(deps Deps, state *modules.Chat) *Chat {
	in := textinput.New()
	in.Placeholder = "Query the system..."
	in.CharLimit = 2000
	in.Prompt = "> "
	return &Chat{
		deps:     deps,
		state:    state,
		input:    in,
		viewport: viewport.New(80, 10),
		spinner:  components.NewSpinner(deps.Theme, "Thinking"),
	}
}

func (c *Chat) ID() router.Screen { return router.ScreenChat }

func (c *Chat) Enter() tea.Cmd {
	c.state.Reset()
	c.spinner.Stop()
	c.input.Reset()
	c.refresh()
	return c.input.Focus()
}

func (c *Chat) Leave() {
	c.state.Reply.Invalidate()
	c.spinner.Stop()
	c.input.Blur()
}

func (c *Chat) Capturing() bool { return true }

func (c *Chat) Help() []key.Binding {
	return []key.Binding{keys.Submit, keys.Clear, keys.Up, keys.Down}
}

func (c *Chat) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case replyMsg:
		if c.state.ApplyReply(modules.Response[string](msg)) {
			c.spinner.Stop()
			c.refresh()
		}
		return nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Submit):
			return c.send()
		case key.Matches(msg, keys.Clear):
			c.state.Reset()
			c.spinner.Stop()
			c.refresh()
			return nil
		case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down),
			msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return cmd
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return cmd
	}
	return nil
}

func (c *Chat) send() tea.Cmd {
	pending, ok := c.state.Send(c.input.Value())
	if !ok {
		return nil
	}
	c.input.Reset()
	c.refresh()
	return tea.Batch(c.spinner.Start(), run(pending, func(r modules.Response[string]) replyMsg {
		return replyMsg(r)
	}))
}

// refresh re-renders the transcript into the viewport.
func (c *Chat) refresh() {
	th := c.deps.Theme
	width := c.viewport.Width
	if width <= 0 {
		width = 80
	}
	turns := c.state.Transcript()
	if len(turns) == 0 {
		c.viewport.SetContent(th.Muted.Render("Namaste. Ask about lessons, trips, health or crops."))
		return
	}
	parts := make([]string, 0, len(turns))
	for _, t := range turns {
		if t.Role == completion.RoleUser {
			parts = append(parts, th.UserTurn.Width(width-2).Render(th.Accent.Render("YOU")+"\n"+t.Text))
			continue
		}
		body := c.deps.markdown(t.Text, width-4)
		parts = append(parts, th.ModelTurn.Width(width-2).Render(th.Info.Render("NEXA")+"\n"+body))
	}
	c.viewport.SetContent(strings.Join(parts, "\n\n"))
	c.viewport.GotoBottom()
}

func (c *Chat) View(width, height int) string {
	th := c.deps.Theme
	vw, vh := width-4, height-8
	if vw < 20 {
		vw = 20
	}
	if vh < 3 {
		vh = 3
	}
	if vw != c.viewport.Width || vh != c.viewport.Height || width != c.width {
		c.width = width
		c.viewport.Width, c.viewport.Height = vw, vh
		c.input.Width = vw - 4
		c.refresh()
	}

	status := ""
	if c.state.Reply.Loading() {
		status = c.spinner.View()
	}
	page := lipgloss.JoinVertical(lipgloss.Left,
		th.Title.Render("AI.Chat"),
		c.viewport.View(),
		status,
		th.InputFocused.Width(vw-2).Render(c.input.View()),
	)
	return lipgloss.NewStyle().Padding(0, 2).Render(page)
}
