// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root bubbletea model. It owns the router, the shell
// chrome (header, sidebar, boot overlay, toasts, footer) and one model per
// screen, and it is the only place that calls router mutators in the TUI.
package app

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/nexa-tui/internal/auth"
	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/hotels"
	"github.com/jeranaias/nexa-tui/internal/logging"
	"github.com/jeranaias/nexa-tui/internal/modules"
	"github.com/jeranaias/nexa-tui/internal/reviews"
	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/ui/components"
	"github.com/jeranaias/nexa-tui/internal/ui/screens"
	"github.com/jeranaias/nexa-tui/internal/ui/styles"
)

// Options wires the model to its collaborators.
type Options struct {
	Router   *router.Router
	Theme    *styles.Theme
	Markdown *components.Markdown
	Logger   *zap.Logger
	Verifier *auth.Verifier

	// TransitionDelay is how long the boot overlay runs before a timed
	// handoff completes. Zero completes on the next message.
	TransitionDelay time.Duration

	Completion *completion.Client
	Hotels     *hotels.Finder
	Reviews    *reviews.Store
	// Plants may be nil when no plant lookup is configured.
	Plants modules.PlantLookup

	Now func() time.Time
}

// transitionDoneMsg fires when the handoff started under id has run its
// course.
type transitionDoneMsg struct {
	id int
}

// Model is the main Bubble Tea model for the application.
type Model struct {
	router *router.Router
	theme  *styles.Theme
	logger *zap.Logger
	now    func() time.Time
	delay  time.Duration
	keys   KeyMap

	// Screens
	screens map[router.Screen]screens.Screen
	active  router.Screen

	// Chrome
	header  *components.Header
	sidebar *components.Sidebar
	boot    components.Boot
	toasts  *components.ToastManager
	help    help.Model

	// Dimensions
	width  int
	height int

	transitionID int
	toastTicking bool
}

// New builds the model on the router's current screen.
func New(opts Options) *Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.DefaultTheme()
	}
	rt := opts.Router
	if rt == nil {
		rt = router.New(router.Options{Logger: opts.Logger, Now: now})
	}

	deps := screens.Deps{
		Router:   rt,
		Theme:    theme,
		Markdown: opts.Markdown,
		Logger:   opts.Logger,
		Now:      now,
	}

	h := help.New()
	h.Styles.ShortKey = theme.HelpKey
	h.Styles.ShortDesc = theme.HelpDesc
	h.Styles.FullKey = theme.HelpKey
	h.Styles.FullDesc = theme.HelpDesc

	toasts := components.NewToastManager()
	toasts.SetClock(now)

	m := &Model{
		router:  rt,
		theme:   theme,
		logger:  logging.Named(opts.Logger, "app"),
		now:     now,
		delay:   opts.TransitionDelay,
		keys:    DefaultKeyMap(),
		header:  components.NewHeader(theme),
		sidebar: components.NewSidebar(theme),
		boot:    components.NewBoot(theme, opts.TransitionDelay),
		toasts:  toasts,
		help:    h,
		active:  rt.Current(),
	}

	list := []screens.Screen{
		screens.NewLanding(deps, opts.Verifier),
		screens.NewAbout(deps),
		screens.NewContact(deps),
		screens.NewDashboard(deps),
		screens.NewEducation(deps, modules.NewEducation(opts.Completion)),
		screens.NewTravel(deps, modules.NewTravel(opts.Completion, opts.Hotels, opts.Reviews, rt)),
		screens.NewHealth(deps, modules.NewHealth(opts.Completion)),
		screens.NewAgriculture(deps, modules.NewAgriculture(opts.Completion, opts.Plants)),
		screens.NewChat(deps, modules.NewChat(opts.Completion)),
	}
	m.screens = make(map[router.Screen]screens.Screen, len(list))
	for _, s := range list {
		m.screens[s.ID()] = s
	}
	return m
}

// Current returns the screen model being shown.
func (m *Model) Current() screens.Screen {
	return m.screens[m.active]
}

// Router exposes the state machine for callers that inspect it.
func (m *Model) Router() *router.Router {
	return m.router
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init enters the starting screen.
func (m *Model) Init() tea.Cmd {
	m.sidebar.Focus(m.active)
	return m.Current().Enter()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case screens.NavigateMsg:
		return m, m.apply(m.router.Navigate(msg.Target))

	case screens.LaunchMsg:
		return m, m.apply(m.router.RequestTransition(msg.Target))

	case screens.SignedInMsg:
		out := m.router.Authenticate(msg.Name)
		name := m.router.Session().DisplayName
		return m, tea.Batch(m.apply(out), m.notify(components.ToastSuccess, "Welcome, "+name))

	case screens.ToastMsg:
		return m, m.notify(msg.Kind, msg.Message)

	case transitionDoneMsg:
		if msg.id != m.transitionID || !m.router.IsTransitioning() {
			return m, nil
		}
		m.boot.Stop()
		out := m.router.CompleteTransition()
		return m, tea.Batch(m.sync(), m.apply(out))

	case components.BootFrameMsg:
		var cmd tea.Cmd
		m.boot, cmd = m.boot.Update(msg)
		return m, cmd

	case components.ToastTickMsg:
		if m.toasts.Tick() {
			return m, components.ToastTickCmd()
		}
		m.toastTicking = false
		return m, nil
	}

	// Results, spinner frames and cursor blinks go to every screen. Each
	// screen ignores what it did not issue.
	cmds := make([]tea.Cmd, 0, len(m.screens))
	for _, s := range m.screens {
		cmds = append(cmds, s.Update(msg))
	}
	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}
	// The boot overlay holds input until the handoff lands.
	if m.router.IsTransitioning() {
		return nil
	}

	cur := m.Current()
	protected := m.active.IsProtected()

	switch {
	case key.Matches(msg, m.keys.Sidebar) && protected:
		m.router.ToggleSidebar()
		return nil
	case key.Matches(msg, m.keys.SidebarUp) && m.sidebarOpen():
		m.sidebar.Up()
		return nil
	case key.Matches(msg, m.keys.SidebarDown) && m.sidebarOpen():
		m.sidebar.Down()
		return nil
	case key.Matches(msg, m.keys.SidebarOpen) && m.sidebarOpen():
		return m.apply(m.router.Navigate(m.sidebar.Selected()))
	case key.Matches(msg, m.keys.Jump) && protected:
		if i, ok := jumpIndex(msg.String()); ok {
			mods := router.ModuleScreens()
			if i < len(mods) {
				return m.apply(m.router.Navigate(mods[i]))
			}
		}
		return nil
	case key.Matches(msg, m.keys.Home):
		return m.apply(m.router.Navigate(router.ScreenLanding))
	case key.Matches(msg, m.keys.SignOut) && m.router.Session().Authenticated:
		m.transitionID++
		m.boot.Stop()
		m.router.SignOut()
		return tea.Batch(m.sync(), m.notify(components.ToastStatus, "Signed out"))
	case key.Matches(msg, m.keys.Help) && !cur.Capturing():
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}

	return cur.Update(msg)
}

// apply reacts to a router outcome: starts the overlay for a timed
// handoff and swaps screen models for an immediate switch.
func (m *Model) apply(out router.Outcome) tea.Cmd {
	var cmds []tea.Cmd
	if out.Redirected {
		cmds = append(cmds, m.notify(components.ToastStatus,
			"Sign in to open "+out.Requested.Title()))
	}
	if out.Started {
		m.transitionID++
		id := m.transitionID
		cmds = append(cmds, m.boot.Start(m.now()))
		if m.delay <= 0 {
			cmds = append(cmds, func() tea.Msg { return transitionDoneMsg{id: id} })
		} else {
			cmds = append(cmds, tea.Tick(m.delay, func(time.Time) tea.Msg {
				return transitionDoneMsg{id: id}
			}))
		}
	}
	cmds = append(cmds, m.sync())
	return tea.Batch(cmds...)
}

// sync swaps screen models when the router's current screen changed.
func (m *Model) sync() tea.Cmd {
	cur := m.router.Current()
	if cur == m.active {
		return nil
	}
	m.logger.Debug("screen changed",
		zap.Stringer("from", m.active),
		zap.Stringer("to", cur))
	if old, ok := m.screens[m.active]; ok {
		old.Leave()
	}
	m.active = cur
	m.sidebar.Focus(cur)
	m.help.ShowAll = false
	return m.Current().Enter()
}

func (m *Model) notify(kind components.ToastKind, message string) tea.Cmd {
	switch kind {
	case components.ToastError:
		m.toasts.AddError(message)
	case components.ToastSuccess:
		m.toasts.AddSuccess(message)
	default:
		m.toasts.AddStatus(message)
	}
	if m.toastTicking {
		return nil
	}
	m.toastTicking = true
	return components.ToastTickCmd()
}

func (m *Model) sidebarOpen() bool {
	return m.active.IsProtected() && m.router.Snapshot().SidebarOpen
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the current state.
func (m *Model) View() string {
	width, height := m.width, m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 32
	}

	if m.boot.Active() {
		return m.boot.View(width, height, m.now())
	}

	state := m.router.Snapshot()
	m.header.SetWidth(width)
	m.header.Sync(state)
	header := m.header.View()
	footer := m.footer(width)
	toasts := components.RenderToasts(m.theme, m.toasts.Toasts(), width)

	bodyHeight := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if toasts != "" {
		bodyHeight -= lipgloss.Height(toasts)
	}
	if bodyHeight < 5 {
		bodyHeight = 5
	}

	contentWidth := width
	var side string
	if state.SidebarOpen && m.active.IsProtected() {
		side = m.sidebar.View(m.active, bodyHeight)
		contentWidth -= lipgloss.Width(side)
	}
	content := lipgloss.NewStyle().
		Width(contentWidth).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(m.Current().View(contentWidth, bodyHeight))

	body := content
	if side != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, side, content)
	}

	parts := []string{header}
	if toasts != "" {
		parts = append(parts, lipgloss.PlaceHorizontal(width, lipgloss.Right, toasts))
	}
	parts = append(parts, body, footer)
	return m.theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m *Model) footer(width int) string {
	bindings := append([]key.Binding{}, m.Current().Help()...)
	if m.active.IsProtected() {
		bindings = append(bindings, m.keys.Sidebar)
		if m.router.Snapshot().SidebarOpen {
			bindings = append(bindings, m.keys.SidebarDown, m.keys.SidebarOpen)
		}
		bindings = append(bindings, m.keys.Jump, m.keys.SignOut)
	}
	bindings = append(bindings, m.keys.Quit)

	var line string
	if m.help.ShowAll {
		line = m.help.FullHelpView([][]key.Binding{
			m.Current().Help(),
			{m.keys.Sidebar, m.keys.SidebarUp, m.keys.SidebarDown, m.keys.SidebarOpen},
			{m.keys.Jump, m.keys.Home, m.keys.SignOut, m.keys.Help, m.keys.Quit},
		})
	} else {
		line = m.help.ShortHelpView(bindings)
	}
	return m.theme.Footer.Width(width).Render(line)
}
