// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// FRAME
	// ==========================================================================

	App         lipgloss.Style
	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	HeaderTag   lipgloss.Style
	Online      lipgloss.Style
	Offline     lipgloss.Style
	Footer      lipgloss.Style
	HelpKey     lipgloss.Style
	HelpDesc    lipgloss.Style

	// ==========================================================================
	// SIDEBAR
	// ==========================================================================

	Sidebar        lipgloss.Style
	SidebarSection lipgloss.Style
	SidebarItem    lipgloss.Style
	SidebarActive  lipgloss.Style

	// ==========================================================================
	// CONTENT
	// ==========================================================================

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Card      lipgloss.Style
	CardTitle lipgloss.Style
	Tab       lipgloss.Style
	TabActive lipgloss.Style
	Selected  lipgloss.Style

	// ==========================================================================
	// STATUS
	// ==========================================================================

	Success     lipgloss.Style
	Warning     lipgloss.Style
	Error       lipgloss.Style
	Info        lipgloss.Style
	FieldError  lipgloss.Style
	ToastError  lipgloss.Style
	ToastOK     lipgloss.Style
	ToastStatus lipgloss.Style

	// ==========================================================================
	// FORMS
	// ==========================================================================

	InputFocused  lipgloss.Style
	InputBlurred  lipgloss.Style
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style

	// ==========================================================================
	// CHAT
	// ==========================================================================

	UserTurn  lipgloss.Style
	ModelTurn lipgloss.Style

	// ==========================================================================
	// OVERLAYS
	// ==========================================================================

	Boot     lipgloss.Style
	BootText lipgloss.Style
	Modal    lipgloss.Style
}

// Theme modes.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// NewTheme creates a theme for mode. plain, or a set NO_COLOR, disables
// color entirely.
func NewTheme(mode string, plain bool) *Theme {
	profile := termenv.ColorProfile()
	if plain || os.Getenv("NO_COLOR") != "" {
		profile = termenv.Ascii
	}
	lipgloss.SetColorProfile(profile)

	var isDark bool
	switch mode {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{IsDark: isDark, ColorProfile: profile}
	t.initStyles()
	return t
}

// DefaultTheme returns an auto-detected color theme.
func DefaultTheme() *Theme {
	return NewTheme(ModeAuto, false)
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().Foreground(TextPrimary)

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextPrimary).
		Padding(0, 1)
	t.HeaderBrand = lipgloss.NewStyle().Foreground(Saffron).Bold(true)
	t.HeaderTag = lipgloss.NewStyle().Foreground(TextSecondary)
	t.Online = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.Offline = lipgloss.NewStyle().Foreground(TextMuted)
	t.Footer = lipgloss.NewStyle().Foreground(TextMuted).Padding(0, 1)
	t.HelpKey = lipgloss.NewStyle().Foreground(Saffron)
	t.HelpDesc = lipgloss.NewStyle().Foreground(TextMuted)

	t.Sidebar = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(Overlay).
		Padding(1, 1)
	t.SidebarSection = lipgloss.NewStyle().Foreground(TextMuted).Bold(true).MarginTop(1)
	t.SidebarItem = lipgloss.NewStyle().Foreground(TextSecondary).PaddingLeft(1)
	t.SidebarActive = lipgloss.NewStyle().Foreground(Saffron).Bold(true).PaddingLeft(1)

	t.Title = lipgloss.NewStyle().Foreground(TextPrimary).Bold(true).MarginBottom(1)
	t.Subtitle = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)
	t.Label = lipgloss.NewStyle().Foreground(TextMuted).Bold(true)
	t.Value = lipgloss.NewStyle().Foreground(TextPrimary)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
	t.Accent = lipgloss.NewStyle().Foreground(Saffron).Bold(true)
	t.Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.CardTitle = lipgloss.NewStyle().Foreground(Saffron).Bold(true)
	t.Tab = lipgloss.NewStyle().Foreground(TextMuted).Padding(0, 2)
	t.TabActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Saffron).
		Bold(true).
		Padding(0, 2)
	t.Selected = lipgloss.NewStyle().Foreground(Saffron).Bold(true)

	t.Success = lipgloss.NewStyle().Foreground(Emerald)
	t.Warning = lipgloss.NewStyle().Foreground(Amber)
	t.Error = lipgloss.NewStyle().Foreground(Rose)
	t.Info = lipgloss.NewStyle().Foreground(Sky)
	t.FieldError = lipgloss.NewStyle().Foreground(Rose).Italic(true)

	toast := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	t.ToastError = toast.BorderForeground(Rose).Foreground(Rose)
	t.ToastOK = toast.BorderForeground(Emerald).Foreground(Emerald)
	t.ToastStatus = toast.BorderForeground(Sky).Foreground(TextPrimary)

	t.InputFocused = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(Saffron).
		Padding(0, 1)
	t.InputBlurred = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.Button = lipgloss.NewStyle().Foreground(TextSecondary).Padding(0, 2)
	t.ButtonFocused = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Saffron).
		Bold(true).
		Padding(0, 2)

	t.UserTurn = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(Saffron).
		PaddingLeft(1)
	t.ModelTurn = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(Lavender).
		PaddingLeft(1)

	t.Boot = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(Saffron).
		Padding(1, 4)
	t.BootText = lipgloss.NewStyle().Foreground(Saffron).Bold(true)
	t.Modal = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Saffron).
		Padding(1, 2)
}

// StatusStyle returns the header style for a session status label.
func (t *Theme) StatusStyle(online bool) lipgloss.Style {
	if online {
		return t.Online
	}
	return t.Offline
}

// UrgencyStyle returns the style for a diagnosis urgency.
func (t *Theme) UrgencyStyle(urgency string) lipgloss.Style {
	switch urgency {
	case "Emergency":
		return t.Error.Bold(true)
	case "Urgent":
		return t.Warning.Bold(true)
	default:
		return t.Success
	}
}
