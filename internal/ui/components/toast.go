// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nexa-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind is the severity of a toast.
type ToastKind int

const (
	ToastStatus ToastKind = iota
	ToastError
	ToastSuccess
)

// Auto-dismiss durations. Errors stay up longer so they can be read.
const (
	DefaultToastDuration = 4 * time.Second
	ErrorToastDuration   = 8 * time.Second
)

// Toast is a non-blocking notification drawn above the footer.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// Expired reports whether the toast should be dismissed at now.
func (t Toast) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager keeps the visible toasts, newest first.
type ToastManager struct {
	mu        sync.Mutex
	toasts    []Toast
	nextID    int
	maxToasts int
	now       func() time.Time
}

// NewToastManager creates a manager that shows at most three toasts.
func NewToastManager() *ToastManager {
	return &ToastManager{nextID: 1, maxToasts: 3, now: time.Now}
}

// SetClock replaces the time source. Used by tests.
func (m *ToastManager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *ToastManager) add(kind ToastKind, message string, d time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := Toast{ID: m.nextID, Message: message, Kind: kind, CreatedAt: m.now(), Duration: d}
	m.nextID++

	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
	return t.ID
}

// AddError shows an error toast.
func (m *ToastManager) AddError(message string) int {
	return m.add(ToastError, message, ErrorToastDuration)
}

// AddSuccess shows a success toast.
func (m *ToastManager) AddSuccess(message string) int {
	return m.add(ToastSuccess, message, DefaultToastDuration)
}

// AddStatus shows an informational toast.
func (m *ToastManager) AddStatus(message string) int {
	return m.add(ToastStatus, message, DefaultToastDuration)
}

// Dismiss removes the toast with id.
func (m *ToastManager) Dismiss(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.toasts {
		if t.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// Tick drops expired toasts and reports whether any remain.
func (m *ToastManager) Tick() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.Expired(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
	return len(m.toasts) > 0
}

// Toasts returns a copy of the visible toasts.
func (m *ToastManager) Toasts() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// Clear removes all toasts.
func (m *ToastManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = nil
}

// ToastTickMsg drives expiry.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd schedules the next expiry check.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToasts stacks toasts right-aligned within width.
func RenderToasts(theme *styles.Theme, toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	maxWidth := 56
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 20 {
		maxWidth = 20
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		style := theme.ToastStatus
		icon := "i"
		switch t.Kind {
		case ToastError:
			style, icon = theme.ToastError, "!"
		case ToastSuccess:
			style, icon = theme.ToastOK, "+"
		}
		rendered = append(rendered, style.Width(maxWidth).Render(icon+" "+t.Message))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)
	if width <= 0 {
		return stack
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
}
