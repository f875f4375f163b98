// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/nexa-tui/internal/ui/app"
	"github.com/jeranaias/nexa-tui/internal/ui/components"
	"github.com/jeranaias/nexa-tui/internal/ui/screens"
	"github.com/jeranaias/nexa-tui/internal/ui/styles"
)

// runTUI starts the full-screen interface.
func runTUI(cmd *cobra.Command, opts *Options) error {
	if err := RequiresTTY("start the terminal UI"); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt, err := OpenRuntime(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.Close()

	theme := styles.NewTheme(rt.Config.UI.Theme, rt.Config.UI.PlainText)
	model := app.New(app.Options{
		Router:          rt.Router,
		Theme:           theme,
		Markdown:        components.NewMarkdown(theme),
		Logger:          rt.Logger,
		Verifier:        rt.Verifier,
		TransitionDelay: rt.Config.UI.TransitionDelay(),
		Completion:      rt.Completion,
		Hotels:          rt.Hotels,
		Reviews:         rt.Reviews,
		Plants:          rt.Plants,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Another nexa process (or `nexa reviews add`) may append reviews while
	// the UI is open.
	if err := rt.Reviews.WatchExternal(ctx, func() {
		p.Send(screens.ToastMsg{Kind: components.ToastStatus, Message: "Reviews updated"})
	}); err != nil {
		rt.Logger.Warn("review watch unavailable", zap.Error(err))
	}

	rt.Logger.Info("tui started", zap.String("provider", rt.Config.Completion.Provider), zap.Bool("offline", rt.Offline))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
