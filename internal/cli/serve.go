// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/nexa-tui/internal/server"
)

func newServeCommand(opts *Options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the hub as a local JSON API",
		Long: `Starts a local HTTP server exposing the router, the modules and the
review store as JSON endpoints. Set server.token to require a bearer token.`,
		Example: `  nexa serve
  nexa serve --addr 127.0.0.1:9000
  curl -s localhost:8787/api/state`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			serveOpts := *opts
			serveOpts.LogToStderr = true
			rt, err := OpenRuntime(ctx, &serveOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			if addr == "" {
				addr = rt.Config.Server.Addr
			}
			srv := server.New(server.Options{
				Addr:            addr,
				Token:           rt.Config.Server.Token,
				Logger:          rt.Logger,
				RequestsPerSec:  rt.Config.Server.RequestsPerSec,
				TransitionDelay: rt.Config.UI.TransitionDelay(),
				Router:          rt.Router,
				Verifier:        rt.Verifier,
				Completion:      rt.Completion,
				Hotels:          rt.Hotels,
				Reviews:         rt.Reviews,
				Plants:          rt.Plants,
			})

			if err := rt.Reviews.WatchExternal(ctx, nil); err != nil {
				rt.Logger.Warn("review watch unavailable", zap.Error(err))
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s listening on http://%s\n", SuccessStyle.Render("[OK]"), srv.Addr())
			if err := srv.Run(ctx); err != nil {
				return fmt.Errorf("serving: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}
