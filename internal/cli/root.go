// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewRootCommand builds the nexa command tree. Running it without a
// subcommand starts the terminal UI.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	root := &cobra.Command{
		Use:   "nexa",
		Short: "NEXA - Nepal's digital services hub in your terminal",
		Long: `NEXA brings education, travel, health, agriculture and an AI assistant
together behind a single sign-in.

Run without arguments to start the interactive terminal UI. The chat,
reviews and serve commands use the same configuration and review store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			lipgloss.SetColorProfile(colorProfile())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.nexa/config.toml)")
	flags.StringVar(&opts.Provider, "provider", "", "completion provider: gemini, openrouter or mock")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newChatCommand(opts),
		newReviewsCommand(opts),
		newConfigCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "nexa %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
			fmt.Fprintf(out, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

// Execute runs the command tree with args and returns the process exit
// code.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		DisplayError(os.Stderr, err)
		return GetExitCode(err)
	}
	return ExitSuccess
}
