// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/nexa-tui/internal/auth"
	"github.com/jeranaias/nexa-tui/internal/config"
)

// Command: config [subcommand]
//
//	show (default)      Display the effective configuration, secrets redacted
//	path                Show the configuration file path
//	init                Write a default config file
//	get <key>           Print one value, e.g. ui.theme
//	set <key> <value>   Change one value in the config file
func newConfigCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, opts)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Display the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return showConfig(cmd, opts)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the configuration file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := configFilePath(opts)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		newConfigInitCommand(opts),
		&cobra.Command{
			Use:     "get <key>",
			Short:   "Print one configuration value",
			Example: "  nexa config get ui.transition_ms",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(opts)
				if err != nil {
					return err
				}
				v, err := cfg.Get(args[0])
				if err != nil {
					return usagef("%v", err)
				}
				if isSecretKey(args[0]) && fmt.Sprint(v) != "" {
					v = "[REDACTED]"
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:     "set <key> <value>",
			Short:   "Change one value in the config file",
			Example: "  nexa config set completion.provider openrouter\n  nexa config set ui.theme light",
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return setConfig(cmd, opts, args[0], args[1])
			},
		},
	)
	return cmd
}

func showConfig(cmd *cobra.Command, opts *Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cfg.String())
	return nil
}

func newConfigInitCommand(opts *Options) *cobra.Command {
	var (
		force  bool
		enroll string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Writes the built-in defaults to the config file.

With --totp, a new one-time code secret is generated and stored so that
sign-in asks for a 6-digit code. Add the printed URL to an authenticator app.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath(opts)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return usagef("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			cfg := config.Default()
			out := cmd.OutOrStdout()
			if cmd.Flags().Changed("totp") {
				e, err := auth.Enroll(enroll)
				if err != nil {
					return fmt.Errorf("generating one-time code secret: %w", err)
				}
				cfg.Auth.TOTPSecret = e.Secret
				fmt.Fprintf(out, "%s %s\n", RenderLabel("Authenticator"), e.URL)
			}
			if err := config.SaveTOML(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s wrote %s\n", SuccessStyle.Render("[OK]"), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().StringVar(&enroll, "totp", "", "enable one-time codes for this account name")
	cmd.Flags().Lookup("totp").NoOptDefVal = "nexa"
	return cmd
}

// setConfig edits the file itself so environment overrides are never
// written back.
func setConfig(cmd *cobra.Command, opts *Options, key, value string) error {
	path, err := configFilePath(opts)
	if err != nil {
		return err
	}
	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return err
		}
	}
	if err := cfg.Set(key, value); err != nil {
		return usagef("%v", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return err
	}
	shown := value
	if isSecretKey(key) {
		shown = "[REDACTED]"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", SuccessStyle.Render("[OK]"), key, shown)
	return nil
}

func configFilePath(opts *Options) (string, error) {
	if opts.ConfigPath != "" {
		return opts.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

func isSecretKey(key string) bool {
	k := strings.ToLower(key)
	return strings.HasSuffix(k, "key") || strings.HasSuffix(k, "secret") || strings.HasSuffix(k, "token")
}
