// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/nexa-tui/internal/auth"
	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/config"
	"github.com/jeranaias/nexa-tui/internal/hotels"
	"github.com/jeranaias/nexa-tui/internal/logging"
	"github.com/jeranaias/nexa-tui/internal/modules"
	"github.com/jeranaias/nexa-tui/internal/plants"
	"github.com/jeranaias/nexa-tui/internal/reviews"
	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/storage"
)

// =============================================================================
// GLOBAL OPTIONS
// =============================================================================

// Options are the persistent flags shared by every command.
type Options struct {
	ConfigPath string
	Provider   string
	Verbose    bool

	// LogToStderr sends logs to stderr instead of the log file when no
	// log.file is configured. Used by serve.
	LogToStderr bool
}

// loadConfig reads the config file selected by opts and applies the
// --provider override.
func loadConfig(opts *Options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.LoadFromPath(opts.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if opts.Provider != "" {
		cfg.Completion.Provider = opts.Provider
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}
	return cfg, nil
}

// =============================================================================
// RUNTIME
// =============================================================================

// Runtime holds the collaborators every front end shares.
type Runtime struct {
	Config     *config.Config
	Logger     *zap.Logger
	KV         storage.KV
	Reviews    *reviews.Store
	Completion *completion.Client
	Hotels     *hotels.Finder
	Plants     modules.PlantLookup
	Verifier   *auth.Verifier
	Router     *router.Router

	// Offline is true when the configured provider had no credentials and
	// the canned backend stands in for it.
	Offline bool

	restoreLogger func()
}

// OpenRuntime loads configuration and builds the shared collaborators.
// warn receives human-readable notices such as the offline fallback.
func OpenRuntime(ctx context.Context, opts *Options, warn io.Writer) (*Runtime, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logFile := cfg.Log.File
	if logFile == "" && !opts.LogToStderr {
		if logFile, err = cfg.LogPath(); err != nil {
			return nil, err
		}
	}
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, File: logFile, Verbose: opts.Verbose})
	if err != nil {
		return nil, err
	}
	rt := &Runtime{Config: cfg, Logger: logger, restoreLogger: logging.SetGlobal(logger)}

	dir, err := cfg.DataDir()
	if err != nil {
		rt.Close()
		return nil, err
	}
	if rt.KV, err = storage.Open(cfg.Storage.Backend, dir); err != nil {
		rt.Close()
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	rt.Reviews = reviews.NewStore(rt.KV, logging.Named(logger, "reviews"))
	rt.Reviews.Load(ctx)

	backend, err := completion.NewBackend(ctx, cfg.Completion)
	if errors.Is(err, completion.ErrNotConfigured) {
		logger.Warn("completion backend not configured, using offline replies", zap.String("provider", cfg.Completion.Provider))
		if warn != nil {
			fmt.Fprintln(warn, WarningStyle.Render("No API key configured; replies come from the offline assistant."))
		}
		backend, err, rt.Offline = completion.NewMockBackend(), nil, true
	}
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Completion = completion.NewClient(backend,
		completion.WithTimeout(cfg.Completion.Timeout()),
		completion.WithLogger(logging.Named(logger, "completion")),
	)

	rt.Hotels = hotels.NewFinder(cfg.Hotels.BaseURL,
		time.Duration(cfg.Hotels.TimeoutSecs)*time.Second,
		rt.Completion,
		logging.Named(logger, "hotels"),
	)

	// Plants stays nil without a key.
	if cfg.Plants.APIKey != "" {
		rt.Plants = plants.NewClient(&plants.ClientConfig{
			BaseURL:        cfg.Plants.BaseURL,
			APIKey:         cfg.Plants.APIKey,
			RequestsPerSec: cfg.Plants.RequestsPerSec,
			Logger:         logging.Named(logger, "plants"),
		})
	}

	rt.Verifier = auth.NewVerifier(cfg.Auth.TOTPSecret)
	rt.Router = router.New(router.Options{
		GuestName:  cfg.Auth.GuestName,
		BookingTTL: cfg.UI.BookingTTL(),
		Logger:     logger,
	})
	return rt, nil
}

// Close releases storage and flushes the logger.
func (rt *Runtime) Close() {
	if rt.KV != nil {
		if err := rt.KV.Close(); err != nil {
			rt.Logger.Warn("closing storage", zap.Error(err))
		}
	}
	if rt.Logger != nil {
		_ = rt.Logger.Sync()
	}
	if rt.restoreLogger != nil {
		rt.restoreLogger()
	}
}
