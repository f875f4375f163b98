// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging sets up the process-wide zap logger.
//
// The TUI owns stdout and stderr while it runs, so the logger writes JSON
// lines to a file (~/.nexa/nexa.log by default). Packages take a
// *zap.Logger in their constructors and fall back to L() when given nil.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string

	// File is the output path. Empty writes to stderr.
	File string

	// Verbose forces debug level.
	Verbose bool
}

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// New builds a JSON logger from opts.
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Sampling = nil

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		config.OutputPaths = []string{opts.File}
		config.ErrorOutputPaths = []string{opts.File}
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named("nexa"), nil
}

// ParseLevel maps a config level string to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// L returns the global logger. It is a no-op logger until SetGlobal is called.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// SetGlobal replaces the global logger and returns a function restoring the
// previous one.
func SetGlobal(logger *zap.Logger) func() {
	if logger == nil {
		logger = zap.NewNop()
	}
	mu.Lock()
	prev := global
	global = logger
	mu.Unlock()
	return func() { SetGlobal(prev) }
}

// Named returns logger, or the global logger when nil, with name appended.
func Named(logger *zap.Logger, name string) *zap.Logger {
	if logger == nil {
		logger = L()
	}
	return logger.Named(name)
}

// Sync flushes the global logger. Errors from syncing a terminal are ignored.
func Sync() {
	_ = L().Sync()
}
