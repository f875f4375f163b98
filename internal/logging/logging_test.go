// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nexa.log")

	logger, err := New(Options{Level: "info", File: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("review appended", zap.String("subject", "hotel-pokhara-0"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"review appended"`)
	assert.Contains(t, out, `"subject":"hotel-pokhara-0"`)
	assert.Contains(t, out, `"logger":"nexa"`)
	assert.False(t, strings.Contains(out, "hidden"), "debug line should be filtered at info")
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nexa.log")
	logger, err := New(Options{Level: "error", File: path, Verbose: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestSetGlobal_Restore(t *testing.T) {
	custom := zap.NewExample()
	restore := SetGlobal(custom)
	assert.Same(t, custom, L())
	restore()
	assert.NotSame(t, custom, L())
}

func TestNamed_NilUsesGlobal(t *testing.T) {
	assert.NotNil(t, Named(nil, "reviews"))
}
