// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nexa-tui/internal/apperr"
	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/config"
	"github.com/jeranaias/nexa-tui/internal/export"
	"github.com/jeranaias/nexa-tui/internal/reviews"
	"github.com/jeranaias/nexa-tui/internal/ui/components"
	"github.com/jeranaias/nexa-tui/internal/ui/styles"
)

// =============================================================================
// HELPERS
// =============================================================================

// isolate points the config directory at a fresh temp dir and clears
// credentials from the environment.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("NEXA_HOME", home)
	for _, k := range []string{"NEXA_PROVIDER", "NEXA_API_KEY", "GEMINI_API_KEY", "NEXA_OPENROUTER_KEY", "OPENROUTER_API_KEY", "NEXA_PLANTS_KEY", "NEXA_STORAGE_BACKEND", "NEXA_DATA_DIR"} {
		t.Setenv(k, "")
	}
	return home
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func withInteractive(t *testing.T, v bool) {
	t.Helper()
	prev := isInteractive
	isInteractive = func() bool { return v }
	t.Cleanup(func() { isInteractive = prev })
}

// =============================================================================
// COMMAND TESTS
// =============================================================================

func TestVersion(t *testing.T) {
	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "nexa "+Version)
	assert.Contains(t, out, "commit:")
}

func TestRootRequiresTerminal(t *testing.T) {
	isolate(t)
	withInteractive(t, false)

	for _, args := range [][]string{{}, {"chat"}} {
		_, _, err := runCLI(t, args...)
		var tty *TTYRequiredError
		require.ErrorAs(t, err, &tty, "args %v", args)
		assert.Equal(t, ExitNoTerminal, GetExitCode(err))
	}
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	_, _, err := runCLI(t, "version", "--bogus")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestConfigPathAndInit(t *testing.T) {
	home := isolate(t)

	out, _, err := runCLI(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config.toml"), strings.TrimSpace(out))

	out, _, err = runCLI(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	_, _, err = runCLI(t, "config", "init")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	_, _, err = runCLI(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigSetAndGet(t *testing.T) {
	isolate(t)

	_, _, err := runCLI(t, "config", "set", "ui.theme", "light")
	require.NoError(t, err)

	out, _, err := runCLI(t, "config", "get", "ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "light", strings.TrimSpace(out))

	_, _, err = runCLI(t, "config", "set", "ui.theme", "purple")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))

	_, _, err = runCLI(t, "config", "get", "ui.nothing")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestConfigInitWithTOTP(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "config", "init", "--totp=asha")
	require.NoError(t, err)
	assert.Contains(t, out, "otpauth://totp/")

	out, _, err = runCLI(t, "config", "get", "auth.totp_secret")
	require.NoError(t, err)
	assert.Equal(t, "[REDACTED]", strings.TrimSpace(out))

	out, _, err = runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `"totp_secret": "[REDACTED]"`)
}

func TestReviewsAddAndList(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "--provider", "mock", "reviews", "add", "hotel-pokhara-0",
		"--rating", "5", "--comment", "Lake views", "--name", "Asha")
	require.NoError(t, err)
	assert.Contains(t, out, "added to hotel-pokhara-0")

	out, _, err = runCLI(t, "--provider", "mock", "reviews", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "hotel-pokhara-0")
	assert.Contains(t, out, "5.0 (1)")

	out, _, err = runCLI(t, "--provider", "mock", "reviews", "list", "hotel-pokhara-0", "--json")
	require.NoError(t, err)
	var list []reviews.Review
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Asha", list[0].UserName)
	assert.Equal(t, "Lake views", list[0].Comment)
}

func TestReviewsListAlignsSubjects(t *testing.T) {
	isolate(t)

	for _, subject := range []string{"lodge", "hotel-kathmandu-valley-2"} {
		_, _, err := runCLI(t, "--provider", "mock", "reviews", "add", subject,
			"--rating", "4", "--comment", "Quiet rooms", "--name", "Asha")
		require.NoError(t, err)
	}

	out, _, err := runCLI(t, "--provider", "mock", "reviews", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, out, "hotel-kathmandu-valley-2:")
	assert.Equal(t, strings.Index(lines[0], "*"), strings.Index(lines[1], "*"))
}

func TestReviewsAddRejectsEmptyComment(t *testing.T) {
	isolate(t)

	_, _, err := runCLI(t, "--provider", "mock", "reviews", "add", "hotel-pokhara-0", "--rating", "4")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	var buf bytes.Buffer
	DisplayError(&buf, err)
	assert.Contains(t, buf.String(), "Comment cannot be empty")

	out, _, err := runCLI(t, "--provider", "mock", "reviews", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No reviews yet.")
}

func TestOpenRuntimeOfflineFallback(t *testing.T) {
	isolate(t)

	var warn bytes.Buffer
	rt, err := OpenRuntime(context.Background(), &Options{}, &warn)
	require.NoError(t, err)
	defer rt.Close()

	assert.True(t, rt.Offline)
	assert.Contains(t, warn.String(), "offline assistant")
	assert.Nil(t, rt.Plants)
	assert.False(t, rt.Verifier.RequiresCode())
	assert.False(t, rt.Router.Session().Authenticated)
}

func TestOpenRuntimeRejectsUnknownProvider(t *testing.T) {
	isolate(t)

	_, err := OpenRuntime(context.Background(), &Options{Provider: "ollama"}, io.Discard)
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))
}

// =============================================================================
// CHAT SESSION TESTS
// =============================================================================

type scriptedInput struct {
	lines []string
}

func (s *scriptedInput) ReadInput(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func testChatSession(out io.Writer) *ChatSession {
	return &ChatSession{
		client:   completion.NewClient(completion.NewMockBackend()),
		provider: "mock",
		started:  time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		markdown: components.NewMarkdown(styles.NewTheme(styles.ModeDark, true)),
		width:    80,
		out:      out,
	}
}

func TestChatSession_Run(t *testing.T) {
	var out bytes.Buffer
	s := testChatSession(&out)

	in := &scriptedInput{lines: []string{"", "  ", "/help", "Namaste"}}
	require.NoError(t, s.run(context.Background(), in))

	assert.Equal(t, 2, s.Turns())
	assert.Contains(t, out.String(), "/clear")
	assert.Contains(t, out.String(), "NEXA")
	assert.Contains(t, out.String(), "Namaste")
}

func TestChatSession_SlashCommands(t *testing.T) {
	var out bytes.Buffer
	s := testChatSession(&out)

	in := &scriptedInput{lines: []string{"first", "/clear", "second", "/bogus", "/exit", "never sent"}}
	require.NoError(t, s.run(context.Background(), in))

	assert.Equal(t, 2, s.Turns())
	assert.Equal(t, completion.RoleUser, s.history[0].Role)
	assert.Equal(t, "second", s.history[0].Text)
	assert.Contains(t, out.String(), "unknown command /bogus")
	assert.Len(t, in.lines, 1)
}

func TestChatSession_Save(t *testing.T) {
	var out bytes.Buffer
	s := testChatSession(&out)
	path := filepath.Join(t.TempDir(), "trek.json")

	in := &scriptedInput{lines: []string{"/save " + path, "Best season for Mustang?", "/save " + path}}
	require.NoError(t, s.run(context.Background(), in))

	assert.Contains(t, out.String(), "conversation has no messages")
	assert.Contains(t, out.String(), "saved "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got export.Transcript
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Best season for Mustang?", got.Title)
	assert.Equal(t, "mock", got.Provider)
	require.Len(t, got.Turns, 2)
	assert.Equal(t, "model", got.Turns[1].Role)
}

func TestFirstLineTruncatesTitle(t *testing.T) {
	assert.Equal(t, "Best season", firstLine("  Best season\nfor Mustang?", 40))
	assert.Equal(t, "Is the Annapurna ...", firstLine("Is the Annapurna circuit open in March?", 20))
}

type failingInput struct{}

func (failingInput) ReadInput(string) (string, error) {
	return "", errors.New("terminal gone")
}

func TestChatSession_InputError(t *testing.T) {
	s := testChatSession(io.Discard)
	err := s.run(context.Background(), failingInput{})
	require.EqualError(t, err, "terminal gone")
}

// =============================================================================
// EXIT CODE TESTS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", usagef("bad %s", "arg"), ExitUsageError},
		{"no terminal", &TTYRequiredError{}, ExitNoTerminal},
		{"config", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}, ExitConfigError},
		{"wrapped config", fmt.Errorf("invalid config: %w", config.ValidateErrors{{Field: "x", Message: "y"}}), ExitConfigError},
		{"validation", apperr.NewValidationError("rating", "Rating must be between 1 and 5"), ExitUsageError},
		{"unavailable", fmt.Errorf("x: %w", apperr.ErrServiceUnavailable), ExitNetworkError},
		{"malformed", apperr.ErrMalformedResponse, ExitNetworkError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}
