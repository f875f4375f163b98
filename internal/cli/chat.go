// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/config"
	"github.com/jeranaias/nexa-tui/internal/export"
	"github.com/jeranaias/nexa-tui/internal/ui/components"
	"github.com/jeranaias/nexa-tui/internal/ui/styles"
	"github.com/jeranaias/nexa-tui/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader reads one line of input per prompt.
type lineReader interface {
	ReadInput(prompt string) (string, error)
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI whose history lives in the config
// directory.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION
// =============================================================================

// chatter is the slice of *completion.Client the REPL needs.
type chatter interface {
	Chat(ctx context.Context, history []completion.Turn, message string) string
}

// ChatSession is one line-mode conversation.
type ChatSession struct {
	client   chatter
	provider string
	history  []completion.Turn
	started  time.Time
	markdown *components.Markdown
	width    int
	out      io.Writer
}

func newChatSession(client chatter, provider string, out io.Writer) *ChatSession {
	theme := styles.NewTheme(styles.ModeAuto, !ColorsEnabled())
	return &ChatSession{
		client:   client,
		provider: provider,
		started:  time.Now(),
		markdown: components.NewMarkdown(theme),
		width:    replyWidth(),
		out:      out,
	}
}

// Turns returns the number of turns so far.
func (s *ChatSession) Turns() int { return len(s.history) }

// Send records message, asks the model and records the reply. The reply
// is always appended; the client substitutes a placeholder on failure.
func (s *ChatSession) Send(ctx context.Context, message string) string {
	reply := s.client.Chat(ctx, s.history, message)
	s.history = append(s.history,
		completion.Turn{Role: completion.RoleUser, Text: message},
		completion.Turn{Role: completion.RoleModel, Text: reply},
	)
	return reply
}

// Save exports the conversation to path, or to a generated file in the
// working directory when path is empty.
func (s *ChatSession) Save(path string) (string, error) {
	t := export.Transcript{
		Provider:  s.provider,
		CreatedAt: s.started,
		Turns:     export.FromTurns(s.history),
	}
	if len(s.history) > 0 {
		t.Title = firstLine(s.history[0].Text, 40)
	}
	return export.ToFile(t, export.ForPath(path), path)
}

func firstLine(s string, maxRunes int) string {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "\n")
	return util.TruncateRunes(s, maxRunes)
}

// handleSlash runs a /command. It returns false when the session should
// end.
func (s *ChatSession) handleSlash(input string) bool {
	fields := strings.Fields(input)
	switch strings.ToLower(fields[0]) {
	case "/exit", "/quit", "/q":
		return false
	case "/clear", "/new":
		s.history = nil
		s.started = time.Now()
		fmt.Fprintln(s.out, DimStyle.Render("Conversation cleared."))
	case "/save", "/export":
		path := ""
		if len(fields) > 1 {
			path = strings.Join(fields[1:], " ")
		}
		saved, err := s.Save(path)
		if err != nil {
			fmt.Fprintf(s.out, "%s %v\n", ErrorStyle.Render("[ERROR]"), err)
			break
		}
		fmt.Fprintf(s.out, "%s saved %s\n", SuccessStyle.Render("[OK]"), saved)
	case "/help", "/?":
		fmt.Fprintln(s.out, DimStyle.Render("/clear        start over\n/save [file]  write the conversation (.md or .json)\n/exit         leave chat\nCtrl+C        cancel a reply, or leave at the prompt"))
	default:
		fmt.Fprintf(s.out, "%s unknown command %s (try /help)\n", WarningStyle.Render("[!]"), input)
	}
	return true
}

// run is the REPL loop. It returns when input ends or the user leaves.
func (s *ChatSession) run(ctx context.Context, in lineReader) error {
	for {
		input, err := in.ReadInput(PromptStyle.Render("nexa> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "/") {
			if !s.handleSlash(input) {
				return nil
			}
			continue
		}

		replyCtx, cancel := signal.NotifyContext(ctx, os.Interrupt)
		reply := s.Send(replyCtx, input)
		cancel()

		fmt.Fprintln(s.out, ReplyStyle.Render("NEXA"))
		fmt.Fprintln(s.out, strings.TrimRight(s.markdown.Render(reply, s.width-2), "\n"))
		fmt.Fprintln(s.out)
	}
}

// =============================================================================
// COMMAND
// =============================================================================

func newChatCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant in line mode",
		Long: `Starts a line-mode conversation with the NEXA assistant.

Arrow keys recall earlier input. Type /clear to start over and /exit
(or Ctrl+D) to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := RequiresTTY("start chat"); err != nil {
				return err
			}
			rt, err := OpenRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, TitleStyle.Render("NEXA Assistant"))
			fmt.Fprintln(out, DimStyle.Render("Ask about travel, health, farming or study. /help for commands."))
			fmt.Fprintln(out)

			in := NewChatCLI()
			defer in.Close()
			return newChatSession(rt.Completion, rt.Completion.Backend().Name(), out).run(cmd.Context(), in)
		},
	}
}
