// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modules

import (
	"context"
	"strings"
	"sync"

	"github.com/jeranaias/nexa-tui/internal/completion"
)

// Chatter continues a conversation. *completion.Client implements it.
type Chatter interface {
	Chat(ctx context.Context, history []completion.Turn, message string) string
}

// Chat is the state of the assistant screen. The transcript lives until
// Reset, which the screen calls whenever it is entered.
type Chat struct {
	Reply Slot[string]

	mu         sync.Mutex
	transcript []completion.Turn
	chatter    Chatter
}

// NewChat creates the chat state.
func NewChat(c Chatter) *Chat {
	return &Chat{chatter: c}
}

// Send appends message to the transcript and issues a reply request. Blank
// messages, and messages sent while a reply is outstanding, are ignored.
func (c *Chat) Send(message string) (Pending[string], bool) {
	message = strings.TrimSpace(message)
	if message == "" || c.Reply.Loading() {
		return Pending[string]{}, false
	}

	c.mu.Lock()
	history := append([]completion.Turn(nil), c.transcript...)
	c.transcript = append(c.transcript, completion.Turn{Role: completion.RoleUser, Text: message})
	c.mu.Unlock()

	return c.Reply.Issue(func(ctx context.Context) (string, error) {
		return c.chatter.Chat(ctx, history, message), nil
	}), true
}

// ApplyReply appends a current reply to the transcript.
func (c *Chat) ApplyReply(r Response[string]) bool {
	if !c.Reply.Apply(r) {
		return false
	}
	c.mu.Lock()
	c.transcript = append(c.transcript, completion.Turn{Role: completion.RoleModel, Text: r.Value})
	c.mu.Unlock()
	return true
}

// Transcript returns a copy of the conversation so far.
func (c *Chat) Transcript() []completion.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]completion.Turn(nil), c.transcript...)
}

// Reset clears the transcript and discards a reply in flight.
func (c *Chat) Reset() {
	c.Reply.Reset()
	c.mu.Lock()
	c.transcript = nil
	c.mu.Unlock()
}
