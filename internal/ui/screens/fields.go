// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// noInput marks a focus position held by a selector or button.
const noInput = -1

// fields is the focus ring of a form. Each position holds either a text
// input (its index in inputs) or noInput.
type fields struct {
	inputs []textinput.Model
	ring   []int
	focus  int
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	if limit > 0 {
		in.CharLimit = limit
	}
	in.Width = 32
	return in
}

// add appends a text input position and returns its input index.
func (f *fields) add(in textinput.Model) int {
	f.inputs = append(f.inputs, in)
	f.ring = append(f.ring, len(f.inputs)-1)
	return len(f.inputs) - 1
}

// control appends a non-text position and returns its ring position.
func (f *fields) control() int {
	f.ring = append(f.ring, noInput)
	return len(f.ring) - 1
}

// positionOf returns the ring position of input i.
func (f *fields) positionOf(i int) int {
	for pos, in := range f.ring {
		if in == i {
			return pos
		}
	}
	return 0
}

func (f *fields) move(delta int) tea.Cmd {
	f.focus = cycle(f.focus, delta, len(f.ring))
	return f.sync()
}

func (f *fields) focusAt(pos int) tea.Cmd {
	f.focus = cycle(pos, 0, len(f.ring))
	return f.sync()
}

// sync focuses the input under the ring position and blurs the rest.
func (f *fields) sync() tea.Cmd {
	var cmd tea.Cmd
	active := noInput
	if len(f.ring) > 0 {
		active = f.ring[f.focus]
	}
	for i := range f.inputs {
		if i == active {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *fields) blurAll() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// onInput reports whether focus is on a text input.
func (f *fields) onInput() bool {
	return len(f.ring) > 0 && f.ring[f.focus] != noInput
}

// at reports whether focus is on ring position pos.
func (f *fields) at(pos int) bool {
	return f.focus == pos
}

// focused reports whether input i has focus.
func (f *fields) focused(i int) bool {
	return f.onInput() && f.ring[f.focus] == i
}

func (f *fields) update(msg tea.Msg) tea.Cmd {
	if !f.onInput() {
		return nil
	}
	i := f.ring[f.focus]
	var cmd tea.Cmd
	f.inputs[i], cmd = f.inputs[i].Update(msg)
	return cmd
}

func (f *fields) value(i int) string {
	return f.inputs[i].Value()
}

func (f *fields) view(i int) string {
	return f.inputs[i].View()
}
