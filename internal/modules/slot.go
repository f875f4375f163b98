// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modules

import (
	"context"
	"sync"
)

// Response is the outcome of a request issued through a Slot.
type Response[T any] struct {
	Seq   uint64
	Value T
	Err   error
}

// Pending is an issued request that has not run yet.
type Pending[T any] struct {
	Seq  uint64
	slot *Slot[T]
	call func(context.Context) (T, error)
}

// Do runs the request. The context is cancelled early if the slot is
// invalidated while the call is in flight.
func (p Pending[T]) Do(ctx context.Context) Response[T] {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p.slot.track(p.Seq, cancel)
	defer p.slot.untrack(p.Seq)

	v, err := p.call(ctx)
	return Response[T]{Seq: p.Seq, Value: v, Err: err}
}

// Slot holds the latest result of one kind of request. The zero value is
// ready to use. Slots must not be copied after first use.
type Slot[T any] struct {
	mu      sync.Mutex
	seq     uint64
	value   T
	has     bool
	err     error
	loading bool
	cancels map[uint64]context.CancelFunc
}

// Begin starts a new request and returns its sequence number. Earlier
// requests still in flight become stale.
func (s *Slot[T]) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.loading = true
	s.err = nil
	return s.seq
}

// Issue begins a request that will run call.
func (s *Slot[T]) Issue(call func(context.Context) (T, error)) Pending[T] {
	return Pending[T]{Seq: s.Begin(), slot: s, call: call}
}

// Resolve records the outcome of request seq. It returns false, and
// changes nothing, when seq is not the latest request.
func (s *Slot[T]) Resolve(seq uint64, v T, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq || !s.loading {
		return false
	}
	s.loading = false
	if err != nil {
		s.err = err
		return true
	}
	s.value = v
	s.has = true
	return true
}

// Apply resolves r.
func (s *Slot[T]) Apply(r Response[T]) bool {
	return s.Resolve(r.Seq, r.Value, r.Err)
}

// Invalidate makes every outstanding request stale and cancels those in
// flight. The last result is kept.
func (s *Slot[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.loading = false
	for seq, cancel := range s.cancels {
		cancel()
		delete(s.cancels, seq)
	}
}

// Reset invalidates the slot and forgets its result.
func (s *Slot[T]) Reset() {
	s.Invalidate()
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.value = zero
	s.has = false
	s.err = nil
}

// Value returns the last successful result.
func (s *Slot[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.has
}

// Err returns the error of the latest request, if it failed.
func (s *Slot[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Loading reports whether the latest request is still outstanding.
func (s *Slot[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Seq returns the latest sequence number issued.
func (s *Slot[T]) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

func (s *Slot[T]) track(seq uint64, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		cancel()
		return
	}
	if s.cancels == nil {
		s.cancels = make(map[uint64]context.CancelFunc)
	}
	s.cancels[seq] = cancel
}

func (s *Slot[T]) untrack(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cancels, seq)
}
