// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modules

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// The genai dependency starts an opencensus stats worker in init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

func TestSlot_LatestSequenceWins(t *testing.T) {
	var s Slot[string]

	a := s.Begin()
	b := s.Begin()
	require.Greater(t, b, a)

	// B arrives first, then the stale A.
	assert.True(t, s.Resolve(b, "B", nil))
	assert.False(t, s.Resolve(a, "A", nil))

	v, ok := s.Value()
	require.True(t, ok)
	assert.Equal(t, "B", v)
	assert.False(t, s.Loading())
}

func TestSlot_StaleArrivesBeforeLatest(t *testing.T) {
	var s Slot[string]
	a := s.Begin()
	b := s.Begin()

	assert.False(t, s.Resolve(a, "A", nil))
	assert.True(t, s.Loading())
	assert.True(t, s.Resolve(b, "B", nil))

	v, _ := s.Value()
	assert.Equal(t, "B", v)
}

func TestSlot_ErrorKeepsPreviousValue(t *testing.T) {
	var s Slot[int]
	s.Resolve(s.Begin(), 1, nil)

	boom := errors.New("boom")
	assert.True(t, s.Resolve(s.Begin(), 0, boom))
	assert.ErrorIs(t, s.Err(), boom)
	v, ok := s.Value()
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	s.Begin()
	assert.NoError(t, s.Err(), "a new request clears the last error")
}

func TestSlot_ResolveTwiceIgnored(t *testing.T) {
	var s Slot[int]
	seq := s.Begin()
	assert.True(t, s.Resolve(seq, 1, nil))
	assert.False(t, s.Resolve(seq, 2, nil))
	v, _ := s.Value()
	assert.Equal(t, 1, v)
}

func TestSlot_InvalidateCancelsInFlight(t *testing.T) {
	var s Slot[string]
	started := make(chan struct{})
	p := s.Issue(func(ctx context.Context) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})

	done := make(chan Response[string])
	go func() { done <- p.Do(context.Background()) }()

	<-started
	s.Invalidate()
	r := <-done
	assert.ErrorIs(t, r.Err, context.Canceled)
	assert.False(t, s.Apply(r))
	assert.False(t, s.Loading())
}

func TestSlot_Reset(t *testing.T) {
	var s Slot[string]
	s.Resolve(s.Begin(), "x", nil)
	s.Reset()
	_, ok := s.Value()
	assert.False(t, ok)
}

func TestSlot_ConcurrentResolves(t *testing.T) {
	var s Slot[int]
	seqs := make([]uint64, 50)
	for i := range seqs {
		seqs[i] = s.Begin()
	}

	var wg sync.WaitGroup
	for i, seq := range seqs {
		wg.Add(1)
		go func(i int, seq uint64) {
			defer wg.Done()
			s.Resolve(seq, i, nil)
		}(i, seq)
	}
	wg.Wait()

	v, ok := s.Value()
	require.True(t, ok)
	assert.Equal(t, len(seqs)-1, v)
}
