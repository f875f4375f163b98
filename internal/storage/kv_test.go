// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// backends returns a fresh instance of every backend.
func backends(t *testing.T) map[string]KV {
	t.Helper()

	fileKV, err := NewFileKV(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	sqliteKV, err := OpenSQLite(filepath.Join(t.TempDir(), "nexa.db"))
	require.NoError(t, err)

	stores := map[string]KV{
		BackendFile:   fileKV,
		BackendSQLite: sqliteKV,
		BackendMemory: NewMemoryKV(),
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestKV_GetMissing(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			v, ok, err := kv.Get(ctx, "nexo_hotel_reviews")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, v)
		})
	}
}

func TestKV_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set(ctx, "nexo_hotel_reviews", `{"a":[]}`))
			require.NoError(t, kv.Set(ctx, "nexo_hotel_reviews", `{"b":[]}`))

			v, ok, err := kv.Get(ctx, "nexo_hotel_reviews")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"b":[]}`, v)
		})
	}
}

func TestKV_RejectsInvalidKeys(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", "a/b", "..", "spaces here"} {
				err := kv.Set(ctx, key, "x")
				assert.ErrorIs(t, err, ErrInvalidKey, key)
			}
		})
	}
}

func TestFileKV_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileKV(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "k", "persisted"))
	require.NoError(t, first.Close())

	second, err := NewFileKV(dir)
	require.NoError(t, err)
	defer second.Close()

	v, ok, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)

	info, err := os.Stat(filepath.Join(dir, "k.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSQLiteKV_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nexa.db")

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "k", "persisted"))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	v, ok, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
}

func TestMemoryKV_Closed(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Close())
	err := kv.Set(context.Background(), "k", "v")
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestOpen_Backends(t *testing.T) {
	dir := t.TempDir()

	for _, backend := range []string{BackendFile, BackendSQLite, BackendMemory} {
		kv, err := Open(backend, dir)
		require.NoError(t, err, backend)
		require.NoError(t, kv.Close())
	}

	_, err := Open("s3", dir)
	assert.Error(t, err)
}

func TestFileKV_WatchReportsExternalWrite(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)
	kv.Debounce = 10 * time.Millisecond
	defer kv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	require.NoError(t, kv.Watch(ctx, "nexo_hotel_reviews", func() {
		changed <- struct{}{}
	}))

	// A different key must not fire.
	other, err := NewFileKV(dir)
	require.NoError(t, err)
	require.NoError(t, other.Set(ctx, "unrelated", "x"))
	require.NoError(t, other.Set(ctx, "nexo_hotel_reviews", `{}`))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected change notification")
	}

	cancel()
	// Give the watcher goroutine a moment to exit before goleak checks.
	time.Sleep(20 * time.Millisecond)
}
