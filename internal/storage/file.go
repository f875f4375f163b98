// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/nexa-tui/internal/util"
)

// =============================================================================
// FILE BACKEND
// =============================================================================

// FileKV stores each key as <dir>/<key>.json.
type FileKV struct {
	dir string

	// Debounce coalesces bursts of write events in Watch.
	Debounce time.Duration

	mu     sync.Mutex
	closed bool
}

// NewFileKV creates the directory if needed and returns a store rooted there.
func NewFileKV(dir string) (*FileKV, error) {
	if dir == "" {
		return nil, errors.New("storage directory is empty")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileKV{dir: dir, Debounce: 100 * time.Millisecond}, nil
}

// Dir returns the root directory.
func (f *FileKV) Dir() string { return f.dir }

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	if err := ValidateKey(key); err != nil {
		return "", false, err
	}
	if f.isClosed() {
		return "", false, ErrClosed
	}
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *FileKV) Set(_ context.Context, key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	if err := util.AtomicWriteFile(f.path(key), []byte(value), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *FileKV) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// =============================================================================
// WATCH
// =============================================================================

// Watch reports changes to key's file. The directory is watched rather than
// the file because atomic writes replace the inode.
func (f *FileKV) Watch(ctx context.Context, key string, onChange func()) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(f.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", f.dir, err)
	}

	target := f.path(key)
	go func() {
		defer watcher.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(f.Debounce)
				} else {
					timer.Reset(f.Debounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				onChange()
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}
