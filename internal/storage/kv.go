// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
)

// =============================================================================
// KV INTERFACE
// =============================================================================

// KV is a durable string store keyed by short identifiers.
type KV interface {
	// Get returns the value for key. ok is false when the key was never set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set replaces the value for key.
	Set(ctx context.Context, key, value string) error

	// Close releases resources held by the store.
	Close() error
}

// Watcher is implemented by stores that can report external changes.
type Watcher interface {
	// Watch calls onChange whenever the value under key changes on disk,
	// until ctx is cancelled.
	Watch(ctx context.Context, key string, onChange func()) error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var (
	// ErrInvalidKey is returned for keys outside [A-Za-z0-9_.-].
	ErrInvalidKey = errors.New("invalid storage key")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("storage closed")
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,128}$`)

// ValidateKey checks that key can be used by every backend.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Open opens the named backend rooted at dir.
func Open(backend, dir string) (KV, error) {
	switch backend {
	case BackendFile, "":
		return NewFileKV(dir)
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, "nexa.db"))
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
