// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the durable key-value blob store used by nexa.
//
// Values are opaque strings under fixed keys. Callers that keep structured
// data (the review store) serialise the whole structure into one blob and
// rewrite it on every change.
//
// # Backends
//
//   - FileKV: one file per key under a directory, written atomically
//   - SQLiteKV: a single kv table in a SQLite database (modernc.org/sqlite)
//   - MemoryKV: process-local, for tests and --ephemeral runs
//
// FileKV additionally implements Watcher so that edits made by another
// nexa process show up without a restart.
package storage
