// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWriteFile replaces path with data. Readers of path (the review
// watcher, a second nexa process) see the previous blob or the new one,
// never a torn write.
//
// Missing parent directories are created. Private files (no group or other
// bits in perm) get private directories.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	dir, base := filepath.Split(target)
	if err := os.MkdirAll(dir, dirPermFor(perm)); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", base, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", base, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", base, err)
	}
	// Close before rename; Windows will not rename an open file.
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", base, err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("replace %s: %w", base, err)
	}
	return nil
}

func dirPermFor(perm os.FileMode) os.FileMode {
	if perm&0o077 == 0 {
		return 0o700
	}
	return 0o755
}
