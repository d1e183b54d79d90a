package driver

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeAtomic replaces path with data through a temp file in the same
// directory, keeping the original permissions.
func writeAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%s: create temp: %w", path, err)
	}
	tmp := f.Name()
	cleanup := func() {
		_ = os.Remove(tmp) //nolint:errcheck
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close() //nolint:errcheck
		cleanup()
		return fmt.Errorf("%s: write: %w", path, err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%s: close: %w", path, err)
	}
	if err := os.Chmod(tmp, mode); err != nil {
		cleanup()
		return fmt.Errorf("%s: chmod: %w", path, err)
	}
	// Атомарная замена
	if err := os.Rename(tmp, path); err != nil {
		cleanup()
		return fmt.Errorf("%s: rename: %w", path, err)
	}
	return nil
}
