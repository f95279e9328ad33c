package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteDefault writes the default configuration to path, creating parent
// directories as needed. The write goes through a temp file and rename so a
// concurrent reader never sees a partial file. An existing file is an error;
// fwadm never overwrites operator configuration.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", dir, err)
	}

	tmpPath := filepath.Join(dir, ".tmp-"+filepath.Base(path))
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	defer os.Remove(tmpPath) // clean up on error

	if _, err := f.WriteString(GenerateDefault()); err != nil {
		f.Close()
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
