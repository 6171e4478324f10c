package feed

import (
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the feed to path, creating parent directories as needed.
func Save(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create directory for %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("could not write feed to %s: %w", path, err)
	}

	return nil
}
