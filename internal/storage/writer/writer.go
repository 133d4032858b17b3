package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// WriteFileAtomic replaces path with data using temp + atomic rename,
// so readers see either the old or the new content, never a torn file.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", filepath.Base(path), err)
	}

	tmpPath := path + ".tmp"

	// Write to temp
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file %s: %w", filepath.Base(path), err)
	}

	// Atomic replace
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp → %s: %w", filepath.Base(path), err)
	}

	return nil
}

// WriteJSON marshals v and writes it atomically to path
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	return WriteFileAtomic(path, data)
}

// ReadJSON reads path and unmarshals it into v
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
