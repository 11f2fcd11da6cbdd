// Package saves derives a battery-save path from a ROM path and writes
// a cartridge's battery-backed RAM atomically: to a temp file first,
// then renamed into place, so a crash mid-write never corrupts the
// previous save.
package saves

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathFor returns the .save path this module uses for a given ROM path:
// same directory and base name, ".save" extension.
func PathFor(romPath string) string {
	ext := filepath.Ext(romPath)
	return romPath[:len(romPath)-len(ext)] + ".save"
}

// Load reads the battery-save payload for path, if it exists. A missing
// file is not an error: it returns (nil, nil), since every cartridge
// without a prior save should start with zeroed RAM.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("saves: %w", err)
	}
	return data, nil
}

// Write atomically replaces path's contents with data.
func Write(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sav-*")
	if err != nil {
		return fmt.Errorf("saves: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("saves: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saves: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saves: %w", err)
	}
	return nil
}
