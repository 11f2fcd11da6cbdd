// Package romloader reads a cartridge ROM image off disk, transparently
// decompressing it if it arrives packed in a zip, gzip, or 7z archive.
package romloader

import (
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"
)

// Load reads path and returns the raw cartridge bytes, decompressing by
// extension when the file isn't a bare .gb/.gbc image. Archives are
// expected to contain exactly one ROM; Load reads the first entry.
func Load(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".gb", ".gbc":
		return io.ReadAll(f)
	case ".gz":
		r, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("romloader: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case ".zip":
		return loadFromZip(f)
	case ".7z":
		return loadFromSevenZip(f)
	default:
		return io.ReadAll(f)
	}
}

func loadFromZip(f *os.File) ([]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("romloader: %w", err)
	}
	if len(r.File) == 0 {
		return nil, fmt.Errorf("romloader: zip archive is empty")
	}
	entry, err := r.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("romloader: %w", err)
	}
	defer entry.Close()
	return io.ReadAll(entry)
}

func loadFromSevenZip(f *os.File) ([]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	r, err := sevenzip.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("romloader: %w", err)
	}
	if len(r.File) == 0 {
		return nil, fmt.Errorf("romloader: 7z archive is empty")
	}
	entry, err := r.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("romloader: %w", err)
	}
	defer entry.Close()
	return io.ReadAll(entry)
}
