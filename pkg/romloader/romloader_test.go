package romloader

import (
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPlainROM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.gb")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3, 4}, 0o644))

	data, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)
}

func TestLoadGzipROM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := gzip.NewWriter(f)
	_, err = w.Write([]byte{5, 6, 7, 8})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	data, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 6, 7, 8}, data)
}

func TestLoadZipROM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	entry, err := zw.Create("game.gb")
	require.NoError(t, err)
	_, err = entry.Write([]byte{9, 10, 11})
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	data, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 10, 11}, data)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/no/such/rom.gb")
	assert.Error(t, err)
}
