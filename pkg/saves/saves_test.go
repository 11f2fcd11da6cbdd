package saves

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathFor(t *testing.T) {
	assert.Equal(t, "/roms/tetris.save", PathFor("/roms/tetris.gb"))
	assert.Equal(t, "/roms/pokemon.save", PathFor("/roms/pokemon.gbc"))
}

func TestLoadMissingFileReturnsNilNoError(t *testing.T) {
	data, err := Load(filepath.Join(t.TempDir(), "missing.sav"))
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestWriteThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.sav")
	payload := []byte{1, 2, 3, 4, 5}

	require.NoError(t, Write(path, payload))
	data, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestWriteOverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.sav")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xFF}, 0o644))

	require.NoError(t, Write(path, []byte{1, 2, 3}))
	data, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestWriteLeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.sav")
	require.NoError(t, Write(path, []byte{1}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "game.sav", entries[0].Name())
}
