package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blankFramebuffer() []byte {
	fb := make([]byte, width*height*3)
	for i := range fb {
		fb[i] = 0x80
	}
	return fb
}

func TestEncodeProducesBMPHeader(t *testing.T) {
	data, err := Encode(blankFramebuffer())
	require.NoError(t, err)
	require.Greater(t, len(data), 2)
	assert.Equal(t, byte('B'), data[0])
	assert.Equal(t, byte('M'), data[1])
}

func TestWriteFileRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.bmp")
	require.NoError(t, WriteFile(path, blankFramebuffer()))

	data, err := Encode(blankFramebuffer())
	require.NoError(t, err)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, written)
}
