package diagnostics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameTimeChartWritesAFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frametimes.png")
	frameTimes := []time.Duration{
		16 * time.Millisecond,
		17 * time.Millisecond,
		33 * time.Millisecond,
		16 * time.Millisecond,
	}

	require.NoError(t, FrameTimeChart(path, frameTimes))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestFrameTimeChartHandlesEmptyInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, FrameTimeChart(path, nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestTargetFrameDurationIsAboutOneSixtiethOfASecond(t *testing.T) {
	assert.InDelta(t, 16.7, TargetFrameDuration.Seconds()*1000, 0.1)
}
