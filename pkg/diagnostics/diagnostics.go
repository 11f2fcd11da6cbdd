// Package diagnostics renders a frame-pacing chart from a run's recorded
// frame times, the headless equivalent of the teacher's "Performance"
// view: same plotter.Line-over-gonum/plot approach, a PNG file on disk
// instead of a live fyne canvas.
package diagnostics

import (
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// FrameTimeChart writes a line chart of frameTimes (one RunFrame
// duration per sample) to path as a PNG.
func FrameTimeChart(path string, frameTimes []time.Duration) error {
	p := plot.New()
	p.Title.Text = "Frame Time"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Milliseconds"

	points := make(plotter.XYs, len(frameTimes))
	for i, d := range frameTimes {
		points[i].X = float64(i)
		points[i].Y = float64(d.Microseconds()) / 1000
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	p.Add(line)

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// TargetFrameDuration is one frame at the Game Boy's native ~59.73 Hz
// refresh rate (70224 T-cycles at 4.194304 MHz), the baseline callers
// compare FrameTimeChart's samples against to judge whether a run kept
// up with real time.
const TargetFrameDuration = 16743 * time.Microsecond
