// Package snapshot renders the visible sample window to a PNG file.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/allbin/tempscope"
)

// ErrEmptyWindow is returned when there is nothing to draw
var ErrEmptyWindow = errors.New("no samples to export")

const (
	width  = 1024
	height = 480
)

// Render draws frame as a PNG line chart with the window average as a dashed line
func Render(w io.Writer, axes tempscope.Axes, frame tempscope.Frame) error {
	if len(frame.Samples) == 0 {
		return ErrEmptyWindow
	}

	xs := make([]float64, len(frame.Samples))
	ys := make([]float64, len(frame.Samples))
	for i, s := range frame.Samples {
		xs[i] = float64(s.Index)
		ys[i] = s.Value
	}
	// A single point has no x range
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}

	lo, hi := frame.Min, frame.Max
	if hi-lo < 0.5 {
		mid := (hi + lo) / 2
		lo, hi = mid-0.5, mid+0.5
	}

	ch := chart.Chart{
		Title:      axes.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           axes.XLabel,
			ValueFormatter: indexFormatter,
		},
		YAxis: chart.YAxis{
			Name:  axes.YLabel,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("Last: %.2f °C", frame.Last.Value),
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
				},
			},
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("Avg: %.2f °C", frame.Average),
				XValues: []float64{xs[0], xs[len(xs)-1]},
				YValues: []float64{frame.Average, frame.Average},
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("fe640b"),
					StrokeWidth:     1,
					StrokeDashArray: []float64{5, 5},
				},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch.Render(chart.PNG, w)
}

func indexFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%d", int64(f))
	}
	return ""
}

// Write renders frame into dir as tempscope-<timestamp>.png and returns the path
func Write(dir string, axes tempscope.Axes, frame tempscope.Frame, now time.Time) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, axes, frame); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("tempscope-%s.png", now.Format("20060102-150405")))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return path, nil
}
