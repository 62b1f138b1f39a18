package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/banga/craytracer-sub000/pkg/core"
	"github.com/olekukonko/tablewriter"
)

// PixelStats accumulates the samples taken for a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	SampleCount int       // Number of samples taken
}

// AddSample adds a new radiance sample
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// Color returns the current average radiance for this pixel
func (ps *PixelStats) Color() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Black
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// WorkerStats records the work done by one render worker
type WorkerStats struct {
	ID       int
	Tiles    int
	Samples  int
	Duration time.Duration // Time spent rendering tiles
}

// RenderStats contains statistics about a finished render
type RenderStats struct {
	Width, Height   int
	SamplesPerPixel int
	TotalTiles      int
	TilesRendered   int
	TotalSamples    int
	Duration        time.Duration
	Workers         []WorkerStats
}

// SamplesPerSecond returns the camera ray throughput of the render
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// Table renders the per-worker statistics as a text table
func (s RenderStats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Tiles", "Samples", "% of frame", "Render time"})
	for _, w := range s.Workers {
		percent := 0.0
		if s.TotalSamples > 0 {
			percent = 100 * float64(w.Samples) / float64(s.TotalSamples)
		}
		table.Append([]string{
			fmt.Sprintf("%d", w.ID),
			fmt.Sprintf("%d", w.Tiles),
			fmt.Sprintf("%d", w.Samples),
			fmt.Sprintf("%02.1f %%", percent),
			w.Duration.Round(time.Millisecond).String(),
		})
	}
	table.SetFooter([]string{
		"TOTAL",
		fmt.Sprintf("%d/%d", s.TilesRendered, s.TotalTiles),
		fmt.Sprintf("%d", s.TotalSamples),
		fmt.Sprintf("%.0f/s", s.SamplesPerSecond()),
		s.Duration.Round(time.Millisecond).String(),
	})
	table.Render()
	return buf.String()
}
