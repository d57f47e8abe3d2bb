package chi

import (
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	domchart "github.com/kailas-cloud/segmenter/internal/domain/chart"
)

var sliceColors = []string{
	"4F46E5", "10B981", "F59E0B", "EF4444", "8B5CF6",
}

// ChartOptions sets the rendered chart size in pixels.
type ChartOptions struct {
	Width  int
	Height int
}

// renderChart draws a non-empty proportion chart as SVG.
func renderChart(w io.Writer, c domchart.Proportion, opts ChartOptions) error {
	if c.Empty() {
		return fmt.Errorf("chart %s has no data", c.Name())
	}

	values := make([]gochart.Value, 0, len(c.Slices()))
	for i, s := range c.Slices() {
		if s.Value <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: s.Label + " " + s.PercentText(),
			Value: s.Value,
			Style: gochart.Style{
				FillColor:   drawing.ColorFromHex(sliceColors[i%len(sliceColors)]),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
				FontColor:   drawing.ColorWhite,
			},
		})
	}

	titleStyle := gochart.Style{FontColor: drawing.ColorFromHex("1F2C3A")}

	switch c.Kind() {
	case domchart.Donut:
		dc := gochart.DonutChart{
			Title:      c.Title(),
			TitleStyle: titleStyle,
			Width:      opts.Width,
			Height:     opts.Height,
			Values:     values,
		}
		return dc.Render(gochart.SVG, w)
	default:
		pc := gochart.PieChart{
			Title:      c.Title(),
			TitleStyle: titleStyle,
			Width:      opts.Width,
			Height:     opts.Height,
			Values:     values,
		}
		return pc.Render(gochart.SVG, w)
	}
}
