package sentiment

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Band colors for the rendered score bar.
var (
	bandGreen  = drawing.Color{R: 0x22, G: 0xc5, B: 0x5e, A: 255}
	bandYellow = drawing.Color{R: 0xfb, G: 0xbf, B: 0x24, A: 255}
	bandRed    = drawing.Color{R: 0xef, G: 0x44, B: 0x44, A: 255}
)

func bandColor(score float64) drawing.Color {
	switch {
	case score > 6:
		return bandGreen
	case score > 4:
		return bandYellow
	default:
		return bandRed
	}
}

// renderChart writes a single-bar PNG of the display score under the
// assets directory and returns the file path.
func (a *Analyzer) renderChart(score float64) (string, error) {
	if err := os.MkdirAll(a.assetsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating assets dir: %w", err)
	}
	color := bandColor(score)
	graph := chart.BarChart{
		Title:    "Client Sentiment",
		Width:    420,
		Height:   340,
		BarWidth: 80,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 10},
		},
		Bars: []chart.Value{
			{
				Value: score,
				Label: fmt.Sprintf("Score %s/10", formatScore(score)),
				Style: chart.Style{
					FillColor:   color,
					StrokeColor: color,
				},
			},
		},
	}

	path := filepath.Join(a.assetsDir, fmt.Sprintf("sentiment_chart_%s.png", uuid.NewString()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("rendering chart: %w", err)
	}
	return path, nil
}
