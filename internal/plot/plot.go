package plot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/osrs-tools/flip-scanner/internal/engine"
)

// Render draws one plot-flagged window as a PNG: the instant buy and
// sell price series plus the two horizontal tunnel lines.
func Render(data *engine.PlotData, w io.Writer) error {
	if len(data.BuyTimes) == 0 && len(data.SellTimes) == 0 {
		return fmt.Errorf("plot %q: no points on either side", data.Title)
	}

	var series []chart.Series
	if len(data.BuyTimes) > 0 {
		series = append(series, chart.TimeSeries{
			Name:    "Insta Buy",
			XValues: toTimes(data.BuyTimes),
			YValues: data.BuyPrices,
			Style: chart.Style{
				StrokeColor: drawing.ColorGreen,
			},
		})
		series = append(series, tunnelLine("Buy Tunnel", data.BuyTimes, data.TunnelBuy, drawing.ColorGreen))
	}
	if len(data.SellTimes) > 0 {
		series = append(series, chart.TimeSeries{
			Name:    "Insta Sell",
			XValues: toTimes(data.SellTimes),
			YValues: data.SellPrices,
			Style: chart.Style{
				StrokeColor: drawing.ColorRed,
			},
		})
		series = append(series, tunnelLine("Sell Tunnel", data.SellTimes, data.TunnelSell, drawing.ColorRed))
	}

	graph := chart.Chart{
		Title:  data.Title,
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Price (gp)",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// WriteAll renders every plot-flagged window of every result into dir,
// one PNG per item and window. Returns the written paths.
func WriteAll(results []*engine.EvaluationResult, dir string) ([]string, error) {
	var paths []string
	for _, res := range results {
		for i := range res.Windows {
			w := &res.Windows[i]
			if w.Plot == nil {
				continue
			}
			path := filepath.Join(dir, fileName(res.Name, w.Window))
			if err := writePNG(w.Plot, path); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func writePNG(data *engine.PlotData, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return Render(data, file)
}

// tunnelLine draws a dashed horizontal line at the tunnel price across
// the side's time range.
func tunnelLine(name string, times []int64, price float64, color drawing.Color) chart.Series {
	first := time.Unix(times[0], 0)
	last := time.Unix(times[len(times)-1], 0)
	return chart.TimeSeries{
		Name:    name,
		XValues: []time.Time{first, last},
		YValues: []float64{price, price},
		Style: chart.Style{
			StrokeColor:     color,
			StrokeDashArray: []float64{5.0, 5.0},
		},
	}
}

func toTimes(ts []int64) []time.Time {
	out := make([]time.Time, len(ts))
	for i, t := range ts {
		out[i] = time.Unix(t, 0)
	}
	return out
}

func fileName(itemName, window string) string {
	name := strings.ToLower(itemName)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	return fmt.Sprintf("%s_%s.png", name, window)
}
