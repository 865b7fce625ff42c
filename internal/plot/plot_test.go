package plot

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/osrs-tools/flip-scanner/internal/engine"
)

func testPlotData() *engine.PlotData {
	return &engine.PlotData{
		Title:      "24 Hours",
		BuyTimes:   []int64{1_700_000_000, 1_700_000_300, 1_700_000_600},
		BuyPrices:  []float64{100, 102, 101},
		SellTimes:  []int64{1_700_000_000, 1_700_000_300, 1_700_000_600},
		SellPrices: []float64{90, 91, 89},
		TunnelBuy:  101,
		TunnelSell: 90,
	}
}

func TestRenderProducesPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(testPlotData(), &buf); err != nil {
		t.Fatal(err)
	}

	// PNG magic bytes.
	out := buf.Bytes()
	if len(out) < 8 || !bytes.Equal(out[:4], []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestRenderEmptyData(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&engine.PlotData{Title: "empty"}, &buf)
	if err == nil {
		t.Error("rendering with no points on either side should fail")
	}
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	results := []*engine.EvaluationResult{
		{
			ItemID: 4151,
			Name:   "Abyssal whip",
			Windows: []engine.WindowResult{
				{Window: "basic", Used: true},
				{Window: "series_24h", Used: true, Plot: testPlotData()},
			},
		},
		{
			ItemID:  2,
			Name:    "Cannonball",
			Windows: []engine.WindowResult{{Window: "basic", Used: true}},
		},
	}

	paths, err := WriteAll(results, dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 {
		t.Fatalf("wrote %d plots, want 1", len(paths))
	}
	want := filepath.Join(dir, "abyssal_whip_series_24h.png")
	if paths[0] != want {
		t.Errorf("path = %q, want %q", paths[0], want)
	}
}
