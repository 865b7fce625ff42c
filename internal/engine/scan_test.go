package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/osrs-tools/flip-scanner/internal/filter"
	"github.com/osrs-tools/flip-scanner/internal/models"
)

func TestScanCatalogOrder(t *testing.T) {
	spec := filter.NewSpec()
	eng := NewEngine(spec, testDataset(), newFakeSeries(), nil)

	got := eng.Scan(nil)
	// Item 7 has no quote and is gated out; the rest keep catalog order.
	want := []int{2, 4151}
	if len(got) != len(want) {
		t.Fatalf("Scan() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Scan() = %v, want %v", got, want)
		}
	}
}

func TestScanRestrictedMode(t *testing.T) {
	spec := filter.NewSpec()
	eng := NewEngine(spec, testDataset(), newFakeSeries(), nil)

	got := eng.Scan([]int{4151, 999, 7})
	if len(got) != 1 || got[0] != 4151 {
		t.Fatalf("Scan(restricted) = %v, want [4151]", got)
	}
}

func TestScanNameGate(t *testing.T) {
	spec := filter.NewSpec()
	spec.Basic.ItemName = filter.Contains{Show: true, Substring: "whip"}
	eng := NewEngine(spec, testDataset(), newFakeSeries(), nil)

	got := eng.Scan(nil)
	if len(got) != 1 || got[0] != 4151 {
		t.Fatalf("Scan() = %v, want [4151]", got)
	}
}

func TestRunRejectsAllHiddenSpec(t *testing.T) {
	eng := NewEngine(filter.NewSpec(), testDataset(), newFakeSeries(), nil)

	_, err := eng.Run(context.Background(), nil)
	if !errors.Is(err, models.ErrNoActiveWindow) {
		t.Fatalf("Run with an all-hidden spec = %v, want ErrNoActiveWindow", err)
	}
}

func TestRunCollectsAcceptedItems(t *testing.T) {
	spec := filter.NewSpec()
	spec.Latest.MarginTaxed.Show = true

	eng := NewEngine(spec, testDataset(), newFakeSeries(), nil)
	results, err := eng.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("Run accepted %d items, want 2", len(results))
	}
	for _, res := range results {
		if !res.Accepted {
			t.Errorf("item %d returned but not accepted", res.ItemID)
		}
	}
}

func TestRunMaxItemsCap(t *testing.T) {
	spec := filter.NewSpec()
	spec.Latest.MarginTaxed.Show = true

	eng := NewEngine(spec, testDataset(), newFakeSeries(), nil)
	eng.MaxItems = 1

	results, err := eng.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ItemID != 2 {
		t.Fatalf("Run with MaxItems=1 = %v, want just item 2", results)
	}
}

func TestRunFilteringNarrowsResults(t *testing.T) {
	spec := filter.NewSpec()
	// Only the whip's mid price clears a million.
	spec.Basic.ItemPrice = filter.Range{Show: true, Min: 1_000_000, Max: filter.RangeMax}
	spec.Latest.MarginTaxed.Show = true

	eng := NewEngine(spec, testDataset(), newFakeSeries(), nil)
	results, err := eng.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ItemID != 4151 {
		t.Fatalf("Run = %v, want just item 4151", results)
	}
}
