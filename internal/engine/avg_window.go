package engine

import (
	"github.com/osrs-tools/flip-scanner/internal/filter"
	"github.com/osrs-tools/flip-scanner/internal/models"
)

// avgWindow derives the 5-minute or 1-hour average-window metrics. A
// missing aggregate, an absent price, or a zero volume on either side
// marks the window unused without touching the rest of the item. Each
// metric is filtered as soon as it is computed, in fixed order, and the
// first failure exits the window.
func avgWindow(window, label string, agg *models.WindowAggregate, af *filter.AvgFilters, basicPrice filter.Range, limit *int) WindowResult {
	w := WindowResult{Window: window, Label: label}

	if agg == nil || !agg.Usable() {
		return w
	}
	w.Used = true

	buyAvg := *agg.InstaBuyAvg
	sellAvg := *agg.InstaSellAvg

	if !w.checkRange("insta_buy_avg", "Average Insta Buy Price", IntVal(buyAvg), af.InstaBuyAvg) {
		w.Used = false
		return w
	}
	if !w.checkRange("insta_buy_vol", "Average Insta Buy Vol", IntVal(agg.InstaBuyVol), af.InstaBuyVol) {
		w.Used = false
		return w
	}
	if !w.checkRange("insta_sell_avg", "Average Insta Sell Price", IntVal(sellAvg), af.InstaSellAvg) {
		w.Used = false
		return w
	}
	if !w.checkRange("insta_sell_vol", "Average Insta Sell Vol", IntVal(agg.InstaSellVol), af.InstaSellVol) {
		w.Used = false
		return w
	}

	avgVol := agg.InstaBuyVol + agg.InstaSellVol
	if !w.checkRange("avg_vol", "Average Volume", IntVal(avgVol), af.AvgVol) {
		w.Used = false
		return w
	}

	// The mid price is gated by the canonical basic item-price filter,
	// not a window-local one.
	priceAvg := (buyAvg + sellAvg) / 2
	w.metric("price_avg", "Average Price", af.PriceAvg.Show, IntVal(priceAvg))
	if f := float64(priceAvg); !basicPrice.Filter(&f) {
		w.Used = false
		return w
	}

	margin := taxedMargin(buyAvg, sellAvg)
	if !w.checkRange("margin_taxed", "Average Margin (Taxed)", IntVal(margin), af.MarginTaxed) {
		w.Used = false
		return w
	}
	if !w.checkRange("profit_per_limit", "Average Profit Per Limit", profitPerLimit(margin, limit), af.ProfitPerLimit) {
		w.Used = false
		return w
	}
	if !w.checkRange("roi_avg", "Average ROI", roiPercent(margin, sellAvg), af.ROIAvg) {
		w.Used = false
		return w
	}

	return w
}
