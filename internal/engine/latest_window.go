package engine

import (
	"math"
	"time"

	"github.com/osrs-tools/flip-scanner/internal/filter"
	"github.com/osrs-tools/flip-scanner/internal/models"
)

// checkRange records a metric and applies its range predicate, returning
// whether the window survives. Absent values fail shown predicates and
// pass hidden ones.
func (w *WindowResult) checkRange(name, label string, v *Value, r filter.Range) bool {
	w.metric(name, label, r.Show, v)
	if f, ok := v.AsFloat(); ok {
		return r.Filter(&f)
	}
	return r.Filter(nil)
}

// taxedMargin applies the 1% transaction tax to the buy side, rounded
// down before the subtraction.
func taxedMargin(buy, sell int) int {
	return int(math.Floor(float64(buy)*0.99)) - sell
}

// profitPerLimit multiplies a margin by the item's buy limit; nil when
// the item has no listed limit.
func profitPerLimit(margin int, limit *int) *Value {
	if limit == nil {
		return nil
	}
	return IntVal(margin * *limit)
}

// roiPercent is the taxed margin over the sell price as a truncated
// percentage.
func roiPercent(margin, sell int) *Value {
	return PercentVal(math.Trunc(float64(margin) / float64(sell) * 100))
}

// latestWindow derives the instantaneous-quote metrics. The caller has
// already verified the quote is complete; failures here are filter
// rejections, never missing data.
func latestWindow(q models.Quote, item *models.Item, lf *filter.LatestFilters, now time.Time) WindowResult {
	w := WindowResult{Window: filter.WindowLatest, Label: "Latest", Used: true}

	buy := *q.InstaBuyPrice
	sell := *q.InstaSellPrice
	sellAgeMin := int((now.Unix() - q.InstaSellTime) / 60)
	buyAgeMin := int((now.Unix() - q.InstaBuyTime) / 60)

	if !w.checkRange("insta_sell_price", "Insta Sell Price", IntVal(sell), lf.InstaSellPrice) {
		w.Used = false
		return w
	}
	if !w.checkRange("insta_sell_time_min", "Insta Sell Time (Min Ago)", IntVal(sellAgeMin), lf.InstaSellTimeMin) {
		w.Used = false
		return w
	}
	if !w.checkRange("insta_buy_price", "Insta Buy Price", IntVal(buy), lf.InstaBuyPrice) {
		w.Used = false
		return w
	}
	if !w.checkRange("insta_buy_time_min", "Insta Buy Time (Min Ago)", IntVal(buyAgeMin), lf.InstaBuyTimeMin) {
		w.Used = false
		return w
	}
	if !w.checkRange("price_avg", "Average Price", FloatVal(q.MidPrice()), lf.PriceAvg) {
		w.Used = false
		return w
	}

	margin := taxedMargin(buy, sell)
	if !w.checkRange("margin_taxed", "Margin (Taxed)", IntVal(margin), lf.MarginTaxed) {
		w.Used = false
		return w
	}
	if !w.checkRange("profit_per_limit", "Profit Per Limit", profitPerLimit(margin, item.BuyLimit), lf.ProfitPerLimit) {
		w.Used = false
		return w
	}
	if !w.checkRange("roi", "ROI", roiPercent(margin, sell), lf.ROI) {
		w.Used = false
		return w
	}

	return w
}
