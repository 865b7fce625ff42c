package engine

import (
	"math"

	"github.com/osrs-tools/flip-scanner/internal/filter"
	"github.com/osrs-tools/flip-scanner/internal/models"
	"github.com/osrs-tools/flip-scanner/pkg/stats"
)

// seriesAccum is one pass over a window slice: per-side counts, price
// and volume sums, and the parallel price/volume/time arrays the tunnel
// and plot stages consume. Volumes accumulate over every point; price
// sums only over points where that side traded.
type seriesAccum struct {
	buyVol, sellVol     int
	buyCount, sellCount int
	sumBuy, sumSell     int

	buyPrices, sellPrices []float64
	buyVols, sellVols     []int
	buyTimes, sellTimes   []int64
}

func accumulate(slice []models.TimeSeriesPoint) seriesAccum {
	var acc seriesAccum
	for _, pt := range slice {
		acc.buyVol += pt.HighPriceVolume
		acc.sellVol += pt.LowPriceVolume

		if pt.AvgLowPrice != nil {
			p := *pt.AvgLowPrice
			acc.sumSell += p
			acc.sellCount++
			acc.sellPrices = append(acc.sellPrices, float64(p))
			acc.sellVols = append(acc.sellVols, pt.LowPriceVolume)
			acc.sellTimes = append(acc.sellTimes, pt.Timestamp)
		}
		if pt.AvgHighPrice != nil {
			p := *pt.AvgHighPrice
			acc.sumBuy += p
			acc.buyCount++
			acc.buyPrices = append(acc.buyPrices, float64(p))
			acc.buyVols = append(acc.buyVols, pt.HighPriceVolume)
			acc.buyTimes = append(acc.buyTimes, pt.Timestamp)
		}
	}
	return acc
}

// endpoints returns the earliest and latest non-null mid-prices of the
// slice, scanning each side independently. ok is false when either side
// has no data at one of the ends.
func endpoints(slice []models.TimeSeriesPoint) (first, current float64, ok bool) {
	var firstBuy, firstSell, currBuy, currSell *int
	for i := range slice {
		if firstBuy == nil && slice[i].AvgHighPrice != nil {
			firstBuy = slice[i].AvgHighPrice
		}
		if firstSell == nil && slice[i].AvgLowPrice != nil {
			firstSell = slice[i].AvgLowPrice
		}
		if firstBuy != nil && firstSell != nil {
			break
		}
	}
	for i := len(slice) - 1; i >= 0; i-- {
		if currBuy == nil && slice[i].AvgHighPrice != nil {
			currBuy = slice[i].AvgHighPrice
		}
		if currSell == nil && slice[i].AvgLowPrice != nil {
			currSell = slice[i].AvgLowPrice
		}
		if currBuy != nil && currSell != nil {
			break
		}
	}
	if firstBuy == nil || firstSell == nil || currBuy == nil || currSell == nil {
		return 0, 0, false
	}
	first = (float64(*firstBuy) + float64(*firstSell)) / 2
	current = (float64(*currBuy) + float64(*currSell)) / 2
	return first, current, true
}

// tunnelVolume sums the volumes at prices at or past a target price.
// The price and volume arrays are built in lockstep, so a length
// mismatch is an upstream data-shape bug, not a per-item condition.
func tunnelVolume(prices []float64, vols []int, target float64, above bool) (int, error) {
	if len(prices) != len(vols) {
		return 0, models.ErrSeriesShape
	}
	total := 0
	for i, p := range prices {
		if above && p >= target {
			total += vols[i]
		}
		if !above && p <= target {
			total += vols[i]
		}
	}
	return total, nil
}

// seriesWindow derives the metrics for one rolling time-series horizon
// over the most recent win.Steps points. A series that is not exactly
// 365 points is degraded: the window is skipped for the item, which is
// a "no opportunity" outcome rather than an error. Every metric is
// filtered right after it is computed, in fixed order, and the first
// failure exits the window without touching sibling windows.
func seriesWindow(points []models.TimeSeriesPoint, win models.SeriesWindow, sf *filter.SeriesFilters, basicPrice filter.Range, limit *int, buyPct, sellPct float64) (WindowResult, error) {
	w := WindowResult{Window: win.Name, Label: win.Label}

	if len(points) != models.SeriesLength {
		return w, nil
	}
	w.Used = true
	slice := points[len(points)-win.Steps:]

	// Trend over the whole slice, from the earliest to the latest
	// non-null mid-price. Missing endpoints leave both metrics absent,
	// failing their filters only when shown.
	var changeVal, changePctVal *Value
	if first, current, ok := endpoints(slice); ok {
		change := current - first
		changeVal = FloatVal(change)
		changePctVal = PercentVal(math.Trunc(change / first * 100))
	}
	if !w.checkRange("price_change", "Price Change", changeVal, sf.PriceChange) {
		w.Used = false
		return w, nil
	}
	if !w.checkRange("price_change_percent", "Price Change %", changePctVal, sf.PriceChangePercent) {
		w.Used = false
		return w, nil
	}

	acc := accumulate(slice)
	if acc.buyCount == 0 || acc.sellCount == 0 {
		w.Used = false
		return w, nil
	}

	buyAvg := acc.sumBuy / acc.buyCount
	sellAvg := acc.sumSell / acc.sellCount

	if !w.checkRange("insta_buy_avg", "Insta Buy Price (Average)", IntVal(buyAvg), sf.InstaBuyAvg) {
		w.Used = false
		return w, nil
	}
	if !w.checkRange("insta_buy_vol", "Insta Buy Volume", IntVal(acc.buyVol), sf.InstaBuyVol) {
		w.Used = false
		return w, nil
	}
	if !w.checkRange("insta_sell_avg", "Insta Sell Price (Average)", IntVal(sellAvg), sf.InstaSellAvg) {
		w.Used = false
		return w, nil
	}
	if !w.checkRange("insta_sell_vol", "Insta Sell Volume", IntVal(acc.sellVol), sf.InstaSellVol) {
		w.Used = false
		return w, nil
	}

	totalVol := acc.buyVol + acc.sellVol
	if !w.checkRange("total_vol", "Total Volume", IntVal(totalVol), sf.TotalVol) {
		w.Used = false
		return w, nil
	}

	var buyOverSell, sellOverBuy *Value
	if acc.sellVol > 0 {
		buyOverSell = FloatVal(float64(acc.buyVol) / float64(acc.sellVol))
	}
	if acc.buyVol > 0 {
		sellOverBuy = FloatVal(float64(acc.sellVol) / float64(acc.buyVol))
	}
	if !w.checkRange("buy_over_sell_vol_ratio", "Buy/Sell Volume Ratio", buyOverSell, sf.BuyOverSellVolRatio) {
		w.Used = false
		return w, nil
	}
	if !w.checkRange("sell_over_buy_vol_ratio", "Sell/Buy Volume Ratio", sellOverBuy, sf.SellOverBuyVolRatio) {
		w.Used = false
		return w, nil
	}

	// Canonical basic price gate, shared with every other window.
	priceAvg := (float64(buyAvg) + float64(sellAvg)) / 2
	w.metric("price_avg", "Price (Average)", sf.PriceAvg.Show, FloatVal(priceAvg))
	if !basicPrice.Filter(&priceAvg) {
		w.Used = false
		return w, nil
	}

	margin := taxedMargin(buyAvg, sellAvg)
	if !w.checkRange("margin_taxed_avg", "Margin (Average Taxed)", IntVal(margin), sf.MarginTaxedAvg) {
		w.Used = false
		return w, nil
	}
	if !w.checkRange("profit_per_limit_avg", "Profit Per Limit (Average)", profitPerLimit(margin, limit), sf.ProfitPerLimitAvg) {
		w.Used = false
		return w, nil
	}
	if !w.checkRange("roi_avg", "ROI (Average)", roiPercent(margin, sellAvg), sf.ROIAvg) {
		w.Used = false
		return w, nil
	}

	// Tunnel pricing: percentile-derived buy/sell targets, more
	// conservative than the window extremes, and the share of volume
	// that traded at or past them.
	tunnelBuy, _ := stats.Percentile(acc.buyPrices, buyPct)
	tunnelSell, _ := stats.Percentile(acc.sellPrices, sellPct)

	if !w.checkRange("tunnel_buy_price", "Tunnel Buy Price", FloatVal(tunnelBuy), sf.TunnelBuyPrice) {
		w.Used = false
		return w, nil
	}
	if !w.checkRange("tunnel_sell_price", "Tunnel Sell Price", FloatVal(tunnelSell), sf.TunnelSellPrice) {
		w.Used = false
		return w, nil
	}

	buyVolAbove, err := tunnelVolume(acc.buyPrices, acc.buyVols, tunnelBuy, true)
	if err != nil {
		return w, err
	}
	sellVolBelow, err := tunnelVolume(acc.sellPrices, acc.sellVols, tunnelSell, false)
	if err != nil {
		return w, err
	}

	if !w.checkRange("buy_vol_above_tunnel", "Buy Volume Above Tunnel", IntVal(buyVolAbove), sf.BuyVolAboveTunnel) {
		w.Used = false
		return w, nil
	}
	if !w.checkRange("sell_vol_below_tunnel", "Sell Volume Below Tunnel", IntVal(sellVolBelow), sf.SellVolBelowTunnel) {
		w.Used = false
		return w, nil
	}

	var buyOpp, sellOpp *Value
	if acc.sellVol > 0 {
		buyOpp = PercentVal(float64(sellVolBelow) / float64(acc.sellVol) * 100)
	}
	if acc.buyVol > 0 {
		sellOpp = PercentVal(float64(buyVolAbove) / float64(acc.buyVol) * 100)
	}
	if !w.checkRange("tunnel_buy_opportunity_percent", "Tunnel Buy Opportunity", buyOpp, sf.TunnelBuyOpportunityPct) {
		w.Used = false
		return w, nil
	}
	if !w.checkRange("tunnel_sell_opportunity_percent", "Tunnel Sell Opportunity", sellOpp, sf.TunnelSellOpportunityPct) {
		w.Used = false
		return w, nil
	}

	tunnelMargin := math.Floor(tunnelBuy*0.99) - tunnelSell
	if !w.checkRange("tunnel_margin_taxed", "Tunnel Margin (Taxed)", FloatVal(tunnelMargin), sf.TunnelMarginTaxed) {
		w.Used = false
		return w, nil
	}
	var tunnelProfit *Value
	if limit != nil {
		tunnelProfit = FloatVal(tunnelMargin * float64(*limit))
	}
	if !w.checkRange("tunnel_profit_per_limit", "Tunnel Profit Per Limit", tunnelProfit, sf.TunnelProfitPerLimit) {
		w.Used = false
		return w, nil
	}
	var tunnelROI *Value
	if tunnelSell != 0 {
		tunnelROI = PercentVal(tunnelMargin / tunnelSell * 100)
	}
	if !w.checkRange("tunnel_roi", "Tunnel ROI", tunnelROI, sf.TunnelROI) {
		w.Used = false
		return w, nil
	}

	// Scale-free volatility per side: population stddev over the side's
	// observed prices, against that side's truncated mean.
	buySD, _ := stats.StdDevPop(acc.buyPrices)
	sellSD, _ := stats.StdDevPop(acc.sellPrices)
	var buyCoV, sellCoV *Value
	if buyAvg != 0 {
		buyCoV = PercentVal(buySD / float64(buyAvg) * 100)
	}
	if sellAvg != 0 {
		sellCoV = PercentVal(sellSD / float64(sellAvg) * 100)
	}
	if !w.checkRange("buy_cov", "Buy Price CoV", buyCoV, sf.BuyCoV) {
		w.Used = false
		return w, nil
	}
	if !w.checkRange("sell_cov", "Sell Price CoV", sellCoV, sf.SellCoV) {
		w.Used = false
		return w, nil
	}

	if sf.Plot.Show {
		w.Plot = &PlotData{
			Title:      win.Label,
			BuyTimes:   acc.buyTimes,
			BuyPrices:  acc.buyPrices,
			SellTimes:  acc.sellTimes,
			SellPrices: acc.sellPrices,
			TunnelBuy:  tunnelBuy,
			TunnelSell: tunnelSell,
		}
	}

	return w, nil
}
