package filter

import (
	"fmt"

	"github.com/osrs-tools/flip-scanner/internal/models"
)

// Window names, in evaluation order.
const (
	WindowBasic  = "basic"
	WindowLatest = "latest"
	WindowAvg5m  = "avg_5m"
	WindowAvg1h  = "avg_1h"
)

// RejectionPolicy decides what a window-level failure does to the item.
type RejectionPolicy string

const (
	// PolicyRejectItem discards the whole item the moment any requested
	// window fails: every active predicate is a conjunctive AND.
	PolicyRejectItem RejectionPolicy = "reject-item"

	// PolicySuppressWindow keeps the item and only drops the failing
	// window's contribution.
	PolicySuppressWindow RejectionPolicy = "suppress-window"
)

// Valid reports whether the policy is a known one.
func (p RejectionPolicy) Valid() bool {
	return p == PolicyRejectItem || p == PolicySuppressWindow
}

// NamedPredicate pairs a metric name with its predicate. Window sets
// enumerate their pairs explicitly so "is anything shown" is a plain
// fold rather than reflection.
type NamedPredicate struct {
	Name      string
	Predicate Predicate
}

// BasicFilters gate items before any per-window work happens.
type BasicFilters struct {
	ItemName  Contains `json:"item_name"`
	ItemID    Range    `json:"item_id"`
	ItemPrice Range    `json:"item_price"`
	GELimit   Range    `json:"ge_limit"`
	Members   NoFilter `json:"members"`
}

// Pairs enumerates the basic predicates.
func (f *BasicFilters) Pairs() []NamedPredicate {
	return []NamedPredicate{
		{"item_name", f.ItemName},
		{"item_id", f.ItemID},
		{"item_price", f.ItemPrice},
		{"ge_limit", f.GELimit},
		{"members", f.Members},
	}
}

// LatestFilters cover the instantaneous quote window.
type LatestFilters struct {
	InstaSellPrice   Range `json:"insta_sell_price"`
	InstaSellTimeMin Range `json:"insta_sell_time_min"`
	InstaBuyPrice    Range `json:"insta_buy_price"`
	InstaBuyTimeMin  Range `json:"insta_buy_time_min"`
	PriceAvg         Range `json:"price_avg"`
	MarginTaxed      Range `json:"margin_taxed"`
	ProfitPerLimit   Range `json:"profit_per_limit"`
	ROI              Range `json:"roi"`
}

// Pairs enumerates the latest-quote predicates.
func (f *LatestFilters) Pairs() []NamedPredicate {
	return []NamedPredicate{
		{"insta_sell_price", f.InstaSellPrice},
		{"insta_sell_time_min", f.InstaSellTimeMin},
		{"insta_buy_price", f.InstaBuyPrice},
		{"insta_buy_time_min", f.InstaBuyTimeMin},
		{"price_avg", f.PriceAvg},
		{"margin_taxed", f.MarginTaxed},
		{"profit_per_limit", f.ProfitPerLimit},
		{"roi", f.ROI},
	}
}

// AvgFilters cover one average window. The 5m and 1h windows share the
// same shape.
type AvgFilters struct {
	InstaBuyAvg    Range `json:"insta_buy_avg"`
	InstaBuyVol    Range `json:"insta_buy_vol"`
	InstaSellAvg   Range `json:"insta_sell_avg"`
	InstaSellVol   Range `json:"insta_sell_vol"`
	AvgVol         Range `json:"avg_vol"`
	PriceAvg       Range `json:"price_avg"`
	MarginTaxed    Range `json:"margin_taxed"`
	ProfitPerLimit Range `json:"profit_per_limit"`
	ROIAvg         Range `json:"roi_avg"`
}

// Pairs enumerates the average-window predicates.
func (f *AvgFilters) Pairs() []NamedPredicate {
	return []NamedPredicate{
		{"insta_buy_avg", f.InstaBuyAvg},
		{"insta_buy_vol", f.InstaBuyVol},
		{"insta_sell_avg", f.InstaSellAvg},
		{"insta_sell_vol", f.InstaSellVol},
		{"avg_vol", f.AvgVol},
		{"price_avg", f.PriceAvg},
		{"margin_taxed", f.MarginTaxed},
		{"profit_per_limit", f.ProfitPerLimit},
		{"roi_avg", f.ROIAvg},
	}
}

// SeriesFilters cover one time-series window. All six horizons share
// this shape; the window identity (cadence, steps) lives in
// models.SeriesWindows.
type SeriesFilters struct {
	PriceChange        Range `json:"price_change"`
	PriceChangePercent Range `json:"price_change_percent"`

	InstaBuyAvg         Range `json:"insta_buy_avg"`
	InstaBuyVol         Range `json:"insta_buy_vol"`
	InstaSellAvg        Range `json:"insta_sell_avg"`
	InstaSellVol        Range `json:"insta_sell_vol"`
	TotalVol            Range `json:"total_vol"`
	BuyOverSellVolRatio Range `json:"buy_over_sell_vol_ratio"`
	SellOverBuyVolRatio Range `json:"sell_over_buy_vol_ratio"`
	PriceAvg            Range `json:"price_avg"`
	MarginTaxedAvg      Range `json:"margin_taxed_avg"`
	ProfitPerLimitAvg   Range `json:"profit_per_limit_avg"`
	ROIAvg              Range `json:"roi_avg"`

	TunnelBuyPrice            Range `json:"tunnel_buy_price"`
	TunnelSellPrice           Range `json:"tunnel_sell_price"`
	BuyVolAboveTunnel         Range `json:"buy_vol_above_tunnel"`
	SellVolBelowTunnel        Range `json:"sell_vol_below_tunnel"`
	TunnelBuyOpportunityPct   Range `json:"tunnel_buy_opportunity_percent"`
	TunnelSellOpportunityPct  Range `json:"tunnel_sell_opportunity_percent"`
	TunnelMarginTaxed         Range `json:"tunnel_margin_taxed"`
	TunnelProfitPerLimit      Range `json:"tunnel_profit_per_limit"`
	TunnelROI                 Range `json:"tunnel_roi"`

	BuyCoV  Range `json:"buy_cov"`
	SellCoV Range `json:"sell_cov"`

	Plot Plot `json:"plot"`
}

// Pairs enumerates the series predicates in evaluation order; the plot
// flag is included so requesting a plot activates the window.
func (f *SeriesFilters) Pairs() []NamedPredicate {
	return []NamedPredicate{
		{"price_change", f.PriceChange},
		{"price_change_percent", f.PriceChangePercent},
		{"insta_buy_avg", f.InstaBuyAvg},
		{"insta_buy_vol", f.InstaBuyVol},
		{"insta_sell_avg", f.InstaSellAvg},
		{"insta_sell_vol", f.InstaSellVol},
		{"total_vol", f.TotalVol},
		{"buy_over_sell_vol_ratio", f.BuyOverSellVolRatio},
		{"sell_over_buy_vol_ratio", f.SellOverBuyVolRatio},
		{"price_avg", f.PriceAvg},
		{"margin_taxed_avg", f.MarginTaxedAvg},
		{"profit_per_limit_avg", f.ProfitPerLimitAvg},
		{"roi_avg", f.ROIAvg},
		{"tunnel_buy_price", f.TunnelBuyPrice},
		{"tunnel_sell_price", f.TunnelSellPrice},
		{"buy_vol_above_tunnel", f.BuyVolAboveTunnel},
		{"sell_vol_below_tunnel", f.SellVolBelowTunnel},
		{"tunnel_buy_opportunity_percent", f.TunnelBuyOpportunityPct},
		{"tunnel_sell_opportunity_percent", f.TunnelSellOpportunityPct},
		{"tunnel_margin_taxed", f.TunnelMarginTaxed},
		{"tunnel_profit_per_limit", f.TunnelProfitPerLimit},
		{"tunnel_roi", f.TunnelROI},
		{"buy_cov", f.BuyCoV},
		{"sell_cov", f.SellCoV},
		{"plot", f.Plot},
	}
}

// Spec is the full, fixed-shape filter specification: one predicate set
// per time window plus the tunnel percentiles and the rejection policy.
type Spec struct {
	Basic  BasicFilters  `json:"basic"`
	Latest LatestFilters `json:"latest"`
	Avg5m  AvgFilters    `json:"avg_5m"`
	Avg1h  AvgFilters    `json:"avg_1h"`

	Series6h  SeriesFilters `json:"series_6h"`
	Series12h SeriesFilters `json:"series_12h"`
	Series24h SeriesFilters `json:"series_24h"`
	Series1w  SeriesFilters `json:"series_1w"`
	Series1m  SeriesFilters `json:"series_1m"`
	Series1y  SeriesFilters `json:"series_1y"`

	// Tunnel percentiles: the buy target sits at the BuyPercentile of
	// observed buy prices, the sell target at the SellPercentile of
	// observed sell prices.
	BuyPercentile  float64 `json:"buy_percentile"`
	SellPercentile float64 `json:"sell_percentile"`

	Policy RejectionPolicy `json:"policy"`
}

// NewSpec returns a spec with every predicate hidden, unbounded range
// limits, default tunnel percentiles (60/40) and the reject-item policy.
func NewSpec() *Spec {
	s := &Spec{
		BuyPercentile:  60,
		SellPercentile: 40,
		Policy:         PolicyRejectItem,
	}
	hideAll(s)
	return s
}

func hideAll(s *Spec) {
	s.Basic = BasicFilters{
		ItemID:    NewRange(),
		ItemPrice: NewRange(),
		GELimit:   NewRange(),
	}
	s.Latest = LatestFilters{
		InstaSellPrice:   NewRange(),
		InstaSellTimeMin: NewRange(),
		InstaBuyPrice:    NewRange(),
		InstaBuyTimeMin:  NewRange(),
		PriceAvg:         NewRange(),
		MarginTaxed:      NewRange(),
		ProfitPerLimit:   NewRange(),
		ROI:              NewRange(),
	}
	s.Avg5m = newAvgFilters()
	s.Avg1h = newAvgFilters()
	s.Series6h = newSeriesFilters()
	s.Series12h = newSeriesFilters()
	s.Series24h = newSeriesFilters()
	s.Series1w = newSeriesFilters()
	s.Series1m = newSeriesFilters()
	s.Series1y = newSeriesFilters()
}

func newAvgFilters() AvgFilters {
	return AvgFilters{
		InstaBuyAvg:    NewRange(),
		InstaBuyVol:    NewRange(),
		InstaSellAvg:   NewRange(),
		InstaSellVol:   NewRange(),
		AvgVol:         NewRange(),
		PriceAvg:       NewRange(),
		MarginTaxed:    NewRange(),
		ProfitPerLimit: NewRange(),
		ROIAvg:         NewRange(),
	}
}

func newSeriesFilters() SeriesFilters {
	return SeriesFilters{
		PriceChange:              NewRange(),
		PriceChangePercent:       NewRange(),
		InstaBuyAvg:              NewRange(),
		InstaBuyVol:              NewRange(),
		InstaSellAvg:             NewRange(),
		InstaSellVol:             NewRange(),
		TotalVol:                 NewRange(),
		BuyOverSellVolRatio:      NewRange(),
		SellOverBuyVolRatio:      NewRange(),
		PriceAvg:                 NewRange(),
		MarginTaxedAvg:           NewRange(),
		ProfitPerLimitAvg:        NewRange(),
		ROIAvg:                   NewRange(),
		TunnelBuyPrice:           NewRange(),
		TunnelSellPrice:          NewRange(),
		BuyVolAboveTunnel:        NewRange(),
		SellVolBelowTunnel:       NewRange(),
		TunnelBuyOpportunityPct:  NewRange(),
		TunnelSellOpportunityPct: NewRange(),
		TunnelMarginTaxed:        NewRange(),
		TunnelProfitPerLimit:     NewRange(),
		TunnelROI:                NewRange(),
		BuyCoV:                   NewRange(),
		SellCoV:                  NewRange(),
	}
}

// SeriesFilters returns the predicate set for a series window name, or
// nil for an unknown name.
func (s *Spec) SeriesFilters(name string) *SeriesFilters {
	switch name {
	case "series_6h":
		return &s.Series6h
	case "series_12h":
		return &s.Series12h
	case "series_24h":
		return &s.Series24h
	case "series_1w":
		return &s.Series1w
	case "series_1m":
		return &s.Series1m
	case "series_1y":
		return &s.Series1y
	}
	return nil
}

// windowPairs enumerates every window with its predicate pairs, in
// evaluation order.
func (s *Spec) windowPairs() []struct {
	Window string
	Pairs  []NamedPredicate
} {
	out := []struct {
		Window string
		Pairs  []NamedPredicate
	}{
		{WindowBasic, s.Basic.Pairs()},
		{WindowLatest, s.Latest.Pairs()},
		{WindowAvg5m, s.Avg5m.Pairs()},
		{WindowAvg1h, s.Avg1h.Pairs()},
	}
	for _, w := range models.SeriesWindows {
		out = append(out, struct {
			Window string
			Pairs  []NamedPredicate
		}{w.Name, s.SeriesFilters(w.Name).Pairs()})
	}
	return out
}

// anyShown folds the show flags of a predicate list.
func anyShown(pairs []NamedPredicate) bool {
	for _, p := range pairs {
		if p.Predicate.Shown() {
			return true
		}
	}
	return false
}

// WindowActive reports whether anything in a window's subtree is marked
// for display. Inactive windows are never computed.
func (s *Spec) WindowActive(window string) bool {
	for _, wp := range s.windowPairs() {
		if wp.Window == window {
			return anyShown(wp.Pairs)
		}
	}
	return false
}

// Used reports whether at least one window is active.
func (s *Spec) Used() bool {
	for _, wp := range s.windowPairs() {
		if anyShown(wp.Pairs) {
			return true
		}
	}
	return false
}

// Validate checks the specification before a run. A spec that shows
// nothing is a configuration error, not a runtime one.
func (s *Spec) Validate() error {
	if !s.Used() {
		return models.ErrNoActiveWindow
	}
	if s.BuyPercentile < 0 || s.BuyPercentile > 100 {
		return fmt.Errorf("buy_percentile must be within [0, 100], got %v", s.BuyPercentile)
	}
	if s.SellPercentile < 0 || s.SellPercentile > 100 {
		return fmt.Errorf("sell_percentile must be within [0, 100], got %v", s.SellPercentile)
	}
	if !s.Policy.Valid() {
		return fmt.Errorf("unknown rejection policy %q", s.Policy)
	}
	return nil
}

// MetricPaths enumerates every addressable "window.metric" path, for
// building sort-key whitelists.
func (s *Spec) MetricPaths() []string {
	var paths []string
	for _, wp := range s.windowPairs() {
		for _, p := range wp.Pairs {
			paths = append(paths, wp.Window+"."+p.Name)
		}
	}
	return paths
}

// ValidateSortKey checks that a "window.metric" path exists and that its
// metric is marked for display; sorting by a hidden metric is rejected.
func (s *Spec) ValidateSortKey(path string) error {
	for _, wp := range s.windowPairs() {
		for _, p := range wp.Pairs {
			if wp.Window+"."+p.Name != path {
				continue
			}
			if !p.Predicate.Shown() {
				return fmt.Errorf("sort key %q refers to a metric that is not shown", path)
			}
			return nil
		}
	}
	return fmt.Errorf("unknown sort key %q", path)
}
