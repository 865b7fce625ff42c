package models

import (
	"time"
)

// Item is one immutable entry from the item mapping table.
// BuyLimit is nil when the Grand Exchange does not list a limit for the item.
type Item struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	BuyLimit *int   `json:"limit,omitempty"`
	Members  bool   `json:"members"`
	Value    int    `json:"value"`
	HighAlch int    `json:"highalch"`
	LowAlch  int    `json:"lowalch"`
	Examine  string `json:"examine"`
	Icon     string `json:"icon"`
}

// Validate validates an Item
func (i *Item) Validate() error {
	if i.ID < 0 {
		return ErrInvalidItemID
	}
	if i.Name == "" {
		return ErrInvalidItemName
	}
	return nil
}

// Quote is the instantaneous price pair for one item.
// The upstream API uses "high" for the insta-buy side and "low" for the
// insta-sell side. Either side may be nil when no recent trade exists.
type Quote struct {
	InstaBuyPrice  *int  `json:"high"`
	InstaBuyTime   int64 `json:"highTime"`
	InstaSellPrice *int  `json:"low"`
	InstaSellTime  int64 `json:"lowTime"`
}

// Complete reports whether both sides of the quote carry a price.
func (q *Quote) Complete() bool {
	return q.InstaBuyPrice != nil && q.InstaSellPrice != nil
}

// MidPrice returns the average of the two quote sides.
// Only valid when Complete() is true.
func (q *Quote) MidPrice() float64 {
	return (float64(*q.InstaBuyPrice) + float64(*q.InstaSellPrice)) / 2
}

// WindowAggregate is a 5-minute or 1-hour average window for one item.
// A zero volume means no trades occurred on that side in the window.
type WindowAggregate struct {
	InstaBuyAvg  *int `json:"avgHighPrice"`
	InstaBuyVol  int  `json:"highPriceVolume"`
	InstaSellAvg *int `json:"avgLowPrice"`
	InstaSellVol int  `json:"lowPriceVolume"`
}

// Usable reports whether both sides have data.
func (a *WindowAggregate) Usable() bool {
	return a.InstaBuyAvg != nil && a.InstaBuyVol > 0 &&
		a.InstaSellAvg != nil && a.InstaSellVol > 0
}

// TimeSeriesPoint is one entry of an ordered price/volume series.
// Prices are nil when no trades occurred on that side during the step.
type TimeSeriesPoint struct {
	Timestamp       int64 `json:"timestamp"`
	AvgHighPrice    *int  `json:"avgHighPrice"`
	AvgLowPrice     *int  `json:"avgLowPrice"`
	HighPriceVolume int   `json:"highPriceVolume"`
	LowPriceVolume  int   `json:"lowPriceVolume"`
}

// SeriesLength is the number of points the upstream timeseries endpoint
// returns per item and cadence. A series of any other length is degraded
// and the windows built over it are skipped.
const SeriesLength = 365

// Timestep is a valid timeseries cadence
type Timestep string

const (
	Timestep5m  Timestep = "5m"
	Timestep1h  Timestep = "1h"
	Timestep6h  Timestep = "6h"
	Timestep24h Timestep = "24h"
)

// Valid reports whether the timestep is one the upstream API accepts.
func (t Timestep) Valid() bool {
	switch t {
	case Timestep5m, Timestep1h, Timestep6h, Timestep24h:
		return true
	}
	return false
}

// SeriesWindow identifies one rolling time-series horizon: a cadence and
// the number of most-recent steps it spans.
type SeriesWindow struct {
	Name     string
	Label    string
	Timestep Timestep
	Steps    int
}

// SeriesWindows enumerates the six time-series horizons in evaluation order.
// The 6h/12h/24h windows share the 5m cadence so one fetch serves all three.
var SeriesWindows = []SeriesWindow{
	{Name: "series_6h", Label: "6 Hours", Timestep: Timestep5m, Steps: 72},
	{Name: "series_12h", Label: "12 Hours", Timestep: Timestep5m, Steps: 144},
	{Name: "series_24h", Label: "24 Hours", Timestep: Timestep5m, Steps: 288},
	{Name: "series_1w", Label: "Week", Timestep: Timestep1h, Steps: 168},
	{Name: "series_1m", Label: "Month", Timestep: Timestep6h, Steps: 112},
	{Name: "series_1y", Label: "Year", Timestep: Timestep24h, Steps: 364},
}

// Catalog is the ordered item mapping plus an id index.
type Catalog struct {
	items []Item
	byID  map[int]int // id -> index into items
}

// NewCatalog builds a catalog preserving the given iteration order.
func NewCatalog(items []Item) *Catalog {
	c := &Catalog{
		items: items,
		byID:  make(map[int]int, len(items)),
	}
	for i := range items {
		c.byID[items[i].ID] = i
	}
	return c
}

// Lookup returns the item for an id, or nil if the catalog has no entry.
func (c *Catalog) Lookup(id int) *Item {
	i, ok := c.byID[id]
	if !ok {
		return nil
	}
	return &c.items[i]
}

// Items returns the catalog entries in iteration order.
func (c *Catalog) Items() []Item { return c.items }

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.items) }

// QuoteTable maps item id to its latest quote.
type QuoteTable map[int]Quote

// AggregateTable maps item id to one average window.
type AggregateTable map[int]WindowAggregate

// Dataset is the immutable snapshot one scan runs over. The evaluation
// time is part of the snapshot so repeated evaluations are bit-identical.
type Dataset struct {
	Catalog *Catalog
	Latest  QuoteTable
	Avg5m   AggregateTable
	Avg1h   AggregateTable
	Now     time.Time
}
