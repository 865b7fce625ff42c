package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/osrs-tools/flip-scanner/internal/filter"
	"github.com/osrs-tools/flip-scanner/internal/models"
)

// SeriesProvider supplies the ordered timeseries for one item and
// cadence. Fetching, caching and retries live behind this interface;
// the engine itself performs no I/O beyond calling it.
type SeriesProvider interface {
	Series(ctx context.Context, itemID int, step models.Timestep) ([]models.TimeSeriesPoint, error)
}

// Engine evaluates catalog items against a filter specification over an
// immutable dataset snapshot. Item evaluations are independent and the
// engine never mutates the snapshot, so callers may parallelize across
// items if they choose.
type Engine struct {
	spec   *filter.Spec
	data   *models.Dataset
	series SeriesProvider
	log    *zap.Logger

	// MaxItems caps the candidate set after the cheap scan; 0 means
	// unlimited.
	MaxItems int
}

// NewEngine creates an engine over one dataset snapshot.
func NewEngine(spec *filter.Spec, data *models.Dataset, series SeriesProvider, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{spec: spec, data: data, series: series, log: log}
}

// passesBasicGate applies the cheap first-pass gates: name substring,
// buy-limit range, quote presence on both sides, and the canonical
// item-price range against the quote mid-price. Strictly O(1) per item.
func (e *Engine) passesBasicGate(item *models.Item) bool {
	bf := &e.spec.Basic

	if !bf.ItemName.Filter(item.Name) {
		return false
	}
	// An absent limit is an absent value: it fails an active limit
	// filter and passes an unused one.
	if !bf.GELimit.FilterInt(item.BuyLimit) {
		return false
	}

	q, ok := e.data.Latest[item.ID]
	if !ok || !q.Complete() {
		return false
	}
	mid := q.MidPrice()
	return bf.ItemPrice.Filter(&mid)
}

// basicWindow records the reference metrics every surviving item shows.
func (e *Engine) basicWindow(item *models.Item, q models.Quote) WindowResult {
	bf := &e.spec.Basic
	w := WindowResult{Window: filter.WindowBasic, Label: "Item", Used: true}

	w.metric("item_name", "Name", bf.ItemName.Show, StringVal(item.Name))
	w.metric("item_id", "Id", bf.ItemID.Show, IntVal(item.ID))
	w.metric("item_price", "Price", bf.ItemPrice.Show, FloatVal(q.MidPrice()))
	if item.BuyLimit != nil {
		w.metric("ge_limit", "GE Buy Limit", bf.GELimit.Show, IntVal(*item.BuyLimit))
	} else {
		w.metric("ge_limit", "GE Buy Limit", bf.GELimit.Show, StringVal("Not Listed"))
	}
	members := "No"
	if item.Members {
		members = "Yes"
	}
	w.metric("members", "Members", bf.Members.Show, StringVal(members))
	return w
}

// windowFailed applies the rejection policy to a requested window that
// came back unusable or filter-rejected. It reports whether evaluation
// of the item should stop.
func (e *Engine) windowFailed(res *EvaluationResult, window string) bool {
	if e.spec.Policy == filter.PolicyRejectItem {
		res.Accepted = false
		e.log.Debug("item rejected",
			zap.Int("item_id", res.ItemID),
			zap.String("window", window))
		return true
	}
	return false
}

// Evaluate runs the full window pipeline for one item: basic gate →
// quote → 5m average → 1h average → the six series windows, skipping
// windows the specification leaves inactive. The 6h/12h/24h windows
// share one 5m-cadence series fetch.
func (e *Engine) Evaluate(ctx context.Context, id int) (*EvaluationResult, error) {
	res := &EvaluationResult{ItemID: id}

	item := e.data.Catalog.Lookup(id)
	if item == nil {
		return res, nil
	}
	res.Name = item.Name

	if !e.passesBasicGate(item) {
		return res, nil
	}
	q := e.data.Latest[id]

	res.Accepted = true
	res.Windows = append(res.Windows, e.basicWindow(item, q))

	if e.spec.WindowActive(filter.WindowLatest) {
		lw := latestWindow(q, item, &e.spec.Latest, e.data.Now)
		res.Windows = append(res.Windows, lw)
		if !lw.Used && e.windowFailed(res, lw.Window) {
			return res, nil
		}
	}

	if e.spec.WindowActive(filter.WindowAvg5m) {
		wr := avgWindow(filter.WindowAvg5m, "5m Average", e.aggregate(e.data.Avg5m, id), &e.spec.Avg5m, e.spec.Basic.ItemPrice, item.BuyLimit)
		res.Windows = append(res.Windows, wr)
		if !wr.Used && e.windowFailed(res, wr.Window) {
			return res, nil
		}
	}
	if e.spec.WindowActive(filter.WindowAvg1h) {
		wr := avgWindow(filter.WindowAvg1h, "1h Average", e.aggregate(e.data.Avg1h, id), &e.spec.Avg1h, e.spec.Basic.ItemPrice, item.BuyLimit)
		res.Windows = append(res.Windows, wr)
		if !wr.Used && e.windowFailed(res, wr.Window) {
			return res, nil
		}
	}

	seriesByStep := make(map[models.Timestep][]models.TimeSeriesPoint)
	for _, win := range models.SeriesWindows {
		if !e.spec.WindowActive(win.Name) {
			continue
		}
		pts, ok := seriesByStep[win.Timestep]
		if !ok {
			var err error
			pts, err = e.series.Series(ctx, id, win.Timestep)
			if err != nil {
				return nil, fmt.Errorf("fetch %s series for item %d: %w", win.Timestep, id, err)
			}
			seriesByStep[win.Timestep] = pts
		}

		wr, err := seriesWindow(pts, win, e.spec.SeriesFilters(win.Name), e.spec.Basic.ItemPrice, item.BuyLimit, e.spec.BuyPercentile, e.spec.SellPercentile)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s for item %d: %w", win.Name, id, err)
		}
		res.Windows = append(res.Windows, wr)
		if !wr.Used && e.windowFailed(res, wr.Window) {
			return res, nil
		}
	}

	return res, nil
}

func (e *Engine) aggregate(table models.AggregateTable, id int) *models.WindowAggregate {
	agg, ok := table[id]
	if !ok {
		return nil
	}
	return &agg
}
