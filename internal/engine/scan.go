package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/osrs-tools/flip-scanner/pkg/logger"
)

// Scan applies the cheap first-pass gate across the catalog and returns
// the surviving item ids in catalog order. A non-empty ids argument
// restricts the scan to those ids (the "search one item" mode) instead
// of the full catalog. No averages or series are touched here.
func (e *Engine) Scan(ids []int) []int {
	var out []int

	if len(ids) > 0 {
		for _, id := range ids {
			item := e.data.Catalog.Lookup(id)
			if item == nil {
				continue
			}
			if e.passesBasicGate(item) {
				out = append(out, id)
			}
		}
		return out
	}

	for _, item := range e.data.Catalog.Items() {
		if e.passesBasicGate(&item) {
			out = append(out, item.ID)
		}
	}
	return out
}

// Run is the full pipeline: validate the specification, scan the
// catalog for candidates, evaluate each candidate across all requested
// windows, and return the accepted results in scan order. A spec that
// shows nothing aborts before any per-item work.
func (e *Engine) Run(ctx context.Context, ids []int) ([]*EvaluationResult, error) {
	start := time.Now()

	if err := e.spec.Validate(); err != nil {
		return nil, err
	}

	candidates := e.Scan(ids)
	e.log.Info("catalog scan complete",
		zap.Int("catalog_size", e.data.Catalog.Len()),
		zap.Int("candidates", len(candidates)))

	if e.MaxItems > 0 && len(candidates) > e.MaxItems {
		e.log.Warn("candidate set capped",
			zap.Int("candidates", len(candidates)),
			zap.Int("max_items", e.MaxItems))
		candidates = candidates[:e.MaxItems]
	}

	var accepted []*EvaluationResult
	for _, id := range candidates {
		res, err := e.Evaluate(ctx, id)
		if err != nil {
			return nil, err
		}
		logger.ItemsScanned.Inc()
		for _, w := range res.Windows {
			if !w.Used {
				logger.WindowRejections.WithLabelValues(w.Window).Inc()
			}
		}
		if res.Accepted {
			logger.ItemsAccepted.Inc()
			accepted = append(accepted, res)
		}
	}

	logger.ScanDuration.Observe(time.Since(start).Seconds())
	e.log.Info("evaluation complete",
		zap.Int("evaluated", len(candidates)),
		zap.Int("accepted", len(accepted)),
		zap.Duration("elapsed", time.Since(start)))

	return accepted, nil
}
