package report

import (
	"sort"
	"strings"

	"github.com/osrs-tools/flip-scanner/internal/engine"
)

// SortByMetric orders results by the given "window.metric" path. Items
// missing the metric, or holding a non-numeric or absent value, sort
// after all items that have one. The sort is stable so ties keep scan
// order.
func SortByMetric(results []*engine.EvaluationResult, path string, descending bool) {
	window, metric, ok := strings.Cut(path, ".")
	if !ok {
		return
	}

	key := func(res *engine.EvaluationResult) (float64, bool) {
		m, ok := res.Metric(window, metric)
		if !ok {
			return 0, false
		}
		return m.Value.AsFloat()
	}

	sort.SliceStable(results, func(i, j int) bool {
		vi, oki := key(results[i])
		vj, okj := key(results[j])
		if oki != okj {
			return oki
		}
		if !oki {
			return false
		}
		if descending {
			return vi > vj
		}
		return vi < vj
	})
}
