package filter

import "strings"

// Predicate is one atomic acceptance test with a display flag. A metric
// is only ever filtered when it is also marked for display: a hidden
// predicate passes every input, including absent values. That asymmetry
// is the safety property the whole engine leans on — a user who does not
// ask to see a metric must never have it silently gate item inclusion.
type Predicate interface {
	// Shown reports whether the metric is marked for display.
	Shown() bool
}

// Bounds the original tool used as "effectively unbounded".
const (
	RangeMin = -2147483647
	RangeMax = 2147483647
)

// Range accepts numeric values inside [Min, Max].
type Range struct {
	Show bool    `json:"show"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// NewRange returns an unbounded hidden range.
func NewRange() Range {
	return Range{Min: RangeMin, Max: RangeMax}
}

// ShownRange returns an unbounded range marked for display.
func ShownRange() Range {
	return Range{Show: true, Min: RangeMin, Max: RangeMax}
}

func (r Range) Shown() bool { return r.Show }

// Filter reports whether a value passes the range test. Hidden ranges
// pass everything; absent values fail a shown range.
func (r Range) Filter(v *float64) bool {
	if !r.Show {
		return true
	}
	if v == nil {
		return false
	}
	return r.Min <= *v && *v <= r.Max
}

// FilterInt is Filter for integer-valued metrics.
func (r Range) FilterInt(v *int) bool {
	if v == nil {
		return r.Filter(nil)
	}
	f := float64(*v)
	return r.Filter(&f)
}

// Contains accepts names containing a case-sensitive substring.
type Contains struct {
	Show      bool   `json:"show"`
	Substring string `json:"substring"`
}

func (c Contains) Shown() bool { return c.Show }

// Filter reports whether the name passes the substring test.
func (c Contains) Filter(name string) bool {
	if !c.Show {
		return true
	}
	return strings.Contains(name, c.Substring)
}

// NoFilter always passes; it exists only to carry a display flag for
// metrics that are shown but never filtered.
type NoFilter struct {
	Show bool `json:"show"`
}

func (n NoFilter) Shown() bool { return n.Show }

// Filter always passes.
func (n NoFilter) Filter() bool { return true }

// Plot marks a time-series window for chart output. Requesting a plot
// implies computing the window even when no scalar metric is shown.
type Plot struct {
	Show bool `json:"show"`
}

func (p Plot) Shown() bool { return p.Show }
