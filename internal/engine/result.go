package engine

// ValueKind tags what a computed metric value holds. Formatting lives in
// the report package; the engine only records what was computed.
type ValueKind int

const (
	KindInt ValueKind = iota
	KindFloat
	KindPercent
	KindString
)

// Value is a computed metric value. A nil *Value means the metric could
// not be computed (absent upstream data, zero denominator, missing buy
// limit).
type Value struct {
	Kind ValueKind
	I    int64
	F    float64
	S    string
}

// IntVal wraps an integer metric.
func IntVal(v int) *Value { return &Value{Kind: KindInt, I: int64(v)} }

// FloatVal wraps a floating-point metric.
func FloatVal(v float64) *Value { return &Value{Kind: KindFloat, F: v} }

// PercentVal wraps a percentage metric.
func PercentVal(v float64) *Value { return &Value{Kind: KindPercent, F: v} }

// StringVal wraps a string metric.
func StringVal(v string) *Value { return &Value{Kind: KindString, S: v} }

// AsFloat returns the numeric value for filtering and sorting. ok is
// false for string values.
func (v *Value) AsFloat() (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.Kind {
	case KindInt:
		return float64(v.I), true
	case KindFloat, KindPercent:
		return v.F, true
	}
	return 0, false
}

// Metric pairs a computed value with its display flag. Show decides only
// display; the value is recorded even when its filter already passed.
type Metric struct {
	Name  string
	Label string
	Show  bool
	Value *Value
}

// PlotData is the state a plot-flagged series window retains for the
// rendering collaborator: the raw per-side time/price arrays plus the
// two tunnel prices.
type PlotData struct {
	Title      string
	BuyTimes   []int64
	BuyPrices  []float64
	SellTimes  []int64
	SellPrices []float64
	TunnelBuy  float64
	TunnelSell float64
}

// WindowResult carries one window's contribution to an item evaluation.
// Used is false when the window was rejected or had no data; Metrics
// holds whatever was computed before the rejection, for auditing.
type WindowResult struct {
	Window  string
	Label   string
	Used    bool
	Metrics []Metric
	Plot    *PlotData
}

// metric appends a computed value without filtering it.
func (w *WindowResult) metric(name, label string, show bool, v *Value) {
	w.Metrics = append(w.Metrics, Metric{Name: name, Label: label, Show: show, Value: v})
}

// EvaluationResult is the outcome for one item: accepted or not, plus
// one WindowResult per window that was evaluated. Never mutated after
// being returned.
type EvaluationResult struct {
	ItemID   int
	Name     string
	Accepted bool
	Windows  []WindowResult
}

// Metric resolves a "window.metric" path against the result. ok is
// false when the window or metric was not evaluated.
func (r *EvaluationResult) Metric(window, name string) (*Metric, bool) {
	for i := range r.Windows {
		if r.Windows[i].Window != window {
			continue
		}
		for j := range r.Windows[i].Metrics {
			if r.Windows[i].Metrics[j].Name == name {
				return &r.Windows[i].Metrics[j], true
			}
		}
	}
	return nil, false
}
