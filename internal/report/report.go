package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/osrs-tools/flip-scanner/internal/engine"
)

// Builder accumulates a plain-text scan report. Values are formatted at
// render time from their typed metric values, so the same results can
// be rendered, sorted or re-rendered without re-evaluating anything.
type Builder struct {
	sb    strings.Builder
	items int
}

// NewBuilder creates an empty report builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Items reports how many items have been added.
func (b *Builder) Items() int {
	return b.items
}

// Add appends one accepted item to the report. Only shown metrics are
// rendered; windows with no shown metrics are skipped entirely.
func (b *Builder) Add(res *engine.EvaluationResult) {
	b.items++
	if b.items > 1 {
		b.sb.WriteString("\n")
	}

	b.sb.WriteString(res.Name)
	b.sb.WriteString("\n")
	b.sb.WriteString(strings.Repeat("=", len(res.Name)))
	b.sb.WriteString("\n")

	for _, w := range res.Windows {
		shown := shownMetrics(w)
		if len(shown) == 0 {
			continue
		}
		b.sb.WriteString(w.Label)
		b.sb.WriteString("\n")
		for _, m := range shown {
			fmt.Fprintf(&b.sb, "  %s: %s\n", m.Label, FormatValue(m.Value))
		}
	}
}

// String renders the accumulated report.
func (b *Builder) String() string {
	return b.sb.String()
}

func shownMetrics(w engine.WindowResult) []engine.Metric {
	var out []engine.Metric
	for _, m := range w.Metrics {
		if m.Show {
			out = append(out, m)
		}
	}
	return out
}

// FormatValue renders one metric value for the report. Integers get
// comma grouping, percents carry a trailing %, and absent values render
// as a dash.
func FormatValue(v *engine.Value) string {
	if v == nil {
		return "-"
	}
	switch v.Kind {
	case engine.KindString:
		return v.S
	case engine.KindInt:
		return GroupDigits(v.I)
	case engine.KindPercent:
		return GroupDigits(int64(v.F)) + "%"
	case engine.KindFloat:
		if v.F == float64(int64(v.F)) {
			return GroupDigits(int64(v.F))
		}
		return formatGroupedFloat(v.F)
	default:
		return "-"
	}
}

// GroupDigits formats an integer with comma thousands separators.
func GroupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
		if len(s) > lead {
			sb.WriteByte(',')
		}
	}
	for i := lead; i < len(s); i += 3 {
		sb.WriteString(s[i : i+3])
		if i+3 < len(s) {
			sb.WriteByte(',')
		}
	}
	return sb.String()
}

func formatGroupedFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', 1, 64)
	dot := strings.IndexByte(s, '.')
	whole, err := strconv.ParseInt(s[:dot], 10, 64)
	if err != nil {
		return s
	}
	if whole == 0 && f < 0 {
		return "-" + GroupDigits(0) + s[dot:]
	}
	return GroupDigits(whole) + s[dot:]
}
