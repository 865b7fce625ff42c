package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osrs-tools/flip-scanner/internal/engine"
)

func TestGroupDigits(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{11000, "11,000"},
		{1480000, "1,480,000"},
		{2147483647, "2,147,483,647"},
		{-9, "-9"},
		{-11000, "-11,000"},
	}
	for _, tt := range tests {
		if got := GroupDigits(tt.in); got != tt.want {
			t.Errorf("GroupDigits(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		v    *engine.Value
		want string
	}{
		{"absent value", nil, "-"},
		{"string", engine.StringVal("Not Listed"), "Not Listed"},
		{"int", engine.IntVal(1480000), "1,480,000"},
		{"percent", engine.PercentVal(12), "12%"},
		{"negative percent", engine.PercentVal(-18), "-18%"},
		{"whole float", engine.FloatVal(95), "95"},
		{"fractional float", engine.FloatVal(1500000.5), "1,500,000.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.v))
		})
	}
}

func makeResult(id int, name string, margin float64) *engine.EvaluationResult {
	basic := engine.WindowResult{Window: "basic", Label: "Item", Used: true}
	latest := engine.WindowResult{Window: "latest", Label: "Latest", Used: true}
	res := &engine.EvaluationResult{ItemID: id, Name: name, Accepted: true}
	basic.Metrics = []engine.Metric{
		{Name: "item_name", Label: "Name", Show: true, Value: engine.StringVal(name)},
		{Name: "item_id", Label: "Id", Show: false, Value: engine.IntVal(id)},
	}
	latest.Metrics = []engine.Metric{
		{Name: "margin_taxed", Label: "Margin (Taxed)", Show: true, Value: engine.FloatVal(margin)},
	}
	res.Windows = []engine.WindowResult{basic, latest}
	return res
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	b.Add(makeResult(4151, "Abyssal whip", 5000))
	b.Add(makeResult(2, "Cannonball", 3))

	out := b.String()
	assert.Equal(t, 2, b.Items())

	assert.Contains(t, out, "Abyssal whip\n============\n")
	assert.Contains(t, out, "  Margin (Taxed): 5,000\n")
	assert.Contains(t, out, "Cannonball\n==========\n")

	// Hidden metrics never render.
	assert.NotContains(t, out, "Id:")

	// The whip comes first, with a blank line before the second item.
	assert.True(t, strings.Index(out, "Abyssal whip") < strings.Index(out, "\nCannonball"))
}

func TestBuilderSkipsAllHiddenWindows(t *testing.T) {
	res := makeResult(2, "Cannonball", 3)
	for i := range res.Windows[1].Metrics {
		res.Windows[1].Metrics[i].Show = false
	}

	b := NewBuilder()
	b.Add(res)
	assert.NotContains(t, b.String(), "Latest")
}

func TestSortByMetric(t *testing.T) {
	results := []*engine.EvaluationResult{
		makeResult(1, "a", 10),
		makeResult(2, "b", 30),
		makeResult(3, "c", 20),
	}

	SortByMetric(results, "latest.margin_taxed", true)
	assert.Equal(t, []int{2, 3, 1}, ids(results))

	SortByMetric(results, "latest.margin_taxed", false)
	assert.Equal(t, []int{1, 3, 2}, ids(results))
}

func TestSortByMetricMissingValuesLast(t *testing.T) {
	missing := makeResult(9, "z", 0)
	missing.Windows[1].Metrics[0].Value = nil

	results := []*engine.EvaluationResult{
		missing,
		makeResult(1, "a", 10),
		makeResult(2, "b", 30),
	}

	SortByMetric(results, "latest.margin_taxed", true)
	assert.Equal(t, []int{2, 1, 9}, ids(results))
}

func TestSortByMetricBadPathKeepsOrder(t *testing.T) {
	results := []*engine.EvaluationResult{
		makeResult(1, "a", 10),
		makeResult(2, "b", 30),
	}
	SortByMetric(results, "no-dot-path", true)
	assert.Equal(t, []int{1, 2}, ids(results))
}

func ids(results []*engine.EvaluationResult) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.ItemID
	}
	return out
}
