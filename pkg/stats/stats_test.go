package stats

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
		ok     bool
	}{
		{"empty input", nil, 50, 0, false},
		{"single value", []float64{42}, 50, 42, true},
		{"median of odd count", []float64{3, 1, 2}, 50, 2, true},
		{"median interpolates even count", []float64{1, 2, 3, 4}, 50, 2.5, true},
		{"p0 is the minimum", []float64{5, 1, 9}, 0, 1, true},
		{"p100 is the maximum", []float64{5, 1, 9}, 100, 9, true},
		{"interpolated 60th", []float64{10, 20, 30, 40, 50, 60}, 60, 40, true},
		{"interpolated 40th", []float64{10, 20, 30, 40, 50, 60}, 40, 30, true},
		{"interpolated between ranks", []float64{1, 2, 3, 4, 5}, 60, 3.4, true},
		{"constant series", []float64{7, 7, 7, 7}, 60, 7, true},
		{"p clamped below", []float64{1, 2}, -10, 1, true},
		{"p clamped above", []float64{1, 2}, 110, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Percentile(tt.values, tt.p)
			if ok != tt.ok {
				t.Fatalf("Percentile() ok = %v, want %v", ok, tt.ok)
			}
			if ok && !almostEqual(got, tt.want) {
				t.Errorf("Percentile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPercentileDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Percentile(values, 50)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input mutated: %v", values)
	}
}

func TestMean(t *testing.T) {
	if _, ok := Mean(nil); ok {
		t.Error("Mean of empty input should not be ok")
	}
	got, ok := Mean([]float64{1, 2, 3, 4})
	if !ok || !almostEqual(got, 2.5) {
		t.Errorf("Mean() = %v, %v; want 2.5, true", got, ok)
	}
}

func TestStdDevPop(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
		ok     bool
	}{
		{"empty input", nil, 0, false},
		{"single value", []float64{5}, 0, true},
		{"constant series", []float64{4, 4, 4}, 0, true},
		{"known spread", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StdDevPop(tt.values)
			if ok != tt.ok {
				t.Fatalf("StdDevPop() ok = %v, want %v", ok, tt.ok)
			}
			if ok && !almostEqual(got, tt.want) {
				t.Errorf("StdDevPop() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoV(t *testing.T) {
	if _, ok := CoV(nil); ok {
		t.Error("CoV of empty input should not be ok")
	}
	if _, ok := CoV([]float64{1, -1}); ok {
		t.Error("CoV with zero mean should not be ok")
	}

	got, ok := CoV([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if !ok || !almostEqual(got, 40) {
		t.Errorf("CoV() = %v, %v; want 40, true", got, ok)
	}

	got, ok = CoV([]float64{100, 100, 100})
	if !ok || !almostEqual(got, 0) {
		t.Errorf("CoV of constant series = %v, %v; want 0, true", got, ok)
	}
}
