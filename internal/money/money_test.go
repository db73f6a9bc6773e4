package money

import (
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"half rounds up", 0.125, 0.13},
		{"half rounds away from zero when negative", -0.125, -0.13},
		{"third of ten", 10.0 / 3.0, 3.33},
		{"already exact", 12.34, 12.34},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round2(tt.value); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Round2(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestDistributeRemainder(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		n     int
		want  []float64
	}{
		{"ten over three", 10.00, 3, []float64{3.34, 3.33, 3.33}},
		{"exact division", 30.00, 3, []float64{10.00, 10.00, 10.00}},
		{"one share", 7.77, 1, []float64{7.77}},
		{"remainder cents over seven", 100.00, 7, []float64{14.29, 14.29, 14.29, 14.29, 14.28, 14.28, 14.28}},
		{"tiny total", 0.01, 3, []float64{0.01, 0.00, 0.00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistributeRemainder(tt.total, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d shares, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("share %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// The exact-sum property: shares always re-add to the input to the cent,
// including non-terminating fractions.
func TestDistributeRemainderExactSum(t *testing.T) {
	totals := []float64{10.00, 0.01, 0.10, 1.00, 33.33, 99.99, 100.00, 1234.56, 0.005}
	for _, total := range totals {
		for n := 1; n <= 12; n++ {
			shares := DistributeRemainder(total, n)
			var sum float64
			for _, s := range shares {
				sum += s
			}
			if Cents(sum) != Cents(total) {
				t.Errorf("DistributeRemainder(%v, %d) sums to %v", total, n, sum)
			}
		}
	}
}

func TestDistributeRemainderInvalidCount(t *testing.T) {
	if got := DistributeRemainder(10, 0); got != nil {
		t.Errorf("expected nil for zero shares, got %v", got)
	}
}

func TestReconcileTo(t *testing.T) {
	tests := []struct {
		name   string
		total  float64
		shares []float64
		want   []float64
	}{
		{"one cent short", 10.00, []float64{3.33, 3.33, 3.33}, []float64{3.34, 3.33, 3.33}},
		{"one cent over", 9.99, []float64{3.34, 3.33, 3.33}, []float64{3.33, 3.33, 3.33}},
		{"already exact", 10.00, []float64{5.00, 5.00}, []float64{5.00, 5.00}},
		{"two cents spread", 1.00, []float64{0.33, 0.33, 0.32}, []float64{0.34, 0.34, 0.32}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReconcileTo(tt.total, tt.shares)
			var sum float64
			for i := range got {
				sum += got[i]
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("share %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
			if Cents(sum) != Cents(tt.total) {
				t.Errorf("reconciled shares sum to %v, want %v", sum, tt.total)
			}
		})
	}
}
