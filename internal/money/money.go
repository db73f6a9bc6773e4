package money

// =============================================================================
// MONEY ARITHMETIC
// Fixed-point-safe rounding and remainder distribution. Every allocation and
// distribution routine in the engine goes through these primitives instead of
// dividing and rounding per share, which drifts the total off by a cent under
// common fractions (e.g. $10 / 3).
// =============================================================================

import "math"

// Round2 rounds a value to 2 decimal places, half away from zero.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// Cents converts an amount to whole cents.
func Cents(value float64) int64 {
	return int64(math.Round(value * 100))
}

// FromCents converts whole cents back to an amount.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// DistributeRemainder splits total into n shares that sum exactly to total.
// Each share gets the floored per-head amount; the first remainder cents
// shares, in the caller's order, carry one extra cent each.
func DistributeRemainder(total float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	base := math.Floor(total/float64(n)*100) / 100
	remainderCents := int(math.Round((total - base*float64(n)) * 100))

	shares := make([]float64, n)
	for i := range shares {
		if i < remainderCents {
			shares[i] = Round2(base + 0.01)
		} else {
			shares[i] = base
		}
	}
	return shares
}

// ReconcileTo nudges independently rounded shares so they sum exactly to
// total. The cent difference is spread one cent at a time over the shares in
// order. The slice is modified in place and returned.
func ReconcileTo(total float64, shares []float64) []float64 {
	if len(shares) == 0 {
		return shares
	}

	var sum float64
	for _, s := range shares {
		sum += s
	}

	diff := Cents(total) - Cents(sum)
	step := int64(1)
	if diff < 0 {
		step = -1
	}
	for i := 0; diff != 0; i = (i + 1) % len(shares) {
		shares[i] = Round2(shares[i] + FromCents(step))
		diff -= step
	}
	return shares
}

// Sum adds amounts and rounds the result to the cent.
func Sum(amounts ...float64) float64 {
	var total float64
	for _, a := range amounts {
		total += a
	}
	return Round2(total)
}
