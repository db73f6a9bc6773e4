package receipt

import (
	"math"
	"testing"
)

func TestDistributeProportional(t *testing.T) {
	// 1.50 tax over subtotals 10.00 and 5.00 against a 15.00 receipt:
	// exactly 1.00 and 0.50.
	shares := Distribute(1.50, 0, 15.00, map[string]float64{
		"alice": 10.00,
		"bob":   5.00,
	})

	if got := shares["alice"].TaxShare; math.Abs(got-1.00) > 1e-9 {
		t.Errorf("alice tax share %v, want 1.00", got)
	}
	if got := shares["bob"].TaxShare; math.Abs(got-0.50) > 1e-9 {
		t.Errorf("bob tax share %v, want 0.50", got)
	}
	if got := shares["alice"].Total; math.Abs(got-11.00) > 1e-9 {
		t.Errorf("alice total %v, want 11.00", got)
	}
}

func TestDistributePartialClaims(t *testing.T) {
	// Only a third of the receipt is claimed: the claimant carries a third
	// of the tax and the unclaimed rest belongs to nobody yet.
	shares := Distribute(3.00, 0, 30.00, map[string]float64{"alice": 10.00})

	if got := shares["alice"].TaxShare; math.Abs(got-1.00) > 1e-9 {
		t.Errorf("alice tax share %v, want 1.00", got)
	}
	var distributed float64
	for _, s := range shares {
		distributed += s.TaxShare
	}
	if distributed >= 3.00 {
		t.Errorf("distributed %v of tax with receipt partly unclaimed", distributed)
	}
}

func TestDistributeZeroSubtotal(t *testing.T) {
	shares := Distribute(2.00, 1.00, 0, map[string]float64{"alice": 0})
	if got := shares["alice"].Total; got != 0 {
		t.Errorf("share of empty receipt %v, want 0", got)
	}
}

func TestFinalizeSharesExactSum(t *testing.T) {
	// Three-way 0.01 tax cannot round evenly; finalization must still sum
	// exactly and keep every adjustment within a cent.
	order := []string{"alice", "bob", "carol"}
	subtotals := map[string]float64{"alice": 10.00, "bob": 10.00, "carol": 10.00}

	shares := FinalizeShares(0.01, 2.00, 30.00, order, subtotals)

	var subSum, taxSum, tipSum, totalSum float64
	for _, s := range shares {
		subSum += s.Subtotal
		taxSum += s.TaxShare
		tipSum += s.TipShare
		totalSum += s.Total
		if math.Abs(s.Total-(s.Subtotal+s.TaxShare+s.TipShare)) > 1e-9 {
			t.Errorf("share total %v does not match its parts", s.Total)
		}
	}
	if math.Abs(subSum-30.00) > 1e-9 {
		t.Errorf("subtotals sum to %v, want 30.00", subSum)
	}
	if math.Abs(taxSum-0.01) > 1e-9 {
		t.Errorf("tax shares sum to %v, want 0.01", taxSum)
	}
	if math.Abs(tipSum-2.00) > 1e-9 {
		t.Errorf("tip shares sum to %v, want 2.00", tipSum)
	}
	if math.Abs(totalSum-32.01) > 1e-9 {
		t.Errorf("totals sum to %v, want 32.01", totalSum)
	}
}

func TestFinalizeSharesStableOrder(t *testing.T) {
	// A half-cent tax share rounds up for both claimants; the correction
	// cent comes off the first claimant in the given order, the same way
	// every run.
	order := []string{"bob", "alice"}
	subtotals := map[string]float64{"alice": 5.00, "bob": 5.00}

	first := FinalizeShares(0.01, 0, 10.00, order, subtotals)
	second := FinalizeShares(0.01, 0, 10.00, order, subtotals)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("share %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
	if first[0].ParticipantID != "bob" || math.Abs(first[0].TaxShare) > 1e-9 {
		t.Errorf("first share %s tax %v, want bob 0.00", first[0].ParticipantID, first[0].TaxShare)
	}
	if math.Abs(first[1].TaxShare-0.01) > 1e-9 {
		t.Errorf("alice tax share %v, want 0.01", first[1].TaxShare)
	}
	if math.Abs(first[0].TaxShare+first[1].TaxShare-0.01) > 1e-9 {
		t.Errorf("tax shares sum to %v, want 0.01", first[0].TaxShare+first[1].TaxShare)
	}
}

func TestFinalizeSharesEmptyOrder(t *testing.T) {
	if shares := FinalizeShares(1.00, 1.00, 10.00, nil, nil); shares != nil {
		t.Errorf("got shares %v for empty order, want nil", shares)
	}
}
