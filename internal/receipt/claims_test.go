package receipt

import (
	"errors"
	"math"
	"testing"
)

func item(id string, unitPrice float64, quantity int) LineItem {
	return LineItem{ID: id, SplitID: "split-1", Name: id, UnitPrice: unitPrice, Quantity: quantity}
}

func claim(itemID, participantID string, quantity, share int) Claim {
	return Claim{ItemID: itemID, ParticipantID: participantID, QuantityClaimed: quantity, ShareCount: share}
}

func TestValidateUpsert(t *testing.T) {
	beer := item("beer", 5.00, 4)

	tests := []struct {
		name          string
		claims        []Claim
		participantID string
		quantity      int
		shareCount    int
		wantErr       error
		wantRemaining int
	}{
		{
			name:          "first claim within quantity",
			participantID: "alice",
			quantity:      2,
			shareCount:    1,
		},
		{
			name: "claim exceeding remaining rejected",
			claims: []Claim{
				claim("beer", "alice", 3, 1),
			},
			participantID: "bob",
			quantity:      2,
			shareCount:    1,
			wantErr:       &OverClaimError{},
			wantRemaining: 1,
		},
		{
			name: "re-claim releases own prior quantity first",
			claims: []Claim{
				claim("beer", "alice", 3, 1),
				claim("beer", "bob", 1, 1),
			},
			participantID: "alice",
			quantity:      3,
			shareCount:    1,
		},
		{
			name: "shared claims draw fractional units",
			claims: []Claim{
				claim("beer", "alice", 4, 2),
			},
			participantID: "bob",
			quantity:      4,
			shareCount:    2,
		},
		{
			name:          "zero quantity rejected",
			participantID: "alice",
			quantity:      0,
			shareCount:    1,
			wantErr:       ErrInvalidClaim,
		},
		{
			name:          "zero share count rejected",
			participantID: "alice",
			quantity:      1,
			shareCount:    0,
			wantErr:       ErrInvalidClaim,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpsert(beer, tt.claims, tt.participantID, tt.quantity, tt.shareCount)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var overClaim *OverClaimError
			if errors.As(tt.wantErr, &overClaim) {
				var got *OverClaimError
				if !errors.As(err, &got) {
					t.Fatalf("got error %v, want OverClaimError", err)
				}
				if got.Remaining != tt.wantRemaining {
					t.Errorf("remaining %d, want %d", got.Remaining, tt.wantRemaining)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOverClaimLeavesPriorClaimsIntact(t *testing.T) {
	pizza := item("pizza", 12.00, 2)
	claims := []Claim{
		claim("pizza", "alice", 1, 1),
		claim("pizza", "bob", 1, 1),
	}

	err := ValidateUpsert(pizza, claims, "carol", 1, 1)
	var overClaim *OverClaimError
	if !errors.As(err, &overClaim) {
		t.Fatalf("got error %v, want OverClaimError", err)
	}

	// Rejection must not mutate the claim set.
	if got := SubtotalFor([]LineItem{pizza}, claims, "alice"); got != 12.00 {
		t.Errorf("alice subtotal %v after rejected claim, want 12.00", got)
	}
	if got := SubtotalFor([]LineItem{pizza}, claims, "bob"); got != 12.00 {
		t.Errorf("bob subtotal %v after rejected claim, want 12.00", got)
	}
	if RemainingQuantity(pizza, claims) != 0 {
		t.Errorf("remaining %d, want 0", RemainingQuantity(pizza, claims))
	}
}

func TestReclaimIsIdempotent(t *testing.T) {
	beer := item("beer", 5.00, 4)
	claims := []Claim{claim("beer", "alice", 2, 1)}

	// Re-submitting the identical claim replaces rather than accumulates.
	claims = ApplyUpsert(claims, claim("beer", "alice", 2, 1))
	if got := RemainingQuantity(beer, claims); got != 2 {
		t.Errorf("remaining %d after re-claim, want 2", got)
	}
	if got := SubtotalFor([]LineItem{beer}, claims, "alice"); got != 10.00 {
		t.Errorf("alice subtotal %v, want 10.00", got)
	}
}

func TestSharedUnitConservation(t *testing.T) {
	// One 18.00 appetizer unit split three ways: each claim (1, 3) pays a
	// third and the three together exhaust exactly one unit.
	app := item("appetizer", 18.00, 1)

	var claims []Claim
	for _, p := range []string{"alice", "bob", "carol"} {
		if err := ValidateUpsert(app, claims, p, 1, 3); err != nil {
			t.Fatalf("claim by %s rejected: %v", p, err)
		}
		claims = ApplyUpsert(claims, claim("appetizer", p, 1, 3))
	}

	if !IsFullyClaimed(app, claims) {
		t.Error("item not fully claimed after three 1/3 shares")
	}
	if err := ValidateUpsert(app, claims, "dave", 1, 3); err == nil {
		t.Error("fourth share accepted on an exhausted unit")
	}

	var total float64
	for _, p := range []string{"alice", "bob", "carol"} {
		total += SubtotalFor([]LineItem{app}, claims, p)
	}
	if total != 18.00 {
		t.Errorf("shared claims sum to %v, want 18.00", total)
	}
}

func TestRemainingQuantityFloorsFractions(t *testing.T) {
	beer := item("beer", 5.00, 3)
	claims := []Claim{claim("beer", "alice", 1, 2)}

	// Half a unit drawn leaves 2.5 units, only 2 whole units claimable.
	if got := RemainingQuantity(beer, claims); got != 2 {
		t.Errorf("remaining %d, want 2", got)
	}
	if IsFullyClaimed(beer, claims) {
		t.Error("item reported fully claimed with 2.5 units left")
	}
}

func TestSubtotals(t *testing.T) {
	items := []LineItem{
		item("burger", 8.50, 2),
		item("fries", 3.25, 1),
	}
	claims := []Claim{
		claim("burger", "alice", 1, 1),
		claim("burger", "bob", 1, 1),
		claim("fries", "alice", 1, 1),
	}

	subtotals := Subtotals(items, claims)
	if math.Abs(subtotals["alice"]-11.75) > 1e-9 {
		t.Errorf("alice subtotal %v, want 11.75", subtotals["alice"])
	}
	if math.Abs(subtotals["bob"]-8.50) > 1e-9 {
		t.Errorf("bob subtotal %v, want 8.50", subtotals["bob"])
	}
	if got := ReceiptSubtotal(items); math.Abs(got-20.25) > 1e-9 {
		t.Errorf("receipt subtotal %v, want 20.25", got)
	}
}
