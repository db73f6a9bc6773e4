package receipt

// =============================================================================
// ITEM CLAIM TRACKER
// Claims draw from a per-item quantity pool. A claim of (quantity q, share s)
// pays unitPrice × q ÷ s and draws q/s units: sharing divides price and never
// consumes extra pool. Conservation is sum(q_i / s_i) <= item.quantity,
// checked exactly in integer arithmetic. For unshared claims (s = 1) this is
// the plain sum(quantity_claimed) <= quantity rule; one unit split N ways is
// N claims of (quantity 1, share N) drawing exactly one unit together.
// =============================================================================

import (
	"errors"

	"github.com/omarsaleh/divvy/internal/money"
)

var ErrInvalidClaim = errors.New("quantity and share count must be at least 1")

// ratio is an exact non-negative fraction. Denominators stay small because
// they only ever come from per-claim share counts.
type ratio struct {
	num, den int64
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func newRatio(num, den int64) ratio {
	g := gcd(num, den)
	return ratio{num / g, den / g}
}

func (r ratio) add(o ratio) ratio {
	return newRatio(r.num*o.den+o.num*r.den, r.den*o.den)
}

// cmp returns -1, 0 or 1 comparing r against o.
func (r ratio) cmp(o ratio) int {
	lhs, rhs := r.num*o.den, o.num*r.den
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

// floor returns the largest whole number not exceeding the ratio.
func (r ratio) floor() int {
	return int(r.num / r.den)
}

// poolDrawn sums the fractional unit draws of the given claims on one item,
// skipping the claim (if any) held by excludeParticipant. A re-claiming
// participant's prior quantity returns to the pool before validation.
func poolDrawn(claims []Claim, itemID, excludeParticipant string) ratio {
	drawn := ratio{0, 1}
	for _, c := range claims {
		if c.ItemID != itemID {
			continue
		}
		if excludeParticipant != "" && c.ParticipantID == excludeParticipant {
			continue
		}
		drawn = drawn.add(newRatio(int64(c.QuantityClaimed), int64(c.ShareCount)))
	}
	return drawn
}

// remainingPool is the exact unclaimed fraction of the item's quantity.
func remainingPool(item LineItem, claims []Claim, excludeParticipant string) ratio {
	drawn := poolDrawn(claims, item.ID, excludeParticipant)
	return newRatio(int64(item.Quantity)*drawn.den-drawn.num, drawn.den)
}

// RemainingQuantity reports how many whole units of an item are still
// claimable. It never goes negative: a write that would make it so is
// rejected upstream with OverClaim.
func RemainingQuantity(item LineItem, claims []Claim) int {
	rem := remainingPool(item, claims, "")
	if rem.num < 0 {
		return 0
	}
	return rem.floor()
}

// IsFullyClaimed reports whether the item's pool is exhausted.
func IsFullyClaimed(item LineItem, claims []Claim) bool {
	return remainingPool(item, claims, "").cmp(ratio{0, 1}) <= 0
}

// ValidateUpsert checks whether participantID may claim (quantity, share) of
// the item given the existing claims. The participant's own prior claim does
// not count against them. Returns OverClaimError when the pool cannot cover
// the request; existing claims are never modified here.
func ValidateUpsert(item LineItem, claims []Claim, participantID string, quantity, shareCount int) error {
	if quantity < 1 || shareCount < 1 {
		return ErrInvalidClaim
	}

	rem := remainingPool(item, claims, participantID)
	draw := newRatio(int64(quantity), int64(shareCount))
	if draw.cmp(rem) > 0 {
		remWhole := 0
		if rem.num > 0 {
			remWhole = rem.floor()
		}
		return &OverClaimError{ItemID: item.ID, Requested: quantity, Remaining: remWhole}
	}
	return nil
}

// ApplyUpsert returns the claim set with c inserted, replacing any prior
// claim by the same participant on the same item.
func ApplyUpsert(claims []Claim, c Claim) []Claim {
	for i := range claims {
		if claims[i].ItemID == c.ItemID && claims[i].ParticipantID == c.ParticipantID {
			claims[i] = c
			return claims
		}
	}
	return append(claims, c)
}

// SubtotalFor sums a participant's claimed amounts across all items.
func SubtotalFor(items []LineItem, claims []Claim, participantID string) float64 {
	prices := make(map[string]float64, len(items))
	for _, item := range items {
		prices[item.ID] = item.UnitPrice
	}

	var subtotal float64
	for _, c := range claims {
		if c.ParticipantID != participantID {
			continue
		}
		price, ok := prices[c.ItemID]
		if !ok {
			continue
		}
		subtotal += c.Amount(price)
	}
	return money.Round2(subtotal)
}

// Subtotals computes every claimant's claimed subtotal in one pass.
func Subtotals(items []LineItem, claims []Claim) map[string]float64 {
	prices := make(map[string]float64, len(items))
	for _, item := range items {
		prices[item.ID] = item.UnitPrice
	}

	subtotals := make(map[string]float64)
	for _, c := range claims {
		price, ok := prices[c.ItemID]
		if !ok {
			continue
		}
		subtotals[c.ParticipantID] = money.Round2(subtotals[c.ParticipantID] + c.Amount(price))
	}
	return subtotals
}

// ReceiptSubtotal is the sum of all line totals, claimed or not.
func ReceiptSubtotal(items []LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.LineTotal()
	}
	return money.Round2(sum)
}
