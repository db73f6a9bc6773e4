package receipt

// =============================================================================
// TAX/TIP PROPORTIONAL DISTRIBUTOR
// Receipt-level tax and tip are spread across claimants in proportion to
// their claimed subtotal against the full receipt subtotal. Pre-finalization
// shares are rounded independently and may drift a few cents; FinalizeShares
// reconciles them so persisted obligations sum exactly.
// =============================================================================

import "github.com/omarsaleh/divvy/internal/money"

// Share is one claimant's portion of the receipt including tax and tip.
type Share struct {
	ParticipantID string  `json:"participant_id"`
	Subtotal      float64 `json:"subtotal"`
	TaxShare      float64 `json:"tax_share"`
	TipShare      float64 `json:"tip_share"`
	Total         float64 `json:"total"`
}

// Distribute computes informational tax/tip shares for the current claim
// state. Shares are rounded independently, so their sum may be off the
// receipt's tax+tip by a few cents while claiming is still in progress; the
// unclaimed portion of the receipt is attributable to nobody.
func Distribute(totalTax, totalTip, receiptSubtotal float64, subtotals map[string]float64) map[string]Share {
	shares := make(map[string]Share, len(subtotals))
	for id, subtotal := range subtotals {
		proportion := 0.0
		if receiptSubtotal != 0 {
			proportion = subtotal / receiptSubtotal
		}
		taxShare := money.Round2(totalTax * proportion)
		tipShare := money.Round2(totalTip * proportion)
		shares[id] = Share{
			ParticipantID: id,
			Subtotal:      subtotal,
			TaxShare:      taxShare,
			TipShare:      tipShare,
			Total:         money.Sum(subtotal, taxShare, tipShare),
		}
	}
	return shares
}

// FinalizeShares computes exact-sum obligations at finalization time. The
// claimed subtotals, tax shares and tip shares are each reconciled over the
// claimants in the given stable order, so the resulting totals sum to
// receiptSubtotal + totalTax + totalTip to the cent.
func FinalizeShares(totalTax, totalTip, receiptSubtotal float64, order []string, subtotals map[string]float64) []Share {
	if len(order) == 0 {
		return nil
	}

	subs := make([]float64, len(order))
	taxes := make([]float64, len(order))
	tips := make([]float64, len(order))
	for i, id := range order {
		subtotal := subtotals[id]
		proportion := 0.0
		if receiptSubtotal != 0 {
			proportion = subtotal / receiptSubtotal
		}
		subs[i] = subtotal
		taxes[i] = money.Round2(totalTax * proportion)
		tips[i] = money.Round2(totalTip * proportion)
	}

	subs = money.ReconcileTo(receiptSubtotal, subs)
	taxes = money.ReconcileTo(money.Round2(totalTax), taxes)
	tips = money.ReconcileTo(money.Round2(totalTip), tips)

	shares := make([]Share, len(order))
	for i, id := range order {
		shares[i] = Share{
			ParticipantID: id,
			Subtotal:      subs[i],
			TaxShare:      taxes[i],
			TipShare:      tips[i],
			Total:         money.Sum(subs[i], taxes[i], tips[i]),
		}
	}
	return shares
}
