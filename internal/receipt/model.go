package receipt

import (
	"fmt"

	"github.com/omarsaleh/divvy/internal/money"
)

// LineItem represents one priced, quantified entry on a receipt. Items are
// immutable once claiming has begun, except through the explicit edit
// operation which re-validates outstanding claims.
type LineItem struct {
	ID        string  `json:"id"`
	SplitID   string  `json:"split_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// LineTotal is the derived unit price × quantity.
func (li *LineItem) LineTotal() float64 {
	return money.Round2(li.UnitPrice * float64(li.Quantity))
}

// Claim records that a participant took quantity_claimed units of a line
// item, optionally splitting each with share_count-1 other claimants of the
// same unit. Claims are keyed by (item, participant): re-claiming replaces.
type Claim struct {
	ID              string `json:"id"`
	ItemID          string `json:"item_id"`
	ParticipantID   string `json:"participant_id"`
	QuantityClaimed int    `json:"quantity_claimed"`
	ShareCount      int    `json:"share_count"`
}

// Amount is the derived claimed price: unit price × quantity ÷ share count.
func (c *Claim) Amount(unitPrice float64) float64 {
	return money.Round2(unitPrice * float64(c.QuantityClaimed) / float64(c.ShareCount))
}

// Recognized is the output shape of the external receipt recognition
// service. The engine only validates it; recognition accuracy is not its
// concern.
type Recognized struct {
	Items    []RecognizedItem `json:"items"`
	Subtotal float64          `json:"subtotal"`
	Tax      float64          `json:"tax"`
	Tip      float64          `json:"tip"`
}

// RecognizedItem is one recognized receipt line.
type RecognizedItem struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// OverClaimError reports a claim exceeding the item's remaining quantity.
type OverClaimError struct {
	ItemID    string
	Requested int
	Remaining int
}

func (e *OverClaimError) Error() string {
	return fmt.Sprintf("requested %d of item %s but only %d remain claimable", e.Requested, e.ItemID, e.Remaining)
}

// InvalidLineItemError rejects items with a non-positive price or quantity.
type InvalidLineItemError struct {
	Name   string
	Reason string
}

func (e *InvalidLineItemError) Error() string {
	return fmt.Sprintf("invalid line item %q: %s", e.Name, e.Reason)
}
