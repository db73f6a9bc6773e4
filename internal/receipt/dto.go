package receipt

import "github.com/omarsaleh/divvy/internal/split"

// CreateItemizedRequest creates a split from a recognized receipt. The
// receipt payload is the opaque output of the external recognition service;
// only its shape is validated here.
type CreateItemizedRequest struct {
	Description  string                    `json:"description" validate:"required,min=1,max=255"`
	CurrencyCode string                    `json:"currency_code,omitempty"`
	Receipt      Recognized                `json:"receipt" validate:"required"`
	Participants []*split.ParticipantInput `json:"participants" validate:"required,min=1"`
}

// UpsertClaimRequest stores or replaces the caller's claim on an item.
type UpsertClaimRequest struct {
	Quantity   int `json:"quantity" validate:"required,min=1"`
	ShareCount int `json:"share_count,omitempty" validate:"omitempty,min=1"`
}

// EditItemRequest is the explicit line item edit.
type EditItemRequest struct {
	Name      string  `json:"name" validate:"required,min=1,max=255"`
	UnitPrice float64 `json:"unit_price" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
}

// ClaimResponse represents one claim on an item
type ClaimResponse struct {
	ParticipantID   string  `json:"participant_id"`
	QuantityClaimed int     `json:"quantity_claimed"`
	ShareCount      int     `json:"share_count"`
	Amount          float64 `json:"amount"`
}

// ItemResponse represents a line item with its claim state
type ItemResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	UnitPrice         float64         `json:"unit_price"`
	Quantity          int             `json:"quantity"`
	LineTotal         float64         `json:"line_total"`
	RemainingQuantity int             `json:"remaining_quantity"`
	FullyClaimed      bool            `json:"fully_claimed"`
	Claims            []ClaimResponse `json:"claims,omitempty"`
}

// SummaryResponse is the live claim state of an itemized split: remaining
// quantities per item plus per-claimant subtotals and informational tax/tip
// shares.
type SummaryResponse struct {
	SplitID         string           `json:"split_id"`
	ReceiptSubtotal float64          `json:"receipt_subtotal"`
	TaxAmount       float64          `json:"tax_amount"`
	TipAmount       float64          `json:"tip_amount"`
	TotalAmount     float64          `json:"total_amount"`
	Finalized       bool             `json:"finalized"`
	Items           []ItemResponse   `json:"items"`
	Shares          map[string]Share `json:"shares"`
}

// FinalizeResponse reports the persisted exact-sum obligations.
type FinalizeResponse struct {
	SplitID string  `json:"split_id"`
	Shares  []Share `json:"shares"`
}

// toItemResponse assembles an item DTO from the item and the claims on it.
func toItemResponse(item LineItem, claims []Claim) ItemResponse {
	resp := ItemResponse{
		ID:                item.ID,
		Name:              item.Name,
		UnitPrice:         item.UnitPrice,
		Quantity:          item.Quantity,
		LineTotal:         item.LineTotal(),
		RemainingQuantity: RemainingQuantity(item, claims),
		FullyClaimed:      IsFullyClaimed(item, claims),
	}
	for _, c := range claims {
		if c.ItemID != item.ID {
			continue
		}
		resp.Claims = append(resp.Claims, ClaimResponse{
			ParticipantID:   c.ParticipantID,
			QuantityClaimed: c.QuantityClaimed,
			ShareCount:      c.ShareCount,
			Amount:          c.Amount(item.UnitPrice),
		})
	}
	return resp
}
