package settlement

import "time"

// RecordPaymentRequest ingests one external payment event. Payer hints are
// optional but at least one is needed for the event to ever match anybody.
type RecordPaymentRequest struct {
	PayerEmail *string   `json:"payer_email,omitempty" validate:"omitempty,email"`
	PayerName  *string   `json:"payer_name,omitempty" validate:"omitempty,min=1,max=255"`
	Amount     float64   `json:"amount" validate:"required,gt=0"`
	OccurredAt time.Time `json:"occurred_at,omitempty"`
}
