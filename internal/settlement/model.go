package settlement

import "time"

// PaymentEvent is an externally sourced record asserting that some payer
// paid some amount toward a split. Events are read-only input to the
// reconciler; the payer hints may not match any participant exactly.
type PaymentEvent struct {
	ID         string    `json:"id"`
	SplitID    string    `json:"split_id"`
	PayerEmail *string   `json:"payer_email,omitempty"`
	PayerName  *string   `json:"payer_name,omitempty"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// ParticipantStatus is one participant's derived settlement state.
type ParticipantStatus struct {
	ParticipantID string  `json:"participant_id"`
	Name          string  `json:"name"`
	AmountOwed    float64 `json:"amount_owed"`
	AmountPaid    float64 `json:"amount_paid"`
	Paid          bool    `json:"paid"`
	// MatchedEventID is set when the paid determination came from a
	// payment event rather than the local record.
	MatchedEventID string `json:"matched_event_id,omitempty"`
}

// Summary is the derived settlement state of a whole split.
type Summary struct {
	SplitID      string              `json:"split_id"`
	TotalOwed    float64             `json:"total_owed"`
	Collected    float64             `json:"collected"`
	Outstanding  float64             `json:"outstanding"`
	Settled      bool                `json:"settled"`
	Participants []ParticipantStatus `json:"participants"`
}
