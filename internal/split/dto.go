package split

// ParticipantInput identifies one obligated person on a new split: either a
// registered user by ID, or an external person by name (email/phone optional).
// Amount and Percentage carry the per-participant values for the custom and
// percentage strategies.
type ParticipantInput struct {
	UserID     *int64   `json:"user_id,omitempty"`
	Name       *string  `json:"name,omitempty"`
	Email      *string  `json:"email,omitempty"`
	Phone      *string  `json:"phone,omitempty"`
	Amount     *float64 `json:"amount,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
}

// CreateSplitRequest represents the request to create a flat (non-itemized) split
type CreateSplitRequest struct {
	Description  string              `json:"description" validate:"required,min=1,max=255"`
	TotalAmount  float64             `json:"total_amount" validate:"required,gt=0"`
	CurrencyCode string              `json:"currency_code,omitempty"`
	Strategy     string              `json:"strategy" validate:"required,oneof=equal custom percentage"`
	Participants []*ParticipantInput `json:"participants" validate:"required,min=1"`
}

// SplitResponse represents the response for a split
type SplitResponse struct {
	ID              string                 `json:"id"`
	CreatorID       int64                  `json:"creator_id"`
	CreatorUsername string                 `json:"creator_username,omitempty"`
	Description     string                 `json:"description"`
	TotalAmount     float64                `json:"total_amount"`
	TaxAmount       float64                `json:"tax_amount,omitempty"`
	TipAmount       float64                `json:"tip_amount,omitempty"`
	CurrencyCode    string                 `json:"currency_code"`
	Strategy        string                 `json:"strategy"`
	Status          string                 `json:"status"`
	Finalized       bool                   `json:"finalized"`
	CreatedAt       string                 `json:"created_at"`
	Participants    []*ParticipantResponse `json:"participants,omitempty"`
}

// ParticipantResponse represents the response for a participant
type ParticipantResponse struct {
	ID          string  `json:"id"`
	SplitID     string  `json:"split_id"`
	UserID      *int64  `json:"user_id,omitempty"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email,omitempty"`
	Role        string  `json:"role"`
	AmountOwed  float64 `json:"amount_owed"`
	AmountPaid  float64 `json:"amount_paid"`
	Status      string  `json:"status"`
}

// ToResponse converts a Split model to a SplitResponse DTO
func (s *Split) ToResponse() *SplitResponse {
	return &SplitResponse{
		ID:              s.ID,
		CreatorID:       s.CreatorID,
		CreatorUsername: s.CreatorUsername,
		Description:     s.Description,
		TotalAmount:     s.TotalAmount,
		TaxAmount:       s.TaxAmount,
		TipAmount:       s.TipAmount,
		CurrencyCode:    s.CurrencyCode,
		Strategy:        string(s.Strategy),
		Status:          string(s.Status),
		Finalized:       s.FinalizedAt != nil,
		CreatedAt:       s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Participant model to a ParticipantResponse DTO
func (p *Participant) ToResponse() *ParticipantResponse {
	return &ParticipantResponse{
		ID:          p.ID,
		SplitID:     p.SplitID,
		UserID:      p.UserID,
		DisplayName: p.DisplayName(),
		Email:       p.EmailAddress(),
		Role:        string(p.Role),
		AmountOwed:  p.AmountOwed,
		AmountPaid:  p.AmountPaid,
		Status:      string(p.Status),
	}
}
