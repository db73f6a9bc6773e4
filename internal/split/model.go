package split

import (
	"time"

	"github.com/omarsaleh/divvy/internal/split/allocate"
)

// Status represents the lifecycle status of a split.
// The only transition is active -> settled; settled is terminal.
type Status string

const (
	StatusActive  Status = "active"
	StatusSettled Status = "settled"
)

// Role tags a participant's relationship to the split. The creator owns the
// split and may also claim items; owers owe money to the creator.
type Role string

const (
	RoleCreator Role = "creator"
	RoleOwer    Role = "ower"
)

// ParticipantStatus represents the locally recorded payment state of a
// participant. The reconciler may additionally derive "paid" from payment
// events without this field changing.
type ParticipantStatus string

const (
	ParticipantPending ParticipantStatus = "pending"
	ParticipantPaid    ParticipantStatus = "paid"
)

// Split represents a shared-expense record being divided among participants.
type Split struct {
	ID           string                `json:"id"`
	CreatorID    int64                 `json:"creator_id"`
	Description  string                `json:"description"`
	TotalAmount  float64               `json:"total_amount"`
	TaxAmount    float64               `json:"tax_amount"`
	TipAmount    float64               `json:"tip_amount"`
	CurrencyCode string                `json:"currency_code"`
	Strategy     allocate.StrategyType `json:"strategy"`
	Status       Status                `json:"status"`
	FinalizedAt  *time.Time            `json:"finalized_at,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`

	// Populated via JOIN
	CreatorUsername string `json:"creator_username,omitempty"`
}

// Participant represents one obligated party in a split. A participant
// references either a registered user or an "external" person identified by
// a free-text name/email/phone triple.
type Participant struct {
	ID            string            `json:"id"`
	SplitID       string            `json:"split_id"`
	UserID        *int64            `json:"user_id,omitempty"`
	ExternalName  *string           `json:"external_name,omitempty"`
	ExternalEmail *string           `json:"external_email,omitempty"`
	ExternalPhone *string           `json:"external_phone,omitempty"`
	Role          Role              `json:"role"`
	AmountOwed    float64           `json:"amount_owed"`
	AmountPaid    float64           `json:"amount_paid"`
	Status        ParticipantStatus `json:"status"`

	// Populated via JOIN for registered users
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// DisplayName resolves the participant's name regardless of whether they are
// a registered user or an external person.
func (p *Participant) DisplayName() string {
	if p.Username != "" {
		return p.Username
	}
	if p.ExternalName != nil {
		return *p.ExternalName
	}
	return ""
}

// EmailAddress resolves the participant's email, empty if unknown.
func (p *Participant) EmailAddress() string {
	if p.Email != "" {
		return p.Email
	}
	if p.ExternalEmail != nil {
		return *p.ExternalEmail
	}
	return ""
}

// SplitWithParticipants combines a split with its participant rows.
type SplitWithParticipants struct {
	Split        *Split
	Participants []*Participant
}
