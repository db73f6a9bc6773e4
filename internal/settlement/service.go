package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/omarsaleh/divvy/internal/split"
)

// Common errors
var (
	ErrInvalidAmount = errors.New("payment amount must be positive")
)

// Service handles settlement business logic
type Service struct {
	repo   *Repository
	splits *split.Repository
}

// NewService creates a new settlement service
func NewService(repo *Repository, splits *split.Repository) *Service {
	return &Service{
		repo:   repo,
		splits: splits,
	}
}

// Status derives the split's settlement summary from participant rows and
// payment events. When the derivation finds every ower paid, the split's
// stored status is brought along with a conditional active-to-settled write;
// the summary itself is never stored.
func (s *Service) Status(ctx context.Context, splitID string) (*Summary, error) {
	sp, err := s.splits.GetSplitByID(ctx, splitID)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, split.ErrSplitNotFound
	}

	participants, err := s.splits.GetParticipants(ctx, splitID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.GetEvents(ctx, splitID)
	if err != nil {
		return nil, err
	}

	summary := Reconcile(sp, participants, events)
	if summary.Settled && sp.Status == split.StatusActive {
		if err := s.splits.SettleSplit(ctx, splitID); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

// MarkPaid records a local paid state for one participant. Creator only,
// idempotent. The follow-up status derivation settles the split when this
// was the last unpaid ower.
func (s *Service) MarkPaid(ctx context.Context, splitID, participantID string, userID int64) (*Summary, error) {
	sp, err := s.splits.GetSplitByID(ctx, splitID)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, split.ErrSplitNotFound
	}
	if sp.CreatorID != userID {
		return nil, split.ErrPermissionDenied
	}

	ok, err := s.splits.MarkParticipantPaid(ctx, splitID, participantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, split.ErrParticipantNotFound
	}

	return s.Status(ctx, splitID)
}

// RecordPayment ingests an external payment event for a split. The event is
// stored as-is; whether it satisfies anybody's obligation is decided at read
// time by the reconciler.
func (s *Service) RecordPayment(ctx context.Context, splitID string, req *RecordPaymentRequest) (*PaymentEvent, error) {
	sp, err := s.splits.GetSplitByID(ctx, splitID)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, split.ErrSplitNotFound
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	event := &PaymentEvent{
		SplitID:    splitID,
		PayerEmail: req.PayerEmail,
		PayerName:  req.PayerName,
		Amount:     req.Amount,
		OccurredAt: occurredAt,
	}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}
