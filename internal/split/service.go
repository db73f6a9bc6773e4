package split

import (
	"context"
	"errors"
	"log/slog"

	"github.com/omarsaleh/divvy/internal/split/allocate"
)

// Common errors
var (
	ErrSplitNotFound       = errors.New("split not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrPermissionDenied    = errors.New("only the split's creator can perform this operation")
	ErrInvalidParticipant  = errors.New("participant requires a user_id or a name")
)

// Service handles split business logic
type Service struct {
	repo    *Repository
	factory *allocate.Factory
}

// NewService creates a new split service with dependencies injected
func NewService(repo *Repository, factory *allocate.Factory) *Service {
	return &Service{
		repo:    repo,
		factory: factory,
	}
}

// buildInputs converts participant inputs to allocator inputs, prepending the
// creator when the caller did not list them. The creator always counts as a
// participant for division purposes, with a zero value under the custom and
// percentage strategies.
func buildInputs(creatorID int64, strategy allocate.StrategyType, participants []*ParticipantInput) []*ParticipantInput {
	for _, p := range participants {
		if p.UserID != nil && *p.UserID == creatorID {
			return participants
		}
	}

	zero := 0.0
	creator := &ParticipantInput{UserID: &creatorID}
	switch strategy {
	case allocate.StrategyCustom:
		creator.Amount = &zero
	case allocate.StrategyPercentage:
		creator.Percentage = &zero
	}
	return append([]*ParticipantInput{creator}, participants...)
}

// CreateSplit creates a flat (equal/custom/percentage) split: it allocates
// the total across participants and persists the split with its participant
// rows. If a participant write fails the split row is deleted again, since
// the store offers no cross-record transactions.
func (s *Service) CreateSplit(ctx context.Context, creatorID int64, req *CreateSplitRequest) (*SplitWithParticipants, error) {
	strategy, err := s.factory.CreateFromString(req.Strategy)
	if err != nil {
		return nil, err
	}

	for _, p := range req.Participants {
		if p.UserID == nil && (p.Name == nil || *p.Name == "") {
			return nil, ErrInvalidParticipant
		}
	}

	participants := buildInputs(creatorID, strategy.Type(), req.Participants)

	inputs := make([]allocate.Input, len(participants))
	for i, p := range participants {
		input := allocate.Input{Amount: p.Amount, Percentage: p.Percentage}
		if p.UserID != nil {
			input.UserID = *p.UserID
		}
		inputs[i] = input
	}

	outputs, err := strategy.Calculate(req.TotalAmount, inputs)
	if err != nil {
		return nil, err
	}

	sp := &Split{
		CreatorID:    creatorID,
		Description:  req.Description,
		TotalAmount:  req.TotalAmount,
		CurrencyCode: req.CurrencyCode,
		Strategy:     strategy.Type(),
	}
	if err := s.repo.CreateSplit(ctx, sp); err != nil {
		return nil, err
	}

	rows := make([]*Participant, len(participants))
	for i, p := range participants {
		row := &Participant{
			SplitID:       sp.ID,
			UserID:        p.UserID,
			ExternalName:  p.Name,
			ExternalEmail: p.Email,
			ExternalPhone: p.Phone,
			Role:          RoleOwer,
			AmountOwed:    outputs[i].AmountOwed,
		}
		if p.UserID != nil && *p.UserID == creatorID {
			row.Role = RoleCreator
		}
		if err := s.repo.CreateParticipant(ctx, row, i); err != nil {
			// Roll back the earlier writes of this logical transaction.
			if delErr := s.repo.DeleteSplit(ctx, sp.ID); delErr != nil {
				slog.Error("failed to roll back split after participant write failure",
					"split_id", sp.ID, "error", delErr)
			}
			return nil, err
		}
		rows[i] = row
	}

	return &SplitWithParticipants{Split: sp, Participants: rows}, nil
}

// GetSplit retrieves a split with its participants
func (s *Service) GetSplit(ctx context.Context, id string) (*SplitWithParticipants, error) {
	sp, err := s.repo.GetSplitByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, ErrSplitNotFound
	}

	participants, err := s.repo.GetParticipants(ctx, id)
	if err != nil {
		return nil, err
	}

	return &SplitWithParticipants{Split: sp, Participants: participants}, nil
}

// DeleteSplit deletes a split and everything hanging off it. Creator only.
func (s *Service) DeleteSplit(ctx context.Context, id string, userID int64) error {
	sp, err := s.repo.GetSplitByID(ctx, id)
	if err != nil {
		return err
	}
	if sp == nil {
		return ErrSplitNotFound
	}

	if sp.CreatorID != userID {
		return ErrPermissionDenied
	}

	return s.repo.DeleteSplit(ctx, id)
}
