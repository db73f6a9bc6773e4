package allocate

import "github.com/omarsaleh/divvy/internal/money"

// =============================================================================
// EQUAL STRATEGY
// Divides the total equally among all participants, creator included.
// =============================================================================

// EqualStrategy implements the Strategy interface for equal splits
type EqualStrategy struct{}

// Type returns the split type identifier
func (s *EqualStrategy) Type() StrategyType {
	return StrategyEqual
}

// Validate checks if the inputs are valid for an equal split
func (s *EqualStrategy) Validate(totalAmount float64, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if totalAmount < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Calculate divides the total equally. Remainder cents go to the earliest
// participants in the caller's order, so the shares re-add to the total
// exactly.
func (s *EqualStrategy) Calculate(totalAmount float64, participants []Input) ([]Output, error) {
	if err := s.Validate(totalAmount, participants); err != nil {
		return nil, err
	}

	shares := money.DistributeRemainder(totalAmount, len(participants))

	outputs := make([]Output, len(participants))
	for i, p := range participants {
		outputs[i] = Output{
			UserID:     p.UserID,
			AmountOwed: shares[i],
		}
	}
	return outputs, nil
}
