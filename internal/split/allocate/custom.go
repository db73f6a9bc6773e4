package allocate

import (
	"math"

	"github.com/omarsaleh/divvy/internal/money"
)

// =============================================================================
// CUSTOM STRATEGY
// Each participant owes a caller-supplied exact amount (must sum to total)
// =============================================================================

// CustomStrategy implements the Strategy interface for custom amount splits
type CustomStrategy struct{}

// Type returns the split type identifier
func (s *CustomStrategy) Type() StrategyType {
	return StrategyCustom
}

// Validate checks that every participant carries a non-negative amount and
// that the amounts independently re-sum to the total within a cent.
func (s *CustomStrategy) Validate(totalAmount float64, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if totalAmount < 0 {
		return ErrNegativeAmount
	}

	var sum float64
	for _, p := range participants {
		if p.Amount == nil {
			return ErrMissingAmount
		}
		if *p.Amount < 0 {
			return ErrNegativeAmount
		}
		sum += *p.Amount
	}

	if math.Abs(sum-totalAmount) >= 0.01 {
		return &MismatchError{Total: totalAmount, Sum: money.Round2(sum)}
	}
	return nil
}

// Calculate returns the caller-supplied amounts, rounded to the cent.
func (s *CustomStrategy) Calculate(totalAmount float64, participants []Input) ([]Output, error) {
	if err := s.Validate(totalAmount, participants); err != nil {
		return nil, err
	}

	outputs := make([]Output, len(participants))
	for i, p := range participants {
		outputs[i] = Output{
			UserID:     p.UserID,
			AmountOwed: money.Round2(*p.Amount),
		}
	}
	return outputs, nil
}
