package allocate

import (
	"math"

	"github.com/omarsaleh/divvy/internal/money"
)

// =============================================================================
// PERCENTAGE STRATEGY
// Divides the total based on specified percentages for each participant
// =============================================================================

// PercentageStrategy implements the Strategy interface for percentage-based splits
type PercentageStrategy struct{}

// Type returns the split type identifier
func (s *PercentageStrategy) Type() StrategyType {
	return StrategyPercentage
}

// Validate checks that every participant carries a percentage in [0, 100]
// and that the percentages sum to 100 within a 0.01-point tolerance.
func (s *PercentageStrategy) Validate(totalAmount float64, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if totalAmount < 0 {
		return ErrNegativeAmount
	}

	var sum float64
	for _, p := range participants {
		if p.Percentage == nil {
			return ErrMissingPercentage
		}
		if *p.Percentage < 0 || *p.Percentage > 100 {
			return ErrPercentageOutOfRange
		}
		sum += *p.Percentage
	}

	if math.Abs(sum-100) > 0.01 {
		return &PercentageSumError{Sum: money.Round2(sum)}
	}
	return nil
}

// Calculate converts each percentage to an amount. Because per-participant
// amounts are rounded independently they may drift a cent off the total; the
// shares are reconciled so they re-add to the rounded total exactly.
func (s *PercentageStrategy) Calculate(totalAmount float64, participants []Input) ([]Output, error) {
	if err := s.Validate(totalAmount, participants); err != nil {
		return nil, err
	}

	shares := make([]float64, len(participants))
	for i, p := range participants {
		shares[i] = money.Round2(totalAmount * (*p.Percentage) / 100)
	}
	shares = money.ReconcileTo(money.Round2(totalAmount), shares)

	outputs := make([]Output, len(participants))
	for i, p := range participants {
		outputs[i] = Output{
			UserID:     p.UserID,
			AmountOwed: shares[i],
		}
	}
	return outputs, nil
}
