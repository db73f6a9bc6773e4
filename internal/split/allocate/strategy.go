package allocate

import (
	"errors"
	"fmt"

	"github.com/omarsaleh/divvy/internal/money"
)

// StrategyType defines how a split's total is divided among participants.
type StrategyType string

const (
	StrategyEqual      StrategyType = "equal"
	StrategyCustom     StrategyType = "custom"
	StrategyPercentage StrategyType = "percentage"
	// StrategyItemized is computed by the claim tracker, not by an allocation
	// strategy; the factory rejects it.
	StrategyItemized StrategyType = "itemized"
)

// Input represents a participant in an allocation with optional values.
type Input struct {
	UserID     int64    `json:"user_id"`
	Amount     *float64 `json:"amount,omitempty"`     // For custom splits
	Percentage *float64 `json:"percentage,omitempty"` // For percentage splits
}

// Output represents the allocated amount for a single participant.
type Output struct {
	UserID     int64   `json:"user_id"`
	AmountOwed float64 `json:"amount_owed"`
}

// Strategy is the interface that all allocation strategies implement.
// Calculate is a pure function: the caller persists the result.
type Strategy interface {
	// Calculate computes the per-participant amounts in input order.
	Calculate(totalAmount float64, participants []Input) ([]Output, error)

	// Type returns the type identifier for this strategy
	Type() StrategyType

	// Validate checks if the inputs are valid for this strategy
	Validate(totalAmount float64, participants []Input) error
}

// Factory creates allocation strategies based on the requested type
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the appropriate strategy implementation based on the type
func (f *Factory) Create(strategyType StrategyType) (Strategy, error) {
	switch strategyType {
	case StrategyEqual:
		return &EqualStrategy{}, nil
	case StrategyCustom:
		return &CustomStrategy{}, nil
	case StrategyPercentage:
		return &PercentageStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown allocation strategy: %s", strategyType)
	}
}

// CreateFromString creates a strategy from a string type (useful for API requests)
func (f *Factory) CreateFromString(strategyType string) (Strategy, error) {
	return f.Create(StrategyType(strategyType))
}

var (
	ErrNoParticipants       = errors.New("at least one participant is required")
	ErrNegativeAmount       = errors.New("amounts cannot be negative")
	ErrMissingAmount        = errors.New("amount required for all participants")
	ErrMissingPercentage    = errors.New("percentage value required for all participants")
	ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")
)

// MismatchError reports custom amounts that do not re-sum to the split total.
// The message tells the caller how much is left to assign (or to remove).
type MismatchError struct {
	Total float64
	Sum   float64
}

func (e *MismatchError) Error() string {
	diff := money.Round2(e.Total - e.Sum)
	if diff > 0 {
		return fmt.Sprintf("amounts sum to %.2f, assign %.2f more to reach %.2f", e.Sum, diff, e.Total)
	}
	return fmt.Sprintf("amounts sum to %.2f, remove %.2f to reach %.2f", e.Sum, -diff, e.Total)
}

// PercentageSumError reports percentages that do not sum to 100.
type PercentageSumError struct {
	Sum float64
}

func (e *PercentageSumError) Error() string {
	diff := money.Round2(100 - e.Sum)
	if diff > 0 {
		return fmt.Sprintf("percentages sum to %.2f, assign %.2f%% more", e.Sum, diff)
	}
	return fmt.Sprintf("percentages sum to %.2f, remove %.2f%%", e.Sum, -diff)
}
