package allocate

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func sumOutputs(outputs []Output) float64 {
	var sum float64
	for _, o := range outputs {
		sum += o.AmountOwed
	}
	return sum
}

func TestEqualStrategy(t *testing.T) {
	tests := []struct {
		name         string
		total        float64
		participants []Input
		wantErr      error
		validateFunc func(t *testing.T, outputs []Output)
	}{
		{
			name:         "non-terminating fraction sums exactly",
			total:        10.00,
			participants: []Input{{UserID: 1}, {UserID: 2}, {UserID: 3}},
			validateFunc: func(t *testing.T, outputs []Output) {
				want := []float64{3.34, 3.33, 3.33}
				for i, o := range outputs {
					if math.Abs(o.AmountOwed-want[i]) > 1e-9 {
						t.Errorf("participant %d owes %v, want %v", o.UserID, o.AmountOwed, want[i])
					}
				}
			},
		},
		{
			name:         "single participant takes the whole total",
			total:        25.50,
			participants: []Input{{UserID: 7}},
			validateFunc: func(t *testing.T, outputs []Output) {
				if outputs[0].AmountOwed != 25.50 {
					t.Errorf("owes %v, want 25.50", outputs[0].AmountOwed)
				}
			},
		},
		{
			name:         "no participants rejected",
			total:        10,
			participants: nil,
			wantErr:      ErrNoParticipants,
		},
		{
			name:         "negative total rejected",
			total:        -1,
			participants: []Input{{UserID: 1}},
			wantErr:      ErrNegativeAmount,
		},
	}

	s := &EqualStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputs, err := s.Calculate(tt.total, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(sumOutputs(outputs)-tt.total) > 1e-9 {
				t.Errorf("shares sum to %v, want %v", sumOutputs(outputs), tt.total)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, outputs)
			}
		})
	}
}

func TestCustomStrategy(t *testing.T) {
	s := &CustomStrategy{}

	t.Run("amounts matching total accepted", func(t *testing.T) {
		outputs, err := s.Calculate(30.00, []Input{
			{UserID: 1, Amount: ptr(10.00)},
			{UserID: 2, Amount: ptr(20.00)},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outputs[0].AmountOwed != 10.00 || outputs[1].AmountOwed != 20.00 {
			t.Errorf("got %v, want given amounts", outputs)
		}
	})

	t.Run("mismatch reports the shortfall", func(t *testing.T) {
		_, err := s.Calculate(30.00, []Input{
			{UserID: 1, Amount: ptr(10.00)},
			{UserID: 2, Amount: ptr(15.00)},
		})
		var mismatch *MismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("got %v, want MismatchError", err)
		}
		if mismatch.Sum != 25.00 {
			t.Errorf("reported sum %v, want 25.00", mismatch.Sum)
		}
		if !strings.Contains(mismatch.Error(), "assign 5.00 more") {
			t.Errorf("message %q does not report the shortfall", mismatch.Error())
		}
	})

	t.Run("excess reported too", func(t *testing.T) {
		_, err := s.Calculate(30.00, []Input{
			{UserID: 1, Amount: ptr(31.00)},
		})
		var mismatch *MismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("got %v, want MismatchError", err)
		}
		if !strings.Contains(mismatch.Error(), "remove 1.00") {
			t.Errorf("message %q does not report the excess", mismatch.Error())
		}
	})

	t.Run("missing amount rejected", func(t *testing.T) {
		_, err := s.Calculate(30.00, []Input{{UserID: 1}})
		if !errors.Is(err, ErrMissingAmount) {
			t.Fatalf("got %v, want ErrMissingAmount", err)
		}
	})

	t.Run("sub-cent drift tolerated", func(t *testing.T) {
		if _, err := s.Calculate(10.00, []Input{
			{UserID: 1, Amount: ptr(3.33)},
			{UserID: 2, Amount: ptr(3.33)},
			{UserID: 3, Amount: ptr(3.335)},
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestPercentageStrategy(t *testing.T) {
	s := &PercentageStrategy{}

	t.Run("percentages summing to 100 accepted", func(t *testing.T) {
		outputs, err := s.Calculate(50.00, []Input{
			{UserID: 1, Percentage: ptr(60.0)},
			{UserID: 2, Percentage: ptr(40.0)},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outputs[0].AmountOwed != 30.00 || outputs[1].AmountOwed != 20.00 {
			t.Errorf("got %v, want 30.00/20.00", outputs)
		}
	})

	t.Run("sum of 99 rejected with shortfall", func(t *testing.T) {
		_, err := s.Calculate(50.00, []Input{
			{UserID: 1, Percentage: ptr(50.0)},
			{UserID: 2, Percentage: ptr(49.0)},
		})
		var sumErr *PercentageSumError
		if !errors.As(err, &sumErr) {
			t.Fatalf("got %v, want PercentageSumError", err)
		}
		if sumErr.Sum != 99.00 {
			t.Errorf("reported sum %v, want 99.00", sumErr.Sum)
		}
		if !strings.Contains(sumErr.Error(), "assign 1.00% more") {
			t.Errorf("message %q does not report the shortfall", sumErr.Error())
		}
	})

	t.Run("sum of 101 rejected with excess", func(t *testing.T) {
		_, err := s.Calculate(50.00, []Input{
			{UserID: 1, Percentage: ptr(51.0)},
			{UserID: 2, Percentage: ptr(50.0)},
		})
		var sumErr *PercentageSumError
		if !errors.As(err, &sumErr) {
			t.Fatalf("got %v, want PercentageSumError", err)
		}
		if !strings.Contains(sumErr.Error(), "remove 1.00%") {
			t.Errorf("message %q does not report the excess", sumErr.Error())
		}
	})

	t.Run("rounded shares reconcile to the total", func(t *testing.T) {
		// Three equal thirds of 100: naive rounding gives 33.33 * 3 = 99.99.
		third := 100.0 / 3.0
		outputs, err := s.Calculate(100.00, []Input{
			{UserID: 1, Percentage: ptr(third)},
			{UserID: 2, Percentage: ptr(third)},
			{UserID: 3, Percentage: ptr(third)},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(sumOutputs(outputs)-100.00) > 1e-9 {
			t.Errorf("shares sum to %v, want 100.00", sumOutputs(outputs))
		}
	})

	t.Run("out of range rejected", func(t *testing.T) {
		_, err := s.Calculate(10.00, []Input{{UserID: 1, Percentage: ptr(101.0)}})
		if !errors.Is(err, ErrPercentageOutOfRange) {
			t.Fatalf("got %v, want ErrPercentageOutOfRange", err)
		}
	})
}

func TestFactory(t *testing.T) {
	f := NewFactory()

	for _, st := range []StrategyType{StrategyEqual, StrategyCustom, StrategyPercentage} {
		s, err := f.Create(st)
		if err != nil {
			t.Fatalf("Create(%s): %v", st, err)
		}
		if s.Type() != st {
			t.Errorf("Type() = %s, want %s", s.Type(), st)
		}
	}

	if _, err := f.Create(StrategyItemized); err == nil {
		t.Error("itemized should not resolve to an allocation strategy")
	}
	if _, err := f.CreateFromString("bogus"); err == nil {
		t.Error("unknown strategy should error")
	}
}
