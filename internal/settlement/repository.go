package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/omarsaleh/divvy/internal/database"
)

// Repository handles payment event persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertEvent records an externally sourced payment event. Events are
// append-only; the reconciler never mutates them.
func (r *Repository) InsertEvent(ctx context.Context, e *PaymentEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	query := `
		INSERT INTO payment_events (id, split_id, payer_email, payer_name, amount, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		e.ID,
		e.SplitID,
		e.PayerEmail,
		e.PayerName,
		e.Amount,
		e.OccurredAt,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record payment event: %w", database.Unavailable(err))
	}

	return nil
}

// GetEvents retrieves a split's payment events oldest first, so the first
// match the reconciler finds is the earliest assertion.
func (r *Repository) GetEvents(ctx context.Context, splitID string) ([]PaymentEvent, error) {
	query := `
		SELECT id, split_id, payer_email, payer_name, amount, occurred_at, created_at
		FROM payment_events
		WHERE split_id = $1
		ORDER BY occurred_at, created_at
	`

	rows, err := r.db.QueryContext(ctx, query, splitID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment events: %w", database.Unavailable(err))
	}
	defer rows.Close()

	var events []PaymentEvent
	for rows.Next() {
		var e PaymentEvent
		if err := rows.Scan(
			&e.ID,
			&e.SplitID,
			&e.PayerEmail,
			&e.PayerName,
			&e.Amount,
			&e.OccurredAt,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment events: %w", database.Unavailable(err))
	}

	return events, nil
}
