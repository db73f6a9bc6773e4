package split

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/omarsaleh/divvy/internal/database"
)

// Repository handles split and participant data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new split repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateSplit inserts a new split. The ID is generated here if unset.
func (r *Repository) CreateSplit(ctx context.Context, s *Split) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CurrencyCode == "" {
		s.CurrencyCode = "USD"
	}

	query := `
		INSERT INTO splits (id, creator_id, description, total_amount, tax_amount, tip_amount, currency_code, strategy, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active')
		RETURNING status, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		s.ID,
		s.CreatorID,
		s.Description,
		s.TotalAmount,
		s.TaxAmount,
		s.TipAmount,
		s.CurrencyCode,
		s.Strategy,
	).Scan(&s.Status, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create split: %w", database.Unavailable(err))
	}

	return nil
}

// CreateParticipant inserts a participant row. Position preserves the
// caller-supplied order, which is the stable order remainder cents follow.
func (r *Repository) CreateParticipant(ctx context.Context, p *Participant, position int) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := `
		INSERT INTO participants (id, split_id, user_id, external_name, external_email, external_phone, role, position, amount_owed, amount_paid, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 'pending')
		RETURNING amount_paid, status
	`

	err := r.db.QueryRowContext(ctx, query,
		p.ID,
		p.SplitID,
		p.UserID,
		p.ExternalName,
		p.ExternalEmail,
		p.ExternalPhone,
		p.Role,
		position,
		p.AmountOwed,
	).Scan(&p.AmountPaid, &p.Status)
	if err != nil {
		return fmt.Errorf("failed to create participant: %w", database.Unavailable(err))
	}

	return nil
}

// GetSplitByID retrieves a split by its ID. Returns nil without error when
// the split does not exist.
func (r *Repository) GetSplitByID(ctx context.Context, id string) (*Split, error) {
	query := `
		SELECT s.id, s.creator_id, s.description, s.total_amount, s.tax_amount, s.tip_amount, s.currency_code, s.strategy, s.status, s.finalized_at, s.created_at, u.username
		FROM splits s
		JOIN users u ON s.creator_id = u.id
		WHERE s.id = $1
	`

	s := &Split{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.CreatorID,
		&s.Description,
		&s.TotalAmount,
		&s.TaxAmount,
		&s.TipAmount,
		&s.CurrencyCode,
		&s.Strategy,
		&s.Status,
		&s.FinalizedAt,
		&s.CreatedAt,
		&s.CreatorUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get split: %w", database.Unavailable(err))
	}

	return s, nil
}

// GetParticipants retrieves all participants of a split in stable order.
func (r *Repository) GetParticipants(ctx context.Context, splitID string) ([]*Participant, error) {
	query := `
		SELECT p.id, p.split_id, p.user_id, p.external_name, p.external_email, p.external_phone,
		       p.role, p.amount_owed, p.amount_paid, p.status,
		       COALESCE(u.username, ''), COALESCE(u.email, '')
		FROM participants p
		LEFT JOIN users u ON p.user_id = u.id
		WHERE p.split_id = $1
		ORDER BY p.position
	`

	rows, err := r.db.QueryContext(ctx, query, splitID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", database.Unavailable(err))
	}
	defer rows.Close()

	var participants []*Participant
	for rows.Next() {
		p := &Participant{}
		if err := rows.Scan(
			&p.ID,
			&p.SplitID,
			&p.UserID,
			&p.ExternalName,
			&p.ExternalEmail,
			&p.ExternalPhone,
			&p.Role,
			&p.AmountOwed,
			&p.AmountPaid,
			&p.Status,
			&p.Username,
			&p.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", database.Unavailable(err))
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", database.Unavailable(err))
	}

	return participants, nil
}

// GetParticipantByID retrieves a single participant row.
func (r *Repository) GetParticipantByID(ctx context.Context, id string) (*Participant, error) {
	query := `
		SELECT p.id, p.split_id, p.user_id, p.external_name, p.external_email, p.external_phone,
		       p.role, p.amount_owed, p.amount_paid, p.status,
		       COALESCE(u.username, ''), COALESCE(u.email, '')
		FROM participants p
		LEFT JOIN users u ON p.user_id = u.id
		WHERE p.id = $1
	`

	p := &Participant{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.SplitID,
		&p.UserID,
		&p.ExternalName,
		&p.ExternalEmail,
		&p.ExternalPhone,
		&p.Role,
		&p.AmountOwed,
		&p.AmountPaid,
		&p.Status,
		&p.Username,
		&p.Email,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get participant: %w", database.Unavailable(err))
	}

	return p, nil
}

// GetParticipantByUser finds the participant row of a registered user within
// a split.
func (r *Repository) GetParticipantByUser(ctx context.Context, splitID string, userID int64) (*Participant, error) {
	query := `
		SELECT p.id, p.split_id, p.user_id, p.external_name, p.external_email, p.external_phone,
		       p.role, p.amount_owed, p.amount_paid, p.status,
		       COALESCE(u.username, ''), COALESCE(u.email, '')
		FROM participants p
		LEFT JOIN users u ON p.user_id = u.id
		WHERE p.split_id = $1 AND p.user_id = $2
	`

	p := &Participant{}
	err := r.db.QueryRowContext(ctx, query, splitID, userID).Scan(
		&p.ID,
		&p.SplitID,
		&p.UserID,
		&p.ExternalName,
		&p.ExternalEmail,
		&p.ExternalPhone,
		&p.Role,
		&p.AmountOwed,
		&p.AmountPaid,
		&p.Status,
		&p.Username,
		&p.Email,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get participant: %w", database.Unavailable(err))
	}

	return p, nil
}

// UpdateParticipantOwed persists a recomputed obligation for one participant.
func (r *Repository) UpdateParticipantOwed(ctx context.Context, participantID string, amountOwed float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE participants SET amount_owed = $2 WHERE id = $1`,
		participantID, amountOwed,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", database.Unavailable(err))
	}
	return nil
}

// MarkParticipantPaid records a local paid state for one participant as a
// single-row write. It is idempotent: marking an already-paid participant
// again affects the same row the same way.
func (r *Repository) MarkParticipantPaid(ctx context.Context, splitID, participantID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE participants SET status = 'paid', amount_paid = amount_owed WHERE id = $1 AND split_id = $2`,
		participantID, splitID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark participant paid: %w", database.Unavailable(err))
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// SettleSplit transitions a split to settled. The write is conditional on the
// split still being active, so concurrent status reads cannot double-apply it.
func (r *Repository) SettleSplit(ctx context.Context, splitID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE splits SET status = 'settled' WHERE id = $1 AND status = 'active'`,
		splitID,
	)
	if err != nil {
		return fmt.Errorf("failed to settle split: %w", database.Unavailable(err))
	}
	return nil
}

// MarkFinalized stamps the moment obligations were finalized. Reports false
// when the split was already finalized.
func (r *Repository) MarkFinalized(ctx context.Context, splitID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE splits SET finalized_at = NOW() WHERE id = $1 AND finalized_at IS NULL`,
		splitID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to finalize split: %w", database.Unavailable(err))
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// UpdateSplitTotal persists a recomputed split total after an item edit.
func (r *Repository) UpdateSplitTotal(ctx context.Context, splitID string, total float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE splits SET total_amount = $2 WHERE id = $1`,
		splitID, total,
	)
	if err != nil {
		return fmt.Errorf("failed to update split total: %w", database.Unavailable(err))
	}
	return nil
}

// DeleteSplit removes a split. Participants, items, claims and payment
// events cascade at the schema level.
func (r *Repository) DeleteSplit(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM splits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete split: %w", database.Unavailable(err))
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("split not found")
	}

	return nil
}
