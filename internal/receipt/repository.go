package receipt

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/omarsaleh/divvy/internal/database"
)

// Repository handles line item and claim data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new receipt repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateLineItem inserts a line item row.
func (r *Repository) CreateLineItem(ctx context.Context, item *LineItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO line_items (id, split_id, name, unit_price, quantity) VALUES ($1, $2, $3, $4, $5)`,
		item.ID, item.SplitID, item.Name, item.UnitPrice, item.Quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to create line item: %w", database.Unavailable(err))
	}
	return nil
}

// GetLineItems retrieves all line items of a split.
func (r *Repository) GetLineItems(ctx context.Context, splitID string) ([]LineItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, split_id, name, unit_price, quantity FROM line_items WHERE split_id = $1 ORDER BY name, id`,
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get line items: %w", database.Unavailable(err))
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.ID, &item.SplitID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", database.Unavailable(err))
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate line items: %w", database.Unavailable(err))
	}

	return items, nil
}

// GetLineItem retrieves one line item. Returns nil without error when absent.
func (r *Repository) GetLineItem(ctx context.Context, itemID string) (*LineItem, error) {
	item := &LineItem{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, split_id, name, unit_price, quantity FROM line_items WHERE id = $1`,
		itemID,
	).Scan(&item.ID, &item.SplitID, &item.Name, &item.UnitPrice, &item.Quantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get line item: %w", database.Unavailable(err))
	}
	return item, nil
}

// UpdateLineItem persists an explicit item edit.
func (r *Repository) UpdateLineItem(ctx context.Context, item *LineItem) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE line_items SET name = $2, unit_price = $3, quantity = $4 WHERE id = $1`,
		item.ID, item.Name, item.UnitPrice, item.Quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to update line item: %w", database.Unavailable(err))
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("line item not found")
	}
	return nil
}

// GetClaims retrieves all claims across a split's items.
func (r *Repository) GetClaims(ctx context.Context, splitID string) ([]Claim, error) {
	query := `
		SELECT c.id, c.item_id, c.participant_id, c.quantity_claimed, c.share_count
		FROM claims c
		JOIN line_items li ON c.item_id = li.id
		WHERE li.split_id = $1
		ORDER BY c.item_id, c.participant_id
	`

	rows, err := r.db.QueryContext(ctx, query, splitID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claims: %w", database.Unavailable(err))
	}
	defer rows.Close()

	var claims []Claim
	for rows.Next() {
		var c Claim
		if err := rows.Scan(&c.ID, &c.ItemID, &c.ParticipantID, &c.QuantityClaimed, &c.ShareCount); err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", database.Unavailable(err))
		}
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate claims: %w", database.Unavailable(err))
	}

	return claims, nil
}

// UpsertClaim stores or replaces the (item, participant) claim as ONE
// conditional statement: the insert only fires while the remaining pool,
// with this participant's prior draw returned, covers the requested draw.
// Two racing claimants therefore cannot oversubscribe the item. Returns
// false when the guard rejected the write.
func (r *Repository) UpsertClaim(ctx context.Context, c *Claim) (bool, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	// The guard compares fractional unit draws (quantity/share); a half-grain
	// epsilon absorbs numeric division noise since share counts are small.
	query := `
		INSERT INTO claims (id, item_id, participant_id, quantity_claimed, share_count)
		SELECT $1, $2, $3, $4, $5
		WHERE (
			SELECT li.quantity - COALESCE(SUM(cl.quantity_claimed::numeric / cl.share_count), 0)
			FROM line_items li
			LEFT JOIN claims cl ON cl.item_id = li.id AND cl.participant_id <> $3
			WHERE li.id = $2
			GROUP BY li.quantity
		) >= $4::numeric / $5 - 0.0001
		ON CONFLICT (item_id, participant_id)
		DO UPDATE SET quantity_claimed = EXCLUDED.quantity_claimed, share_count = EXCLUDED.share_count
	`

	result, err := r.db.ExecContext(ctx, query, c.ID, c.ItemID, c.ParticipantID, c.QuantityClaimed, c.ShareCount)
	if err != nil {
		return false, fmt.Errorf("failed to upsert claim: %w", database.Unavailable(err))
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// DeleteClaim releases a participant's claim on an item. Deleting an absent
// claim is a no-op.
func (r *Repository) DeleteClaim(ctx context.Context, itemID, participantID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM claims WHERE item_id = $1 AND participant_id = $2`,
		itemID, participantID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete claim: %w", database.Unavailable(err))
	}
	return nil
}
