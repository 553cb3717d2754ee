package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/pantrypal/internal/domain"
)

const itemColumns = `id, user_id, zone_id, photo_id, name, quantity, expiry_date, created_at, updated_at`

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

func (s *ItemStore) Create(ctx context.Context, userID string, f domain.ItemFields) (*domain.Item, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO items (user_id, zone_id, photo_id, name, quantity, expiry_date) VALUES (?, ?, ?, ?, ?, ?)
	`, userID, f.ZoneID, f.PhotoID, f.Name, f.Quantity, formatDate(f.ExpiryDate))
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, userID, id)
}

func (s *ItemStore) GetByID(ctx context.Context, userID string, id int64) (*domain.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM items WHERE id = ? AND user_id = ?
	`, id, userID)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// ListByUser returns every item the user owns in insertion order.
func (s *ItemStore) ListByUser(ctx context.Context, userID string) ([]*domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM items WHERE user_id = ? ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

func (s *ItemStore) CountByZone(ctx context.Context, userID string, zoneID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM items WHERE user_id = ? AND zone_id = ?
	`, userID, zoneID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return n, nil
}

// Update overwrites the editable fields. PhotoID is left untouched.
func (s *ItemStore) Update(ctx context.Context, userID string, id int64, f domain.ItemFields) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE items SET name = ?, quantity = ?, expiry_date = ?, zone_id = ?, updated_at = datetime('now')
		WHERE id = ? AND user_id = ?
	`, f.Name, f.Quantity, formatDate(f.ExpiryDate), f.ZoneID, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return expectOneRow(result, "item")
}

func (s *ItemStore) Delete(ctx context.Context, userID string, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM items WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return expectOneRow(result, "item")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	item := &domain.Item{}
	var expiry sql.NullString
	if err := row.Scan(&item.ID, &item.UserID, &item.ZoneID, &item.PhotoID, &item.Name,
		&item.Quantity, &expiry, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if expiry.Valid && expiry.String != "" {
		d, err := time.Parse(domain.DateLayout, expiry.String)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry date %q: %w", expiry.String, err)
		}
		item.ExpiryDate = &d
	}
	return item, nil
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(domain.DateLayout)
}
