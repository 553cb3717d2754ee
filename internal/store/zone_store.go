package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/pantrypal/internal/domain"
)

type ZoneStore struct {
	db *sql.DB
}

func NewZoneStore(db *sql.DB) *ZoneStore {
	return &ZoneStore{db: db}
}

func (s *ZoneStore) Create(ctx context.Context, userID, name string) (*domain.Zone, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO zones (user_id, name) VALUES (?, ?)
	`, userID, name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create zone: %w", domain.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create zone: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, userID, id)
}

func (s *ZoneStore) GetByID(ctx context.Context, userID string, id int64) (*domain.Zone, error) {
	zone := &domain.Zone{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at, updated_at FROM zones WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&zone.ID, &zone.UserID, &zone.Name, &zone.CreatedAt, &zone.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}

	return zone, nil
}

func (s *ZoneStore) List(ctx context.Context, userID string) ([]*domain.Zone, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, created_at, updated_at FROM zones
		WHERE user_id = ? ORDER BY name COLLATE NOCASE ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var zones []*domain.Zone
	for rows.Next() {
		zone := &domain.Zone{}
		if err := rows.Scan(&zone.ID, &zone.UserID, &zone.Name, &zone.CreatedAt, &zone.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan zone: %w", err)
		}
		zones = append(zones, zone)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating zones: %w", err)
	}

	return zones, nil
}

func (s *ZoneStore) Rename(ctx context.Context, userID string, id int64, name string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE zones SET name = ?, updated_at = datetime('now') WHERE id = ? AND user_id = ?
	`, name, id, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to rename zone: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("failed to rename zone: %w", err)
	}
	return expectOneRow(result, "zone")
}

func (s *ZoneStore) Delete(ctx context.Context, userID string, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM zones WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete zone: %w", err)
	}
	return expectOneRow(result, "zone")
}

// expectOneRow turns a zero-row write into domain.ErrNotFound.
func expectOneRow(result sql.Result, what string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %w", what, domain.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
