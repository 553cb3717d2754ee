package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/vbonduro/pantrypal/internal/domain"
)

type PhotoStore struct {
	db *sql.DB
}

func NewPhotoStore(db *sql.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

func (s *PhotoStore) Create(ctx context.Context, userID string, zoneID int64, storageKey, mimeType string) (*domain.Photo, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO photos (user_id, zone_id, storage_key, mime_type) VALUES (?, ?, ?, ?)
	`, userID, zoneID, storageKey, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	photo := &domain.Photo{}
	err = s.db.QueryRowContext(ctx, `
		SELECT id, user_id, zone_id, storage_key, mime_type, uploaded_at FROM photos WHERE id = ?
	`, id).Scan(&photo.ID, &photo.UserID, &photo.ZoneID, &photo.StorageKey, &photo.MimeType, &photo.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return photo, nil
}

func (s *PhotoStore) GetLatestByZone(ctx context.Context, userID string, zoneID int64) (*domain.Photo, error) {
	photo := &domain.Photo{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, zone_id, storage_key, mime_type, uploaded_at FROM photos
		WHERE user_id = ? AND zone_id = ? ORDER BY id DESC LIMIT 1
	`, userID, zoneID).Scan(&photo.ID, &photo.UserID, &photo.ZoneID, &photo.StorageKey, &photo.MimeType, &photo.UploadedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}

	return photo, nil
}

// DeleteByZone removes every photo record of the zone and returns them so
// the caller can remove the stored files.
func (s *PhotoStore) DeleteByZone(ctx context.Context, userID string, zoneID int64) ([]*domain.Photo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, zone_id, storage_key, mime_type, uploaded_at FROM photos
		WHERE user_id = ? AND zone_id = ?
	`, userID, zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}

	var photos []*domain.Photo
	for rows.Next() {
		photo := &domain.Photo{}
		if err := rows.Scan(&photo.ID, &photo.UserID, &photo.ZoneID, &photo.StorageKey, &photo.MimeType, &photo.UploadedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM photos WHERE user_id = ? AND zone_id = ?
	`, userID, zoneID); err != nil {
		return nil, fmt.Errorf("failed to delete photos for zone: %w", err)
	}

	return photos, nil
}

func (s *PhotoStore) Delete(ctx context.Context, userID string, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM photos WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return expectOneRow(result, "photo")
}
