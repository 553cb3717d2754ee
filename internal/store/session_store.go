package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vbonduro/pantrypal/internal/domain"
)

// SessionStore persists issued sessions so tokens can be revoked on sign-out.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)
	`, session.ID, session.UserID, session.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	session := &domain.Session{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, expires_at FROM sessions WHERE id = ?
	`, id).Scan(&session.ID, &session.UserID, &session.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired prunes the user's sessions that expired before now.
func (s *SessionStore) DeleteExpired(ctx context.Context, userID string, now time.Time) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, expires_at FROM sessions WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	var expired []string
	for rows.Next() {
		var id string
		var expiresAt time.Time
		if err := rows.Scan(&id, &expiresAt); err != nil {
			_ = rows.Close()
			return fmt.Errorf("failed to scan session: %w", err)
		}
		if !expiresAt.After(now) {
			expired = append(expired, id)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("error iterating sessions: %w", err)
	}
	_ = rows.Close()

	for _, id := range expired {
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
