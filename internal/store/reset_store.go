package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ResetStore keeps hashed password-reset tokens.
type ResetStore struct {
	db *sql.DB
}

func NewResetStore(db *sql.DB) *ResetStore {
	return &ResetStore{db: db}
}

func (s *ResetStore) Create(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO password_resets (token_hash, user_id, expires_at) VALUES (?, ?, ?)
	`, tokenHash, userID, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create password reset: %w", err)
	}
	return nil
}

// Lookup returns the user ID of a live token without spending it, or "" when
// the token is unknown or expired at now.
func (s *ResetStore) Lookup(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	return lookupReset(ctx, s.db, tokenHash, now)
}

// Redeem spends the token, sets the user's password hash and ends all of the
// user's sessions in one transaction. It returns "" without changing anything
// when the token is unknown or expired at now.
func (s *ResetStore) Redeem(ctx context.Context, tokenHash, passwordHash string, now time.Time) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	userID, err := lookupReset(ctx, tx, tokenHash, now)
	if err != nil || userID == "" {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, userID); err != nil {
		return "", fmt.Errorf("failed to update password: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return "", fmt.Errorf("failed to delete sessions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM password_resets WHERE token_hash = ?`, tokenHash); err != nil {
		return "", fmt.Errorf("failed to delete password reset: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit password reset: %w", err)
	}
	return userID, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func lookupReset(ctx context.Context, q queryRower, tokenHash string, now time.Time) (string, error) {
	var userID string
	var expiresAt time.Time
	err := q.QueryRowContext(ctx, `
		SELECT user_id, expires_at FROM password_resets WHERE token_hash = ?
	`, tokenHash).Scan(&userID, &expiresAt)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get password reset: %w", err)
	}
	if !expiresAt.After(now) {
		return "", nil
	}
	return userID, nil
}
