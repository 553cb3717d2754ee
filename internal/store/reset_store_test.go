package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/pantrypal/internal/domain"
)

var resetNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestResetStoreLookupDoesNotSpend(t *testing.T) {
	d := openTestDB(t)
	userID := createUser(t, d, "jo@example.com")
	resets := NewResetStore(d)
	ctx := context.Background()

	require.NoError(t, resets.Create(ctx, "hash", userID, resetNow.Add(time.Hour)))

	for range 2 {
		got, err := resets.Lookup(ctx, "hash", resetNow)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	}

	got, err := resets.Lookup(ctx, "unknown", resetNow)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResetStoreRedeem(t *testing.T) {
	d := openTestDB(t)
	userID := createUser(t, d, "jo@example.com")
	resets := NewResetStore(d)
	sessions := NewSessionStore(d)
	ctx := context.Background()

	require.NoError(t, sessions.Create(ctx, &domain.Session{ID: "s1", UserID: userID, ExpiresAt: resetNow.Add(time.Hour)}))
	require.NoError(t, resets.Create(ctx, "hash", userID, resetNow.Add(time.Hour)))

	got, err := resets.Redeem(ctx, "hash", "new-hash", resetNow)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	user, err := NewUserStore(d).GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", user.PasswordHash)

	session, err := sessions.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, session, "redeeming ends every session")

	// Single use.
	got, err = resets.Redeem(ctx, "hash", "other-hash", resetNow)
	require.NoError(t, err)
	assert.Empty(t, got)
	user, err = NewUserStore(d).GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", user.PasswordHash)
}

func TestResetStoreRedeem_Expired(t *testing.T) {
	d := openTestDB(t)
	userID := createUser(t, d, "jo@example.com")
	resets := NewResetStore(d)
	ctx := context.Background()

	require.NoError(t, resets.Create(ctx, "hash", userID, resetNow.Add(-time.Minute)))

	got, err := resets.Lookup(ctx, "hash", resetNow)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = resets.Redeem(ctx, "hash", "new-hash", resetNow)
	require.NoError(t, err)
	assert.Empty(t, got)

	user, err := NewUserStore(d).GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "hash", user.PasswordHash, "an expired token changes nothing")
}
