package mailer

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordResetEmail(t *testing.T) {
	subject, body := PasswordResetEmail("https://pantry.example/reset?token=abc")
	assert.Equal(t, "Reset your PantryPal password", subject)
	assert.Contains(t, body, "https://pantry.example/reset?token=abc")
	assert.Contains(t, body, "one hour")
}

func TestLogMailerSend(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	require.NoError(t, m.Send(context.Background(), "cook@example.com", "hi", "secret link token=abc"))
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "to=cook@example.com")
	assert.NotContains(t, buf.String(), "token=abc", "the body carries a live reset link")
}

func TestLogMailerSilentAtInfo(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, m.Send(context.Background(), "cook@example.com", "hi", "body"))
	assert.Empty(t, buf.String())
}
