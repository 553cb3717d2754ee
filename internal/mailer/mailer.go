package mailer

import (
	"context"
	"fmt"
	"log/slog"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer drops outgoing mail, noting only recipient and subject at debug
// level. It is the development fallback when no SMTP host is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, _ string) error {
	m.logger.DebugContext(ctx, "email not delivered: no SMTP host configured", "to", to, "subject", subject)
	return nil
}

// PasswordResetEmail renders the subject and body of a reset mail.
func PasswordResetEmail(link string) (subject, body string) {
	subject = "Reset your PantryPal password"
	body = fmt.Sprintf(
		"Someone asked to reset the password for your PantryPal account.\n\n"+
			"Follow this link to choose a new password:\n%s\n\n"+
			"The link expires in one hour. If you did not ask for this, ignore this email.",
		link,
	)
	return subject, body
}
