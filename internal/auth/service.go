package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vbonduro/pantrypal/internal/domain"
	"github.com/vbonduro/pantrypal/internal/mailer"
)

const (
	minPasswordLen   = 6
	// maxPasswordBytes is bcrypt's input limit.
	maxPasswordBytes = 72
	resetTTL         = time.Hour
)

// Messages shown to the user. They mirror the wording of the hosted auth
// backend the mobile client was written against.
const (
	MsgLoginRequired     = "Email and password are required."
	MsgSignUpRequired    = "All fields are required."
	MsgPasswordTooShort  = "Password must be at least 6 characters."
	MsgPasswordTooLong   = "Password must be at most 72 bytes."
	MsgPasswordMismatch  = "Passwords do not match."
	MsgBadEmail          = "The email address is badly formatted."
	MsgEmailInUse        = "The email address is already in use by another account."
	MsgBadCredentials    = "The supplied auth credential is incorrect, malformed or has expired."
	MsgResetEmailMissing = "Please enter your email."
	MsgResetSent         = "Password reset email sent."
	MsgNoSuchUser        = "There is no user record corresponding to this identifier. The user may have been deleted."
	MsgResetLinkInvalid  = "The password reset link is invalid or has expired."
	MsgNotSignedIn       = "User not logged in"
	MsgSignInFailed      = "Sign in failed"
	MsgSignUpFailed      = "Sign up failed"
	MsgResetFailed       = "Failed to send reset email."
)

type userRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type sessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, userID string, now time.Time) error
}

type resetRepository interface {
	Create(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error
	Lookup(ctx context.Context, tokenHash string, now time.Time) (string, error)
	Redeem(ctx context.Context, tokenHash, passwordHash string, now time.Time) (string, error)
}

// SignedIn is the result of a successful sign-in or sign-up.
type SignedIn struct {
	Token     string
	User      domain.AuthUser
	ExpiresAt time.Time
}

type Service struct {
	users    userRepository
	sessions sessionRepository
	resets   resetRepository
	tokens   *TokenIssuer
	mail     mailer.Mailer
	resetURL string
	validate *validator.Validate
	now      func() time.Time
	logger   *slog.Logger
}

func NewService(
	users userRepository,
	sessions sessionRepository,
	resets resetRepository,
	tokens *TokenIssuer,
	mail mailer.Mailer,
	resetURL string,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		resets:   resets,
		tokens:   tokens,
		mail:     mail,
		resetURL: resetURL,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		logger:   logger,
	}
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*SignedIn, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, domain.Invalid(MsgLoginRequired)
	}
	if err := checkPasswordLength(password); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.Failed(MsgSignInFailed, err)
	}
	if user == nil {
		return nil, domain.Unauthorized(MsgBadCredentials)
	}
	ok, err := PasswordMatches(user.PasswordHash, password)
	if err != nil {
		return nil, domain.Failed(MsgSignInFailed, err)
	}
	if !ok {
		s.logger.Info("sign in rejected", "user_id", user.ID)
		return nil, domain.Unauthorized(MsgBadCredentials)
	}

	if err := s.sessions.DeleteExpired(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("failed to prune sessions", "user_id", user.ID, "error", err)
	}
	return s.startSession(ctx, user, MsgSignInFailed)
}

func (s *Service) SignUp(ctx context.Context, email, password, confirm string) (*SignedIn, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" || strings.TrimSpace(confirm) == "" {
		return nil, domain.Invalid(MsgSignUpRequired)
	}
	if err := checkPasswordLength(password); err != nil {
		return nil, err
	}
	if password != confirm {
		return nil, domain.Invalid(MsgPasswordMismatch)
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, domain.Invalid(MsgBadEmail)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, domain.Failed(MsgSignUpFailed, err)
	}
	user, err := s.users.Create(ctx, email, hash)
	if errors.Is(err, domain.ErrDuplicate) {
		return nil, domain.Conflict(MsgEmailInUse)
	}
	if err != nil {
		return nil, domain.Failed(MsgSignUpFailed, err)
	}
	s.logger.Info("user signed up", "user_id", user.ID)

	return s.startSession(ctx, user, MsgSignUpFailed)
}

func (s *Service) startSession(ctx context.Context, user *domain.User, failMsg string) (*SignedIn, error) {
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.tokens.TTL()).UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, domain.Failed(failMsg, err)
	}
	token, err := s.tokens.Issue(user.ID, session.ID, session.ExpiresAt)
	if err != nil {
		return nil, domain.Failed(failMsg, err)
	}
	return &SignedIn{
		Token:     token,
		User:      domain.AuthUser{ID: user.ID, Email: user.Email},
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Authenticate resolves a session token to its user. Tokens whose session
// was signed out or expired are rejected.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.AuthUser, error) {
	if token == "" {
		return nil, domain.Unauthorized(MsgNotSignedIn)
	}
	userID, sessionID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, domain.Unauthorized(MsgNotSignedIn)
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, domain.Failed(MsgNotSignedIn, err)
	}
	if session == nil || session.UserID != userID || !session.ExpiresAt.After(s.now()) {
		return nil, domain.Unauthorized(MsgNotSignedIn)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.Failed(MsgNotSignedIn, err)
	}
	if user == nil {
		return nil, domain.Unauthorized(MsgNotSignedIn)
	}
	return &domain.AuthUser{ID: user.ID, Email: user.Email}, nil
}

// SignOut ends the token's session. Unknown or already-invalid tokens are
// ignored.
func (s *Service) SignOut(ctx context.Context, token string) error {
	_, sessionID, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return domain.Failed("Sign out failed", err)
	}
	return nil
}

// SendPasswordReset mails a single-use reset link to the account's address
// and returns the confirmation message to display.
func (s *Service) SendPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", domain.Invalid(MsgResetEmailMissing)
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return "", domain.Invalid(MsgBadEmail)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", domain.Failed(MsgResetFailed, err)
	}
	if user == nil {
		return "", domain.NotFound(MsgNoSuchUser)
	}

	token := uuid.NewString()
	if err := s.resets.Create(ctx, hashResetToken(token), user.ID, s.now().Add(resetTTL)); err != nil {
		return "", domain.Failed(MsgResetFailed, err)
	}

	subject, body := mailer.PasswordResetEmail(s.resetLink(token))
	if err := s.mail.Send(ctx, user.Email, subject, body); err != nil {
		return "", domain.Failed(MsgResetFailed, err)
	}
	s.logger.Info("password reset requested", "user_id", user.ID)
	return MsgResetSent, nil
}

// ResetPassword sets a new password using a token from SendPasswordReset and
// signs the user out everywhere. The token is spent only if the password
// change commits.
func (s *Service) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if strings.TrimSpace(token) == "" {
		return domain.Invalid(MsgResetLinkInvalid)
	}
	if strings.TrimSpace(password) == "" || strings.TrimSpace(confirm) == "" {
		return domain.Invalid(MsgSignUpRequired)
	}
	if err := checkPasswordLength(password); err != nil {
		return err
	}
	if password != confirm {
		return domain.Invalid(MsgPasswordMismatch)
	}

	tokenHash := hashResetToken(token)
	userID, err := s.resets.Lookup(ctx, tokenHash, s.now())
	if err != nil {
		return domain.Failed(MsgResetFailed, err)
	}
	if userID == "" {
		return domain.Invalid(MsgResetLinkInvalid)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return domain.Failed(MsgResetFailed, err)
	}
	userID, err = s.resets.Redeem(ctx, tokenHash, hash, s.now())
	if err != nil {
		return domain.Failed(MsgResetFailed, err)
	}
	if userID == "" {
		return domain.Invalid(MsgResetLinkInvalid)
	}
	s.logger.Info("password reset", "user_id", userID)
	return nil
}

// checkPasswordLength counts characters for the minimum and bytes for
// bcrypt's maximum.
func checkPasswordLength(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return domain.Invalid(MsgPasswordTooShort)
	}
	if len(password) > maxPasswordBytes {
		return domain.Invalid(MsgPasswordTooLong)
	}
	return nil
}

func (s *Service) resetLink(token string) string {
	u, err := url.Parse(s.resetURL)
	if err != nil {
		return fmt.Sprintf("%s?token=%s", s.resetURL, url.QueryEscape(token))
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// SignedInAs is the profile screen's greeting for u.
func SignedInAs(u domain.AuthUser) string {
	return "Signed in as: " + u.Email
}
