package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/vbonduro/pantrypal/internal/auth"
	"github.com/vbonduro/pantrypal/internal/domain"
)

const sessionCookie = "pantrypal_session"

type ctxKey int

const userKey ctxKey = iota

// sessionToken returns the bearer token, falling back to the session cookie.
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// requireUser rejects requests without a live session and otherwise passes
// the signed-in user to next through the request context.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.auth.Authenticate(r.Context(), sessionToken(r))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey, *user)))
	}
}

func userFrom(ctx context.Context) domain.AuthUser {
	u, _ := ctx.Value(userKey).(domain.AuthUser)
	return u
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, in *auth.SignedIn) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    in.Token,
		Path:     "/",
		Expires:  in.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
