package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/praxiskit/praxis_backend/config"
	"github.com/praxiskit/praxis_backend/internal/identity"
)

// AuthState tags the result of session verification.
type AuthState int

const (
	// AuthAuthenticated means a valid session resolved to a user.
	AuthAuthenticated AuthState = iota

	// AuthUnauthenticated means there was no usable session. The request
	// is redirected to login with a redirectTo parameter.
	AuthUnauthenticated

	// AuthProviderError means the identity provider itself failed. The
	// request degrades to the same login redirect, distinguishable only
	// in logs and traces.
	AuthProviderError
)

// AuthOutcome is the tagged result of verifying a session. Exactly one of
// User (Authenticated), Reason (Unauthenticated), or Err (ProviderError)
// is meaningful, selected by State.
type AuthOutcome struct {
	State  AuthState
	User   *identity.User
	Reason string
	Err    error
}

// SessionVerifier resolves the session cookie against the identity
// provider and owns the cookie read/write side effects, including writing
// back transparently refreshed sessions.
type SessionVerifier struct {
	provider     identity.Provider
	cookieName   string
	cookieSecure bool
	ttl          time.Duration
	logger       *slog.Logger
}

func NewSessionVerifier(provider identity.Provider, cfg config.SessionConfig, logger *slog.Logger) *SessionVerifier {
	return &SessionVerifier{
		provider:     provider,
		cookieName:   cfg.CookieName,
		cookieSecure: cfg.CookieSecure,
		ttl:          time.Duration(cfg.TTLMinutes) * time.Minute,
		logger:       logger,
	}
}

// Verify reads the session cookie, asks the provider for the user, and
// refreshes the cookie when the provider extended the session. Provider
// failures, including panics, are contained here: nothing escapes to
// crash the pipeline.
func (v *SessionVerifier) Verify(c fiber.Ctx) (out AuthOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = AuthOutcome{State: AuthProviderError, Err: fmt.Errorf("session verifier panic: %v", r)}
		}
	}()

	if v.provider == nil {
		return AuthOutcome{State: AuthProviderError, Err: errors.New("no identity provider configured")}
	}

	token := c.Cookies(v.cookieName)

	sess, err := v.provider.GetUser(c.Context(), token)
	switch {
	case err == nil:
		if sess.Refreshed {
			v.WriteCookie(c, sess.Token)
		}
		return AuthOutcome{State: AuthAuthenticated, User: &sess.User}

	case errors.Is(err, identity.ErrNoSession), errors.Is(err, identity.ErrSessionExpired):
		return AuthOutcome{State: AuthUnauthenticated, Reason: err.Error()}

	default:
		return AuthOutcome{State: AuthProviderError, Err: err}
	}
}

// WriteCookie sets the session cookie on the outgoing response. Shared
// with the login handler so cookie attributes stay consistent.
func (v *SessionVerifier) WriteCookie(c fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     v.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(v.ttl.Seconds()),
		HTTPOnly: true,
		Secure:   v.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (v *SessionVerifier) ClearCookie(c fiber.Ctx) {
	c.ClearCookie(v.cookieName)
}

// CookieName exposes the configured cookie name for handlers that read
// the raw token (logout).
func (v *SessionVerifier) CookieName() string {
	return v.cookieName
}
