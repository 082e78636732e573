package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is an account known to the identity provider.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Session is the result of resolving a session cookie token.
type Session struct {
	ID   uuid.UUID
	User User

	// Token is the current cookie value. When Refreshed is true the
	// provider re-issued it and the caller must write it back to the
	// client.
	Token     string
	Refreshed bool

	ExpiresAt time.Time
}

// Provider is the identity collaborator the session verifier calls. A nil
// or failing provider must never crash the edge pipeline; the verifier maps
// provider failures to a login redirect.
type Provider interface {
	// GetUser resolves a session cookie token into the session it belongs
	// to, transparently extending sessions that are close to expiry.
	// Returns ErrNoSession or ErrSessionExpired for clean authentication
	// failures; any other error is a provider failure.
	GetUser(ctx context.Context, token string) (*Session, error)

	// Login authenticates credentials and creates a new session.
	// Returns ErrBadCredentials when they don't match a known user.
	Login(ctx context.Context, email, password string) (*Session, error)

	// Logout destroys the session the token points at. Resolving an
	// already-gone session is not an error.
	Logout(ctx context.Context, token string) error
}
