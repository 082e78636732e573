package reqctx

import (
	"context"

	"github.com/google/uuid"
)

// User is the verified identity attached by the session verifier.
type User struct {
	// ID is the user's ID from the identity provider.
	ID uuid.UUID

	// Email is the user's login email.
	Email string
}

// WithUser stores the verified user identity in the context.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, keyUser, user)
}

// UserFromContext retrieves the verified user identity from the context.
// Returns nil, false for unauthenticated requests.
func UserFromContext(ctx context.Context) (*User, bool) {
	v := ctx.Value(keyUser)
	if v == nil {
		return nil, false
	}
	user, ok := v.(*User)
	return user, ok
}

// IsAuthenticated returns true if a verified user identity is present.
func IsAuthenticated(ctx context.Context) bool {
	user, ok := UserFromContext(ctx)
	return ok && user != nil
}
