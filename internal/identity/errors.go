package identity

import "errors"

var (
	// ErrNoSession means the token was missing, malformed, or points at a
	// session that does not exist.
	ErrNoSession = errors.New("no session")

	// ErrSessionExpired means the session record's lifetime ran out.
	ErrSessionExpired = errors.New("session expired")

	// ErrBadCredentials means the email/password pair did not match a
	// known user.
	ErrBadCredentials = errors.New("bad credentials")
)
