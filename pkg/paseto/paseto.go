package pasetotoken

import (
	"time"

	paseto "aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

// Config holds the session-token settings.
type Config struct {
	Issuer   string
	Audience string

	// TTL is how long an issued session token stays valid. The Redis
	// session record carries its own TTL; the token TTL only has to
	// outlive one refresh interval.
	TTL time.Duration

	Implicit []byte
}

// SessionClaims is the app-facing payload of a session cookie token.
type SessionClaims struct {
	SessionID uuid.UUID
	UserID    uuid.UUID

	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Manager issues and verifies v4.local PASETO session tokens. The token is
// the session cookie's value; it carries the session id that the identity
// provider resolves against its session store.
type Manager struct {
	cfg   Config
	key   paseto.V4SymmetricKey
	parse paseto.Parser
}

func New(cfg Config, keyHex string) (*Manager, error) {
	if cfg.Issuer == "" {
		return nil, ErrConfig{Msg: "Issuer is required"}
	}
	if cfg.Audience == "" {
		return nil, ErrConfig{Msg: "Audience is required"}
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}

	key, err := paseto.V4SymmetricKeyFromHex(keyHex)
	if err != nil {
		return nil, ErrConfig{Msg: "invalid symmetric key hex: " + err.Error()}
	}

	p := paseto.NewParser()
	p.AddRule(paseto.IssuedBy(cfg.Issuer))
	p.AddRule(paseto.ForAudience(cfg.Audience))
	p.AddRule(paseto.NotExpired())

	return &Manager{cfg: cfg, key: key, parse: p}, nil
}

// Issue creates a session token bound to the given session and user.
func (m *Manager) Issue(sessionID, userID uuid.UUID) (string, error) {
	now := time.Now()

	tok := paseto.NewToken()
	tok.SetIssuer(m.cfg.Issuer)
	tok.SetAudience(m.cfg.Audience)
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetExpiration(now.Add(m.cfg.TTL))
	tok.SetSubject(userID.String())

	tok.SetString("sid", sessionID.String())
	tok.SetString("uid", userID.String())

	return tok.V4Encrypt(m.key, m.cfg.Implicit), nil
}

// Verify decrypts and validates a session token and extracts its claims.
func (m *Manager) Verify(tokenStr string) (*SessionClaims, error) {
	tok, err := m.parse.ParseV4Local(m.key, tokenStr, m.cfg.Implicit)
	if err != nil {
		return nil, ErrInvalidToken{Err: err}
	}

	claims, err := extractClaims(tok)
	if err != nil {
		return nil, ErrInvalidToken{Err: err}
	}

	return claims, nil
}

// TTL reports the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}

func extractClaims(tok *paseto.Token) (*SessionClaims, error) {
	sidStr, err := tok.GetString("sid")
	if err != nil {
		return nil, err
	}
	sid, err := uuid.Parse(sidStr)
	if err != nil {
		return nil, err
	}

	uidStr, err := tok.GetString("uid")
	if err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(uidStr)
	if err != nil {
		return nil, err
	}

	iat, err := tok.GetIssuedAt()
	if err != nil {
		return nil, err
	}
	exp, err := tok.GetExpiration()
	if err != nil {
		return nil, err
	}

	return &SessionClaims{
		SessionID: sid,
		UserID:    uid,
		IssuedAt:  iat,
		ExpiresAt: exp,
	}, nil
}

// NewKeyHex generates a fresh 32-byte symmetric key as a hex string, for
// the `system keygen` command.
func NewKeyHex() string {
	return paseto.NewV4SymmetricKey().ExportHex()
}
