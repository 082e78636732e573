package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/praxiskit/praxis_backend/config"
	pasetotoken "github.com/praxiskit/praxis_backend/pkg/paseto"
	"github.com/praxiskit/praxis_backend/pkg/util/password"
)

// redisKeySession returns the Redis key for a session record.
func redisKeySession(sessionID string) string { return "session:" + sessionID }

// directoryEntry is one account of the compiled-in user directory.
type directoryEntry struct {
	user User
	hash string // argon2id PHC string
}

// Store is the Redis-backed Provider implementation. Session records live
// in Redis under a TTL; the cookie token is a PASETO carrying the session
// id. Sessions past half of their lifetime are refreshed on access: the TTL
// is reset and a fresh token is issued for the verifier to write back.
type Store struct {
	rdb    *redis.Client
	tokens *pasetotoken.Manager
	ttl    time.Duration
	users  map[string]directoryEntry // keyed by lower-cased email
	logger *slog.Logger
}

func NewStore(rdb *redis.Client, tokens *pasetotoken.Manager, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	users := make(map[string]directoryEntry, len(cfg.Users))
	for _, u := range cfg.Users {
		id, err := uuid.Parse(u.ID)
		if err != nil {
			return nil, fmt.Errorf("identity: user %q has invalid id: %w", u.Email, err)
		}
		key := strings.ToLower(u.Email)
		if _, dup := users[key]; dup {
			return nil, fmt.Errorf("identity: duplicate user %q", u.Email)
		}
		users[key] = directoryEntry{
			user: User{ID: id, Email: u.Email},
			hash: u.PasswordHash,
		}
	}

	return &Store{
		rdb:    rdb,
		tokens: tokens,
		ttl:    time.Duration(cfg.Session.TTLMinutes) * time.Minute,
		users:  users,
		logger: logger,
	}, nil
}

// sessionRecord is the JSON payload stored in Redis per session.
type sessionRecord struct {
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Store) Login(ctx context.Context, email, pass string) (*Session, error) {
	entry, ok := s.users[strings.ToLower(email)]
	if !ok || !password.Match(entry.hash, pass) {
		return nil, ErrBadCredentials
	}

	sessionID := uuid.New()
	rec := sessionRecord{User: entry.user, CreatedAt: time.Now()}

	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("identity: marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKeySession(sessionID.String()), payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("identity: store session: %w", err)
	}

	token, err := s.tokens.Issue(sessionID, entry.user.ID)
	if err != nil {
		return nil, fmt.Errorf("identity: issue token: %w", err)
	}

	return &Session{
		ID:        sessionID,
		User:      entry.user,
		Token:     token,
		ExpiresAt: time.Now().Add(s.ttl),
	}, nil
}

func (s *Store) GetUser(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		var invalid pasetotoken.ErrInvalidToken
		if errors.As(err, &invalid) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("identity: verify token: %w", err)
	}

	key := redisKeySession(claims.SessionID.String())

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("identity: load session: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("identity: decode session: %w", err)
	}

	sess := &Session{
		ID:    claims.SessionID,
		User:  rec.User,
		Token: token,
	}

	remaining, err := s.rdb.TTL(ctx, key).Result()
	if err != nil {
		// Refresh is best effort; the session itself already resolved.
		s.logger.Warn("session ttl lookup failed", "error", err)
		return sess, nil
	}
	sess.ExpiresAt = time.Now().Add(remaining)

	// Sliding expiry: extend sessions past half of their lifetime and
	// re-issue the cookie token so the client keeps a fresh one.
	if remaining > 0 && remaining < s.ttl/2 {
		if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
			s.logger.Warn("session refresh failed", "error", err)
			return sess, nil
		}
		fresh, err := s.tokens.Issue(claims.SessionID, rec.User.ID)
		if err != nil {
			s.logger.Warn("session token re-issue failed", "error", err)
			return sess, nil
		}
		sess.Token = fresh
		sess.Refreshed = true
		sess.ExpiresAt = time.Now().Add(s.ttl)
	}

	return sess, nil
}

func (s *Store) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil
	}

	if err := s.rdb.Del(ctx, redisKeySession(claims.SessionID.String())).Err(); err != nil {
		return fmt.Errorf("identity: delete session: %w", err)
	}
	return nil
}
