package pasetotoken

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()

	m, err := New(Config{
		Issuer:   "praxis_backend",
		Audience: "praxis_portal",
		TTL:      ttl,
	}, NewKeyHex())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestNew_RequiresIssuerAndAudience(t *testing.T) {
	key := NewKeyHex()

	if _, err := New(Config{Audience: "a"}, key); err == nil {
		t.Error("expected error for missing issuer")
	}
	if _, err := New(Config{Issuer: "i"}, key); err == nil {
		t.Error("expected error for missing audience")
	}
	if _, err := New(Config{Issuer: "i", Audience: "a"}, "not-hex"); err == nil {
		t.Error("expected error for invalid key hex")
	}
}

func TestIssueVerify(t *testing.T) {
	m := newTestManager(t, time.Hour)

	sid := uuid.New()
	uid := uuid.New()

	token, err := m.Issue(sid, uid)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if claims.SessionID != sid {
		t.Errorf("SessionID = %s, want %s", claims.SessionID, sid)
	}
	if claims.UserID != uid {
		t.Errorf("UserID = %s, want %s", claims.UserID, uid)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt) {
		t.Errorf("ExpiresAt %v must be after IssuedAt %v", claims.ExpiresAt, claims.IssuedAt)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	m1 := newTestManager(t, time.Hour)
	m2 := newTestManager(t, time.Hour)

	token, err := m1.Issue(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = m2.Verify(token)
	if err == nil {
		t.Fatal("expected verification failure with a different key")
	}

	var invalid ErrInvalidToken
	if !errors.As(err, &invalid) {
		t.Errorf("expected ErrInvalidToken, got %T", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	m := newTestManager(t, time.Hour)

	if _, err := m.Verify("v4.local.garbage"); err == nil {
		t.Error("expected error for malformed token")
	}
}
