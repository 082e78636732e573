package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/praxiskit/praxis_backend/config"
	"github.com/praxiskit/praxis_backend/internal/identity"
)

// fakeProvider serves canned sessions keyed by token. A non-nil err wins
// over the session map; panicOn makes GetUser panic for that token.
type fakeProvider struct {
	sessions map[string]*identity.Session
	err      error
	panicOn  string
}

func (f *fakeProvider) GetUser(_ context.Context, token string) (*identity.Session, error) {
	if f.panicOn != "" && token == f.panicOn {
		panic("provider blew up")
	}
	if f.err != nil {
		return nil, f.err
	}
	sess, ok := f.sessions[token]
	if !ok {
		return nil, identity.ErrNoSession
	}
	return sess, nil
}

func (f *fakeProvider) Login(context.Context, string, string) (*identity.Session, error) {
	return nil, identity.ErrBadCredentials
}

func (f *fakeProvider) Logout(context.Context, string) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSessionConfig() config.SessionConfig {
	cfg := &config.Config{}
	cfg.Validate()
	return cfg.Session
}

// verifyThrough runs Verify inside a real request so cookie reads and
// writes go through Fiber.
func verifyThrough(t *testing.T, v *SessionVerifier, cookie string) (AuthOutcome, *http.Response) {
	t.Helper()

	var out AuthOutcome
	app := fiber.New()
	app.Get("/probe", func(c fiber.Ctx) error {
		out = v.Verify(c)
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/probe", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: v.CookieName(), Value: cookie})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return out, resp
}

func TestVerifyNoCookie(t *testing.T) {
	v := NewSessionVerifier(&fakeProvider{}, testSessionConfig(), discardLogger())

	out, resp := verifyThrough(t, v, "")
	defer resp.Body.Close()

	if out.State != AuthUnauthenticated {
		t.Fatalf("State = %v, want AuthUnauthenticated", out.State)
	}
	if out.Reason == "" {
		t.Error("expected a reason on the unauthenticated outcome")
	}
}

func TestVerifyValidSession(t *testing.T) {
	userID := uuid.New()
	provider := &fakeProvider{sessions: map[string]*identity.Session{
		"tok-1": {
			ID:    uuid.New(),
			User:  identity.User{ID: userID, Email: "anna@praxis.example"},
			Token: "tok-1",
		},
	}}
	v := NewSessionVerifier(provider, testSessionConfig(), discardLogger())

	out, resp := verifyThrough(t, v, "tok-1")
	defer resp.Body.Close()

	if out.State != AuthAuthenticated {
		t.Fatalf("State = %v, want AuthAuthenticated", out.State)
	}
	if out.User == nil || out.User.ID != userID {
		t.Fatalf("User = %+v, want ID %s", out.User, userID)
	}
	if len(resp.Cookies()) != 0 {
		t.Error("unrefreshed session must not write a cookie")
	}
}

func TestVerifyRefreshedSessionWritesCookie(t *testing.T) {
	cfg := testSessionConfig()
	provider := &fakeProvider{sessions: map[string]*identity.Session{
		"tok-old": {
			ID:        uuid.New(),
			User:      identity.User{ID: uuid.New(), Email: "anna@praxis.example"},
			Token:     "tok-new",
			Refreshed: true,
		},
	}}
	v := NewSessionVerifier(provider, cfg, discardLogger())

	out, resp := verifyThrough(t, v, "tok-old")
	defer resp.Body.Close()

	if out.State != AuthAuthenticated {
		t.Fatalf("State = %v, want AuthAuthenticated", out.State)
	}

	var written *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == cfg.CookieName {
			written = c
		}
	}
	if written == nil {
		t.Fatal("expected refreshed token written as cookie")
	}
	if written.Value != "tok-new" {
		t.Errorf("cookie value = %q, want tok-new", written.Value)
	}
	if !written.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
}

func TestVerifyExpiredSession(t *testing.T) {
	provider := &fakeProvider{err: identity.ErrSessionExpired}
	v := NewSessionVerifier(provider, testSessionConfig(), discardLogger())

	out, resp := verifyThrough(t, v, "tok-stale")
	defer resp.Body.Close()

	if out.State != AuthUnauthenticated {
		t.Fatalf("State = %v, want AuthUnauthenticated", out.State)
	}
}

func TestVerifyProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("redis connection refused")}
	v := NewSessionVerifier(provider, testSessionConfig(), discardLogger())

	out, resp := verifyThrough(t, v, "tok-1")
	defer resp.Body.Close()

	if out.State != AuthProviderError {
		t.Fatalf("State = %v, want AuthProviderError", out.State)
	}
	if out.Err == nil {
		t.Error("expected the provider error on the outcome")
	}
}

func TestVerifyProviderPanic(t *testing.T) {
	provider := &fakeProvider{panicOn: "tok-boom"}
	v := NewSessionVerifier(provider, testSessionConfig(), discardLogger())

	out, resp := verifyThrough(t, v, "tok-boom")
	defer resp.Body.Close()

	if out.State != AuthProviderError {
		t.Fatalf("State = %v, want AuthProviderError", out.State)
	}
	if out.Err == nil {
		t.Error("expected the recovered panic as an error")
	}
}

func TestVerifyNilProvider(t *testing.T) {
	v := NewSessionVerifier(nil, testSessionConfig(), discardLogger())

	out, resp := verifyThrough(t, v, "tok-1")
	defer resp.Body.Close()

	if out.State != AuthProviderError {
		t.Fatalf("State = %v, want AuthProviderError", out.State)
	}
}
