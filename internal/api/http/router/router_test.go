package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/praxiskit/praxis_backend/config"
	"github.com/praxiskit/praxis_backend/internal/api/http/middleware"
	"github.com/praxiskit/praxis_backend/internal/identity"
	"github.com/praxiskit/praxis_backend/pkg/observability"
)

type sessionProvider struct {
	sessions map[string]*identity.Session
}

func (p *sessionProvider) GetUser(_ context.Context, token string) (*identity.Session, error) {
	sess, ok := p.sessions[token]
	if !ok {
		return nil, identity.ErrNoSession
	}
	return sess, nil
}

func (p *sessionProvider) Login(context.Context, string, string) (*identity.Session, error) {
	return nil, identity.ErrBadCredentials
}

func (p *sessionProvider) Logout(context.Context, string) error { return nil }

// newPortalApp assembles the app the way the server does: pipeline first,
// then all registered routes.
func newPortalApp(t *testing.T, provider identity.Provider) (*fiber.App, *config.Config) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Validate()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	verifier := middleware.NewSessionVerifier(provider, cfg.Session, logger)
	pipeline := middleware.NewPipeline(
		observability.NewInstruments(logger),
		middleware.NewSecurityHeaders(config.HeadersConfig{}),
		verifier,
		nil,
		cfg,
		logger,
	)

	app := fiber.New()
	app.Use(pipeline.Handler())
	NewRouter(Params{Cfg: cfg, Provider: provider, Verifier: verifier}).Register(app)
	return app, cfg
}

func TestProtectedDetailPageWithSession(t *testing.T) {
	userID := uuid.New()
	provider := &sessionProvider{sessions: map[string]*identity.Session{
		"tok-1": {
			ID:    uuid.New(),
			User:  identity.User{ID: userID, Email: "anna@praxis.example"},
			Token: "tok-1",
		},
	}}
	app, cfg := newPortalApp(t, provider)

	for _, path := range []string{"/clients/42", "/appointments/7", "/documents/13"} {
		req := httptest.NewRequest("GET", path, nil)
		req.AddCookie(&http.Cookie{Name: cfg.Session.CookieName, Value: "tok-1"})
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test %s: %v", path, err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, resp.StatusCode)
		}
		if got := resp.Header.Get("x-user-id"); got != userID.String() {
			t.Errorf("%s x-user-id = %q, want %s", path, got, userID)
		}
	}
}

func TestProtectedDetailPageWithoutSession(t *testing.T) {
	app, _ := newPortalApp(t, &sessionProvider{})

	resp, err := app.Test(httptest.NewRequest("GET", "/clients/42", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != "/login?redirectTo=%2Fclients%2F42" {
		t.Errorf("Location = %q, want /login?redirectTo=%%2Fclients%%2F42", got)
	}
}

func TestPublicPagesReachable(t *testing.T) {
	app, _ := newPortalApp(t, &sessionProvider{})

	for _, path := range []string{"/", "/login", "/kontakt", "/impressum", "/datenschutz"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("app.Test %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, resp.StatusCode)
		}
	}
}
