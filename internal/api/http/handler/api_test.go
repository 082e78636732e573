package handler

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/praxiskit/praxis_backend/config"
	"github.com/praxiskit/praxis_backend/pkg/reqctx"
)

func TestHealthOK(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	h := NewAPIHandler(&config.Config{}, rdb)
	app := fiber.New()
	app.Get("/api/health", h.Health)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"ok"`) {
		t.Errorf("body = %s, want status ok", body)
	}
}

func TestHealthDegraded(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	mr.Close()

	h := NewAPIHandler(&config.Config{}, rdb)
	app := fiber.New()
	app.Get("/api/health", h.Health)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil),
		fiber.TestConfig{Timeout: 10 * time.Second, FailOnTimeout: true})
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"degraded"`) {
		t.Errorf("body = %s, want status degraded", body)
	}
}

func TestVersion(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.ServiceName = "praxis_backend"
	cfg.Observability.ServiceVersion = "1.2.3"

	h := NewAPIHandler(cfg, nil)
	app := fiber.New()
	app.Get("/api/version", h.Version)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/version", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "1.2.3") {
		t.Errorf("body = %s, want version", body)
	}
}

func TestMe(t *testing.T) {
	userID := uuid.New()
	h := NewAPIHandler(&config.Config{}, nil)

	app := fiber.New()
	app.Get("/api/v1/me", func(c fiber.Ctx) error {
		// The edge pipeline attaches the user before the handler runs.
		c.SetContext(reqctx.WithUser(c.Context(), &reqctx.User{ID: userID, Email: "anna@praxis.example"}))
		return h.Me(c)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/me", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), userID.String()) {
		t.Errorf("body = %s, want user id", body)
	}
}

func TestMeWithoutUser(t *testing.T) {
	h := NewAPIHandler(&config.Config{}, nil)
	app := fiber.New()
	app.Get("/api/v1/me", h.Me)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/me", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 401 {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}
