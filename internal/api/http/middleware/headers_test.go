package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/praxiskit/praxis_backend/config"
)

func TestSecurityHeadersDefaults(t *testing.T) {
	app := fiber.New()
	h := NewSecurityHeaders(config.HeadersConfig{})
	app.Get("/", func(c fiber.Ctx) error {
		h.Apply(c)
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	want := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"X-XSS-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
		"Permissions-Policy":     "camera=(), microphone=(), geolocation=()",
	}
	for name, value := range want {
		if got := resp.Header.Get(name); got != value {
			t.Errorf("%s = %q, want %q", name, got, value)
		}
	}
}

func TestSecurityHeadersIdempotent(t *testing.T) {
	app := fiber.New()
	h := NewSecurityHeaders(config.HeadersConfig{})
	app.Get("/", func(c fiber.Ctx) error {
		h.Apply(c)
		h.Apply(c)
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Values("X-Frame-Options"); len(got) != 1 {
		t.Errorf("X-Frame-Options written %d times, want 1", len(got))
	}
}

func TestSecurityHeadersOverrides(t *testing.T) {
	app := fiber.New()
	h := NewSecurityHeaders(config.HeadersConfig{
		XFrameOptions:  "SAMEORIGIN",
		ReferrerPolicy: "no-referrer",
	})
	app.Get("/", func(c fiber.Ctx) error {
		h.Apply(c)
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options = %q, want SAMEORIGIN", got)
	}
	if got := resp.Header.Get("Referrer-Policy"); got != "no-referrer" {
		t.Errorf("Referrer-Policy = %q, want no-referrer", got)
	}
	// Unset fields keep the built-in values.
	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}
