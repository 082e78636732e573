package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/praxiskit/praxis_backend/internal/api/http/middleware"
	"github.com/praxiskit/praxis_backend/internal/identity"
)

// AuthHandler owns the session lifecycle endpoints. The cookie side
// effects go through the session verifier so login, refresh, and logout
// all write identical cookie attributes.
type AuthHandler struct {
	provider identity.Provider
	verifier *middleware.SessionVerifier
}

func NewAuthHandler(provider identity.Provider, verifier *middleware.SessionVerifier) *AuthHandler {
	return &AuthHandler{provider: provider, verifier: verifier}
}

// POST /api/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	// Body binding accepts both the JSON API shape and the login form.
	if err := c.Bind().Body(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return badRequest(c, "email and password are required")
	}

	sess, err := h.provider.Login(c.Context(), body.Email, body.Password)
	switch {
	case err == nil:
		h.verifier.WriteCookie(c, sess.Token)
		return ok(c, fiber.Map{
			"user": fiber.Map{
				"id":    sess.User.ID,
				"email": sess.User.Email,
			},
			"expires_at": sess.ExpiresAt,
		})

	case errors.Is(err, identity.ErrBadCredentials):
		return unauthorized(c, "invalid credentials")

	default:
		return internalError(c)
	}
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	h.endSession(c)
	return noContent(c)
}

// GET /logout
func (h *AuthHandler) LogoutPage(c fiber.Ctx) error {
	h.endSession(c)
	return c.Redirect().Status(fiber.StatusFound).To("/")
}

func (h *AuthHandler) endSession(c fiber.Ctx) {
	token := c.Cookies(h.verifier.CookieName())
	if token != "" {
		// Destroying an already-gone session is not an error; anything
		// else still just clears the cookie client-side.
		_ = h.provider.Logout(c.Context(), token)
	}
	h.verifier.ClearCookie(c)
}
