package handler

import (
	"fmt"
	"html"

	"github.com/gofiber/fiber/v3"

	"github.com/praxiskit/praxis_backend/pkg/reqctx"
)

// PageHandler serves the portal's server-rendered pages. The markup is
// deliberately minimal; the pages exist so every route class the edge
// pipeline distinguishes has a real endpoint behind it.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func page(c fiber.Ctx, title, body string) error {
	c.Type("html", "utf-8")
	return c.SendString(fmt.Sprintf(
		"<!doctype html><html lang=\"de\"><head><title>%s | Praxis</title></head><body><h1>%s</h1>%s</body></html>",
		html.EscapeString(title), html.EscapeString(title), body,
	))
}

// GET /
func (h *PageHandler) Home(c fiber.Ctx) error {
	return page(c, "Praxis", `<p>Mandantenportal Ihrer Steuerkanzlei.</p><p><a href="/login">Anmelden</a></p>`)
}

// GET /login
func (h *PageHandler) Login(c fiber.Ctx) error {
	var notice string
	if c.Query("error") == "session_error" {
		notice = `<p>Anmeldung derzeit nicht möglich. Bitte versuchen Sie es später erneut.</p>`
	} else if c.Query("redirectTo") != "" {
		notice = `<p>Bitte melden Sie sich an, um fortzufahren.</p>`
	}
	form := notice + `<form method="post" action="/api/auth/login">` +
		`<input type="email" name="email" placeholder="E-Mail">` +
		`<input type="password" name="password" placeholder="Passwort">` +
		`<button type="submit">Anmelden</button></form>`
	return page(c, "Anmeldung", form)
}

// GET /kontakt
func (h *PageHandler) Contact(c fiber.Ctx) error {
	return page(c, "Kontakt", `<p>Sie erreichen uns über Ihre Kanzlei.</p>`)
}

// GET /impressum
func (h *PageHandler) Imprint(c fiber.Ctx) error {
	return page(c, "Impressum", `<p>Angaben gemäß § 5 TMG.</p>`)
}

// GET /datenschutz
func (h *PageHandler) Privacy(c fiber.Ctx) error {
	return page(c, "Datenschutz", `<p>Hinweise zur Verarbeitung personenbezogener Daten.</p>`)
}

// GET /dashboard
func (h *PageHandler) Dashboard(c fiber.Ctx) error {
	user, _ := reqctx.UserFromContext(c.Context())
	greeting := ""
	if user != nil {
		greeting = fmt.Sprintf("<p>Angemeldet als %s.</p>", html.EscapeString(user.Email))
	}
	return page(c, "Dashboard", greeting+`<ul><li><a href="/clients">Mandanten</a></li><li><a href="/appointments">Termine</a></li><li><a href="/documents">Dokumente</a></li><li><a href="/settings">Einstellungen</a></li></ul>`)
}

// GET /clients
func (h *PageHandler) Clients(c fiber.Ctx) error {
	return page(c, "Mandanten", `<p>Ihre Mandantenübersicht.</p>`)
}

// GET /clients/:id
func (h *PageHandler) ClientDetail(c fiber.Ctx) error {
	return page(c, "Mandant "+c.Params("id"), `<p><a href="/clients">Zurück zur Übersicht</a></p>`)
}

// GET /appointments
func (h *PageHandler) Appointments(c fiber.Ctx) error {
	return page(c, "Termine", `<p>Ihre anstehenden Termine.</p>`)
}

// GET /appointments/:id
func (h *PageHandler) AppointmentDetail(c fiber.Ctx) error {
	return page(c, "Termin "+c.Params("id"), `<p><a href="/appointments">Zurück zur Übersicht</a></p>`)
}

// GET /documents
func (h *PageHandler) Documents(c fiber.Ctx) error {
	return page(c, "Dokumente", `<p>Ihre freigegebenen Dokumente.</p>`)
}

// GET /documents/:id
func (h *PageHandler) DocumentDetail(c fiber.Ctx) error {
	return page(c, "Dokument "+c.Params("id"), `<p><a href="/documents">Zurück zur Übersicht</a></p>`)
}

// GET /settings
func (h *PageHandler) Settings(c fiber.Ctx) error {
	return page(c, "Einstellungen", `<p>Kontoeinstellungen.</p>`)
}
