package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/wy414012/proxmox-backup/internal/middleware"
	"github.com/wy414012/proxmox-backup/internal/session"
	"github.com/wy414012/proxmox-backup/templates"
)

// HandleLoginPage serves the login view. Signed-in users are sent
// straight to the main view.
func (h *Handler) HandleLoginPage(c echo.Context) error {
	if middleware.SessionFrom(c) != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Render(http.StatusOK, "login", templates.LoginPage{})
}

// HandleLogin authenticates against the backend. On success the ticket
// is persisted as a cookie and the shell transitions to the main view.
func (h *Handler) HandleLogin(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	ticket, err := h.apiFor(nil).Login(c.Request().Context(), username, password)
	if err != nil {
		log.Warn().Str("username", username).Err(err).Msg("login rejected")
		return c.Render(http.StatusUnauthorized, "login", templates.LoginPage{
			Error: "Login failed. Please verify user name and password.",
		})
	}

	sess := h.sessions.Apply(*ticket)
	c.SetCookie(session.Cookie(ticket.Ticket))

	h.shellFor(sess).HandleLogin()

	log.Info().Str("username", ticket.Username).Msg("login successful")
	return c.Redirect(http.StatusSeeOther, "/")
}

// HandleLogout clears the session and forces the login view, whatever
// was active before.
func (h *Handler) HandleLogout(c echo.Context) error {
	if sess := middleware.SessionFrom(c); sess != nil {
		ticket := sess.Ticket()
		h.shellFor(sess).Logout()
		h.dropShell(ticket)
		h.sessions.Clear(ticket)
		log.Info().Msg("session cleared")
	}

	c.SetCookie(session.ClearCookie())
	return c.Redirect(http.StatusSeeOther, "/login")
}
