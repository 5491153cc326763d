package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wy414012/proxmox-backup/internal/model"
	"github.com/wy414012/proxmox-backup/internal/session"
)

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()

	testHandler := func(c echo.Context) error {
		return c.String(http.StatusOK, "test response")
	}

	e.Use(SecurityHeaders())
	e.GET("/test", testHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	headers := rec.Header()

	assert.Equal(t, "max-age=63072000; includeSubDomains; preload", headers.Get("Strict-Transport-Security"))
	assert.Equal(t, "sameorigin", headers.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
	assert.Equal(t, "1; mode=block", headers.Get("X-XSS-Protection"))
	assert.Equal(t, "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; font-src 'self'", headers.Get("Content-Security-Policy"))
	assert.Equal(t, "no-referrer, strict-origin-when-cross-origin", headers.Get("Referrer-Policy"))

	assert.Empty(t, headers.Get("Server"))
}

func TestSecurityHeadersWithErrorResponse(t *testing.T) {
	e := echo.New()

	errorHandler := func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	e.Use(SecurityHeaders())
	e.GET("/error", errorHandler)

	req := httptest.NewRequest(http.MethodGet, "/error", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	headers := rec.Header()
	assert.Equal(t, "sameorigin", headers.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
	assert.Empty(t, headers.Get("Server"))
}

func sessionEcho(manager *session.Manager) *echo.Echo {
	e := echo.New()
	e.Use(ResolveSession(manager))
	e.GET("/open", func(c echo.Context) error {
		if ctx := SessionFrom(c); ctx != nil {
			return c.String(http.StatusOK, ctx.Username())
		}
		return c.String(http.StatusOK, "anonymous")
	})
	e.GET("/guarded", func(c echo.Context) error {
		return c.String(http.StatusOK, "in")
	}, RequireSession())
	return e
}

func TestResolveSessionWithValidTicket(t *testing.T) {
	manager := session.NewManager()
	manager.Apply(model.Ticket{Username: "admin@pbs", Ticket: "T1", CSRFToken: "C1"})
	e := sessionEcho(manager)

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "T1"})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@pbs", rec.Body.String())
}

func TestResolveSessionWithoutCookie(t *testing.T) {
	e := sessionEcho(session.NewManager())

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestResolveSessionWithStaleTicket(t *testing.T) {
	manager := session.NewManager()
	manager.Apply(model.Ticket{Username: "admin@pbs", Ticket: "T1", CSRFToken: "C1"})
	manager.Clear("T1")
	e := sessionEcho(manager)

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "T1"})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestRequireSessionRedirectsToLogin(t *testing.T) {
	e := sessionEcho(session.NewManager())

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireSessionPassesAuthenticated(t *testing.T) {
	manager := session.NewManager()
	manager.Apply(model.Ticket{Username: "admin@pbs", Ticket: "T1", CSRFToken: "C1"})
	e := sessionEcho(manager)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "T1"})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "in", rec.Body.String())
}
