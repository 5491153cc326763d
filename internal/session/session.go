// Package session keeps the credentials of signed-in users: an explicit
// session context per browser, a manager indexing live contexts by
// ticket, and the ticket cookie persisted on login.
package session

import (
	"net/http"
	"sync"

	"github.com/wy414012/proxmox-backup/internal/model"
)

// CookieName is the name under which the auth ticket is persisted.
const CookieName = "PBSAuthCookie"

// Context holds the credentials of one signed-in session. It is passed
// around explicitly rather than living in package globals so tests can
// swap it freely. A context is shared between request goroutines and a
// logout may clear it while other requests read it, so all access goes
// through its lock.
type Context struct {
	mu        sync.RWMutex
	username  string
	ticket    string
	csrfToken string
}

// Apply records a successful login payload on the context. The payload
// is trusted as-is; the backend already vetted it.
func (c *Context) Apply(t model.Ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.username = t.Username
	c.ticket = t.Ticket
	c.csrfToken = t.CSRFToken
}

// Clear drops all held credentials.
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.username = ""
	c.ticket = ""
	c.csrfToken = ""
}

// Authenticated reports whether the context holds credentials.
func (c *Context) Authenticated() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ticket != "" && c.username != ""
}

// Username returns the signed-in user, or "" after a logout.
func (c *Context) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

// Ticket returns the held auth ticket, or "" after a logout.
func (c *Context) Ticket() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ticket
}

// CSRFToken returns the held CSRF token, or "" after a logout.
func (c *Context) CSRFToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.csrfToken
}

// Cookie builds the ticket cookie: scoped to the whole site and only
// sent over TLS.
func Cookie(ticket string) *http.Cookie {
	return &http.Cookie{
		Name:   CookieName,
		Value:  ticket,
		Path:   "/",
		Secure: true,
	}
}

// ClearCookie builds an expired ticket cookie.
func ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:   CookieName,
		Value:  "",
		Path:   "/",
		Secure: true,
		MaxAge: -1,
	}
}

// Manager indexes live session contexts by ticket. The HTTP server
// serves requests concurrently, so access is serialized here.
type Manager struct {
	mu       sync.Mutex
	byTicket map[string]*Context
}

func NewManager() *Manager {
	return &Manager{byTicket: make(map[string]*Context)}
}

// Apply is the single entry point for a successful login: it builds a
// context from the payload and registers it under its ticket.
func (m *Manager) Apply(t model.Ticket) *Context {
	ctx := &Context{}
	ctx.Apply(t)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.byTicket[t.Ticket] = ctx

	return ctx
}

// Lookup resolves a ticket to its live context.
func (m *Manager) Lookup(ticket string) (*Context, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, ok := m.byTicket[ticket]
	return ctx, ok
}

// Clear forgets the session behind a ticket and empties its context so
// stale references stop passing Authenticated.
func (m *Manager) Clear(ticket string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ctx, ok := m.byTicket[ticket]; ok {
		ctx.Clear()
		delete(m.byTicket, ticket)
	}
}
