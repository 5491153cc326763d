// Package handler binds the console's HTTP surface: login/logout, the
// view shell, the datastore editor and UI-state persistence.
package handler

import (
	"sync"
	"time"

	"github.com/wy414012/proxmox-backup/internal/api"
	"github.com/wy414012/proxmox-backup/internal/config"
	"github.com/wy414012/proxmox-backup/internal/form"
	"github.com/wy414012/proxmox-backup/internal/session"
	"github.com/wy414012/proxmox-backup/internal/store"
	"github.com/wy414012/proxmox-backup/internal/view"
)

// Handler handles HTTP requests
type Handler struct {
	cfg      *config.Config
	sessions *session.Manager
	store    *store.Store
	schema   form.Schema

	mu     sync.Mutex
	shells map[string]*view.Shell
}

// NewHandler creates a new handler
func NewHandler(cfg *config.Config, sessions *session.Manager, st *store.Store) *Handler {
	return &Handler{
		cfg:      cfg,
		sessions: sessions,
		store:    st,
		schema:   form.Datastore(),
		shells:   make(map[string]*view.Shell),
	}
}

// apiFor builds a backend client acting on behalf of the given session.
func (h *Handler) apiFor(sess *session.Context) *api.Client {
	client := api.NewClient(h.cfg.APIURL, h.cfg.APIInsecure,
		time.Duration(h.cfg.APITimeout)*time.Second)
	if sess != nil {
		client.Session = sess
	}
	return client
}

// shellFor returns the view shell owned by the session, creating and
// starting it on first use. Anonymous requests get a throwaway shell
// that always lands on the login view.
func (h *Handler) shellFor(sess *session.Context) *view.Shell {
	if sess == nil || !sess.Authenticated() {
		shell := view.NewShell(&session.Context{}, nil)
		shell.Startup()
		return shell
	}

	ticket := sess.Ticket()

	h.mu.Lock()
	defer h.mu.Unlock()

	if shell, ok := h.shells[ticket]; ok {
		return shell
	}
	shell := view.NewShell(sess, nil)
	shell.Startup()
	h.shells[ticket] = shell
	return shell
}

// dropShell forgets the shell bound to a ticket.
func (h *Handler) dropShell(ticket string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.shells, ticket)
}
