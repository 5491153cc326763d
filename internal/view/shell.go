// Package view implements the console's top-level view shell: a two
// state machine (login vs. main) that guarantees at most one active
// view, tearing the previous one down before constructing the next.
package view

import (
	"sync"

	"github.com/wy414012/proxmox-backup/internal/session"
)

// Name identifies a top-level view.
type Name string

const (
	LoginView Name = "login"
	MainView  Name = "main"
)

// View is a constructed top-level view. Close releases whatever the
// view holds; it runs exactly once, before the next view is built.
type View interface {
	Name() Name
	Close()
}

// Factory constructs a view on activation.
type Factory func() View

// Shell owns the active view and drives transitions from session state.
// A shell is shared between request goroutines of one session, so the
// active view and the resize callbacks are guarded by its lock.
type Shell struct {
	session   *session.Context
	factories map[Name]Factory

	mu     sync.Mutex
	active View
	resize []func()
}

// NewShell builds a shell over the given session context. Factories may
// be overridden per view name; missing ones fall back to plain views.
func NewShell(sess *session.Context, factories map[Name]Factory) *Shell {
	s := &Shell{
		session:   sess,
		factories: make(map[Name]Factory),
	}
	for _, name := range []Name{LoginView, MainView} {
		name := name
		s.factories[name] = func() View { return plainView(name) }
	}
	for name, f := range factories {
		s.factories[name] = f
	}
	return s
}

// Startup computes the initial view once from the session state and
// activates it: login without credentials, main with them.
func (s *Shell) Startup() Name {
	name := LoginView
	if s.session.Authenticated() {
		name = MainView
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.activate(name)
	return s.active.Name()
}

// Activate tears the current view down, then constructs the named one.
func (s *Shell) Activate(name Name) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activate(name)
}

func (s *Shell) activate(name Name) {
	if s.active != nil {
		s.active.Close()
		s.active = nil
	}
	s.active = s.factories[name]()
}

// ActiveName names the currently active view, or "" before startup.
func (s *Shell) ActiveName() Name {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return ""
	}
	return s.active.Name()
}

// HandleLogin forces the transition to the main view after the login
// view reports a successful authentication.
func (s *Shell) HandleLogin() {
	s.Activate(MainView)
}

// Logout clears the session state and forces the login view, whatever
// was active before.
func (s *Shell) Logout() {
	s.session.Clear()
	s.Activate(LoginView)
}

// OnResize registers a callback re-centering an open modal overlay.
func (s *Shell) OnResize(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resize = append(s.resize, fn)
}

// HandleResize re-centers whatever modals registered themselves. Pure
// display layout, no state. Callbacks run outside the lock so they may
// call back into the shell.
func (s *Shell) HandleResize() {
	s.mu.Lock()
	callbacks := make([]func(), len(s.resize))
	copy(callbacks, s.resize)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// plainView is a view with nothing to release.
type plainView Name

func (v plainView) Name() Name { return Name(v) }
func (v plainView) Close()     {}
