// Package auth holds the process-wide authentication state derived
// from a single source-of-truth check against the backend.
package auth

import (
	"context"
	"sync"

	"github.com/skratchdot/open-golang/open"

	"github.com/Wanderer0074348/hlm/internal/api"
)

// State is the auth lifecycle position.
type State int

const (
	// StateChecking is the initial state before the startup
	// verification call has resolved.
	StateChecking State = iota
	StateAuthenticated
	StateUnauthenticated
)

// String returns a display label for the state.
func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Service is the slice of the transport client the manager needs.
type Service interface {
	Me(ctx context.Context) (*api.User, error)
	Login(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
}

// Manager tracks the current user. A failed verification is never
// distinguished from "no session": both resolve to unauthenticated.
type Manager struct {
	svc     Service
	openURL func(string) error

	mu    sync.Mutex
	state State
	user  *api.User
}

// New creates a manager in the checking state. The OAuth redirect URL
// obtained by Login is handed to the system browser.
func New(svc Service) *Manager {
	return &Manager{svc: svc, openURL: open.Run, state: StateChecking}
}

// SetURLOpener overrides how Login navigates to the redirect URL.
func (m *Manager) SetURLOpener(fn func(url string) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openURL = fn
}

// Check runs the verification call and resolves the state. Errors are
// absorbed: any failure, network or backend, means unauthenticated.
func (m *Manager) Check(ctx context.Context) State {
	user, err := m.svc.Me(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil || user == nil {
		m.user = nil
		m.state = StateUnauthenticated
	} else {
		m.user = user
		m.state = StateAuthenticated
	}
	return m.state
}

// Login fetches the OAuth redirect URL and opens it. The handshake
// completes out of band; callers re-run Check afterwards.
func (m *Manager) Login(ctx context.Context) error {
	url, err := m.svc.Login(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	opener := m.openURL
	m.mu.Unlock()
	return opener(url)
}

// Logout terminates the backend session. Local state is cleared only
// on success; a failed call leaves the user signed in and returns the
// error rather than forcing a local sign-out.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.svc.Logout(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	m.state = StateUnauthenticated
	return nil
}

// User returns the current user, nil when unauthenticated or still
// checking.
func (m *Manager) User() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthenticated is exactly "a user is present"; no separate flag can
// disagree with User().
func (m *Manager) IsAuthenticated() bool {
	return m.User() != nil
}
