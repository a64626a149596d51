package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/Wanderer0074348/hlm/internal/api"
)

type fakeService struct {
	user      *api.User
	meErr     error
	loginURL  string
	loginErr  error
	logoutErr error
}

func (f *fakeService) Me(context.Context) (*api.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.user, nil
}

func (f *fakeService) Login(context.Context) (string, error) {
	return f.loginURL, f.loginErr
}

func (f *fakeService) Logout(context.Context) error {
	return f.logoutErr
}

func TestInitialStateIsChecking(t *testing.T) {
	m := New(&fakeService{})
	if got := m.State(); got != StateChecking {
		t.Fatalf("State = %v, want checking", got)
	}
	if m.IsAuthenticated() {
		t.Fatal("authenticated before any check")
	}
}

func TestCheckSuccess(t *testing.T) {
	m := New(&fakeService{user: &api.User{ID: "u1", Email: "a@b.c"}})
	if got := m.Check(context.Background()); got != StateAuthenticated {
		t.Fatalf("Check = %v, want authenticated", got)
	}
	if !m.IsAuthenticated() || m.User() == nil || m.User().ID != "u1" {
		t.Fatalf("User = %+v, want u1", m.User())
	}
}

func TestCheckFailureMeansUnauthenticated(t *testing.T) {
	svc := &fakeService{user: &api.User{ID: "u1"}}
	m := New(svc)
	m.Check(context.Background())

	// A later failed check must not leave a stale authenticated state.
	svc.meErr = errors.New("network down")
	if got := m.Check(context.Background()); got != StateUnauthenticated {
		t.Fatalf("Check = %v, want unauthenticated", got)
	}
	if m.IsAuthenticated() || m.User() != nil {
		t.Fatal("stale authenticated state survived a failed check")
	}
}

func TestLoginOpensRedirectURL(t *testing.T) {
	m := New(&fakeService{loginURL: "https://auth.example.com/start"})
	var opened string
	m.SetURLOpener(func(url string) error {
		opened = url
		return nil
	})

	if err := m.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if opened != "https://auth.example.com/start" {
		t.Fatalf("opened %q, want the redirect URL", opened)
	}
}

func TestLoginErrorDoesNotOpen(t *testing.T) {
	m := New(&fakeService{loginErr: errors.New("backend down")})
	m.SetURLOpener(func(string) error {
		t.Fatal("opener called despite login failure")
		return nil
	})
	if err := m.Login(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestLogoutSuccessClearsUser(t *testing.T) {
	svc := &fakeService{user: &api.User{ID: "u1"}}
	m := New(svc)
	m.Check(context.Background())

	if err := m.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if m.IsAuthenticated() || m.State() != StateUnauthenticated {
		t.Fatal("user still present after successful logout")
	}
}

func TestLogoutFailureKeepsUser(t *testing.T) {
	svc := &fakeService{user: &api.User{ID: "u1"}, logoutErr: errors.New("boom")}
	m := New(svc)
	m.Check(context.Background())

	if err := m.Logout(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if !m.IsAuthenticated() {
		t.Fatal("optimistic sign-out on failed logout")
	}
	if got := m.State(); got != StateAuthenticated {
		t.Fatalf("State = %v, want still authenticated", got)
	}
}
