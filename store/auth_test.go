package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskpilot/client/domain"
	"github.com/taskpilot/client/store"
)

func TestSignupStoresProfileWithoutSession(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{signupResult: &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}}
	s := store.NewAuthStore(api, nil, nil)

	if err := s.Signup(context.Background(), "Ada", "ada@example.com", "secret"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	session := s.Session()
	if session.User == nil || session.User.Name != "Ada" {
		t.Fatalf("profile not stored: %+v", session.User)
	}
	if session.Authenticated || session.Token != "" {
		t.Fatal("signup must not establish a session")
	}
}

func TestLoginEstablishesSessionAndPurges(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{
		loginUser:  &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com"},
		loginToken: "bearer-token",
	}
	purged := 0
	s := store.NewAuthStore(api, func() error { purged++; return nil }, nil)

	if err := s.Login(context.Background(), "ada@example.com", "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	state := s.State()
	if state.Session.Token != "bearer-token" || !state.Session.Authenticated {
		t.Fatalf("session not established: %+v", state.Session)
	}
	if state.Err != "" {
		t.Fatalf("stale error not cleared: %q", state.Err)
	}
	if purged != 1 {
		t.Fatalf("stale envelope purged %d times, want 1", purged)
	}
}

func TestLoginFailureKeepsPriorSession(t *testing.T) {
	t.Parallel()

	okAPI := &fakeAuthAPI{loginUser: &domain.User{ID: "u1"}, loginToken: "first"}
	s := store.NewAuthStore(okAPI, nil, nil)
	if err := s.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("setup login failed: %v", err)
	}

	okAPI.loginErr = errors.New("bad credentials")
	if err := s.Login(context.Background(), "a@b.c", "wrong"); err == nil {
		t.Fatal("expected login failure")
	}

	state := s.State()
	if state.Session.Token != "first" || !state.Session.Authenticated {
		t.Fatalf("prior session lost on failed login: %+v", state.Session)
	}
	if state.Status != store.StatusRejected || state.Err == "" {
		t.Fatalf("failure not recorded: %+v", state)
	}
}

func TestLogoutRestoresInvariant(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{loginUser: &domain.User{ID: "u1"}, loginToken: "tok"}
	s := store.NewAuthStore(api, nil, nil)
	if err := s.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("setup login failed: %v", err)
	}

	s.Logout()

	session := s.Session()
	if session.Token != "" || session.User != nil || session.Authenticated {
		t.Fatalf("logout left session state behind: %+v", session)
	}
	if s.Authenticated(time.Now()) {
		t.Fatal("store still authenticated after logout")
	}
}

// After any sequence of operations, authenticated holds iff a token does.
func TestAuthenticatedIffToken(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{
		signupResult: &domain.User{ID: "u1"},
		loginUser:    &domain.User{ID: "u1"},
		loginToken:   "tok",
	}
	s := store.NewAuthStore(api, nil, nil)

	steps := []func(){
		func() { _ = s.Signup(context.Background(), "n", "e", "p") },
		func() { _ = s.Login(context.Background(), "e", "p") },
		func() { s.Logout() },
		func() { _ = s.Login(context.Background(), "e", "p") },
		func() { s.Logout() },
	}

	for i, step := range steps {
		step()
		session := s.Session()
		if session.Authenticated != (session.Token != "") {
			t.Fatalf("step %d: authenticated=%v but token=%q", i, session.Authenticated, session.Token)
		}
	}
}
