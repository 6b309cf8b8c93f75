package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taskpilot/client/domain"
)

// AuthState is a point-in-time snapshot of the auth store.
type AuthState struct {
	Session domain.Session
	Status  OpStatus
	Err     string
}

// PurgeFunc removes any previously persisted envelope. A fresh login calls
// it so a prior user's cached tasks cannot leak into the new session.
type PurgeFunc func() error

// AuthStore owns the session: identity, bearer token and the authenticated
// flag. It is safe for concurrent use, but overlapping logins are not
// serialized; whichever settles last determines the final state.
type AuthStore struct {
	api    AuthAPI
	purge  PurgeFunc
	logger *zap.Logger

	mu        sync.RWMutex
	session   domain.Session
	status    OpStatus
	err       string
	listeners []Listener
}

// NewAuthStore builds an empty, unauthenticated store.
func NewAuthStore(api AuthAPI, purge PurgeFunc, logger *zap.Logger) *AuthStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthStore{
		api:    api,
		purge:  purge,
		logger: logger,
		status: StatusIdle,
	}
}

// Subscribe registers a listener fired after every state change.
func (s *AuthStore) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// State returns a snapshot of the current auth state.
func (s *AuthStore) State() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return AuthState{Session: s.session, Status: s.status, Err: s.err}
}

// Session returns the current session snapshot.
func (s *AuthStore) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Hydrate installs a previously persisted session. Used once at startup.
func (s *AuthStore) Hydrate(session domain.Session) {
	s.mutate(func() {
		s.session = session
	})
}

// Signup registers a new account. Success stores the returned profile but
// does not establish a session; the user still has to log in. Failure
// records the error and leaves prior state untouched.
func (s *AuthStore) Signup(ctx context.Context, name, email, password string) error {
	s.mutate(func() {
		s.status = StatusPending
		s.err = ""
	})

	user, err := s.api.Signup(ctx, name, email, password)
	if err != nil {
		s.mutate(func() {
			s.status = StatusRejected
			s.err = err.Error()
		})
		return err
	}

	s.mutate(func() {
		s.status = StatusFulfilled
		s.session.User = user
	})
	return nil
}

// Login exchanges credentials for a session. Success stores token and user,
// flips authenticated on, clears any stale error and purges the previously
// persisted envelope. Failure records the error; token and authenticated
// keep whatever value they had before the call.
func (s *AuthStore) Login(ctx context.Context, email, password string) error {
	s.mutate(func() {
		s.status = StatusPending
		s.err = ""
	})

	user, token, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.mutate(func() {
			s.status = StatusRejected
			s.err = err.Error()
		})
		return err
	}

	if s.purge != nil {
		if purgeErr := s.purge(); purgeErr != nil {
			s.logger.Warn("failed to purge stale envelope on login", zap.Error(purgeErr))
		}
	}

	s.mutate(func() {
		s.status = StatusFulfilled
		s.session = domain.Session{Token: token, User: user, Authenticated: true}
	})
	return nil
}

// Logout synchronously clears user, token and error, and drops the
// authenticated flag so the session invariant (authenticated iff token set)
// holds. It does not touch durable storage; the caller purges explicitly.
func (s *AuthStore) Logout() {
	s.mutate(func() {
		s.session = domain.Session{}
		s.err = ""
	})
}

// mutate applies fn under the lock, then fires listeners outside it.
func (s *AuthStore) mutate(fn func()) {
	s.mu.Lock()
	fn()
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l()
	}
}

// Authenticated reports whether the session currently gates access.
func (s *AuthStore) Authenticated(now time.Time) bool {
	session := s.Session()
	return session.IsAuthenticated(now)
}
