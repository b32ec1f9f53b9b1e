package session

import (
	"context"
	"log"
	"sync"

	"quantdesk/internal/auth"
	"quantdesk/internal/domain"
)

// Status is the session state machine:
// anonymous -> authenticating -> authenticated | anonymous, and
// authenticated -> anonymous on logout. No expiry state exists; a token is
// trusted until a profile fetch explicitly rejects it.
type Status string

const (
	StatusAnonymous      Status = "anonymous"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
)

// AuthAPI is the backend auth contract the store delegates to. Errors are
// opaque to callers of the store; the store collapses them to a boolean and
// keeps the last one for diagnostics.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Register(ctx context.Context, email, password, name string) error
	GetProfile(ctx context.Context, token string) (*domain.User, error)
}

// Store is the single source of truth for who is using the client and what
// they can see. It owns all mutation; consumers read through accessors and
// react to change notifications. Callers are expected to treat it as a
// single-writer resource: concurrent Login calls are not guarded against
// and the last write wins.
type Store struct {
	mu      sync.Mutex
	api     AuthAPI
	tokens  TokenStorage
	user    *domain.User
	token   string
	status  Status
	lastErr error
	subs    map[int]func()
	nextSub int
}

// NewStore creates a Store in the anonymous state.
func NewStore(api AuthAPI, tokens TokenStorage) *Store {
	return &Store{
		api:    api,
		tokens: tokens,
		status: StatusAnonymous,
		subs:   make(map[int]func()),
	}
}

// Login tries, in order: the static test-account table, the backend, and
// the hard-coded demo pair. First match wins and populates the session; no
// match leaves the store anonymous and returns false. The backend error is
// retained for LastError rather than being folded into "wrong password".
func (s *Store) Login(ctx context.Context, email, password string) bool {
	s.setStatus(StatusAuthenticating)

	if user, token, ok := auth.LookupTestCredentials(email, password); ok {
		s.establish(user, token)
		return true
	}

	user, token, err := s.api.Login(ctx, email, password)
	if err == nil {
		s.establish(user, token)
		return true
	}
	s.recordErr(err)

	if email == auth.DemoEmail && password == auth.DemoPassword {
		demo, demoToken := auth.DemoUser()
		s.establish(demo, demoToken)
		return true
	}

	s.clear(false)
	return false
}

// Register delegates to the backend; a failure returns false with no
// partial state changes.
func (s *Store) Register(ctx context.Context, email, password, name string) bool {
	if err := s.api.Register(ctx, email, password, name); err != nil {
		s.recordErr(err)
		return false
	}
	return true
}

// Logout clears the in-memory session and the persisted token
// unconditionally. Idempotent.
func (s *Store) Logout() {
	s.clear(true)
}

// UpdateUser replaces the session user wholesale and notifies subscribers.
// This is also what the role-switch testing tool calls; the store does not
// gate it because role here is a rendering switch, not a security boundary.
func (s *Store) UpdateUser(user *domain.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.notify()
}

// InitializeAuth restores the session from the persisted token at startup.
// Demo and test tokens reconstruct the session locally without a network
// call; anything else goes through a profile fetch, and any failure clears
// the session.
func (s *Store) InitializeAuth(ctx context.Context) {
	token, err := s.tokens.Load()
	if err != nil {
		log.Printf("WARNING: failed to load persisted token: %v", err)
		s.clear(true)
		return
	}
	if token == "" {
		s.clear(false)
		return
	}

	if auth.IsBuiltinToken(token) {
		if user, ok := auth.LookupBuiltinToken(token); ok {
			s.establish(user, token)
			return
		}
		s.clear(true)
		return
	}

	user, err := s.api.GetProfile(ctx, token)
	if err != nil {
		s.recordErr(err)
		s.clear(true)
		return
	}
	s.establish(user, token)
}

// User returns a copy of the session user, or nil when anonymous.
func (s *Store) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	return s.user.Clone()
}

// IsAuthenticated reports whether a session is established.
func (s *Store) IsAuthenticated() bool {
	return s.Status() == StatusAuthenticated
}

// Status returns the current session state.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Token returns the current session token ("" when anonymous).
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Menu returns the navigation menu for the session's role; anonymous
// sessions get no menu.
func (s *Store) Menu() []domain.MenuItem {
	user := s.User()
	if user == nil {
		return nil
	}
	return domain.MenuForRole(user.Role)
}

// LastError returns the most recent backend error, for callers that want
// to distinguish "backend down" from "wrong password" instead of showing
// one generic message.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe registers a change callback, invoked after every state
// transition. The returned func unsubscribes.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) establish(user *domain.User, token string) {
	if err := s.tokens.Save(token); err != nil {
		log.Printf("WARNING: failed to persist session token: %v", err)
	}
	s.mu.Lock()
	s.user = user
	s.token = token
	s.status = StatusAuthenticated
	s.mu.Unlock()
	s.notify()
}

func (s *Store) clear(dropToken bool) {
	if dropToken {
		if err := s.tokens.Clear(); err != nil {
			log.Printf("WARNING: failed to clear persisted token: %v", err)
		}
	}
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.status = StatusAnonymous
	s.mu.Unlock()
	s.notify()
}

func (s *Store) setStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
	s.notify()
}

func (s *Store) recordErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// notify invokes subscribers outside the lock so a subscriber may read the
// store without deadlocking.
func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
