// ABOUTME: Session manager owning the authentication token lifecycle
// ABOUTME: Restores, establishes, updates, and tears down the user's session

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/client"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/credstore"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/token"
)

// State is the authentication state of a Manager
type State int

const (
	Loading State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is an authenticated identity plus the token that proves it
type Session struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"name"`
	Email       string    `json:"email"`
	Token       string    `json:"-"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// BearerToken implements client.Auth. A nil session yields no credential.
func (s *Session) BearerToken() string {
	if s == nil {
		return ""
	}
	return s.Token
}

// Manager owns the active session and its persisted token
type Manager struct {
	api    *client.Client
	store  credstore.Store
	now    func() time.Time
	logger *slog.Logger

	mu      sync.RWMutex
	state   State
	current *Session
}

// Option configures a Manager
type Option func(*Manager)

// WithClock overrides the time source used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// New creates a Manager in the Loading state
func New(api *client.Client, store credstore.Store, opts ...Option) *Manager {
	m := &Manager{
		api:    api,
		store:  store,
		now:    time.Now,
		logger: slog.Default(),
		state:  Loading,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Current returns a copy of the active session
func (m *Manager) Current() (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, false
	}
	s := *m.current
	return &s, true
}

// Auth returns the credential for outbound calls, or nil when logged out
func (m *Manager) Auth() client.Auth {
	s, ok := m.Current()
	if !ok {
		return nil
	}
	return s
}

// Restore rebuilds the session from the persisted token. Every failure,
// including a rejected verification call, degrades to Unauthenticated.
func (m *Manager) Restore(ctx context.Context) State {
	raw, err := m.store.Load()
	if err != nil {
		m.logger.Warn("Failed to read stored token", "error", err)
		m.clear()
		return Unauthenticated
	}
	if raw == "" {
		m.setState(Unauthenticated, nil)
		return Unauthenticated
	}

	claims, err := token.Decode(raw)
	if err != nil {
		m.logger.Info("Discarding unreadable stored token", "error", err)
		m.clear()
		return Unauthenticated
	}
	if claims.Expired(m.now()) {
		m.logger.Info("Stored token expired", "expired_at", claims.ExpiresAt)
		m.clear()
		return Unauthenticated
	}

	// Stay in Loading until the backend accepts the token
	sess := sessionFromClaims(raw, claims)
	m.setState(Loading, nil)

	if _, err := m.api.Me(ctx, sess); err != nil {
		m.logger.Info("Stored token rejected by backend", "error", err)
		m.clear()
		return Unauthenticated
	}

	m.setState(Authenticated, sess)

	m.logger.Debug("Session restored", "user_id", sess.UserID)
	return Authenticated
}

// Login exchanges credentials for a token and installs it. On failure any
// existing credential is cleared.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.clear()
		return nil, err
	}

	sess, err := m.install(resp.AccessToken)
	if err != nil {
		m.clear()
		return nil, err
	}

	m.logger.Info("Logged in", "user_id", sess.UserID)
	return sess, nil
}

// Register creates an account and then logs in with the same credentials
func (m *Manager) Register(ctx context.Context, name, email, password string) (*Session, error) {
	if _, err := m.api.Register(ctx, &client.Registration{Name: name, Email: email, Password: password}); err != nil {
		return nil, err
	}
	return m.Login(ctx, email, password)
}

// Logout drops the session. It never fails and makes no network call.
func (m *Manager) Logout() {
	m.clear()
	m.logger.Debug("Logged out")
}

// Me fetches the account behind the current credential
func (m *Manager) Me(ctx context.Context) (*client.User, error) {
	user, err := m.api.Me(ctx, m.Auth())
	if err != nil {
		return nil, m.Observe(err)
	}
	return user, nil
}

// UpdateProfile sends a partial update and merges the returned identity into
// the session. The current password is not re-verified.
func (m *Manager) UpdateProfile(ctx context.Context, update client.ProfileUpdate) (*client.User, error) {
	user, err := m.api.UpdateMe(ctx, m.Auth(), &update)
	if err != nil {
		return nil, m.Observe(err)
	}

	m.mu.Lock()
	if m.current != nil {
		merged := *m.current
		if user.Name != "" {
			merged.DisplayName = user.Name
		}
		if user.Email != "" {
			merged.Email = user.Email
		}
		m.current = &merged
	}
	m.mu.Unlock()

	return user, nil
}

// DeleteAccount deactivates the account and logs out
func (m *Manager) DeleteAccount(ctx context.Context) error {
	if err := m.api.DeleteMe(ctx, m.Auth()); err != nil {
		return m.Observe(err)
	}
	m.Logout()
	return nil
}

// Observe inspects an error from any authenticated call. An authentication
// failure means the credential is no longer valid, so the session is dropped.
// The error is returned unchanged.
func (m *Manager) Observe(err error) error {
	if err == nil || !isUnauthorized(err) {
		return err
	}
	if m.State() == Authenticated {
		m.logger.Info("Credential rejected, clearing session")
		m.clear()
	}
	return err
}

func isUnauthorized(err error) bool {
	return errors.Is(err, client.ErrUnauthorized)
}

func (m *Manager) install(raw string) (*Session, error) {
	claims, err := token.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("backend issued an unusable token: %w", err)
	}

	if err := m.store.Save(raw); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	sess := sessionFromClaims(raw, claims)
	m.setState(Authenticated, sess)
	out := *sess
	return &out, nil
}

func (m *Manager) clear() {
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("Failed to clear stored token", "error", err)
	}
	m.setState(Unauthenticated, nil)
}

func (m *Manager) setState(state State, sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.current = sess
}

func sessionFromClaims(raw string, c *token.Claims) *Session {
	return &Session{
		UserID:      c.Subject,
		DisplayName: c.Name,
		Email:       c.Email,
		Token:       raw,
		ExpiresAt:   c.ExpiresAt,
	}
}
