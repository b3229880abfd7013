package auth

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"crepe_admin/internal/api"
	"crepe_admin/internal/domain"
	"crepe_admin/internal/infra"
)

// Fixed storage keys for the persisted token pair.
const (
	AccessTokenKey  = "crepe.access_token"
	RefreshTokenKey = "crepe.refresh_token"
)

// TokenStore persists the session token pair under fixed keys.
type TokenStore interface {
	SaveToken(key, value string) error
	LoadToken(key string) (string, error) // "" when absent
	DeleteToken(key string) error
}

// SessionManager owns the auth session lifecycle: created on login (or a
// dev-mode seed), refreshed by a single-flight re-issue call, destroyed on
// logout or an unrecoverable 401/502. Storage and backend client are
// injected; there is no ambient singleton.
type SessionManager struct {
	mu    sync.RWMutex
	store TokenStore
	users *api.UserService

	accessToken   string
	refreshToken  string
	authenticated bool

	loading         atomic.Bool
	reissueInFlight atomic.Bool

	logger *slog.Logger
}

// NewSessionManager creates a session manager over the given store and
// backend user service.
func NewSessionManager(store TokenStore, users *api.UserService) *SessionManager {
	return &SessionManager{
		store:  store,
		users:  users,
		logger: slog.Default().With("module", "session"),
	}
}

// Restore loads a previously persisted token pair. The loading flag stays up
// until restore completes so the guard can hold off redirect decisions.
func (m *SessionManager) Restore() error {
	m.loading.Store(true)
	defer m.loading.Store(false)

	access, err := m.store.LoadToken(AccessTokenKey)
	if err != nil {
		return err
	}
	refresh, err := m.store.LoadToken(RefreshTokenKey)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.accessToken = access
	m.refreshToken = refresh
	m.authenticated = access != ""
	m.mu.Unlock()

	if access != "" {
		m.logger.Info("Session restored from storage")
	}
	return nil
}

// Login exchanges credentials for a session and persists the token pair.
func (m *SessionManager) Login(ctx context.Context, id, password string) error {
	m.loading.Store(true)
	defer m.loading.Store(false)

	pair, err := m.users.Login(ctx, id, password)
	if err != nil {
		return err
	}
	return m.install(pair)
}

// SeedDev installs a fixed token pair without a login round trip (dev mode).
func (m *SessionManager) SeedDev(access, refresh string) error {
	return m.install(api.TokenPair{AccessToken: access, RefreshToken: refresh})
}

func (m *SessionManager) install(pair api.TokenPair) error {
	m.mu.Lock()
	m.accessToken = pair.AccessToken
	m.refreshToken = pair.RefreshToken
	m.authenticated = pair.AccessToken != ""
	m.mu.Unlock()

	if err := m.store.SaveToken(AccessTokenKey, pair.AccessToken); err != nil {
		return err
	}
	return m.store.SaveToken(RefreshTokenKey, pair.RefreshToken)
}

// AccessToken returns the current bearer token ("" when logged out).
// Satisfies api.TokenSource.
func (m *SessionManager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accessToken
}

// IsAuthenticated reports whether a session currently exists.
func (m *SessionManager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authenticated
}

// Loading reports whether a restore or login is still in progress.
func (m *SessionManager) Loading() bool {
	return m.loading.Load()
}

// Refresh re-issues the token pair. Single-flight: a concurrent call while
// one is outstanding fails fast with ErrReissueInFlight instead of queueing.
// An unrecoverable 401/502 destroys the session.
func (m *SessionManager) Refresh(ctx context.Context) error {
	if !m.reissueInFlight.CompareAndSwap(false, true) {
		return domain.ErrReissueInFlight
	}
	defer m.reissueInFlight.Store(false)

	infra.GlobalMetrics.RecordReissue()

	m.mu.RLock()
	refresh := m.refreshToken
	m.mu.RUnlock()

	pair, err := m.users.Reissue(ctx, refresh)
	if err != nil {
		if domain.IsSessionFatal(err) {
			m.logger.Warn("Session unrecoverable, logging out", slog.Any("error", err))
			m.Logout()
		}
		return err
	}

	if err := m.install(pair); err != nil {
		return err
	}
	m.logger.Info("Session token reissued")
	return nil
}

// Logout destroys the session in memory and in storage.
func (m *SessionManager) Logout() {
	m.mu.Lock()
	m.accessToken = ""
	m.refreshToken = ""
	m.authenticated = false
	m.mu.Unlock()

	if err := m.store.DeleteToken(AccessTokenKey); err != nil {
		m.logger.Warn("Failed to clear access token", slog.Any("error", err))
	}
	if err := m.store.DeleteToken(RefreshTokenKey); err != nil {
		m.logger.Warn("Failed to clear refresh token", slog.Any("error", err))
	}
}
