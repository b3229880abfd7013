package auth

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"crepe_admin/internal/domain"
)

// GuardState is the outcome of one route evaluation.
type GuardState int

const (
	StateUninitialized GuardState = iota
	StatePublicRoute
	StateLoading
	StateUnauthenticated
	StateAuthenticated
)

func (s GuardState) String() string {
	switch s {
	case StatePublicRoute:
		return "public"
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "uninitialized"
	}
}

// LoginRoute is where unauthenticated entries are redirected.
const LoginRoute = "/login"

// redirectLockTTL bounds how long the redirect lock can stay held; it
// self-clears so a stuck navigation cannot wedge the guard forever.
const redirectLockTTL = 3 * time.Second

// Guard gates non-public routes behind a valid session and attempts silent
// recovery before forcing re-authentication.
type Guard struct {
	session   *SessionManager
	deepCheck func(ctx context.Context) error
	redirect  func(target string)

	publicRoutes     map[string]bool
	excludePatterns  []*regexp.Regexp
	criticalPrefixes []string

	initialized atomic.Bool // deep check passed at least once
	redirecting atomic.Bool
	lockTTL     time.Duration

	logger *slog.Logger
}

// NewGuard wires a guard over a session. deepCheck is the server-side
// session validation call; redirect performs navigation to a route.
func NewGuard(session *SessionManager, deepCheck func(ctx context.Context) error, redirect func(target string)) *Guard {
	return &Guard{
		session:   session,
		deepCheck: deepCheck,
		redirect:  redirect,
		publicRoutes: map[string]bool{
			"/":      true,
			"/login": true,
		},
		excludePatterns: []*regexp.Regexp{
			regexp.MustCompile(`^/api/`),
			regexp.MustCompile(`\.(js|css|map|png|svg|ico|woff2?)$`),
		},
		criticalPrefixes: []string{"/token", "/account"},
		lockTTL:          redirectLockTTL,
		logger:           slog.Default().With("module", "auth_guard"),
	}
}

// Evaluate runs the guard for one route entry. Public routes pass through
// untouched; protected routes require a live session, with a one-time deep
// validation that re-triggers on critical prefixes. The redirect callback
// fires at most once per lock window even under rapid repeated evaluation.
func (g *Guard) Evaluate(ctx context.Context, path string) GuardState {
	if g.isPublic(path) {
		return StatePublicRoute
	}

	if g.session.Loading() {
		// No redirect while the session is still being resolved.
		return StateLoading
	}

	if !g.session.IsAuthenticated() {
		g.redirectOnce()
		return StateUnauthenticated
	}

	if !g.initialized.Load() || g.isCritical(path) {
		if !g.runDeepCheck(ctx) {
			g.redirectOnce()
			return StateUnauthenticated
		}
		g.initialized.Store(true)
	}

	return StateAuthenticated
}

// runDeepCheck validates the session server-side. Token/expiry failures give
// up immediately; anything else gets one silent re-issue before failing.
func (g *Guard) runDeepCheck(ctx context.Context) bool {
	err := g.deepCheck(ctx)
	if err == nil {
		return true
	}

	if domain.IsTokenError(err) {
		g.logger.Warn("Deep check rejected session", slog.Any("error", err))
		g.session.Logout()
		return false
	}

	g.logger.Info("Deep check failed, attempting silent reissue", slog.Any("error", err))
	if rerr := g.session.Refresh(ctx); rerr != nil {
		g.session.Logout()
		return false
	}
	if err := g.deepCheck(ctx); err != nil {
		g.session.Logout()
		return false
	}
	return true
}

func (g *Guard) isPublic(path string) bool {
	if g.publicRoutes[path] {
		return true
	}
	for _, re := range g.excludePatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

func (g *Guard) isCritical(path string) bool {
	for _, prefix := range g.criticalPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// redirectOnce fires the redirect callback under the self-clearing lock, so
// duplicate concurrent evaluations cannot stack redirects.
func (g *Guard) redirectOnce() {
	if !g.redirecting.CompareAndSwap(false, true) {
		return
	}
	time.AfterFunc(g.lockTTL, func() { g.redirecting.Store(false) })

	g.logger.Info("Redirecting to login")
	if g.redirect != nil {
		g.redirect(LoginRoute)
	}
}
