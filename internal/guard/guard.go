// Package guard decides, before every route change, whether the navigation
// may proceed. It checks that a session exists, verifies the stored token
// against the backend, and enforces the elevated-role requirement of admin
// routes.
package guard

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/volunteerhub/dashboard/internal/core/domain"
	"github.com/volunteerhub/dashboard/internal/core/ports"
	"github.com/volunteerhub/dashboard/internal/metrics"
	"github.com/volunteerhub/dashboard/internal/session"
)

// Decision is the kind of terminal outcome.
type Decision string

const (
	Allow    Decision = "allow"
	Redirect Decision = "redirect"
	Block    Decision = "block"
)

// Outcome is the single result of a navigation attempt. Target is set for
// redirects only.
type Outcome struct {
	Decision Decision
	Target   string
	Reason   string
}

const (
	DefaultLoginPath            = "/login"
	DefaultAuthenticatedLanding = "/activities"
	DefaultNonElevatedLanding   = "/"
	// PassSentinel is the verification result of a valid token.
	PassSentinel = "Pass"
)

type Options struct {
	LoginPath            string
	AuthenticatedLanding string
	NonElevatedLanding   string
	ElevatedRole         domain.Role
	Sentinel             string
	// Dedupe shares one in-flight verification between concurrent
	// navigations presenting the same token.
	Dedupe bool
}

func (o *Options) defaults() {
	if o.LoginPath == "" {
		o.LoginPath = DefaultLoginPath
	}
	if o.AuthenticatedLanding == "" {
		o.AuthenticatedLanding = DefaultAuthenticatedLanding
	}
	if o.NonElevatedLanding == "" {
		o.NonElevatedLanding = DefaultNonElevatedLanding
	}
	if o.ElevatedRole == "" {
		o.ElevatedRole = domain.RoleSuperAdmin
	}
	if o.Sentinel == "" {
		o.Sentinel = PassSentinel
	}
}

type Guard struct {
	session  *session.Store
	verifier ports.TokenVerifier
	opts     Options
	group    *singleflight.Group
	log      zerolog.Logger
}

func New(store *session.Store, verifier ports.TokenVerifier, opts Options, log zerolog.Logger) *Guard {
	opts.defaults()
	g := &Guard{session: store, verifier: verifier, opts: opts, log: log}
	if opts.Dedupe {
		g.group = &singleflight.Group{}
	}
	return g
}

func (g *Guard) Options() Options { return g.opts }

// Before evaluates nav and returns exactly one outcome. It never returns an
// error: every failure resolves to a decision.
func (g *Guard) Before(ctx context.Context, nav Navigation) Outcome {
	out := g.decide(ctx, nav)
	metrics.GuardDecisionsTotal.WithLabelValues(string(out.Decision), out.Reason).Inc()
	ev := g.log.Debug()
	if out.Decision == Block {
		ev = g.log.Warn()
	}
	ev.Str("to", nav.To).
		Str("decision", string(out.Decision)).
		Str("target", out.Target).
		Str("reason", out.Reason).
		Msg("navigation decided")
	return out
}

func (g *Guard) decide(ctx context.Context, nav Navigation) Outcome {
	snap, err := g.session.Snapshot(ctx)
	if err != nil {
		// Unreadable storage is treated as no session.
		g.log.Warn().Err(err).Msg("session storage unavailable")
		snap = session.Snapshot{}
	}

	g.log.Debug().
		Str("to", nav.To).
		Str("from", nav.From).
		Bool("requires_auth", nav.RequiresAuth).
		Bool("requires_elevated", nav.RequiresElevatedRole).
		Str("token", presence(snap.Token)).
		Str("user_info", presence(snap.UserInfo)).
		Msg("navigation")

	if nav.To == g.opts.LoginPath {
		return g.loginPage(ctx, snap)
	}

	if !nav.RequiresAuth && !nav.RequiresElevatedRole {
		return Outcome{Decision: Allow, Reason: "public"}
	}

	if snap.Token == "" {
		return g.redirect(g.opts.LoginPath, "no_token")
	}
	if out, ok := g.verify(ctx, snap.Token); !ok {
		return out
	}
	if snap.UserInfo == "" {
		return g.redirect(g.opts.LoginPath, "no_user_record")
	}

	if nav.RequiresElevatedRole {
		u, err := session.ParseUser(snap.UserInfo)
		if err != nil {
			g.log.Warn().Err(err).Msg("clearing unreadable user record")
			g.clear(ctx)
			return g.redirect(g.opts.LoginPath, "invalid_user_record")
		}
		if domain.Role(session.NormalizeString(string(u.Role))) != g.opts.ElevatedRole {
			return g.redirect(g.opts.NonElevatedLanding, "not_elevated")
		}
	}
	return Outcome{Decision: Allow, Reason: "authenticated"}
}

// loginPage sends an already authenticated user to the landing page and
// otherwise lets the login page open.
func (g *Guard) loginPage(ctx context.Context, snap session.Snapshot) Outcome {
	if snap.Token == "" {
		return Outcome{Decision: Allow, Reason: "login"}
	}
	out, ok := g.verify(ctx, snap.Token)
	if !ok {
		if out.Decision == Block {
			return out
		}
		return Outcome{Decision: Allow, Reason: "login"}
	}
	if snap.UserInfo == "" {
		return Outcome{Decision: Allow, Reason: "login"}
	}
	return g.redirect(g.opts.AuthenticatedLanding, "already_authenticated")
}

// verify checks token once. On failure it clears the session and returns the
// terminal outcome with ok false.
func (g *Guard) verify(ctx context.Context, token string) (Outcome, bool) {
	result, err := g.callVerifier(ctx, token)
	switch {
	case err != nil && ctx.Err() != nil:
		metrics.GuardVerificationsTotal.WithLabelValues("error").Inc()
		return Outcome{Decision: Block, Reason: "cancelled"}, false
	case err != nil:
		metrics.GuardVerificationsTotal.WithLabelValues("error").Inc()
		g.log.Debug().Err(err).Msg("token verification failed")
	case result != g.opts.Sentinel:
		metrics.GuardVerificationsTotal.WithLabelValues("fail").Inc()
		g.log.Debug().Str("result", result).Msg("token rejected")
	default:
		metrics.GuardVerificationsTotal.WithLabelValues("pass").Inc()
		return Outcome{}, true
	}
	g.clear(ctx)
	return g.redirect(g.opts.LoginPath, "token_invalid"), false
}

func (g *Guard) callVerifier(ctx context.Context, token string) (string, error) {
	if g.group == nil {
		return g.verifier.VerifyToken(ctx, token)
	}
	// The shared call outlives any single caller; each waiter stops on its
	// own context.
	shared := context.WithoutCancel(ctx)
	ch := g.group.DoChan(token, func() (any, error) {
		return g.verifier.VerifyToken(shared, token)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (g *Guard) clear(ctx context.Context) {
	if err := g.session.Clear(context.WithoutCancel(ctx)); err != nil {
		g.log.Error().Err(err).Msg("failed to clear session")
	}
}

func (g *Guard) redirect(target, reason string) Outcome {
	return Outcome{Decision: Redirect, Target: target, Reason: reason}
}

func presence(v string) string {
	if v == "" {
		return "missing"
	}
	return "exists"
}

// ErrBlocked is returned by Navigator when a navigation is abandoned.
var ErrBlocked = errors.New("navigation blocked")
