package sessiongate

import (
	"context"
	"errors"

	"github.com/mhallsworth/sessiongate/session"
)

// Decision is the outcome of one admission check.
type Decision struct {
	State session.State
	// Renewed reports that the check re-stamped IssuedAt; the transport must
	// re-sign and re-set the session token so the client carries the renewed
	// record.
	Renewed bool
}

// Admitted reports whether the request may proceed.
func (d Decision) Admitted() bool {
	return d.State.Admitted()
}

// Authenticate judges one session record against the clock and, when the
// record has gone stale, against the store. It is the per-request gate:
//
//   - no record, or a record without a username: deny as NoSession.
//   - absolute deadline reached (ExpiresAt at or before now, or unset): deny.
//   - missing IssuedAt: deny; the record cannot be placed in the window.
//   - stale (IssuedAt older than AccessWindow): re-confirm the identity still
//     exists, then re-stamp IssuedAt to now and admit. A record whose
//     identity is gone denies even before its deadline. Renewal never moves
//     ExpiresAt.
//   - otherwise admit as Fresh.
//
// Denials come back with a sentinel error naming the category; only
// ErrStoreUnavailable is fatal rather than a deny-and-redirect.
func (e *Engine) Authenticate(ctx context.Context, rec *session.Record) (Decision, error) {
	if e == nil || e.store == nil {
		return Decision{}, ErrEngineNotReady
	}

	now := e.now()
	if rec == nil || rec.Username == "" {
		return Decision{State: session.NoSession}, nil
	}
	if rec.Expired(now) {
		e.metrics.SessionExpired()
		e.emitAudit(ctx, auditEventSessionExpired, rec.Username, false, ErrSessionExpired, nil)
		return Decision{State: session.Expired}, ErrSessionExpired
	}
	if rec.IssuedAt.IsZero() {
		return Decision{State: session.Expired}, ErrSessionMalformed
	}

	if rec.Stale(now, e.config.Session.AccessWindow) {
		if _, err := e.store.FindIdentity(ctx, rec.Username); err != nil {
			if errors.Is(err, ErrStoreUnavailable) {
				return Decision{}, err
			}
			e.metrics.SessionRevoked()
			e.emitAudit(ctx, auditEventSessionRevoked, rec.Username, false, ErrIdentityRevoked, nil)
			return Decision{State: session.Expired}, ErrIdentityRevoked
		}
		rec.IssuedAt = now
		e.metrics.SessionRenewed()
		e.emitAudit(ctx, auditEventSessionRenewed, rec.Username, true, nil, nil)
		return Decision{State: session.StaleRenewable, Renewed: true}, nil
	}

	return Decision{State: session.Fresh}, nil
}

// IssueSession mints the record for a fresh login. ExpiresAt is fixed here
// and never moves again for the life of the login; remember selects the
// longer lifetime and marks the record persistent for cookie purposes.
func (e *Engine) IssueSession(ctx context.Context, username string, remember bool) (session.Record, error) {
	if e == nil {
		return session.Record{}, ErrEngineNotReady
	}
	if username == "" {
		return session.Record{}, ErrMalformedInput
	}

	lifetime := e.config.Session.DefaultLifetime
	if remember {
		lifetime = e.config.Session.RememberLifetime
	}
	now := e.now()
	rec := session.Record{
		Username:   username,
		IssuedAt:   now,
		ExpiresAt:  now.Add(lifetime),
		Persistent: remember,
	}

	e.metrics.SessionIssued()
	e.emitAudit(ctx, auditEventSessionIssued, username, true, nil, nil)
	return rec, nil
}

// Login verifies the pair and, on success, issues a session record plus its
// signed wire form in one step.
func (e *Engine) Login(ctx context.Context, username, secret string, remember bool) (session.Record, string, error) {
	conf, err := e.VerifyCredentials(ctx, username, secret)
	if err != nil {
		return session.Record{}, "", err
	}
	rec, err := e.IssueSession(ctx, conf.Username, remember)
	if err != nil {
		return session.Record{}, "", err
	}
	raw, err := e.SignSession(&rec)
	if err != nil {
		return session.Record{}, "", err
	}
	return rec, raw, nil
}

// ClearSession zeroes the record in place. Used at logout and after any
// denial so a dangling record cannot be replayed by the same handler.
func (e *Engine) ClearSession(ctx context.Context, rec *session.Record) {
	if e == nil || rec == nil || rec.Username == "" {
		return
	}
	e.emitAudit(ctx, auditEventLogout, rec.Username, true, nil, nil)
	rec.Clear()
}

// SignSession produces the tamper-evident wire form of rec.
func (e *Engine) SignSession(rec *session.Record) (string, error) {
	if e == nil || e.tokens == nil {
		return "", ErrEngineNotReady
	}
	return e.tokens.Sign(rec)
}

// ParseSession recovers a record from its wire form. Signature failure or
// structural garbage comes back as token.ErrTokenInvalid; expiry is NOT
// judged here, that is Authenticate's job.
func (e *Engine) ParseSession(raw string) (*session.Record, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}
	return e.tokens.Parse(raw)
}
