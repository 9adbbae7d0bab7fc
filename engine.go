package sessiongate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mhallsworth/sessiongate/internal/audit"
	"github.com/mhallsworth/sessiongate/password"
	"github.com/mhallsworth/sessiongate/token"
)

// Engine is the assembled authentication core: credential verification on
// one side, session admission on the other. Construct it with the Builder;
// a zero Engine is not usable. All methods are safe for concurrent use.
type Engine struct {
	config  Config
	store   IdentityStore
	hasher  *password.Hasher
	tokens  *token.Manager
	clock   Clock
	logger  *slog.Logger
	metrics *Metrics
	audit   *audit.Dispatcher
}

// Close flushes and stops the audit dispatcher. The engine itself holds no
// other background state.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) now() time.Time {
	if e.clock == nil {
		return time.Now()
	}
	return e.clock()
}

// VerifyCredentials checks one username/secret pair against the store.
// Empty inputs fail before any store or hashing work. On a match, when the
// stored hash was produced under weaker cost parameters than the current
// configuration, the engine immediately re-hashes the secret and writes the
// upgrade back; that migration is best-effort and its failure is logged and
// audited, never surfaced, because the login itself already succeeded.
func (e *Engine) VerifyCredentials(ctx context.Context, username, secret string) (Confirmation, error) {
	if e == nil || e.store == nil || e.hasher == nil {
		return Confirmation{}, ErrEngineNotReady
	}
	if username == "" || secret == "" {
		return Confirmation{}, ErrMalformedInput
	}

	rec, err := e.store.FindIdentity(ctx, username)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			return Confirmation{}, err
		}
		e.metrics.LoginFailure()
		e.emitAudit(ctx, auditEventLoginFailure, username, false, ErrUnknownIdentity, map[string]string{
			"reason": "unknown_identity",
		})
		return Confirmation{}, ErrUnknownIdentity
	}

	ok, err := e.hasher.Verify(secret, rec.PasswordHash)
	if err != nil || !ok {
		e.metrics.LoginFailure()
		e.emitAudit(ctx, auditEventLoginFailure, username, false, ErrBadSecret, map[string]string{
			"reason": "secret_mismatch",
		})
		return Confirmation{}, ErrBadSecret
	}

	conf := Confirmation{Username: username}
	if e.config.Password.UpgradeOnLogin {
		needs, err := e.hasher.NeedsRehash(rec.PasswordHash)
		if err == nil && needs {
			conf.RehashNeeded = true
			e.migrateHash(ctx, username, secret)
		}
	}

	e.metrics.LoginSuccess()
	e.emitAudit(ctx, auditEventLoginSuccess, username, true, nil, nil)
	return conf, nil
}

// migrateHash upgrades a stored hash to current cost parameters after a
// successful verification. Every failure path only warns: the caller's login
// stands regardless.
func (e *Engine) migrateHash(ctx context.Context, username, secret string) {
	newHash, err := e.hasher.Hash(secret)
	if err == nil {
		err = e.store.UpdatePasswordHash(ctx, username, newHash)
	}
	if err != nil {
		e.logger.Warn("password hash migration failed",
			"username", username,
			"error", err,
		)
		e.metrics.RehashFailed()
		e.emitAudit(ctx, auditEventRehashFailed, username, false, err, nil)
		return
	}
	e.metrics.RehashUpgraded()
	e.emitAudit(ctx, auditEventRehashUpgraded, username, true, nil, nil)
}

// HashForStorage produces a fresh argon2id hash of secret under current
// parameters. Two calls with the same secret never produce the same output.
func (e *Engine) HashForStorage(secret string) (string, error) {
	if e == nil || e.hasher == nil {
		return "", ErrEngineNotReady
	}
	if secret == "" {
		return "", ErrMalformedInput
	}
	return e.hasher.Hash(secret)
}
