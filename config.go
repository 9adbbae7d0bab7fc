package sessiongate

import (
	"errors"
	"time"

	"github.com/mhallsworth/sessiongate/internal/audit"
	"github.com/mhallsworth/sessiongate/password"
	"github.com/mhallsworth/sessiongate/token"
)

// Config carries every tunable of the engine. Construct it with
// DefaultConfig, adjust the fields you care about, and hand it to the
// Builder; Build calls Validate before wiring anything.
type Config struct {
	Password PasswordConfig
	Session  SessionConfig
	Token    TokenConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig sets the argon2id cost parameters used for new hashes and
// as the floor for rehash-on-login migration.
type PasswordConfig struct {
	Memory         uint32 // in KiB
	Time           uint32
	Parallelism    uint8
	SaltLength     uint32
	KeyLength      uint32
	UpgradeOnLogin bool
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig sets the session-credential lifecycle windows.
type SessionConfig struct {
	// DefaultLifetime is the absolute deadline for a plain login.
	DefaultLifetime time.Duration
	// RememberLifetime is the absolute deadline when the caller asked to be
	// remembered.
	RememberLifetime time.Duration
	// AccessWindow is the sliding interval: a record older than this is
	// re-confirmed against the store and re-stamped on admission.
	AccessWindow time.Duration
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig configures the signed wire form of the session record.
type TokenConfig struct {
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls Prometheus counter registration.
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// DefaultConfig returns the baseline configuration: OWASP-shaped argon2id
// costs, a one-day session with a fifteen-day remember option, and a
// thirty-minute sliding window.
func DefaultConfig() Config {
	return Config{
		Password: PasswordConfig{
			Memory:         64 * 1024,
			Time:           3,
			Parallelism:    2,
			SaltLength:     16,
			KeyLength:      32,
			UpgradeOnLogin: true,
		},
		Session: SessionConfig{
			DefaultLifetime:  24 * time.Hour,
			RememberLifetime: 15 * 24 * time.Hour,
			AccessWindow:     30 * time.Minute,
		},
		Token: TokenConfig{
			SigningMethod: "hs256",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: "sessiongate",
		},
	}
}

// Validate rejects configurations the engine cannot run with. Each failure
// names the field so misconfiguration surfaces at Build, not mid-request.
func (c Config) Validate() error {
	if c.Password.Memory < 8*1024 {
		return errors.New("config: Password.Memory below 8 MiB")
	}
	if c.Password.Time == 0 {
		return errors.New("config: Password.Time must be at least 1")
	}
	if c.Password.Parallelism == 0 {
		return errors.New("config: Password.Parallelism must be at least 1")
	}
	if c.Password.SaltLength < 8 {
		return errors.New("config: Password.SaltLength below 8 bytes")
	}
	if c.Password.KeyLength < 16 {
		return errors.New("config: Password.KeyLength below 16 bytes")
	}
	if c.Session.DefaultLifetime <= 0 {
		return errors.New("config: Session.DefaultLifetime must be positive")
	}
	if c.Session.RememberLifetime < c.Session.DefaultLifetime {
		return errors.New("config: Session.RememberLifetime shorter than DefaultLifetime")
	}
	if c.Session.AccessWindow <= 0 {
		return errors.New("config: Session.AccessWindow must be positive")
	}
	if c.Session.AccessWindow > c.Session.DefaultLifetime {
		return errors.New("config: Session.AccessWindow exceeds DefaultLifetime")
	}
	switch token.SigningMethod(c.Token.SigningMethod) {
	case token.MethodHS256, token.MethodEd25519:
	default:
		return errors.New("config: Token.SigningMethod must be hs256 or ed25519")
	}
	if len(c.Token.PrivateKey) == 0 {
		return errors.New("config: Token.PrivateKey is required")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("config: Audit.BufferSize must be positive when audit is enabled")
	}
	return nil
}

func (c Config) passwordConfig() password.Config {
	return password.Config{
		Memory:      c.Password.Memory,
		Time:        c.Password.Time,
		Parallelism: c.Password.Parallelism,
		SaltLength:  c.Password.SaltLength,
		KeyLength:   c.Password.KeyLength,
	}
}

func (c Config) tokenConfig() token.Config {
	return token.Config{
		SigningMethod: token.SigningMethod(c.Token.SigningMethod),
		PrivateKey:    c.Token.PrivateKey,
		PublicKey:     c.Token.PublicKey,
		Issuer:        c.Token.Issuer,
	}
}

func (c Config) auditConfig() audit.Config {
	return audit.Config{
		Enabled:    c.Audit.Enabled,
		BufferSize: c.Audit.BufferSize,
		DropIfFull: c.Audit.DropIfFull,
	}
}
