package sessiongate

import (
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mhallsworth/sessiongate/internal/audit"
	"github.com/mhallsworth/sessiongate/password"
	"github.com/mhallsworth/sessiongate/token"
)

// Builder assembles an Engine. Chain the With* methods, then call Build
// exactly once; a Builder is not reusable after Build.
type Builder struct {
	config Config

	store     IdentityStore
	auditSink AuditSink
	logger    *slog.Logger
	clock     Clock
	registry  prometheus.Registerer

	built bool
}

// New returns a Builder preloaded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithSigningKey sets the HS256 shared secret without touching the rest of
// the configuration.
func (b *Builder) WithSigningKey(key []byte) *Builder {
	b.config.Token.PrivateKey = key
	return b
}

// WithIdentityStore sets the credential backend. Required.
func (b *Builder) WithIdentityStore(store IdentityStore) *Builder {
	b.store = store
	return b
}

// WithAuditSink sets the destination for audit events. Ignored unless
// Config.Audit.Enabled is set.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the logger used for swallowed-failure warnings. Defaults
// to slog.Default.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithClock overrides the time source. Tests use this to steer expiry and
// renewal without sleeping.
func (b *Builder) WithClock(clock Clock) *Builder {
	b.clock = clock
	return b
}

// WithMetricsRegistry enables metrics and registers the engine's collectors
// on reg.
func (b *Builder) WithMetricsRegistry(reg prometheus.Registerer) *Builder {
	b.config.Metrics.Enabled = true
	b.registry = reg
	return b
}

// Build validates the configuration, wires the engine, and starts the audit
// dispatcher when enabled.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.store == nil {
		return nil, errors.New("identity store is required")
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(b.config.passwordConfig())
	if err != nil {
		return nil, err
	}
	tokens, err := token.NewManager(b.config.tokenConfig())
	if err != nil {
		return nil, err
	}

	clock := b.clock
	if clock == nil {
		clock = time.Now
	}
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	var metrics *Metrics
	if b.config.Metrics.Enabled {
		metrics, err = newMetrics(b.config.Metrics.Namespace, b.registry)
		if err != nil {
			return nil, err
		}
	}

	e := &Engine{
		config:  b.config,
		store:   b.store,
		hasher:  hasher,
		tokens:  tokens,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
		audit:   audit.NewDispatcher(b.config.auditConfig(), b.auditSink),
	}

	b.built = true
	return e, nil
}
