package sessiongate

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the engine's Prometheus counters. A nil *Metrics is valid
// and makes every recording call a no-op, so the engine never branches on
// whether metrics are enabled.
type Metrics struct {
	loginSuccess    prometheus.Counter
	loginFailure    prometheus.Counter
	sessionsIssued  prometheus.Counter
	sessionsRenewed prometheus.Counter
	sessionsExpired prometheus.Counter
	sessionsRevoked prometheus.Counter
	rehashUpgraded  prometheus.Counter
	rehashFailed    prometheus.Counter
}

func newMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = "sessiongate"
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
	}

	m := &Metrics{
		loginSuccess:    counter("login_success_total", "Credential verifications that matched."),
		loginFailure:    counter("login_failure_total", "Credential verifications that did not match."),
		sessionsIssued:  counter("sessions_issued_total", "Session records minted at login."),
		sessionsRenewed: counter("sessions_renewed_total", "Stale sessions re-stamped inside the access window."),
		sessionsExpired: counter("sessions_expired_total", "Sessions denied at their absolute deadline."),
		sessionsRevoked: counter("sessions_revoked_total", "Sessions denied because the identity vanished."),
		rehashUpgraded:  counter("rehash_upgraded_total", "Stored hashes migrated to current parameters."),
		rehashFailed:    counter("rehash_failed_total", "Hash migrations that failed and were swallowed."),
	}

	if reg != nil {
		collectors := []prometheus.Collector{
			m.loginSuccess, m.loginFailure,
			m.sessionsIssued, m.sessionsRenewed, m.sessionsExpired, m.sessionsRevoked,
			m.rehashUpgraded, m.rehashFailed,
		}
		for _, c := range collectors {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) LoginSuccess() {
	if m != nil {
		m.loginSuccess.Inc()
	}
}

func (m *Metrics) LoginFailure() {
	if m != nil {
		m.loginFailure.Inc()
	}
}

func (m *Metrics) SessionIssued() {
	if m != nil {
		m.sessionsIssued.Inc()
	}
}

func (m *Metrics) SessionRenewed() {
	if m != nil {
		m.sessionsRenewed.Inc()
	}
}

func (m *Metrics) SessionExpired() {
	if m != nil {
		m.sessionsExpired.Inc()
	}
}

func (m *Metrics) SessionRevoked() {
	if m != nil {
		m.sessionsRevoked.Inc()
	}
}

func (m *Metrics) RehashUpgraded() {
	if m != nil {
		m.rehashUpgraded.Inc()
	}
}

func (m *Metrics) RehashFailed() {
	if m != nil {
		m.rehashFailed.Inc()
	}
}
