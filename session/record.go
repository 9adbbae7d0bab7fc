package session

import "time"

// State classifies a session record at a point in time. Fresh and
// StaleRenewable admit the caller; NoSession and Expired deny and redirect to
// the login entry point.
type State uint8

const (
	// NoSession means no record is present, or the record carries no username.
	NoSession State = iota
	// Expired means the record's absolute lifetime has passed, or a mandatory
	// timestamp is missing.
	Expired
	// StaleRenewable means the record is valid but its issue timestamp has
	// aged past the access window and was refreshed during this check.
	StaleRenewable
	// Fresh means the record is valid and inside the access window.
	Fresh
)

// Admitted reports whether the state authenticates the caller.
func (s State) Admitted() bool {
	return s == Fresh || s == StaleRenewable
}

func (s State) String() string {
	switch s {
	case NoSession:
		return "no_session"
	case Expired:
		return "expired"
	case StaleRenewable:
		return "stale_renewable"
	case Fresh:
		return "fresh"
	default:
		return "unknown"
	}
}

// Record is the session record the guard issues after a successful
// verification and inspects on every protected-route request. It is carried
// between requests as a signed client-held token; the record itself holds no
// secret material.
type Record struct {
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Persistent marks the record to outlive the client session
	// ("remember me"). Cleared on logout so the transport drops the record
	// with the browser session.
	Persistent bool
}

// Zero reports whether the record carries no session at all.
func (r *Record) Zero() bool {
	return r == nil || (r.Username == "" && r.IssuedAt.IsZero() && r.ExpiresAt.IsZero())
}

// Expired reports whether the record's absolute lifetime has passed at now.
// The boundary counts as expired: a record with ExpiresAt == now is invalid.
// A zero ExpiresAt is treated as expired rather than immortal.
func (r *Record) Expired(now time.Time) bool {
	return r.ExpiresAt.IsZero() || !now.Before(r.ExpiresAt)
}

// Stale reports whether the record's issue timestamp has aged past window at
// now. A zero IssuedAt is not stale; it is malformed and handled as expired
// by the guard.
func (r *Record) Stale(now time.Time, window time.Duration) bool {
	return !r.IssuedAt.IsZero() && now.Sub(r.IssuedAt) >= window
}

// Clear zeroes every field in place. Used on logout; the transport layer is
// expected to drop a cleared, non-persistent record at the end of the client
// session.
func (r *Record) Clear() {
	*r = Record{}
}
