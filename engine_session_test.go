package sessiongate

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mhallsworth/sessiongate/session"
)

// clockAt returns a steerable clock starting at a fixed instant.
func clockAt(start time.Time) (Clock, *time.Time) {
	now := start
	return func() time.Time { return now }, &now
}

var t0 = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestIssueSessionLifetimes(t *testing.T) {
	clock, _ := clockAt(t0)
	e := testEngine(t, newMemStore(), clock)

	rec, err := e.IssueSession(context.Background(), "alice42", false)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	if !rec.IssuedAt.Equal(t0) {
		t.Fatalf("IssuedAt = %v, want %v", rec.IssuedAt, t0)
	}
	if got := rec.ExpiresAt.Sub(rec.IssuedAt); got != 24*time.Hour {
		t.Fatalf("default lifetime = %v, want 24h", got)
	}
	if rec.Persistent {
		t.Fatal("plain login must not be persistent")
	}

	rec, err = e.IssueSession(context.Background(), "alice42", true)
	if err != nil {
		t.Fatalf("IssueSession remember: %v", err)
	}
	if got := rec.ExpiresAt.Sub(rec.IssuedAt); got != 15*24*time.Hour {
		t.Fatalf("remember lifetime = %v, want 360h", got)
	}
	if !rec.Persistent {
		t.Fatal("remember login must be persistent")
	}
}

func TestAuthenticateFresh(t *testing.T) {
	clock, _ := clockAt(t0)
	store := newMemStore()
	e := testEngine(t, store, clock)
	mustRegister(t, e, "alice42", "correcthorse")

	rec, err := e.IssueSession(context.Background(), "alice42", false)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	finds := store.finds

	dec, err := e.Authenticate(context.Background(), &rec)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if dec.State != session.Fresh || !dec.Admitted() || dec.Renewed {
		t.Fatalf("decision = %+v, want fresh admission without renewal", dec)
	}
	if store.finds != finds {
		t.Fatal("fresh check must not touch the store")
	}
}

func TestAuthenticateDenials(t *testing.T) {
	clock, _ := clockAt(t0)
	e := testEngine(t, newMemStore(), clock)

	cases := []struct {
		name      string
		rec       *session.Record
		wantState session.State
		wantErr   error
	}{
		{"nil record", nil, session.NoSession, nil},
		{"empty record", &session.Record{}, session.NoSession, nil},
		{
			"no username",
			&session.Record{IssuedAt: t0, ExpiresAt: t0.Add(time.Hour)},
			session.NoSession, nil,
		},
		{
			"expired",
			&session.Record{Username: "alice42", IssuedAt: t0.Add(-2 * time.Hour), ExpiresAt: t0.Add(-time.Hour)},
			session.Expired, ErrSessionExpired,
		},
		{
			"expiry boundary counts as expired",
			&session.Record{Username: "alice42", IssuedAt: t0.Add(-time.Hour), ExpiresAt: t0},
			session.Expired, ErrSessionExpired,
		},
		{
			"missing expiry",
			&session.Record{Username: "alice42", IssuedAt: t0},
			session.Expired, ErrSessionExpired,
		},
		{
			"missing issue time",
			&session.Record{Username: "alice42", ExpiresAt: t0.Add(time.Hour)},
			session.Expired, ErrSessionMalformed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dec, err := e.Authenticate(context.Background(), tc.rec)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if dec.State != tc.wantState {
				t.Fatalf("state = %v, want %v", dec.State, tc.wantState)
			}
			if dec.Admitted() {
				t.Fatal("denial case admitted")
			}
		})
	}
}

func TestSlidingRenewal(t *testing.T) {
	clock, now := clockAt(t0)
	store := newMemStore()
	e := testEngine(t, store, clock)
	mustRegister(t, e, "alice42", "correcthorse")

	rec, err := e.IssueSession(context.Background(), "alice42", false)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	expiry := rec.ExpiresAt

	*now = t0.Add(31 * time.Minute)
	dec, err := e.Authenticate(context.Background(), &rec)
	if err != nil {
		t.Fatalf("Authenticate stale: %v", err)
	}
	if dec.State != session.StaleRenewable || !dec.Renewed {
		t.Fatalf("decision = %+v, want renewed stale admission", dec)
	}
	if !rec.IssuedAt.Equal(*now) {
		t.Fatalf("IssuedAt = %v, want re-stamped to %v", rec.IssuedAt, *now)
	}
	if !rec.ExpiresAt.Equal(expiry) {
		t.Fatalf("ExpiresAt moved from %v to %v on renewal", expiry, rec.ExpiresAt)
	}

	// renewal is idempotent: an immediate re-check is fresh
	dec, err = e.Authenticate(context.Background(), &rec)
	if err != nil {
		t.Fatalf("Authenticate after renewal: %v", err)
	}
	if dec.State != session.Fresh || dec.Renewed {
		t.Fatalf("decision = %+v, want fresh without renewal", dec)
	}
}

func TestRenewalNeverOutlivesDeadline(t *testing.T) {
	clock, now := clockAt(t0)
	store := newMemStore()
	e := testEngine(t, store, clock)
	mustRegister(t, e, "alice42", "correcthorse")

	rec, err := e.IssueSession(context.Background(), "alice42", false)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	// keep the session warm right up to the deadline, then cross it
	*now = t0.Add(24*time.Hour - time.Minute)
	if dec, err := e.Authenticate(context.Background(), &rec); err != nil || !dec.Admitted() {
		t.Fatalf("pre-deadline check: dec=%+v err=%v", dec, err)
	}

	*now = t0.Add(24 * time.Hour)
	dec, err := e.Authenticate(context.Background(), &rec)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("at deadline: err = %v, want ErrSessionExpired", err)
	}
	if dec.Admitted() {
		t.Fatal("admitted at the absolute deadline despite renewals")
	}
}

func TestRevocationAtRenewal(t *testing.T) {
	clock, now := clockAt(t0)
	store := newMemStore()
	e := testEngine(t, store, clock)
	mustRegister(t, e, "alice42", "correcthorse")

	rec, err := e.IssueSession(context.Background(), "alice42", false)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	store.delete("alice42")

	// inside the window the record still carries itself
	*now = t0.Add(10 * time.Minute)
	if dec, err := e.Authenticate(context.Background(), &rec); err != nil || dec.State != session.Fresh {
		t.Fatalf("in-window check: dec=%+v err=%v", dec, err)
	}

	// the next renewal discovers the identity is gone
	*now = t0.Add(40 * time.Minute)
	dec, err := e.Authenticate(context.Background(), &rec)
	if !errors.Is(err, ErrIdentityRevoked) {
		t.Fatalf("revoked renewal: err = %v, want ErrIdentityRevoked", err)
	}
	if dec.Admitted() {
		t.Fatal("revoked identity admitted")
	}
}

func TestRenewalStoreUnavailable(t *testing.T) {
	clock, now := clockAt(t0)
	store := newMemStore()
	e := testEngine(t, store, clock)
	mustRegister(t, e, "alice42", "correcthorse")

	rec, err := e.IssueSession(context.Background(), "alice42", false)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	*now = t0.Add(time.Hour)
	store.findErr = fmt.Errorf("%w: connection reset", ErrStoreUnavailable)
	if _, err := e.Authenticate(context.Background(), &rec); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("store down at renewal: err = %v, want ErrStoreUnavailable", err)
	}
}

func TestClearSession(t *testing.T) {
	clock, _ := clockAt(t0)
	e := testEngine(t, newMemStore(), clock)

	rec, err := e.IssueSession(context.Background(), "alice42", true)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	e.ClearSession(context.Background(), &rec)
	if !rec.Zero() || rec.Persistent {
		t.Fatalf("record not cleared: %+v", rec)
	}

	dec, err := e.Authenticate(context.Background(), &rec)
	if err != nil || dec.State != session.NoSession {
		t.Fatalf("cleared record: dec=%+v err=%v", dec, err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	clock, _ := clockAt(t0)
	e := testEngine(t, newMemStore(), clock)
	mustRegister(t, e, "alice42", "correcthorse")

	rec, raw, err := e.Login(context.Background(), "alice42", "correcthorse", false)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if raw == "" {
		t.Fatal("Login returned an empty token")
	}

	parsed, err := e.ParseSession(raw)
	if err != nil {
		t.Fatalf("ParseSession: %v", err)
	}
	if parsed.Username != rec.Username || !parsed.IssuedAt.Equal(rec.IssuedAt) || !parsed.ExpiresAt.Equal(rec.ExpiresAt) {
		t.Fatalf("parsed record %+v does not match issued %+v", parsed, rec)
	}
}

// Full lifecycle: register, fail a login, succeed, go stale, get revoked.
func TestSessionLifecycleScenario(t *testing.T) {
	clock, now := clockAt(t0)
	store := newMemStore()
	e := testEngine(t, store, clock)

	if err := e.Register(context.Background(), RegisterRequest{
		Username: "alice",
		Password: "Secret123!",
		Confirm:  "Secret123!",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := e.Login(context.Background(), "alice", "wrongpass", false); !errors.Is(err, ErrBadSecret) {
		t.Fatalf("wrong password login = %v, want ErrBadSecret", err)
	}

	rec, _, err := e.Login(context.Background(), "alice", "Secret123!", false)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if dec, err := e.Authenticate(context.Background(), &rec); err != nil || !dec.Admitted() {
		t.Fatalf("fresh session: dec=%+v err=%v", dec, err)
	}

	// past the access window, before the deadline, with the account deleted
	*now = t0.Add(45 * time.Minute)
	store.delete("alice")

	dec, err := e.Authenticate(context.Background(), &rec)
	if !errors.Is(err, ErrIdentityRevoked) {
		t.Fatalf("deleted account = %v, want ErrIdentityRevoked", err)
	}
	if dec.Admitted() {
		t.Fatal("deleted account admitted")
	}
}
