package sessiongate

import (
	"context"
	"io"
	"time"

	"github.com/mhallsworth/sessiongate/internal/audit"
)

// IdentityRecord is the engine's read view of one stored account. The store
// owns the schema; the engine only ever touches these three fields.
type IdentityRecord struct {
	Username     string
	PasswordHash string
	Email        string
}

// IdentityStore is the credential-lookup capability the engine consumes.
// Implementations map their backend's not-found and conflict conditions onto
// ErrUnknownIdentity and ErrDuplicateIdentity, and wrap connectivity failures
// with ErrStoreUnavailable.
type IdentityStore interface {
	FindIdentity(ctx context.Context, username string) (*IdentityRecord, error)
	StoreIdentity(ctx context.Context, rec IdentityRecord) error
	UpdatePasswordHash(ctx context.Context, username, newHash string) error
}

// Confirmation is the positive result of a credential check.
type Confirmation struct {
	Username string
	// RehashNeeded reports that the stored hash was produced under weaker
	// parameters than the engine's current configuration. The engine has
	// already attempted the migration by the time the caller sees this.
	RehashNeeded bool
}

// RegisterRequest carries one registration attempt. Confirm must repeat
// Password exactly.
type RegisterRequest struct {
	Username string
	Password string
	Confirm  string
	Email    string
}

// Clock supplies the current time. Injectable so tests can steer the
// session state machine.
type Clock func() time.Time

// Audit surface, re-exported so callers never import internal/audit.

// AuditEvent is a structured record of one security-relevant operation.
type AuditEvent = audit.Event

// AuditSink receives emitted audit events.
type AuditSink = audit.Sink

// NoOpSink drops audit events.
type NoOpSink = audit.NoOpSink

// ChannelSink buffers audit events on a channel for the host to drain.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes one JSON object per event line.
type JSONWriterSink = audit.JSONWriterSink

// NewChannelSink returns a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a sink writing newline-delimited JSON to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
