package sessiongate

import "errors"

var (
	// ErrMalformedInput is returned when a required input field is empty or
	// fails shape validation before any store or hashing work happens.
	ErrMalformedInput = errors.New("malformed input")
	// ErrUnknownIdentity is returned when no identity exists for the username.
	ErrUnknownIdentity = errors.New("unknown identity")
	// ErrBadSecret is returned when the supplied secret does not match the
	// stored hash.
	ErrBadSecret = errors.New("secret does not match")
	// ErrDuplicateIdentity is returned by registration when the username is
	// already taken.
	ErrDuplicateIdentity = errors.New("identity already exists")
	// ErrPasswordPolicy is returned when a new password fails the registration
	// policy (length, confirmation mismatch).
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrSessionExpired is returned when a session record is past its absolute
	// deadline.
	ErrSessionExpired = errors.New("session expired")
	// ErrSessionMalformed is returned when a session record is structurally
	// unusable: missing username or timestamps.
	ErrSessionMalformed = errors.New("session record malformed")
	// ErrIdentityRevoked is returned when a renewal check finds the identity
	// no longer exists in the store.
	ErrIdentityRevoked = errors.New("identity revoked")
	// ErrStoreUnavailable wraps identity-store connectivity failures. This is
	// the one error category callers should treat as fatal rather than as a
	// deny decision.
	ErrStoreUnavailable = errors.New("identity store unavailable")
	// ErrEngineNotReady is returned when the engine is used before Build
	// wired its dependencies.
	ErrEngineNotReady = errors.New("engine not initialized")
)
