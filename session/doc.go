// Package session defines the session record model and its admission states.
//
// A [Record] is created by the Engine after a successful credential
// verification, carried between requests as a signed client-held token, and
// classified into a [State] on every protected-route check. Two clocks govern
// a record: the absolute lifetime (ExpiresAt, fixed at issuance) and the
// sliding access window (measured from IssuedAt, refreshed on renewal).
// Renewal never extends ExpiresAt.
//
// # Architecture boundaries
//
// This package owns the record shape and the pure time predicates over it.
// The ordered admission decision — including the identity revocation check a
// stale record triggers — lives in the Engine; signing and transport live in
// the token and middleware packages.
//
// # What this package must NOT do
//
//   - Import any other sessiongate package.
//   - Touch identity storage or wall clocks (callers pass `now` explicitly).
//   - Hold secret material in [Record] fields.
package session
