// Package middleware adapts sessiongate's admission decisions into a
// net/http route guard with cookie transport.
//
// # Guard
//
// [Guard] reads the session cookie, recovers the record through
// Engine.ParseSession, and asks Engine.Authenticate for a decision. Admitted
// requests carry the username and record in the request context; when the
// admission silently renewed the session, the guard re-signs the record and
// re-sets the cookie so the client keeps the renewed copy. Every denial
// redirects to the login URL.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// Engine.Authenticate.
//
// # What this package must NOT do
//
//   - Parse or create session tokens directly (delegates to Engine).
//   - Touch the identity store (Engine handles I/O).
//   - Make admission decisions beyond pass/redirect from the Engine.
package middleware
