// Package sessiongate is a minimal username/password authentication layer
// for small web applications: registration, login, logout, and session-gated
// access to protected routes.
//
// A login produces a signed session record that the client carries; each
// subsequent request judges that record against an absolute deadline and a
// sliding access window. Records inside the window admit untouched; stale
// records are re-confirmed against the identity store and silently renewed;
// records at or past their deadline, and records for identities that no
// longer exist, deny. Denial always maps to redirect-to-login, never to a
// hard failure — the one fatal category is store connectivity.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// sessiongate is the public surface. It exposes [Engine], [Builder],
// [Config], the [IdentityStore] contract, and the audit value types. Hashing
// lives in password/, the wire codec in token/, the record model in
// session/, HTTP adaptation in middleware/, and store adapters under store/.
// Audit dispatch lives under internal/ and is reached only through the
// re-exported aliases here.
//
// # What this package must NOT do
//
//   - Own credential storage: stores implement [IdentityStore]; the engine
//     only reads, inserts, and upgrades hashes through it.
//   - Judge session validity inside the token codec. Parse recovers the
//     record; [Engine.Authenticate] alone decides admission, so an expired
//     token still decodes and denies with the precise category.
//   - Render pages or own routing. middleware redirects; the host serves.
package sessiongate
