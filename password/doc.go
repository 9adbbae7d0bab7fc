// Package password implements memory-hard password hashing with Argon2id.
//
// # Output format
//
// Hashes are encoded as PHC strings with embedded salt and cost parameters:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<key>
//
// Verification always runs under the parameters embedded in the stored hash,
// so old hashes keep verifying after the target parameters are raised.
// [Hasher.NeedsRehash] reports when a stored hash is weaker than the current
// target, letting the caller migrate it during the next successful login.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (minimum
// length, confirmation matching) is enforced by the Engine, and storage of the
// resulting hash belongs to the identity store.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Import any other sessiongate package.
//   - Log plaintext secrets or derived keys.
package password
