// Package token serializes session records into signed, client-held tokens.
//
// The wire form is a compact JWT (HS256 or Ed25519): the record's username
// becomes the sub claim, its timestamps become iat/exp, and the persistent
// flag travels as a private claim. Tamper evidence comes from the signature;
// nothing in the token is encrypted, so records must never carry secrets.
//
// Parse intentionally skips time-based claim validation. Expiry and staleness
// are the guard's decisions, and the guard needs the decoded record even when
// it is already past its lifetime.
package token
