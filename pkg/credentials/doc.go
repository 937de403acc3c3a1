// Package credentials implements the two opaque primitives the registry core
// depends on: the one-way password function (bcrypt) and the signed claims
// codec (HMAC-signed JWTs).
//
// Passwords are hashed with a per-hash salt at a configurable cost;
// verification is constant-time. Tokens carry the principal id, role, and the
// must-change-password flag, plus an expiry; verification rejects bad
// signatures, malformed tokens, and expired claims with
// registry.ErrInvalidToken.
package credentials
