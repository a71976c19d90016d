// Package auth issues and verifies the signed access and refresh tokens used
// for sessions, and hashes and verifies user passwords.
//
// Token validity here is purely cryptographic (signature, expiry, type).
// Whether a refresh token is still the user's current one is decided by the
// session service, which compares it against the stored digest produced by
// HashRefreshToken.
package auth
