package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashRefreshToken returns the hex SHA-256 digest stored in place of a raw refresh token.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RefreshTokenMatches reports whether token is the one whose digest is stored.
// A nil or empty digest never matches.
func RefreshTokenMatches(token string, storedDigest *string) bool {
	if storedDigest == nil || *storedDigest == "" || token == "" {
		return false
	}
	digest := HashRefreshToken(token)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(*storedDigest)) == 1
}
