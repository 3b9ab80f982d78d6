package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

const AccessTokenBytes = 32

// GenerateAccessToken creates a cryptographically random opaque token.
func GenerateAccessToken() (string, error) {
	bytes := make([]byte, AccessTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// HashString returns the hex SHA-256 of s. Used as the deterministic
// lookup key for access tokens; the plaintext token is never stored.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// SecureCompare compares two strings in constant time.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
