package session

import (
	"crypto/rand"
	"encoding/hex"
)

// identifierBytes of randomness back every session identifier and CSRF token.
const identifierBytes = 20

func randomHex() string {
	b := make([]byte, identifierBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewIdentifier returns a fresh session identifier: 20 random bytes, hex
// encoded.
func NewIdentifier() string {
	return randomHex()
}

// IsIdentifier reports whether s has the shape of a session identifier.
func IsIdentifier(s string) bool {
	if len(s) != identifierBytes*2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
