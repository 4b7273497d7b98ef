// Package cryptox holds the small cryptographic helpers the server relies
// on for credential storage.
package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
)

// TokenDigest returns the hex-encoded salted SHA-256 digest of a bearer
// token. Only this digest is ever persisted; lookup works by digesting the
// presented token again, so the plaintext never needs to be stored.
func TokenDigest(salt string, token string) string {
	sum := sha256.Sum256([]byte(salt + ":" + token))
	return hex.EncodeToString(sum[:])
}
