// Package shared provides utility functions for generating random
// identifiers and tokens and for secure memory wiping.
package shared

import (
	"crypto/rand"
	"encoding/base64"
)

// MakeRandBase64URLString generates a random URL-safe base64 string from
// size random bytes. The encoding is unpadded, so the final string length
// is ceil(size*4/3).
//
// Example:
//
//	s, err := MakeRandBase64URLString(24)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(s) // e.g., "vN3p8qT1Zg..."
//
// It returns an error if the random number generator fails.
func MakeRandBase64URLString(size int) (string, error) {
	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// This is useful for removing sensitive data such as bearer tokens from
// memory after use.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
