// Package id makes short tokens that tag the requests of one host client.
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// tokenBytes gives 24 bits of randomness, enough to tell concurrent
// clients apart in a log.
const tokenBytes = 3

// Generate returns a fresh lowercase hex token, two characters per byte.
func Generate() string {
	var buf [tokenBytes]byte
	_, _ = rand.Read(buf[:])
	return hex.EncodeToString(buf[:])
}
