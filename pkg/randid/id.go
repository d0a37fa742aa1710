// Package randid generates short random identifiers for records and files.
package randid

import (
	"crypto/rand"
	"encoding/hex"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a random lowercase alphanumeric string of the given length.
func Generate(length int) string {
	if length <= 0 {
		return ""
	}

	buf := make([]byte, length)
	_, _ = rand.Read(buf)

	out := make([]byte, length)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out)
}

// GenerateHex returns a random lowercase hex string of the given length.
// Used for record identifiers where a fixed [0-9a-f] alphabet is expected.
func GenerateHex(length int) string {
	if length <= 0 {
		return ""
	}

	buf := make([]byte, (length+1)/2)
	_, _ = rand.Read(buf)

	return hex.EncodeToString(buf)[:length]
}
