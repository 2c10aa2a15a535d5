package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomHex returns a random hex string of 2*n characters, used for
// credential access keys and upload staging directories.
func GenerateRandomHex(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
