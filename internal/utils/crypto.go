// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
	"time"
)

func GenerateRandomString(length int, charset string) (string, error) {
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

// GenerateOrderNumber returns a human-friendly order reference such as
// "ORD-20240131-7KQ2ZD".
func GenerateOrderNumber(now time.Time) (string, error) {
	// Ambiguous characters (0, O, 1, I) are left out.
	suffix, err := GenerateRandomString(6, "ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	if err != nil {
		return "", err
	}
	return "ORD-" + now.UTC().Format("20060102") + "-" + suffix, nil
}
