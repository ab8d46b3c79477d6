package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomState returns a URL-safe random string for the OAuth state parameter.
func RandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
