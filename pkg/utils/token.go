package utils

import (
	"crypto/subtle"
	"strings"
)

// ValidAdminToken reports whether token matches the configured admin secret.
// An empty secret never validates. The comparison is constant-time.
func ValidAdminToken(token, secret string) bool {
	if token == "" || secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}

// ExtractBearerToken returns the credential from an "Authorization: Bearer <token>" header.
func ExtractBearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
