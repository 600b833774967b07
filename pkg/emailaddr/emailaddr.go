package emailaddr

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// RFC 5321 length limits, in bytes.
const (
	maxLocalBytes  = 64
	maxDomainBytes = 255
)

// Normalize prepares a user-entered address for storage and comparison:
// trims surrounding whitespace, applies Unicode NFC so visually identical
// addresses compare equal, and lowercases.
func Normalize(email string) string {
	email = strings.TrimSpace(email)
	email = norm.NFC.String(email)
	return strings.ToLower(email)
}

// IsValid reports whether the address is acceptable for the authentication
// flows. The last @ splits local part and domain, so quoted local parts
// containing @ still validate.
func IsValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	local := email[:at]
	domain := email[at+1:]

	if len(local) > maxLocalBytes || len(domain) > maxDomainBytes {
		return false
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}

	return true
}
