package sentry

import (
	"encoding/base64"
	"strings"
)

// Wire formats shared with outbound mail and returning clients. Both are
// consumed by external systems, so the byte layout is fixed: the remember-me
// cookie is base64(identifier + ":" + secret), the reset link is
// base64(identifier) + "/" + hash.

func encodeRememberCookie(identifier, secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(identifier + ":" + secret))
}

// decodeRememberCookie splits on the first separator only; generated
// secrets are alphanumeric, so any further ":" belongs to the secret as
// stored. Undecodable values and missing or empty parts all read as a
// malformed cookie, never an error.
func decodeRememberCookie(value string) (identifier, secret string, ok bool) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", "", false
	}
	identifier, secret, ok = strings.Cut(string(raw), ":")
	if !ok || identifier == "" || secret == "" {
		return "", "", false
	}
	return identifier, secret, true
}

func encodeIdentifier(identifier string) string {
	return base64.StdEncoding.EncodeToString([]byte(identifier))
}

// decodeIdentifier reverses the identifier segment carried by activation
// and reset links.
func decodeIdentifier(encoded string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}

func encodeResetLink(identifier, resetHash string) string {
	return encodeIdentifier(identifier) + "/" + resetHash
}
