package sentry

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	tokenLength   = 24
	tokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// TokenGenerator is the default [TokenSource]. It draws fixed-length
// alphanumeric secrets from crypto/rand; rand.Int keeps each draw unbiased
// across the 62-character alphabet.
type TokenGenerator struct{}

// NewToken returns a 24-character token from [0-9A-Za-z].
func (TokenGenerator) NewToken() (string, error) {
	var b strings.Builder
	b.Grow(tokenLength)

	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := 0; i < tokenLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(tokenAlphabet[n.Int64()])
	}

	token := b.String()
	if len(token) != tokenLength {
		return "", errors.New("invalid token generation length")
	}
	return token, nil
}
