package token

import (
	"crypto/rand"
	"fmt"
)

// Hold tokens are short codes read over the phone, so the alphabet stays
// uppercase alphanumeric. Randomness comes from crypto/rand; at 6 characters
// the space is 36^6 (~2.2 billion), enough for the volume this service sees.
const (
	Alphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	DefaultLength = 6
)

// New returns a random hold token of n characters. Bytes at or above the
// largest multiple of the alphabet size are rejected and redrawn; a plain
// modulo would skew the draw toward the first characters of the alphabet.
func New(n int) (string, error) {
	if n <= 0 {
		n = DefaultLength
	}

	limit := byte(256 - 256%len(Alphabet))

	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
