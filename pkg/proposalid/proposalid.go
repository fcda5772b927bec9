// Package proposalid generates the public tokens that give read access to a
// single quotation.
package proposalid

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	Length   = 10
)

// New returns a random Length-character token over Alphabet.
// Collisions are not checked here; the store rejects duplicates.
func New() (string, error) {
	return gonanoid.Generate(Alphabet, Length)
}

// Valid reports whether s has the shape of a generated token.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
