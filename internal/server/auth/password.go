// Package auth implements the credential primitives of the server:
// password hashing and verification, the sign-up password policy, and
// issuing/parsing of HS256 access tokens.
package auth

import (
	"fmt"

	"github.com/batteriesproject/server/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is deliberately above the library default. Hashing is the only
// CPU-heavy step of sign-in and sign-up.
const bcryptCost = 12

// HashPassword derives a one-way, per-call-salted hash of plaintext.
// An empty plaintext is rejected with common.ErrorEmptyPassword.
func HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", common.ErrorEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether candidate matches the stored hash.
// It never fails: a malformed stored hash compares as false.
func VerifyPassword(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
