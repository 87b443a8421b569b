package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// hashTag marks stored digests so a hash is never mistaken for a
// plaintext password on the way back out of the store.
const hashTag = "bcrypt$"

// DefaultCost is the bcrypt work factor for new password hashes.
const DefaultCost = 10

// HashPassword derives a tagged bcrypt digest from a plaintext password.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("auth: empty password")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return hashTag + string(digest), nil
}

// CheckPassword reports whether plain matches the stored tagged digest.
func CheckPassword(stored, plain string) bool {
	digest, ok := strings.CutPrefix(stored, hashTag)
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// IsHashed reports whether a stored value already carries the digest tag.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, hashTag)
}
