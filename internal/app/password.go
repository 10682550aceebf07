package app

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLen    = 16
	hashIter   = 10000
	hashKeyLen = 32
)

// HashPassword derives a salted PBKDF2-SHA256 hash and encodes it as
// "hex(salt)$hex(key)" to satisfy the hex-encoded password column contract.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, hashIter, hashKeyLen, sha256.New)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(key), nil
}

// VerifyPassword checks a candidate password against a stored hash in
// constant time. Malformed stored values verify as false.
func VerifyPassword(stored, candidate string) bool {
	parts := strings.SplitN(stored, "$", 2)
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(candidate), salt, hashIter, hashKeyLen, sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
