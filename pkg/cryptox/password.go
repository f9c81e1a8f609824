package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Configuration for PBKDF2 credential hashing. These values are part of the
// stored credential format; changing any of them invalidates every existing
// hash.
const (
	kdfIterations = 1000 // PBKDF2 iteration count
	kdfKeyLength  = 64   // Length of the derived hash in bytes
	saltLength    = 16   // Random bytes in a salt (before encoding)
)

// DerivePassword generates a fresh random salt and derives the credential hash
// for password with it. Both values are returned base64 encoded, ready to be
// stored alongside the user record.
//
// The KDF is fed the encoded salt text rather than the raw salt bytes, which
// keeps hashes compatible with credentials written by earlier deployments.
func DerivePassword(password string) (salt, hash string, err error) {
	raw := make([]byte, saltLength)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}

	salt = base64.StdEncoding.EncodeToString(raw)
	return salt, deriveKey(password, salt), nil
}

// VerifyPassword recomputes the hash of password using salt and reports
// whether it matches storedHash.
func VerifyPassword(password, salt, storedHash string) bool {
	computed := deriveKey(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}

func deriveKey(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), kdfIterations, kdfKeyLength, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}
