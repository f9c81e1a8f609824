package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

func TestDerivePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			salt, hash, err := DerivePassword(tt.password)
			require.NoError(t, err)

			rawSalt, err := base64.StdEncoding.DecodeString(salt)
			require.NoError(t, err, "salt should be standard base64")
			require.Len(t, rawSalt, saltLength)

			rawHash, err := base64.StdEncoding.DecodeString(hash)
			require.NoError(t, err, "hash should be standard base64")
			require.Len(t, rawHash, kdfKeyLength)

			require.True(t, VerifyPassword(tt.password, salt, hash))
		})
	}
}

func TestDerivePassword_UniqueSalts(t *testing.T) {
	password := "samepassword"

	salt1, hash1, err := DerivePassword(password)
	require.NoError(t, err)
	salt2, hash2, err := DerivePassword(password)
	require.NoError(t, err)

	require.NotEqual(t, salt1, salt2, "salts should be random per call")
	require.NotEqual(t, hash1, hash2, "different salts should give different hashes")

	require.True(t, VerifyPassword(password, salt1, hash1))
	require.True(t, VerifyPassword(password, salt2, hash2))
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	salt, hash, err := DerivePassword("correct-password")
	require.NoError(t, err)

	tests := []struct {
		name          string
		wrongPassword string
	}{
		{"completely wrong", "wrong-password"},
		{"case difference", "Correct-Password"},
		{"extra space", "correct-password "},
		{"empty password", ""},
		{"similar password", "correct-passwor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, VerifyPassword(tt.wrongPassword, salt, hash))
		})
	}
}

func TestVerifyPassword_WrongSalt(t *testing.T) {
	salt, hash, err := DerivePassword("pw")
	require.NoError(t, err)

	otherSalt, _, err := DerivePassword("pw")
	require.NoError(t, err)
	require.NotEqual(t, salt, otherSalt)

	require.False(t, VerifyPassword("pw", otherSalt, hash))
}

func TestVerifyPassword_GarbageStoredHash(t *testing.T) {
	salt, _, err := DerivePassword("pw")
	require.NoError(t, err)

	require.False(t, VerifyPassword("pw", salt, ""))
	require.False(t, VerifyPassword("pw", salt, "!!!not-base64!!!"))
}

func TestVerifyPassword_SaltUsedAsText(t *testing.T) {
	// Stored credentials were derived from the salt's base64 text, not the
	// decoded bytes. Build one by hand and make sure it still verifies.
	salt := "c29tZXNhbHRzb21lc2FsdA=="
	key := pbkdf2.Key([]byte("hunter2"), []byte(salt), 1000, 64, sha256.New)
	stored := base64.StdEncoding.EncodeToString(key)

	require.True(t, VerifyPassword("hunter2", salt, stored))
	require.False(t, VerifyPassword("hunter3", salt, stored))
}
