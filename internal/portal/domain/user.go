package domain

import "time"

type User struct {
	ID        string
	Email     string // unique
	Salt      string // base64, fed to the KDF as text
	Hash      string // base64 PBKDF2-SHA256 output
	IsAdmin   bool
	CreatedAt time.Time
}
