package models

import "time"

// User is an account credential row. PasswordHash is the argon2id derivation
// of the password with Salt; Salt is generated once at registration and never
// reused across users.
type User struct {
	ID           string
	UserName     string
	Salt         []byte
	PasswordHash []byte
	Active       bool
	CreatedAt    time.Time
}
