// Package auth provides the credential-hashing and token primitives used by
// the user service: an argon2id password hasher and HS256 signed claims.
package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/geauxvirtual/hapi/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the number of random bytes in a freshly generated salt.
const SaltSize = 32

// Params are the argon2id cost parameters. They are fixed per deployment and
// validated once at startup; changing them invalidates stored hashes.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
}

// DefaultParams returns the cost parameters used in production.
func DefaultParams() Params {
	return Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32}
}

// Hasher derives and verifies password hashes with argon2id.
type Hasher struct {
	params Params
}

// NewHasher validates the cost parameters and returns a Hasher. An error here
// is a configuration error and should abort startup, never be retried
// per-request.
func NewHasher(p Params) (*Hasher, error) {
	if p.Time == 0 || p.Memory == 0 || p.Threads == 0 || p.KeyLen == 0 {
		return nil, errors.New("argon2 cost parameters must be non-zero")
	}
	return &Hasher{params: p}, nil
}

// GenerateSalt returns SaltSize bytes from the OS CSPRNG.
func GenerateSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// Hash derives the argon2id key for password and salt. Deterministic for
// identical inputs.
func (h *Hasher) Hash(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)
}

// Verify recomputes the hash for password and salt and compares it against
// expected in constant time with respect to the password content.
func (h *Hasher) Verify(password string, salt, expected []byte) bool {
	candidate := h.Hash(password, salt)
	return subtle.ConstantTimeCompare(candidate, expected) == 1
}
