package tokens

import (
	"context"
	"time"

	"github.com/geauxvirtual/hapi/internal/server/auth"
)

// Signed issues HS256-signed claims carrying the subject and expiry.
// Validation needs no store lookup; the trade-off is that Revoke cannot
// invalidate tokens already in the wild before they expire.
type Signed struct {
	secret   []byte
	validity time.Duration
}

func NewSigned(secret []byte, validity time.Duration) *Signed {
	return &Signed{secret: secret, validity: validity}
}

func (s *Signed) Issue(ctx context.Context, userID string) (*Token, error) {
	expires := time.Now().Add(s.validity)
	value, err := auth.GenerateToken(userID, s.secret, s.validity)
	if err != nil {
		return nil, err
	}
	return &Token{Value: value, Expires: expires}, nil
}

func (s *Signed) Validate(ctx context.Context, presented, userID string) bool {
	subject, err := auth.SubjectFromToken(presented, s.secret)
	if err != nil {
		return false
	}
	return subject == userID
}

// Revoke is a no-op: a signed claim stays verifiable until its embedded
// expiry. Account deactivation still blocks logins, which bounds the exposure
// to the token validity window.
func (s *Signed) Revoke(ctx context.Context, userID string) error {
	return nil
}
