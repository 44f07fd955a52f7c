// Package tokens implements the access-token strategies the user service can
// run with: server-stored opaque tokens (revocable) and self-contained signed
// claims (stateless). The scheme is fixed at startup.
package tokens

import (
	"context"
	"fmt"
	"time"

	"github.com/geauxvirtual/hapi/internal/server/repositories/tokens"
)

// Token is an issued access token together with its expiry.
type Token struct {
	Value   string
	Expires time.Time
}

// Strategy is the token lifecycle contract. Issue is idempotent while a
// previously issued token is still valid; Validate answers whether presented
// authenticates userID; Revoke invalidates the user's token where the scheme
// supports it.
type Strategy interface {
	Issue(ctx context.Context, userID string) (*Token, error)
	Validate(ctx context.Context, presented, userID string) bool
	Revoke(ctx context.Context, userID string) error
}

// Token scheme names accepted in configuration.
const (
	SchemeOpaque = "opaque"
	SchemeSigned = "signed"
)

// New selects a Strategy by scheme name. The opaque scheme needs the token
// repository; the signed scheme needs the process secret.
func New(scheme string, repo tokens.Repository, secret []byte, validity time.Duration) (Strategy, error) {
	switch scheme {
	case SchemeOpaque:
		return NewOpaque(repo, validity), nil
	case SchemeSigned:
		return NewSigned(secret, validity), nil
	default:
		return nil, fmt.Errorf("unknown token scheme %q", scheme)
	}
}
