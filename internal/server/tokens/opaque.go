package tokens

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/geauxvirtual/hapi/internal/common"
	tokensrepo "github.com/geauxvirtual/hapi/internal/server/repositories/tokens"
)

// tokenByteSize is the entropy of an opaque token before hex encoding, giving
// a 128-character token string.
const tokenByteSize = 64

// Opaque issues high-entropy random tokens stored server-side, one row per
// user. Issue returns the existing token while it is still valid; an expired
// row is replaced in place by the repository's guarded upsert, so concurrent
// logins converge on the same token.
type Opaque struct {
	repo     tokensrepo.Repository
	validity time.Duration
}

func NewOpaque(repo tokensrepo.Repository, validity time.Duration) *Opaque {
	return &Opaque{repo: repo, validity: validity}
}

func (o *Opaque) Issue(ctx context.Context, userID string) (*Token, error) {
	candidate, err := common.MakeRandHexString(tokenByteSize)
	if err != nil {
		return nil, common.ErrorInternal
	}

	row, err := o.repo.Refresh(ctx, userID, candidate, time.Now().Add(o.validity))
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &Token{Value: row.Token, Expires: row.Expires}, nil
}

func (o *Opaque) Validate(ctx context.Context, presented, userID string) bool {
	row, err := o.repo.GetByUserID(ctx, userID)
	if err != nil {
		return false
	}
	if time.Now().After(row.Expires) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(row.Token)) == 1
}

func (o *Opaque) Revoke(ctx context.Context, userID string) error {
	return o.repo.DeleteByUserID(ctx, userID)
}
