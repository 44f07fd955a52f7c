// Package tokens declares the repository contract for server-stored opaque
// access tokens.
package tokens

import (
	"context"
	"time"

	"github.com/geauxvirtual/hapi/internal/server/models"
)

// Repository defines operations over the single token row each user may hold.
type Repository interface {
	// GetByUserID returns the token row for userID or common.ErrorNotFound.
	GetByUserID(ctx context.Context, userID string) (*models.UserToken, error)

	// Refresh installs the candidate token for userID unless a still-valid
	// token already exists, in which case the existing row is returned
	// unchanged. The insert-or-update happens in one statement so concurrent
	// logins cannot create a second row for the same user.
	Refresh(ctx context.Context, userID, token string, expires time.Time) (*models.UserToken, error)

	// DeleteByUserID removes the token row for userID. Deleting a missing
	// row is not an error.
	DeleteByUserID(ctx context.Context, userID string) error
}
