// Package activities declares the repository contract for imported activity
// records.
package activities

import (
	"context"

	"github.com/geauxvirtual/hapi/internal/server/models"
)

// Repository persists activity records after their file artifact has been
// placed in durable storage.
type Repository interface {
	Create(ctx context.Context, activity *models.Activity) (*models.Activity, error)

	// ListByUserID returns the user's activities, newest first.
	ListByUserID(ctx context.Context, userID string) ([]*models.Activity, error)
}
