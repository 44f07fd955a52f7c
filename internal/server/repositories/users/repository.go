// Package users declares the repository contract for account credentials.
package users

import (
	"context"

	"github.com/geauxvirtual/hapi/internal/server/models"
)

// Repository defines the persistence operations the user service requires.
type Repository interface {
	// Create inserts a new user row. A duplicate username yields
	// common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername returns the user with the given username or
	// common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID returns the user with the given id or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Deactivate marks the user inactive. A missing user yields
	// common.ErrorNotFound.
	Deactivate(ctx context.Context, id string) error
}
