package activities

import (
	"context"
	"fmt"

	"github.com/geauxvirtual/hapi/internal/dbx"
	"github.com/geauxvirtual/hapi/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, activity *models.Activity) (*models.Activity, error) {

	query :=
		`INSERT INTO activities (user_id, filename, activity_type, name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		activity.UserID, activity.Filename, activity.ActivityType, activity.Name).
		Scan(&activity.ID, &activity.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return activity, nil
}

func (r *PostgresRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Activity, error) {
	query :=
		`SELECT id, user_id, filename, activity_type, name, created_at FROM activities
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Activity
	for rows.Next() {
		a := &models.Activity{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.Filename, &a.ActivityType, &a.Name, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
