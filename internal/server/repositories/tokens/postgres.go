package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/geauxvirtual/hapi/internal/common"
	"github.com/geauxvirtual/hapi/internal/dbx"
	"github.com/geauxvirtual/hapi/internal/server/models"
)

// PostgresRepository implements the token store over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByUserID returns the token row for userID.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.UserToken, error) {
	query := `
		SELECT id, user_id, token, expires_at
		FROM user_tokens
		WHERE user_id = $1
	`
	token := &models.UserToken{}
	if err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&token.ID, &token.UserID, &token.Token, &token.Expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

// Refresh writes the candidate token for userID in a single statement.
// The unique constraint on user_id turns a concurrent insert into an update,
// and the conflict clause only overwrites a row whose token has expired.
// When the conflict row is still valid no row comes back from the insert and
// the existing row is read instead, so the caller always receives the one
// live token for the user.
func (r *PostgresRepository) Refresh(ctx context.Context, userID, token string, expires time.Time) (*models.UserToken, error) {
	query := `
		INSERT INTO user_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at
		WHERE user_tokens.expires_at <= now()
		RETURNING id, user_id, token, expires_at
	`
	row := &models.UserToken{}
	err := r.db.QueryRowContext(ctx, query, userID, token, expires).
		Scan(&row.ID, &row.UserID, &row.Token, &row.Expires)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("db error: %w", err)
	}

	// Conflict with a still-valid row: hand back the existing token.
	return r.GetByUserID(ctx, userID)
}

// DeleteByUserID removes the token row for userID.
func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `
		DELETE FROM user_tokens
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
