// Package users contains the account service: registration, login,
// authentication, and deactivation. It composes the credential hasher and the
// configured token strategy; persistence goes through the repository manager
// so deactivation can run its two writes in one transaction.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/geauxvirtual/hapi/internal/common"
	"github.com/geauxvirtual/hapi/internal/dbx"
	"github.com/geauxvirtual/hapi/internal/logging"
	"github.com/geauxvirtual/hapi/internal/server/auth"
	"github.com/geauxvirtual/hapi/internal/server/models"
	"github.com/geauxvirtual/hapi/internal/server/repositories/repomanager"
	"github.com/geauxvirtual/hapi/internal/server/tokens"
)

// AuthenticatedUser is the login result returned to the transport layer.
type AuthenticatedUser struct {
	UserID      string
	UserName    string
	AccessToken string
}

// Service implements the account lifecycle.
type Service struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	hasher   *auth.Hasher
	strategy tokens.Strategy
	logger   logging.Logger
}

// NewService constructs the account service.
func NewService(db *sql.DB, repos repomanager.RepositoryManager, hasher *auth.Hasher, strategy tokens.Strategy, logger logging.Logger) *Service {
	return &Service{
		db:       db,
		repos:    repos,
		hasher:   hasher,
		strategy: strategy,
		logger:   logger.With("module", "users"),
	}
}

// Register creates an active user with a fresh salt and the password's
// argon2id hash. A taken username yields common.ErrorConflict; uniqueness is
// enforced by the store, not by a read-then-write, so two concurrent
// registrations of the same name produce exactly one success.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	salt := auth.GenerateSalt()
	user := &models.User{
		UserName:     username,
		Salt:         salt,
		PasswordHash: s.hasher.Hash(password, salt),
		Active:       true,
	}

	user, err := s.repos.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the password against the stored credential and delegates
// token issuance to the strategy. Unknown users, inactive users, and bad
// passwords are indistinguishable to the caller: all yield
// common.ErrorUnauthorized.
func (s *Service) Login(ctx context.Context, username, password string) (*AuthenticatedUser, error) {
	user, err := s.repos.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !user.Active {
		return nil, common.ErrorUnauthorized
	}

	if !s.hasher.Verify(password, user.Salt, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	token, err := s.strategy.Issue(ctx, user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthenticatedUser{
		UserID:      user.ID,
		UserName:    user.UserName,
		AccessToken: token.Value,
	}, nil
}

// Authenticate answers whether presented authenticates userID under the
// configured token strategy. The account must still be active: a signed claim
// outlives its token row, so the user check is what makes deactivation take
// effect immediately under both schemes.
func (s *Service) Authenticate(ctx context.Context, presented, userID string) bool {
	if !s.strategy.Validate(ctx, presented, userID) {
		return false
	}
	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return false
	}
	return user.Active
}

// Deactivate marks the user inactive and removes any stored token row in one
// transaction, so a concurrent login cannot observe an inactive user with a
// live token. Under the signed scheme no row exists and the delete is a
// no-op; outstanding signed claims expire on their own.
func (s *Service) Deactivate(ctx context.Context, userID string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Users(tx).Deactivate(ctx, userID); err != nil {
			return err
		}
		return s.repos.Tokens(tx).DeleteByUserID(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}
