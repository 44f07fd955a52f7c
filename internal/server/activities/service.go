// Package activities contains the import coordinator: it turns a successfully
// ingested temp file into a permanent per-user artifact plus a persisted
// activity record.
package activities

import (
	"context"
	"fmt"
	"time"

	"github.com/geauxvirtual/hapi/internal/common"
	"github.com/geauxvirtual/hapi/internal/logging"
	"github.com/geauxvirtual/hapi/internal/server/artifacts"
	"github.com/geauxvirtual/hapi/internal/server/models"
	activitiesrepo "github.com/geauxvirtual/hapi/internal/server/repositories/activities"
	"github.com/geauxvirtual/hapi/internal/server/upload"
)

// acceptedDataTypes is the whitelist of importable formats. Only fit files
// are supported for now.
var acceptedDataTypes = map[string]struct{}{
	"fit": {},
}

// timeNow is a seam so tests can pin artifact filenames.
var timeNow = time.Now

// Service coordinates artifact placement and record creation for imports.
type Service struct {
	repo   activitiesrepo.Repository
	store  artifacts.Store
	logger logging.Logger
}

func NewService(repo activitiesrepo.Repository, store artifacts.Store, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		logger: logger.With("module", "activities"),
	}
}

// Import validates the upload's declared kind, places the file bytes in the
// artifact store under the user's namespace, and records the activity. The
// temp file is discarded on every path, success included. If recording fails
// after placement, the artifact is deleted again so no orphan file survives
// without a matching record.
func (s *Service) Import(ctx context.Context, userID string, up *upload.Upload) (*models.Activity, error) {
	defer func() {
		if err := up.Discard(); err != nil {
			s.logger.Warn(ctx, "discarding temp file failed", "path", up.TempPath, "error", err.Error())
		}
	}()

	if _, ok := acceptedDataTypes[up.DataType]; !ok {
		return nil, common.ErrorValidation
	}

	filename := fmt.Sprintf("act%d.%s", timeNow().Unix(), up.DataType)

	if err := s.store.Put(ctx, userID, filename, up.TempPath); err != nil {
		s.logger.Error(ctx, "artifact placement failed", "user_id", userID, "error", err.Error())
		return nil, common.ErrorInternal
	}

	activity := &models.Activity{
		UserID:       userID,
		Filename:     filename,
		ActivityType: up.ActivityType,
		Name:         up.Name,
	}

	activity, err := s.repo.Create(ctx, activity)
	if err != nil {
		s.logger.Error(ctx, "recording activity failed", "user_id", userID, "error", err.Error())
		if delErr := s.store.Delete(ctx, userID, filename); delErr != nil {
			s.logger.Warn(ctx, "compensating artifact delete failed", "user_id", userID, "filename", filename, "error", delErr.Error())
		}
		return nil, common.ErrorInternal
	}

	return activity, nil
}

// List returns the user's recorded activities, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]*models.Activity, error) {
	result, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}
