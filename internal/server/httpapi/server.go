// Package httpapi exposes the public HTTP surface: registration, login,
// account deletion, and activity import. Handlers translate service errors
// into the JSON status/reason envelope.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geauxvirtual/hapi/internal/logging"
	"github.com/geauxvirtual/hapi/internal/server/models"
	"github.com/geauxvirtual/hapi/internal/server/upload"
	"github.com/geauxvirtual/hapi/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

// UserService is the account surface the transport depends on.
type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*users.AuthenticatedUser, error)
	Authenticate(ctx context.Context, presented, userID string) bool
	Deactivate(ctx context.Context, userID string) error
}

// ActivityService is the import surface the transport depends on.
type ActivityService interface {
	Import(ctx context.Context, userID string, up *upload.Upload) (*models.Activity, error)
	List(ctx context.Context, userID string) ([]*models.Activity, error)
}

type HTTPServer struct {
	address    string
	users      UserService
	activities ActivityService
	ingestor   *upload.Ingestor
	logger     logging.Logger
}

func NewHTTPServer(a string, l logging.Logger, us UserService, as ActivityService, ing *upload.Ingestor) *HTTPServer {
	return &HTTPServer{
		address:    a,
		logger:     l.With("module", "http_server"),
		users:      us,
		activities: as,
		ingestor:   ing,
	}
}

// Handler builds the route table. Exposed so tests can drive the full mux
// through httptest without binding a socket.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.index)
	mux.HandleFunc("POST /users/register", s.register)
	mux.HandleFunc("POST /users/login", s.login)
	mux.HandleFunc("DELETE /users/{id}", s.withAuth(s.deleteUser))
	mux.HandleFunc("POST /users/{id}/activities", s.withAuth(s.importActivity))
	mux.HandleFunc("GET /users/{id}/activities", s.withAuth(s.listActivities))

	return mux
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "error shutting down HTTP server", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
