package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/geauxvirtual/hapi/internal/common"
	"github.com/google/uuid"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// withAuth guards routes carrying a {id} path segment. The bearer token must
// authenticate exactly that user; a token for one user never authorizes
// another user's routes.
func (s *HTTPServer) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID := r.PathValue("id")
		if _, err := uuid.Parse(userID); err != nil {
			writeEnvelope(w, http.StatusBadRequest, "error", "The request could not be understood by the server")
			return
		}

		token, ok := bearerToken(r)
		if !ok || !s.users.Authenticate(r.Context(), token, userID) {
			writeEnvelope(w, http.StatusUnauthorized, "error", "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(common.AuthorizationHeaderName)
	if !strings.HasPrefix(h, common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(h, common.BearerPrefix)
	if token == "" {
		return "", false
	}
	return token, true
}
