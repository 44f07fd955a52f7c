package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/geauxvirtual/hapi/internal/common"
	"github.com/geauxvirtual/hapi/internal/server/models"
)

type userRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authenticatedUser struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
}

type activityResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Filename     string    `json:"filename"`
	ActivityType *string   `json:"activity_type"`
	Name         *string   `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

func toActivityResponse(a *models.Activity) activityResponse {
	return activityResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		Filename:     a.Filename,
		ActivityType: a.ActivityType,
		Name:         a.Name,
		CreatedAt:    a.CreatedAt,
	}
}

func (s *HTTPServer) index(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Welcome to hapi"))
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {

	s.logger.Info(r.Context(), "Registration request")

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, common.ErrorValidation)
		return
	}

	_, err := s.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, common.ErrorConflict) {
			s.logger.Error(r.Context(), err.Error())
		}
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", req.Username)
	writeEnvelope(w, http.StatusCreated, "ok", "User created")
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrorValidation)
		return
	}

	user, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeEnvelope(w, http.StatusUnauthorized, "error", "username or password is incorrect")
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authenticatedUser{
		UserID:      user.UserID,
		Username:    user.UserName,
		AccessToken: user.AccessToken,
	})
}

func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request) {

	userID := r.PathValue("id")

	if err := s.users.Deactivate(r.Context(), userID); err != nil {
		s.logger.Error(r.Context(), "error deactivating user", "error", err)
		writeEnvelope(w, http.StatusInternalServerError, "error", "internal server error")
		return
	}

	s.logger.Info(r.Context(), "User deactivated", "user_id", userID)
	writeEnvelope(w, http.StatusAccepted, "accepted", "user inactive")
}

func (s *HTTPServer) importActivity(w http.ResponseWriter, r *http.Request) {

	userID := r.PathValue("id")

	up, err := s.ingestor.Ingest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	activity, err := s.activities.Import(r.Context(), userID, up)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			writeEnvelope(w, http.StatusBadRequest, "error", "Only fit data types are supported currently")
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toActivityResponse(activity))
}

func (s *HTTPServer) listActivities(w http.ResponseWriter, r *http.Request) {

	userID := r.PathValue("id")

	list, err := s.activities.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]activityResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toActivityResponse(a))
	}

	writeJSON(w, http.StatusOK, out)
}
