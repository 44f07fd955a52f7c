package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/geauxvirtual/hapi/internal/common"
	"github.com/geauxvirtual/hapi/internal/logging"
	"github.com/geauxvirtual/hapi/internal/server/models"
	"github.com/geauxvirtual/hapi/internal/server/upload"
	"github.com/geauxvirtual/hapi/internal/server/users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- test logger ----

type nopLogger struct{}

func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// ---- fakes ----

type fakeUserService struct {
	registerOut *models.User
	registerErr error

	loginOut *users.AuthenticatedUser
	loginErr error

	validToken string
	validUser  string

	deactivatedID string
	deactivateErr error
}

func (f *fakeUserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	return f.registerOut, f.registerErr
}

func (f *fakeUserService) Login(ctx context.Context, username, password string) (*users.AuthenticatedUser, error) {
	return f.loginOut, f.loginErr
}

func (f *fakeUserService) Authenticate(ctx context.Context, presented, userID string) bool {
	return presented == f.validToken && userID == f.validUser
}

func (f *fakeUserService) Deactivate(ctx context.Context, userID string) error {
	if f.deactivateErr != nil {
		return f.deactivateErr
	}
	f.deactivatedID = userID
	return nil
}

type fakeActivityService struct {
	importOut *models.Activity
	importErr error
	gotUpload *upload.Upload

	listOut []*models.Activity
	listErr error
}

func (f *fakeActivityService) Import(ctx context.Context, userID string, up *upload.Upload) (*models.Activity, error) {
	f.gotUpload = up
	defer func() { _ = up.Discard() }()
	if f.importErr != nil {
		return nil, f.importErr
	}
	return f.importOut, nil
}

func (f *fakeActivityService) List(ctx context.Context, userID string) ([]*models.Activity, error) {
	return f.listOut, f.listErr
}

// ---- helpers ----

func newTestHandler(t *testing.T, us UserService, as ActivityService, tempDir string) http.Handler {
	t.Helper()
	ing := upload.NewIngestor(1<<20, 1<<18, tempDir)
	return NewHTTPServer(":0", nopLogger{}, us, as, ing).Handler()
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) response {
	t.Helper()
	var env response
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	return env
}

func multipartBody(t *testing.T, file []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		fw, err := w.CreateFormFile("file", "activity.fit")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "no temp files may be left behind")
}

// ---- routes ----

func TestIndex(t *testing.T) {
	h := newTestHandler(t, &fakeUserService{}, &fakeActivityService{}, t.TempDir())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to hapi", rec.Body.String())
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantCode   int
		wantStatus string
		wantReason string
	}{
		{name: "created", body: `{"username":"alice","password":"secret123"}`,
			wantCode: http.StatusCreated, wantStatus: "ok", wantReason: "User created"},
		{name: "conflict", body: `{"username":"alice","password":"secret123"}`,
			svcErr:   common.ErrorConflict,
			wantCode: http.StatusConflict, wantStatus: "error", wantReason: "Username already exists"},
		{name: "malformed json", body: `{"username":`,
			wantCode: http.StatusBadRequest, wantStatus: "error",
			wantReason: "The request could not be understood by the server"},
		{name: "missing fields", body: `{"username":"alice"}`,
			wantCode: http.StatusBadRequest, wantStatus: "error",
			wantReason: "The request could not be understood by the server"},
		{name: "service failure", body: `{"username":"alice","password":"secret123"}`,
			svcErr:   errors.New("db down"),
			wantCode: http.StatusInternalServerError, wantStatus: "error", wantReason: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			us := &fakeUserService{registerOut: &models.User{ID: "u-1"}, registerErr: tt.svcErr}
			h := newTestHandler(t, us, &fakeActivityService{}, t.TempDir())

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantCode, rec.Code)
			env := decodeEnvelope(t, rec.Body)
			assert.Equal(t, tt.wantStatus, env.Status)
			assert.Equal(t, tt.wantReason, env.Reason)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Run("success returns identity and token", func(t *testing.T) {
		us := &fakeUserService{loginOut: &users.AuthenticatedUser{
			UserID:      "u-1",
			UserName:    "alice",
			AccessToken: "tok-1",
		}}
		h := newTestHandler(t, us, &fakeActivityService{}, t.TempDir())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users/login",
			strings.NewReader(`{"username":"alice","password":"secret123"}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		var got authenticatedUser
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "u-1", got.UserID)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "tok-1", got.AccessToken)
	})

	t.Run("bad credentials", func(t *testing.T) {
		us := &fakeUserService{loginErr: common.ErrorUnauthorized}
		h := newTestHandler(t, us, &fakeActivityService{}, t.TempDir())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users/login",
			strings.NewReader(`{"username":"alice","password":"wrong"}`)))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decodeEnvelope(t, rec.Body)
		assert.Equal(t, "username or password is incorrect", env.Reason)
	})
}

func TestWithAuth(t *testing.T) {
	userID := uuid.NewString()
	us := &fakeUserService{validToken: "tok-1", validUser: userID}

	newReq := func(target, token string) *http.Request {
		req := httptest.NewRequest(http.MethodDelete, target, nil)
		if token != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
		return req
	}

	t.Run("missing header", func(t *testing.T) {
		h := newTestHandler(t, us, &fakeActivityService{}, t.TempDir())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, newReq("/users/"+userID, ""))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token for another user", func(t *testing.T) {
		h := newTestHandler(t, us, &fakeActivityService{}, t.TempDir())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, newReq("/users/"+uuid.NewString(), "tok-1"))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decodeEnvelope(t, rec.Body)
		assert.Equal(t, "unauthorized", env.Reason)
	})

	t.Run("malformed user id", func(t *testing.T) {
		h := newTestHandler(t, us, &fakeActivityService{}, t.TempDir())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, newReq("/users/not-a-uuid", "tok-1"))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteUser(t *testing.T) {
	userID := uuid.NewString()

	t.Run("accepted", func(t *testing.T) {
		us := &fakeUserService{validToken: "tok-1", validUser: userID}
		h := newTestHandler(t, us, &fakeActivityService{}, t.TempDir())

		req := httptest.NewRequest(http.MethodDelete, "/users/"+userID, nil)
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+"tok-1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusAccepted, rec.Code)
		env := decodeEnvelope(t, rec.Body)
		assert.Equal(t, "accepted", env.Status)
		assert.Equal(t, "user inactive", env.Reason)
		assert.Equal(t, userID, us.deactivatedID)
	})

	t.Run("service failure", func(t *testing.T) {
		us := &fakeUserService{validToken: "tok-1", validUser: userID, deactivateErr: common.ErrorInternal}
		h := newTestHandler(t, us, &fakeActivityService{}, t.TempDir())

		req := httptest.NewRequest(http.MethodDelete, "/users/"+userID, nil)
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+"tok-1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestImportActivity(t *testing.T) {
	userID := uuid.NewString()
	us := &fakeUserService{validToken: "tok-1", validUser: userID}

	authed := func(req *http.Request) *http.Request {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+"tok-1")
		return req
	}

	t.Run("accepted upload returns activity", func(t *testing.T) {
		tempDir := t.TempDir()
		name := "Morning ride"
		as := &fakeActivityService{importOut: &models.Activity{
			ID:        "a-1",
			UserID:    userID,
			Filename:  "act1756700000.fit",
			Name:      &name,
			CreatedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		}}
		h := newTestHandler(t, us, as, tempDir)

		body, contentType := multipartBody(t, []byte("ride bytes"), map[string]string{
			"data_type": "fit",
			"name":      name,
		})
		req := authed(httptest.NewRequest(http.MethodPost, "/users/"+userID+"/activities", body))
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got activityResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "a-1", got.ID)
		assert.Equal(t, "act1756700000.fit", got.Filename)
		require.NotNil(t, as.gotUpload)
		assert.Equal(t, "fit", as.gotUpload.DataType)
		requireEmptyDir(t, tempDir)
	})

	t.Run("missing content length", func(t *testing.T) {
		h := newTestHandler(t, us, &fakeActivityService{}, t.TempDir())

		body, contentType := multipartBody(t, []byte("x"), map[string]string{"data_type": "fit"})
		req := authed(httptest.NewRequest(http.MethodPost, "/users/"+userID+"/activities", body))
		req.Header.Set("Content-Type", contentType)
		req.ContentLength = -1
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusLengthRequired, rec.Code)
		env := decodeEnvelope(t, rec.Body)
		assert.Equal(t, "Content-Length is required", env.Reason)
	})

	t.Run("declared body over limit", func(t *testing.T) {
		h := newTestHandler(t, us, &fakeActivityService{}, t.TempDir())

		body, contentType := multipartBody(t, []byte("x"), map[string]string{"data_type": "fit"})
		req := authed(httptest.NewRequest(http.MethodPost, "/users/"+userID+"/activities", body))
		req.Header.Set("Content-Type", contentType)
		req.ContentLength = 2 << 20
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		env := decodeEnvelope(t, rec.Body)
		assert.Equal(t, "Maximum payload size is 10MB", env.Reason)
	})

	t.Run("missing boundary", func(t *testing.T) {
		tempDir := t.TempDir()
		h := newTestHandler(t, us, &fakeActivityService{}, tempDir)

		req := authed(httptest.NewRequest(http.MethodPost, "/users/"+userID+"/activities",
			strings.NewReader("not multipart")))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		requireEmptyDir(t, tempDir)
	})

	t.Run("unsupported data type", func(t *testing.T) {
		tempDir := t.TempDir()
		as := &fakeActivityService{importErr: common.ErrorValidation}
		h := newTestHandler(t, us, as, tempDir)

		body, contentType := multipartBody(t, []byte("gps data"), map[string]string{"data_type": "gpx"})
		req := authed(httptest.NewRequest(http.MethodPost, "/users/"+userID+"/activities", body))
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec.Body)
		assert.Equal(t, "Only fit data types are supported currently", env.Reason)
		requireEmptyDir(t, tempDir)
	})

	t.Run("no token", func(t *testing.T) {
		h := newTestHandler(t, us, &fakeActivityService{}, t.TempDir())

		body, contentType := multipartBody(t, []byte("x"), map[string]string{"data_type": "fit"})
		req := httptest.NewRequest(http.MethodPost, "/users/"+userID+"/activities", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListActivities(t *testing.T) {
	userID := uuid.NewString()
	us := &fakeUserService{validToken: "tok-1", validUser: userID}

	as := &fakeActivityService{listOut: []*models.Activity{
		{ID: "a-2", UserID: userID, Filename: "act2.fit"},
		{ID: "a-1", UserID: userID, Filename: "act1.fit"},
	}}
	h := newTestHandler(t, us, as, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/users/"+userID+"/activities", nil)
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+"tok-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []activityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "a-2", got[0].ID)
}
