package activities

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/geauxvirtual/hapi/internal/common"
	"github.com/geauxvirtual/hapi/internal/logging"
	"github.com/geauxvirtual/hapi/internal/server/models"
	"github.com/geauxvirtual/hapi/internal/server/upload"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakeActivityRepo struct {
	created   *models.Activity
	createErr error
	list      []*models.Activity
	listErr   error
}

func (f *fakeActivityRepo) Create(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a.ID = "a-1"
	f.created = a
	return a, nil
}

func (f *fakeActivityRepo) ListByUserID(ctx context.Context, userID string) ([]*models.Activity, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

type fakeStore struct {
	putUser, putName string
	putErr           error
	deletedName      string
	deleteErr        error
}

func (f *fakeStore) Put(ctx context.Context, userID, filename, srcPath string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.putUser, f.putName = userID, filename
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, userID, filename string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedName = filename
	return nil
}

func newUpload(t *testing.T, dataType string) (*upload.Upload, string) {
	t.Helper()
	dir := t.TempDir()
	f, err := os.CreateTemp(dir, "hapi-upload-*.tmp")
	require.NoError(t, err)
	_, err = f.WriteString("fit-bytes")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return &upload.Upload{TempPath: f.Name(), DataType: dataType, Size: 9}, dir
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "temp file must be discarded")
}

func pinTime(t *testing.T, ts time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return ts }
	t.Cleanup(func() { timeNow = orig })
}

func TestImport_Success(t *testing.T) {
	pinTime(t, time.Unix(1700000000, 0))

	repo := &fakeActivityRepo{}
	store := &fakeStore{}
	s := NewService(repo, store, nopLogger{})

	up, dir := newUpload(t, "fit")
	name := "morning ride"
	up.Name = &name

	got, err := s.Import(context.Background(), "u-1", up)
	require.NoError(t, err)
	require.Equal(t, "act1700000000.fit", got.Filename)
	require.Equal(t, "u-1", store.putUser)
	require.Equal(t, "act1700000000.fit", store.putName)
	require.Equal(t, &name, repo.created.Name)
	requireEmptyDir(t, dir)
}

func TestImport_RejectsUnknownDataType(t *testing.T) {
	repo := &fakeActivityRepo{}
	store := &fakeStore{}
	s := NewService(repo, store, nopLogger{})

	up, dir := newUpload(t, "gpx")

	_, err := s.Import(context.Background(), "u-1", up)
	require.ErrorIs(t, err, common.ErrorValidation)
	require.Empty(t, store.putName, "nothing may reach the store")
	requireEmptyDir(t, dir)
}

func TestImport_StoreFailure(t *testing.T) {
	repo := &fakeActivityRepo{}
	store := &fakeStore{putErr: errors.New("disk full")}
	s := NewService(repo, store, nopLogger{})

	up, dir := newUpload(t, "fit")

	_, err := s.Import(context.Background(), "u-1", up)
	require.ErrorIs(t, err, common.ErrorInternal)
	require.Nil(t, repo.created, "no record without a placed artifact")
	requireEmptyDir(t, dir)
}

func TestImport_RecordFailureCompensates(t *testing.T) {
	pinTime(t, time.Unix(1700000000, 0))

	repo := &fakeActivityRepo{createErr: errors.New("db down")}
	store := &fakeStore{}
	s := NewService(repo, store, nopLogger{})

	up, dir := newUpload(t, "fit")

	_, err := s.Import(context.Background(), "u-1", up)
	require.ErrorIs(t, err, common.ErrorInternal)
	require.Equal(t, "act1700000000.fit", store.deletedName, "placed artifact must be deleted when recording fails")
	requireEmptyDir(t, dir)
}

func TestImport_CompensationFailureStillInternal(t *testing.T) {
	repo := &fakeActivityRepo{createErr: errors.New("db down")}
	store := &fakeStore{deleteErr: errors.New("also down")}
	s := NewService(repo, store, nopLogger{})

	up, dir := newUpload(t, "fit")

	_, err := s.Import(context.Background(), "u-1", up)
	require.ErrorIs(t, err, common.ErrorInternal)
	requireEmptyDir(t, dir)
}

func TestList(t *testing.T) {
	repo := &fakeActivityRepo{list: []*models.Activity{{ID: "a-1"}, {ID: "a-2"}}}
	s := NewService(repo, &fakeStore{}, nopLogger{})

	got, err := s.List(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestList_RepoError(t *testing.T) {
	repo := &fakeActivityRepo{listErr: errors.New("db down")}
	s := NewService(repo, &fakeStore{}, nopLogger{})

	_, err := s.List(context.Background(), "u-1")
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestImport_TempPathIsolation(t *testing.T) {
	// The artifact filename never echoes the temp filename.
	pinTime(t, time.Unix(1700000001, 0))

	repo := &fakeActivityRepo{}
	s := NewService(repo, &fakeStore{}, nopLogger{})

	up, _ := newUpload(t, "fit")
	got, err := s.Import(context.Background(), "u-1", up)
	require.NoError(t, err)
	require.NotContains(t, got.Filename, filepath.Base(up.TempPath))
	require.Equal(t, "act1700000001.fit", got.Filename)
}
