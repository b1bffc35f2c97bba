package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/files/")
	require.NoError(t, err)
	return s
}

func TestLocalStorage_UploadDownload(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	key, err := s.Upload(ctx, strings.NewReader("key,total\n"), "exports/report.csv", "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "exports/report.csv", key)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "key,total\n", string(body))

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	url, err := s.GetURL(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/exports/report.csv", url)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.Upload(ctx, strings.NewReader("x"), "../escape.txt", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = s.Download(ctx, "exports/../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestLocalStorage_DownloadMissing(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Download(context.Background(), "exports/missing.csv")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLocalStorage_DownloadDirectory(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.Upload(ctx, strings.NewReader("x"), "exports/report.csv", "text/csv")
	require.NoError(t, err)

	for _, dir := range []string{"exports", "exports/", "/"} {
		_, err := s.Download(ctx, dir)
		assert.Error(t, err, dir)
	}
	_, err = s.Download(ctx, "exports/")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("disk quota exceeded") }

func TestLocalStorage_FailedUploadLeavesNoFile(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.Upload(ctx, io.MultiReader(strings.NewReader("key,total\n"), brokenReader{}), "exports/partial.csv", "text/csv")
	require.Error(t, err)

	exists, err := s.Exists(ctx, "exports/partial.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	key, err := s.Upload(ctx, strings.NewReader("x"), "exports/a.json", "application/json")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_List(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	files, err := s.List(ctx, "exports")
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = s.Upload(ctx, strings.NewReader("1"), "exports/a.csv", "text/csv")
	require.NoError(t, err)
	_, err = s.Upload(ctx, strings.NewReader("22"), "exports/nested/b.json", "application/json")
	require.NoError(t, err)
	_, err = s.Upload(ctx, strings.NewReader("333"), "other/c.txt", "text/plain")
	require.NoError(t, err)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(s.BasePath(), "exports", "a.csv"), old, old))

	files, err = s.List(ctx, "exports")
	require.NoError(t, err)
	require.Len(t, files, 2)

	byPath := map[string]FileInfo{}
	for _, f := range files {
		byPath[f.Path] = f
	}
	assert.Equal(t, int64(1), byPath["exports/a.csv"].Size)
	assert.Equal(t, int64(2), byPath["exports/nested/b.json"].Size)
	assert.True(t, byPath["exports/a.csv"].ModTime.Before(time.Now().Add(-24*time.Hour)))
}
