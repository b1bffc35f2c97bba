package cron

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clinassign/clinassign-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsJobsUntilStopped(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(nil)
	s.AddJob(Job{
		Name:       "count",
		Interval:   10 * time.Millisecond,
		RunOnStart: true,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	s.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestScheduler_RunOnceContinuesAfterFailure(t *testing.T) {
	var ran []string
	s := NewScheduler(nil)
	s.AddJob(Job{Name: "fails", Interval: time.Hour, Fn: func(ctx context.Context) error {
		ran = append(ran, "fails")
		return errors.New("boom")
	}})
	s.AddJob(Job{Name: "ok", Interval: time.Hour, Fn: func(ctx context.Context) error {
		ran = append(ran, "ok")
		return nil
	}})

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"fails", "ok"}, ran)
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := NewScheduler(nil)
	assert.NotPanics(t, s.Stop)
}

func TestExportCleanup_RemovesExpiredOnly(t *testing.T) {
	ctx := context.Background()
	fs, err := storage.NewLocalStorage(t.TempDir(), "http://localhost/files")
	require.NoError(t, err)

	_, err = fs.Upload(ctx, strings.NewReader("old"), "exports/old.csv", "text/csv")
	require.NoError(t, err)
	_, err = fs.Upload(ctx, strings.NewReader("new"), "exports/new.csv", "text/csv")
	require.NoError(t, err)

	old := time.Now().Add(-72 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(fs.BasePath(), "exports", "old.csv"), old, old))

	cleanup := NewExportCleanup(fs, "exports", 24*time.Hour)
	removed, err := cleanup.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	exists, err := fs.Exists(ctx, "exports/old.csv")
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = fs.Exists(ctx, "exports/new.csv")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestExportCleanup_NoExportsDirectory(t *testing.T) {
	fs, err := storage.NewLocalStorage(t.TempDir(), "http://localhost/files")
	require.NoError(t, err)

	removed, err := NewExportCleanup(fs, "exports", time.Hour).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
