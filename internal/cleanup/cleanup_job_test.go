package cleanup_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-vacation/internal/cleanup"
	cleanupMock "go-vacation/internal/cleanup/mock"
	"go-vacation/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var (
	fixedNow  = time.Date(2026, 5, 10, 15, 30, 0, 0, time.UTC)
	today     = time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	yesterday = time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC)
)

func newJob(repo cleanup.Repository) *cleanup.Job {
	cfg := config.CleanupConfig{Interval: time.Hour, BatchSize: 2}
	return cleanup.NewJob(repo, cfg, zap.NewNop()).WithClock(func() time.Time { return fixedNow })
}

func TestJob_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("memproses batch sampai habis", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := cleanupMock.NewMockRepository(ctrl)

		gomock.InOrder(
			repo.EXPECT().DenyStalePending(gomock.Any(), today, 2).Return(int64(2), nil),
			repo.EXPECT().DenyStalePending(gomock.Any(), today, 2).Return(int64(1), nil),
			repo.EXPECT().PurgeDenied(gomock.Any(), yesterday, 2).Return(int64(0), nil),
		)

		res, err := newJob(repo).RunOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, cleanup.Result{Denied: 3, Purged: 0}, res)
	})

	t.Run("gagal deny tetap menjalankan purge", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := cleanupMock.NewMockRepository(ctrl)

		repo.EXPECT().DenyStalePending(gomock.Any(), today, 2).Return(int64(0), errors.New("db down"))
		repo.EXPECT().PurgeDenied(gomock.Any(), yesterday, 2).Return(int64(1), nil)

		res, err := newJob(repo).RunOnce(ctx)

		assert.EqualError(t, err, "db down")
		assert.Equal(t, int64(1), res.Purged)
	})
}

func TestJob_RunStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := cleanupMock.NewMockRepository(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		newJob(repo).Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not stop")
	}
}

func TestJob_RunSweepsBeforeFirstTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := cleanupMock.NewMockRepository(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gomock.InOrder(
		repo.EXPECT().DenyStalePending(gomock.Any(), today, 2).Return(int64(1), nil),
		repo.EXPECT().PurgeDenied(gomock.Any(), yesterday, 2).
			DoAndReturn(func(context.Context, time.Time, int) (int64, error) {
				cancel()
				return 0, nil
			}),
	)

	done := make(chan struct{})
	go func() {
		// interval satu jam, jadi hanya sweep awal yang bisa memanggil repo
		newJob(repo).Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("initial sweep did not run")
	}
}
