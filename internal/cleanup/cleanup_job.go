// Package cleanup periodically settles vacations nobody decided on in time.
package cleanup

import (
	"context"
	"time"

	"go-vacation/internal/config"

	"go.uber.org/zap"
)

type Result struct {
	Denied int64
	Purged int64
}

type Job struct {
	repo   Repository
	cfg    config.CleanupConfig
	now    func() time.Time
	logger *zap.Logger
}

func NewJob(repo Repository, cfg config.CleanupConfig, logger ...*zap.Logger) *Job {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Job{
		repo:   repo,
		cfg:    cfg,
		now:    time.Now,
		logger: l.Named("cleanup.job"),
	}
}

// WithClock replaces the time source.
func (j *Job) WithClock(now func() time.Time) *Job {
	j.now = now
	return j
}

// Run executes RunOnce right away and then every interval until ctx is cancelled.
func (j *Job) Run(ctx context.Context) {
	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	j.logger.Info("cleanup job started", zap.Duration("interval", j.cfg.Interval))
	j.runAndLog(ctx)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("cleanup job stopped")
			return
		case <-ticker.C:
			j.runAndLog(ctx)
		}
	}
}

func (j *Job) runAndLog(ctx context.Context) {
	res, err := j.RunOnce(ctx)
	if err != nil && ctx.Err() == nil {
		j.logger.Error("cleanup run failed", zap.Error(err))
	}
	if res.Denied > 0 || res.Purged > 0 {
		j.logger.Info("cleanup run finished",
			zap.Int64("denied", res.Denied),
			zap.Int64("purged", res.Purged),
		)
	}
}

// RunOnce denies stale pending requests and purges old denied ones, batch by batch.
// A failing step does not stop the other one.
func (j *Job) RunOnce(ctx context.Context) (Result, error) {
	today := truncateDay(j.now())
	var res Result

	denied, denyErr := j.drain(ctx, func(ctx context.Context) (int64, error) {
		return j.repo.DenyStalePending(ctx, today, j.cfg.BatchSize)
	})
	res.Denied = denied
	if denyErr != nil {
		j.logger.Error("deny stale pending failed", zap.Error(denyErr))
	}

	purged, purgeErr := j.drain(ctx, func(ctx context.Context) (int64, error) {
		return j.repo.PurgeDenied(ctx, today.AddDate(0, 0, -1), j.cfg.BatchSize)
	})
	res.Purged = purged
	if purgeErr != nil {
		j.logger.Error("purge denied failed", zap.Error(purgeErr))
	}

	if denyErr != nil {
		return res, denyErr
	}
	return res, purgeErr
}

func (j *Job) drain(ctx context.Context, step func(context.Context) (int64, error)) (int64, error) {
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := step(ctx)
		if err != nil {
			return total, err
		}
		total += n
		if n < int64(j.cfg.BatchSize) {
			return total, nil
		}
	}
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
