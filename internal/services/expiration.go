package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sporthive/internal/domain"
	"sporthive/internal/observability"
)

// DefaultExpirationInterval is used when the job is built with a non-positive interval.
const DefaultExpirationInterval = time.Minute

// ExpirationJob moves activities whose start time has passed to Finished.
type ExpirationJob struct {
	activityRepo domain.ActivityRepository
	interval     time.Duration
	metrics      *observability.Metrics
	logger       *slog.Logger
	now          func() time.Time
}

// NewExpirationJob constructs an ExpirationJob. metrics may be nil.
func NewExpirationJob(activityRepo domain.ActivityRepository, interval time.Duration, metrics *observability.Metrics, logger *slog.Logger) *ExpirationJob {
	if interval <= 0 {
		interval = DefaultExpirationInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpirationJob{
		activityRepo: activityRepo,
		interval:     interval,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
// Each sweep is bounded by the interval. A failed sweep is logged and retried on
// the next tick. Run always returns nil so it can sit in an errgroup next to the
// HTTP server.
func (j *ExpirationJob) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.InfoContext(ctx, "expiration job started", "interval", j.interval.String())
	for {
		j.sweepWithTimeout(ctx)

		select {
		case <-ctx.Done():
			j.logger.InfoContext(context.WithoutCancel(ctx), "expiration job stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (j *ExpirationJob) sweepWithTimeout(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, j.interval)
	defer cancel()
	if _, err := j.Sweep(sweepCtx); err != nil && ctx.Err() == nil {
		j.logger.ErrorContext(ctx, "expiration sweep failed", "error", err)
	}
}

// Sweep runs a single bulk transition and reports how many activities were finished.
func (j *ExpirationJob) Sweep(ctx context.Context) (int64, error) {
	start := time.Now()
	finished, err := j.activityRepo.FinishExpired(ctx, j.now().UTC())
	elapsed := time.Since(start).Seconds()
	if err != nil {
		j.metrics.ObserveSweep(observability.ResultError, 0, elapsed)
		return 0, fmt.Errorf("finish expired activities: %w", err)
	}
	j.metrics.ObserveSweep(observability.ResultSuccess, finished, elapsed)
	if finished > 0 {
		j.logger.InfoContext(ctx, "expired activities finished", "count", finished)
	} else {
		j.logger.DebugContext(ctx, "expiration sweep found nothing to finish")
	}
	return finished, nil
}
