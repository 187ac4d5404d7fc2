package sched

import (
	"context"
	"time"

	"telegram-scam-guard/internal/domain/ports/repository"
	"telegram-scam-guard/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// RetentionWorker periodically purges scan reports past the retention
// window. Scan previews may contain user-forwarded message text, so they
// are not kept indefinitely.
type RetentionWorker struct {
	interval time.Duration
	maxAge   time.Duration
	scans    repository.ScanReportRepository
	log      *zerolog.Logger
}

func NewRetentionWorker(interval time.Duration, retentionDays int, scans repository.ScanReportRepository, logger *zerolog.Logger) *RetentionWorker {
	retLog := logger.With().Str("component", "RetentionWorker").Logger()
	return &RetentionWorker{
		interval: interval,
		maxAge:   time.Duration(retentionDays) * 24 * time.Hour,
		scans:    scans,
		log:      &retLog,
	}
}

func (w *RetentionWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting retention worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping retention worker")
			return ctx.Err()
		case <-ticker.C:
			cutoff := time.Now().Add(-w.maxAge)
			n, err := w.scans.DeleteOlderThan(ctx, repository.NoTX, cutoff)
			if err != nil {
				w.log.Error().Err(err).Msg("retention sweep error")
				continue
			}
			if n > 0 {
				metrics.AddPurgedReports(n)
				w.log.Info().Int64("count", n).Time("cutoff", cutoff).Msg("old scan reports purged")
			}
		}
	}
}
