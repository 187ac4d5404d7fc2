package repository

import (
	"context"
	"time"

	"telegram-scam-guard/internal/domain/model"
)

type ScanReportRepository interface {
	Save(ctx context.Context, tx Tx, r *model.ScanReport) error
	ListByUser(ctx context.Context, tx Tx, userID string, limit int) ([]*model.ScanReport, error)
	CountByKind(ctx context.Context, tx Tx) (map[model.ScanKind]int, error)
	CountByCategory(ctx context.Context, tx Tx) (map[string]int, error)

	// DeleteOlderThan removes reports created before cutoff and returns
	// how many rows went away. The retention worker drives this.
	DeleteOlderThan(ctx context.Context, tx Tx, cutoff time.Time) (int64, error)
}
