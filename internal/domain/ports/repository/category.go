package repository

import (
	"context"

	"telegram-scam-guard/internal/domain/model"
)

// ScamCategoryRepository serves the read-only keyword table. The table is
// seeded once (cmd/seed) and read on every local classification, so the
// production wiring decorates the Postgres repo with a Redis cache.
type ScamCategoryRepository interface {
	Save(ctx context.Context, tx Tx, c *model.ScamCategory) error
	FindByLabel(ctx context.Context, tx Tx, label string) (*model.ScamCategory, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.ScamCategory, error)
}
