package adapter

import (
	"context"

	"telegram-scam-guard/internal/domain/model"
)

// URLReputationAdapter is the port for external URL-safety lookups.
// Implementations must accept a canonicalized URL (model.CanonicalURL).
type URLReputationAdapter interface {
	CheckURL(ctx context.Context, url string) (*model.URLVerdict, error)
}
