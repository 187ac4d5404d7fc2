package usecase

import (
	"context"

	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/adapter"
	"telegram-scam-guard/internal/domain/ports/repository"
	"telegram-scam-guard/internal/infra/logging"
	"telegram-scam-guard/internal/infra/metrics"
	"telegram-scam-guard/internal/infra/worker"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ URLCheckUseCase = (*urlCheckUC)(nil)

// URLCheckUseCase resolves a URL's reputation. The lookup API is
// authoritative; the pattern heuristic covers outages and missing keys.
type URLCheckUseCase interface {
	CheckURL(ctx context.Context, user *model.User, raw string) (*model.URLVerdict, error)
}

type urlCheckUC struct {
	primary  adapter.URLReputationAdapter // may be nil when no API key is configured
	fallback adapter.URLReputationAdapter
	scans    repository.ScanReportRepository
	pool     *worker.Pool
	log      *zerolog.Logger
}

func NewURLCheckUseCase(
	primary adapter.URLReputationAdapter,
	fallback adapter.URLReputationAdapter,
	scans repository.ScanReportRepository,
	pool *worker.Pool,
	logger *zerolog.Logger,
) *urlCheckUC {
	return &urlCheckUC{
		primary:  primary,
		fallback: fallback,
		scans:    scans,
		pool:     pool,
		log:      logger,
	}
}

func (u *urlCheckUC) CheckURL(ctx context.Context, user *model.User, raw string) (*model.URLVerdict, error) {
	defer logging.TraceDuration(u.log, "URLCheckUC.CheckURL")()

	canonical, err := model.CanonicalURL(raw)
	if err != nil {
		return nil, err
	}

	verdict, err := u.lookup(ctx, canonical)
	if err != nil {
		return nil, err
	}
	metrics.IncURLCheck(string(verdict.Status), string(verdict.Source))

	u.recordScan(ctx, user, canonical, verdict)
	return verdict, nil
}

func (u *urlCheckUC) lookup(ctx context.Context, canonical string) (*model.URLVerdict, error) {
	if u.primary != nil {
		verdict, err := u.primary.CheckURL(ctx, canonical)
		if err == nil {
			return verdict, nil
		}
		u.log.Warn().Err(err).Str("url", canonical).Msg("reputation lookup failed, using heuristic")
	}
	return u.fallback.CheckURL(ctx, canonical)
}

func (u *urlCheckUC) recordScan(ctx context.Context, user *model.User, canonical string, verdict *model.URLVerdict) {
	report, err := model.NewScanReport(user.ID, model.ScanKindURL, canonical)
	if err != nil {
		u.log.Error().Err(err).Msg("scan report build failed")
		return
	}
	report.Verdict = verdict.Status == model.URLUnsafe
	if report.Verdict {
		report.Category = model.CategoryFakeLink
	}
	report.Source = verdict.Source

	task := func(taskCtx context.Context) error {
		return u.scans.Save(taskCtx, repository.NoTX, report)
	}
	if u.pool == nil || u.pool.Submit(task) != nil {
		if err := u.scans.Save(ctx, repository.NoTX, report); err != nil {
			u.log.Error().Err(err).Str("scan_id", report.ID).Msg("scan report save failed")
		}
	}
}
