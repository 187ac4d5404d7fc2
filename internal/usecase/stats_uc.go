package usecase

import (
	"context"
	"time"

	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/repository"
	"telegram-scam-guard/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// Totals is the aggregate snapshot served to admins.
type Totals struct {
	Users           int                   `json:"users"`
	InactiveUsers   int                   `json:"inactive_users"`
	ScansByKind     map[model.ScanKind]int `json:"scans_by_kind"`
	ScansByCategory map[string]int        `json:"scans_by_category"`
}

type StatsUseCase interface {
	Totals(ctx context.Context) (*Totals, error)
	UserHistory(ctx context.Context, userID string, limit int) ([]*model.ScanReport, error)
}

const inactiveWindow = 30 * 24 * time.Hour

type statsUC struct {
	users repository.UserRepository
	scans repository.ScanReportRepository
	log   *zerolog.Logger
}

func NewStatsUseCase(users repository.UserRepository, scans repository.ScanReportRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{users: users, scans: scans, log: logger}
}

func (s *statsUC) Totals(ctx context.Context) (*Totals, error) {
	defer logging.TraceDuration(s.log, "StatsUC.Totals")()

	users, err := s.users.CountUsers(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	inactive, err := s.users.CountInactiveUsers(ctx, repository.NoTX, time.Now().Add(-inactiveWindow))
	if err != nil {
		return nil, err
	}
	byKind, err := s.scans.CountByKind(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.scans.CountByCategory(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}

	return &Totals{
		Users:           users,
		InactiveUsers:   inactive,
		ScansByKind:     byKind,
		ScansByCategory: byCategory,
	}, nil
}

func (s *statsUC) UserHistory(ctx context.Context, userID string, limit int) ([]*model.ScanReport, error) {
	defer logging.TraceDuration(s.log, "StatsUC.UserHistory")()
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.scans.ListByUser(ctx, repository.NoTX, userID, limit)
}
