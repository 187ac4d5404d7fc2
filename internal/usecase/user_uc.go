package usecase

import (
	"context"
	"errors"
	"time"

	"telegram-scam-guard/internal/domain"
	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/repository"
	"telegram-scam-guard/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase exposes user-related operations used by bot/admin flows.
type UserUseCase interface {
	RegisterOrFetch(ctx context.Context, tgID int64, username string) (*model.User, error)
	GetByTelegramID(ctx context.Context, tgID int64) (*model.User, error)
	SetLanguage(ctx context.Context, tgID int64, lang model.Language) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]*model.User, error)
	Count(ctx context.Context) (int, error)
	CountInactiveSince(ctx context.Context, since time.Time) (int, error)
}

type userUC struct {
	users    repository.UserRepository
	tm       repository.TransactionManager
	adminIDs map[int64]struct{}
	log      *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, tm repository.TransactionManager, adminIDs []int64, logger *zerolog.Logger) *userUC {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &userUC{
		users:    users,
		tm:       tm,
		adminIDs: admins,
		log:      logger,
	}
}

func (u *userUC) RegisterOrFetch(ctx context.Context, tgID int64, username string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.RegisterOrFetch")()

	var user *model.User
	// The find and save must act as one atomic operation so two concurrent
	// /start commands cannot both insert.
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		usr, err := u.users.FindByTelegramID(ctx, tx, tgID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if usr != nil {
			if username != "" && usr.Username != username {
				usr.Username = username
			}
			_, isAdmin := u.adminIDs[tgID]
			usr.IsAdmin = isAdmin
			usr.Touch() // update last active time

			if err = u.users.Save(ctx, tx, usr); err != nil {
				u.log.Error().Err(err).Msg("Failed to update user")
				return err
			}
			user = usr
			return nil
		}

		nu, err := model.NewUser("", tgID, username)
		if err != nil {
			return err
		}
		_, nu.IsAdmin = u.adminIDs[tgID]
		if err := u.users.Save(ctx, tx, nu); err != nil {
			return err
		}
		user = nu
		return nil
	})

	return user, err
}

func (u *userUC) GetByTelegramID(ctx context.Context, tgID int64) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.GetByTelegramID")()
	return u.users.FindByTelegramID(ctx, repository.NoTX, tgID)
}

func (u *userUC) SetLanguage(ctx context.Context, tgID int64, lang model.Language) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.SetLanguage")()

	var user *model.User
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		usr, err := u.users.FindByTelegramID(ctx, tx, tgID)
		if err != nil {
			return err
		}
		usr.Language = lang
		usr.Touch()
		if err := u.users.Save(ctx, tx, usr); err != nil {
			return err
		}
		user = usr
		return nil
	})
	return user, err
}

func (u *userUC) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.List")()
	return u.users.List(ctx, repository.NoTX, offset, limit)
}

func (u *userUC) Count(ctx context.Context) (int, error) {
	defer logging.TraceDuration(u.log, "UserUC.Count")()
	return u.users.CountUsers(ctx, repository.NoTX)
}

func (u *userUC) CountInactiveSince(ctx context.Context, since time.Time) (int, error) {
	defer logging.TraceDuration(u.log, "UserUC.CountInactiveSince")()
	return u.users.CountInactiveUsers(ctx, repository.NoTX, since)
}
