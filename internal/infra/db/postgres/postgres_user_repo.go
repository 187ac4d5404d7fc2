package postgres

import (
	"context"
	"errors"
	"time"

	"telegram-scam-guard/internal/domain"
	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

func (r *PostgresUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	exec, err := getExecutor(tx, r.pool)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (id, telegram_id, username, language, registered_at, last_active_at, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username       = EXCLUDED.username,
			language       = EXCLUDED.language,
			last_active_at = EXCLUDED.last_active_at,
			is_admin       = EXCLUDED.is_admin`
	_, err = exec.Exec(ctx, query,
		u.ID, u.TelegramID, u.Username, string(u.Language),
		u.RegisteredAt, u.LastActiveAt, u.IsAdmin)
	return err
}

func (r *PostgresUserRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
	exec, err := getExecutor(tx, r.pool)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, telegram_id, username, language, registered_at, last_active_at, is_admin
		FROM users WHERE telegram_id = $1`
	return scanUser(exec.QueryRow(ctx, query, tgID))
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	exec, err := getExecutor(tx, r.pool)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, telegram_id, username, language, registered_at, last_active_at, is_admin
		FROM users WHERE id = $1`
	return scanUser(exec.QueryRow(ctx, query, id))
}

func (r *PostgresUserRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.User, error) {
	exec, err := getExecutor(tx, r.pool)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, telegram_id, username, language, registered_at, last_active_at, is_admin
		FROM users ORDER BY registered_at DESC OFFSET $1 LIMIT $2`
	rows, err := exec.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	exec, err := getExecutor(tx, r.pool)
	if err != nil {
		return 0, err
	}

	var n int
	err = exec.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *PostgresUserRepo) CountInactiveUsers(ctx context.Context, tx repository.Tx, since time.Time) (int, error) {
	exec, err := getExecutor(tx, r.pool)
	if err != nil {
		return 0, err
	}

	var n int
	err = exec.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE last_active_at < $1`, since).Scan(&n)
	return n, err
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var lang string
	err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &lang,
		&u.RegisteredAt, &u.LastActiveAt, &u.IsAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.Language = model.Language(lang)
	return &u, nil
}
