package postgres

import (
	"context"
	"errors"

	"telegram-scam-guard/internal/domain"
	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var _ repository.ScamCategoryRepository = (*PostgresCategoryRepo)(nil)

// PostgresCategoryRepo stores the keyword tables the local classifier
// matches against. Categories are seeded from the builtin set and can be
// tuned without a redeploy.
type PostgresCategoryRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCategoryRepo(pool *pgxpool.Pool) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{pool: pool}
}

func (r *PostgresCategoryRepo) Save(ctx context.Context, tx repository.Tx, c *model.ScamCategory) error {
	exec, err := getExecutor(tx, r.pool)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO scam_categories (label, keywords, hindi_keywords)
		VALUES ($1, $2, $3)
		ON CONFLICT (label) DO UPDATE SET
			keywords       = EXCLUDED.keywords,
			hindi_keywords = EXCLUDED.hindi_keywords`
	_, err = exec.Exec(ctx, query, c.Label, c.Keywords, c.HindiKeywords)
	return err
}

func (r *PostgresCategoryRepo) FindByLabel(ctx context.Context, tx repository.Tx, label string) (*model.ScamCategory, error) {
	exec, err := getExecutor(tx, r.pool)
	if err != nil {
		return nil, err
	}

	var c model.ScamCategory
	err = exec.QueryRow(ctx, `
		SELECT label, keywords, hindi_keywords FROM scam_categories WHERE label = $1`, label).
		Scan(&c.Label, &c.Keywords, &c.HindiKeywords)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PostgresCategoryRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.ScamCategory, error) {
	exec, err := getExecutor(tx, r.pool)
	if err != nil {
		return nil, err
	}

	rows, err := exec.Query(ctx, `SELECT label, keywords, hindi_keywords FROM scam_categories ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*model.ScamCategory
	for rows.Next() {
		var c model.ScamCategory
		if err := rows.Scan(&c.Label, &c.Keywords, &c.HindiKeywords); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}
