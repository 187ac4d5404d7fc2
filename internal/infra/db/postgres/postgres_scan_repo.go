package postgres

import (
	"context"
	"time"

	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/repository"
	"telegram-scam-guard/internal/infra/security"

	"github.com/jackc/pgx/v4/pgxpool"
)

var _ repository.ScanReportRepository = (*PostgresScanRepo)(nil)

// PostgresScanRepo persists scan reports. Input previews are encrypted
// at rest when an encryption service is provided.
type PostgresScanRepo struct {
	pool   *pgxpool.Pool
	encSvc *security.EncryptionService
}

func NewPostgresScanRepo(pool *pgxpool.Pool, encSvc *security.EncryptionService) *PostgresScanRepo {
	return &PostgresScanRepo{pool: pool, encSvc: encSvc}
}

func (r *PostgresScanRepo) Save(ctx context.Context, tx repository.Tx, s *model.ScanReport) error {
	exec, err := getExecutor(tx, r.pool)
	if err != nil {
		return err
	}

	preview := s.InputPreview
	if r.encSvc != nil && preview != "" {
		preview, err = r.encSvc.Encrypt(preview)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO scan_reports (id, user_id, kind, input_preview, category, verdict, confidence, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`
	_, err = exec.Exec(ctx, query,
		s.ID, s.UserID, string(s.Kind), preview,
		s.Category, s.Verdict, s.Confidence, string(s.Source), s.CreatedAt)
	return err
}

func (r *PostgresScanRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.ScanReport, error) {
	exec, err := getExecutor(tx, r.pool)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, kind, input_preview, category, verdict, confidence, source, created_at
		FROM scan_reports WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := exec.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*model.ScanReport
	for rows.Next() {
		var s model.ScanReport
		var kind, source string
		if err := rows.Scan(&s.ID, &s.UserID, &kind, &s.InputPreview,
			&s.Category, &s.Verdict, &s.Confidence, &source, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Kind = model.ScanKind(kind)
		s.Source = model.AnalysisSource(source)
		if r.encSvc != nil && s.InputPreview != "" {
			plain, err := r.encSvc.Decrypt(s.InputPreview)
			if err == nil {
				s.InputPreview = plain
			}
			// rows written before encryption was enabled stay as-is
		}
		reports = append(reports, &s)
	}
	return reports, rows.Err()
}

func (r *PostgresScanRepo) CountByKind(ctx context.Context, tx repository.Tx) (map[model.ScanKind]int, error) {
	exec, err := getExecutor(tx, r.pool)
	if err != nil {
		return nil, err
	}

	rows, err := exec.Query(ctx, `SELECT kind, COUNT(*) FROM scan_reports GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.ScanKind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[model.ScanKind(kind)] = n
	}
	return counts, rows.Err()
}

func (r *PostgresScanRepo) CountByCategory(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	exec, err := getExecutor(tx, r.pool)
	if err != nil {
		return nil, err
	}

	rows, err := exec.Query(ctx, `
		SELECT category, COUNT(*) FROM scan_reports
		WHERE category <> '' GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, err
		}
		counts[category] = n
	}
	return counts, rows.Err()
}

func (r *PostgresScanRepo) DeleteOlderThan(ctx context.Context, tx repository.Tx, cutoff time.Time) (int64, error) {
	exec, err := getExecutor(tx, r.pool)
	if err != nil {
		return 0, err
	}

	tag, err := exec.Exec(ctx, `DELETE FROM scan_reports WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
