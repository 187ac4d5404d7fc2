package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"telegram-scam-guard/internal/domain"
	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/adapter"
	"telegram-scam-guard/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// mockTxManager runs the callback without a real transaction.
type mockTxManager struct{}

func (m *mockTxManager) WithTx(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

// memUserRepo is a small in-memory implementation used by unit tests.
type memUserRepo struct {
	mu      sync.RWMutex
	store   map[int64]*model.User
	saveErr error // used by tests to simulate save failures
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[int64]*model.User)}
}

func (m *memUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.TelegramID] = &cp
	return nil
}

func (m *memUserRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.User, 0, len(m.store))
	for _, u := range m.store {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

func (m *memUserRepo) CountInactiveUsers(ctx context.Context, tx repository.Tx, since time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cnt := 0
	for _, u := range m.store {
		if u.LastActiveAt.Before(since) {
			cnt++
		}
	}
	return cnt, nil
}

// memScanRepo collects saved reports for assertions.
type memScanRepo struct {
	mu      sync.Mutex
	reports []*model.ScanReport
	saveErr error
}

func (m *memScanRepo) Save(ctx context.Context, tx repository.Tx, s *model.ScanReport) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.reports = append(m.reports, &cp)
	return nil
}

func (m *memScanRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.ScanReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ScanReport
	for _, r := range m.reports {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memScanRepo) CountByKind(ctx context.Context, tx repository.Tx) (map[model.ScanKind]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[model.ScanKind]int)
	for _, r := range m.reports {
		out[r.Kind]++
	}
	return out, nil
}

func (m *memScanRepo) CountByCategory(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int)
	for _, r := range m.reports {
		if r.Category != "" {
			out[r.Category]++
		}
	}
	return out, nil
}

func (m *memScanRepo) DeleteOlderThan(ctx context.Context, tx repository.Tx, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*model.ScanReport
	var purged int64
	for _, r := range m.reports {
		if r.CreatedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, r)
	}
	m.reports = kept
	return purged, nil
}

func (m *memScanRepo) saved() []*model.ScanReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.ScanReport, len(m.reports))
	copy(out, m.reports)
	return out
}

// memCategoryRepo serves a fixed category list.
type memCategoryRepo struct {
	categories []*model.ScamCategory
	listErr    error
}

func (m *memCategoryRepo) Save(ctx context.Context, tx repository.Tx, c *model.ScamCategory) error {
	m.categories = append(m.categories, c)
	return nil
}

func (m *memCategoryRepo) FindByLabel(ctx context.Context, tx repository.Tx, label string) (*model.ScamCategory, error) {
	for _, c := range m.categories {
		if c.Label == label {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCategoryRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.ScamCategory, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.categories, nil
}

// stubLocker hands out locks without Redis.
type stubLocker struct {
	denied bool
}

func (s *stubLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.denied {
		return "", domain.ErrScanInProgress
	}
	return "token", nil
}

func (s *stubLocker) Unlock(ctx context.Context, key, token string) error { return nil }

// stubAI replies with a scripted response.
type stubAI struct {
	reply   string
	err     error
	lastMsg string
	calls   int
}

func (s *stubAI) ListModels(ctx context.Context) ([]string, error) { return nil, nil }
func (s *stubAI) GetModelInfo(mdl string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{Name: mdl}, nil
}
func (s *stubAI) CountTokens(ctx context.Context, mdl string, msgs []adapter.Message) (int, error) {
	return 0, nil
}
func (s *stubAI) Chat(ctx context.Context, mdl string, msgs []adapter.Message) (string, error) {
	s.calls++
	if len(msgs) > 0 {
		s.lastMsg = msgs[len(msgs)-1].Content
	}
	return s.reply, s.err
}
func (s *stubAI) ChatWithUsage(ctx context.Context, mdl string, msgs []adapter.Message) (string, adapter.Usage, error) {
	reply, err := s.Chat(ctx, mdl, msgs)
	return reply, adapter.Usage{}, err
}

// stubTranslator prefixes translated text so tests can see it ran.
type stubTranslator struct {
	err   error
	calls int
}

func (s *stubTranslator) Translate(ctx context.Context, text string, target model.Language) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "hi:" + text, nil
}

// stubReputation returns a scripted verdict.
type stubReputation struct {
	verdict *model.URLVerdict
	err     error
	lastURL string
}

func (s *stubReputation) CheckURL(ctx context.Context, rawURL string) (*model.URLVerdict, error) {
	s.lastURL = rawURL
	if s.err != nil {
		return nil, s.err
	}
	v := *s.verdict
	v.URL = rawURL
	return &v, nil
}

// stubHeuristic mimics the offline reputation fallback: it flags known
// shorteners and reports everything else as unknown.
type stubHeuristic struct{}

func (s *stubHeuristic) CheckURL(ctx context.Context, rawURL string) (*model.URLVerdict, error) {
	v := &model.URLVerdict{
		URL:       rawURL,
		Status:    model.URLUnknown,
		Source:    model.SourceHeuristic,
		CheckedAt: time.Now(),
	}
	lower := strings.ToLower(rawURL)
	if strings.Contains(lower, "bit.ly") || strings.Contains(lower, "tinyurl") {
		v.Status = model.URLUnsafe
		v.ThreatType = "SUSPICIOUS_PATTERN"
	}
	return v, nil
}
