//go:build !integration

package postgres

import (
	"context"
	"time"

	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/repository"
	red "telegram-scam-guard/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerCategoryRepo mocks the database repository that the category decorator wraps.
type mockInnerCategoryRepo struct {
	SaveFunc        func(ctx context.Context, tx repository.Tx, c *model.ScamCategory) error
	FindByLabelFunc func(ctx context.Context, tx repository.Tx, label string) (*model.ScamCategory, error)
	ListAllFunc     func(ctx context.Context, tx repository.Tx) ([]*model.ScamCategory, error)
}

func (m *mockInnerCategoryRepo) Save(ctx context.Context, tx repository.Tx, c *model.ScamCategory) error {
	return m.SaveFunc(ctx, tx, c)
}
func (m *mockInnerCategoryRepo) FindByLabel(ctx context.Context, tx repository.Tx, label string) (*model.ScamCategory, error) {
	return m.FindByLabelFunc(ctx, tx, label)
}
func (m *mockInnerCategoryRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.ScamCategory, error) {
	return m.ListAllFunc(ctx, tx)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc    func(ctx context.Context, keys ...string) error
	PingFunc   func(ctx context.Context) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
	CloseFunc  func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error { return m.PingFunc(ctx) }
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return m.IncrFunc(ctx, key)
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return m.ExpireFunc(ctx, key, expiration)
}
func (m *mockRedisClient) Close() error { return m.CloseFunc() }
