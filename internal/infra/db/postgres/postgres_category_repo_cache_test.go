//go:build !integration

package postgres

import (
	"context"
	"encoding/json"
	"testing"

	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/repository"
)

func TestCategoryRepoCacheDecorator(t *testing.T) {
	ctx := context.Background()
	category := &model.ScamCategory{Label: model.CategoryPhishing, Keywords: []string{"verify your account"}}
	categoryJSON, _ := json.Marshal([]*model.ScamCategory{category})

	t.Run("ListAll should return from cache on hit", func(t *testing.T) {
		// Arrange
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return string(categoryJSON), nil // Simulate cache hit
			},
		}
		innerRepoCalled := false
		mockInnerRepo := &mockInnerCategoryRepo{
			ListAllFunc: func(ctx context.Context, tx repository.Tx) ([]*model.ScamCategory, error) {
				innerRepoCalled = true // This should not be called
				return nil, nil
			},
		}

		decorator := NewCategoryRepoCacheDecorator(mockInnerRepo, mockRedis)

		// Act
		result, err := decorator.ListAll(ctx, nil)

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if innerRepoCalled {
			t.Error("inner repository should not be called on a cache hit")
		}
		if len(result) != 1 || result[0].Label != model.CategoryPhishing {
			t.Error("did not return the correct categories from cache")
		}
	})

	t.Run("Save should invalidate the cache", func(t *testing.T) {
		// Arrange
		var deletedKeys []string
		mockRedis := &mockRedisClient{
			DelFunc: func(ctx context.Context, keys ...string) error {
				deletedKeys = append(deletedKeys, keys...)
				return nil
			},
		}
		mockInnerRepo := &mockInnerCategoryRepo{
			SaveFunc: func(ctx context.Context, tx repository.Tx, c *model.ScamCategory) error {
				return nil
			},
		}

		decorator := NewCategoryRepoCacheDecorator(mockInnerRepo, mockRedis)

		// Act
		err := decorator.Save(ctx, nil, category)

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(deletedKeys) != 2 {
			t.Fatalf("expected 2 keys to be deleted, but got %d", len(deletedKeys))
		}
	})
}
