//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"

	"telegram-scam-guard/internal/domain"
	"telegram-scam-guard/internal/domain/model"
)

func TestCategoryRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	repo := NewPostgresCategoryRepo(testPool)
	ctx := context.Background()

	t.Run("should upsert and read back the builtin set", func(t *testing.T) {
		cleanup(t)

		for _, c := range model.BuiltinCategories() {
			if err := repo.Save(ctx, nil, c); err != nil {
				t.Fatalf("Failed to save category %s: %v", c.Label, err)
			}
		}

		all, err := repo.ListAll(ctx, nil)
		if err != nil {
			t.Fatalf("ListAll failed: %v", err)
		}
		if len(all) != len(model.BuiltinCategories()) {
			t.Fatalf("expected %d categories, got %d", len(model.BuiltinCategories()), len(all))
		}

		phishing, err := repo.FindByLabel(ctx, nil, model.CategoryPhishing)
		if err != nil {
			t.Fatalf("FindByLabel failed: %v", err)
		}
		if len(phishing.Keywords) == 0 || len(phishing.HindiKeywords) == 0 {
			t.Error("keyword arrays did not survive the round trip")
		}
	})

	t.Run("should replace keywords on conflicting label", func(t *testing.T) {
		cleanup(t)

		c, err := model.NewScamCategory(model.CategoryOTPScam, []string{"otp"}, nil)
		if err != nil {
			t.Fatalf("NewScamCategory failed: %v", err)
		}
		if err := repo.Save(ctx, nil, c); err != nil {
			t.Fatalf("first save failed: %v", err)
		}

		c.Keywords = []string{"otp", "verification code"}
		if err := repo.Save(ctx, nil, c); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}

		got, err := repo.FindByLabel(ctx, nil, model.CategoryOTPScam)
		if err != nil {
			t.Fatalf("FindByLabel failed: %v", err)
		}
		if len(got.Keywords) != 2 {
			t.Errorf("expected 2 keywords after upsert, got %d", len(got.Keywords))
		}
	})

	t.Run("should report missing labels as not found", func(t *testing.T) {
		cleanup(t)

		_, err := repo.FindByLabel(ctx, nil, "lottery_fraud")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected domain.ErrNotFound, got %v", err)
		}
	})
}
