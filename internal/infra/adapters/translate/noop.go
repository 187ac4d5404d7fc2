package translate

import (
	"context"

	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/adapter"
)

var _ adapter.TranslationAdapter = (*NoopTranslateAdapter)(nil)

// NoopTranslateAdapter returns input unchanged. Used when no translation
// key is configured; users then see AI output in its original language.
type NoopTranslateAdapter struct{}

func NewNoopTranslateAdapter() *NoopTranslateAdapter {
	return &NoopTranslateAdapter{}
}

func (n *NoopTranslateAdapter) Translate(ctx context.Context, text string, target model.Language) (string, error) {
	return text, nil
}
