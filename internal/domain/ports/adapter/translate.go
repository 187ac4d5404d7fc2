package adapter

import (
	"context"

	"telegram-scam-guard/internal/domain/model"
)

// TranslationAdapter is the port for translating free-form text (AI output,
// mostly) into the user's language. Canned texts never go through here;
// they are rendered from locale files.
type TranslationAdapter interface {
	Translate(ctx context.Context, text string, target model.Language) (string, error)
}
