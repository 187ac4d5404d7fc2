package translate

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/go-resty/resty/v2"

	"telegram-scam-guard/internal/config"
	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/adapter"
)

var _ adapter.TranslationAdapter = (*GoogleTranslateAdapter)(nil)

// GoogleTranslateAdapter localizes AI output through the Cloud Translation
// v2 REST API. The rest of the bot text is served from static locale
// bundles; only dynamic AI explanations pass through here.
type GoogleTranslateAdapter struct {
	client *resty.Client
	apiKey string
}

func NewGoogleTranslateAdapter(cfg *config.TranslateConfig) (*GoogleTranslateAdapter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("translate: empty api key")
	}
	base := cfg.BaseURL
	if base == "" {
		base = "https://translation.googleapis.com"
	}
	client := resty.New().
		SetBaseURL(base).
		SetTimeout(10 * time.Second)
	return &GoogleTranslateAdapter{client: client, apiKey: cfg.APIKey}, nil
}

func targetCode(lang model.Language) string {
	if lang == model.LangHindi {
		return "hi"
	}
	return "en"
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

func (g *GoogleTranslateAdapter) Translate(ctx context.Context, text string, target model.Language) (string, error) {
	if text == "" {
		return "", nil
	}

	var payload translateResponse
	res, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetBody(map[string]interface{}{
			"q":      []string{text},
			"target": targetCode(target),
			"format": "text",
		}).
		SetResult(&payload).
		Post("/language/translate/v2")
	if err != nil {
		return "", err
	}
	if !res.IsSuccess() {
		return "", fmt.Errorf("translate http %d", res.StatusCode())
	}
	if len(payload.Data.Translations) == 0 {
		return "", errors.New("translate: empty response")
	}
	// The API escapes entities even in text mode.
	return html.UnescapeString(payload.Data.Translations[0].TranslatedText), nil
}
