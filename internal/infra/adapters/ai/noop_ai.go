package ai

import (
	"context"
	"time"

	"telegram-scam-guard/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*NoopAIAdapter)(nil)

// NoopAIAdapter implements adapter.AIServiceAdapter for local/dev runs.
// It answers every analysis with a canned non-threat verdict so the bot
// flow can be exercised without an API key.
type NoopAIAdapter struct{}

func NewNoopAIAdapter() *NoopAIAdapter {
	return &NoopAIAdapter{}
}

const noopVerdict = `{"is_threat": false, "threat_type": "none", "confidence": 0.0, "explanation": "dev mode, no analysis performed", "advice": "configure a real AI provider"}`

func (a *NoopAIAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return noopVerdict, nil
}

func (a *NoopAIAdapter) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	reply, err := a.Chat(ctx, model, messages)
	return reply, adapter.Usage{}, err
}

func (a *NoopAIAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{
		Name:        "noop-ai-model",
		Description: "Noop AI model for testing",
		MaxTokens:   1024,
		Supports:    []string{"chat"},
	}, nil
}

func (a *NoopAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{"noop-ai-model"}, nil
}

func (a *NoopAIAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	n := 0
	for _, m := range messages {
		n += len(m.Content) / 4 // rough heuristic
	}
	return n, nil
}
