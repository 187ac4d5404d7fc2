package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/adapter"
	"telegram-scam-guard/internal/domain/ports/repository"
	"telegram-scam-guard/internal/infra/logging"
	"telegram-scam-guard/internal/infra/metrics"
	red "telegram-scam-guard/internal/infra/redis"
	"telegram-scam-guard/internal/infra/worker"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ AnalyzeUseCase = (*analyzeUC)(nil)

// AnalyzeUseCase classifies forwarded messages. The AI provider gets the
// first shot; keyword matching is the always-available fallback.
type AnalyzeUseCase interface {
	AnalyzeMessage(ctx context.Context, user *model.User, message string) (*model.Analysis, error)
}

const scanLockTTL = 45 * time.Second

const analysisSystemPrompt = `You are a cybersecurity expert helping everyday users spot scams in messages they received.
Analyze the user's message for phishing, OTP theft, fake job offers, fraudulent links and similar threats.
Respond ONLY with a single JSON object, no prose and no markdown, in this exact shape:
{"is_threat": true|false, "threat_type": "phishing"|"otp_scam"|"job_fraud"|"fake_link"|"none", "confidence": 0.0-1.0, "explanation": "...", "advice": "..."}`

type analyzeUC struct {
	ai         adapter.AIServiceAdapter
	translator adapter.TranslationAdapter
	categories repository.ScamCategoryRepository
	scans      repository.ScanReportRepository
	locker     red.Locker
	pool       *worker.Pool
	model      string
	log        *zerolog.Logger
}

func NewAnalyzeUseCase(
	ai adapter.AIServiceAdapter,
	translator adapter.TranslationAdapter,
	categories repository.ScamCategoryRepository,
	scans repository.ScanReportRepository,
	locker red.Locker,
	pool *worker.Pool,
	defaultModel string,
	logger *zerolog.Logger,
) *analyzeUC {
	return &analyzeUC{
		ai:         ai,
		translator: translator,
		categories: categories,
		scans:      scans,
		locker:     locker,
		pool:       pool,
		model:      defaultModel,
		log:        logger,
	}
}

func (a *analyzeUC) AnalyzeMessage(ctx context.Context, user *model.User, message string) (*model.Analysis, error) {
	defer logging.TraceDuration(a.log, "AnalyzeUC.AnalyzeMessage")()

	// One in-flight analysis per user. A second forward while the AI call
	// is running gets ErrScanInProgress instead of doubling the spend.
	lockKey := red.ScanLockKey(user.ID)
	token, err := a.locker.TryLock(ctx, lockKey, scanLockTTL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := a.locker.Unlock(ctx, lockKey, token); err != nil {
			a.log.Warn().Err(err).Msg("scan lock release failed")
		}
	}()

	analysis := a.classify(ctx, message)
	analysis.Emergency = model.ContainsEmergencyPhrase(message)
	if analysis.Emergency {
		metrics.IncEmergency()
	}

	if analysis.Source == model.SourceAI && user.Language == model.LangHindi {
		a.localize(ctx, analysis)
	}

	result := "clean"
	if analysis.IsThreat {
		result = "threat"
	}
	metrics.IncScan(string(model.ScanKindMessage), result, string(analysis.Source))

	a.recordScan(ctx, user, model.ScanKindMessage, message, analysis)
	return analysis, nil
}

// classify runs the AI analysis and falls back to keyword matching when
// the provider is missing, fails or returns something unparseable.
func (a *analyzeUC) classify(ctx context.Context, message string) *model.Analysis {
	if a.ai == nil {
		metrics.IncAIFallback("unconfigured")
		return a.classifyLocal(ctx, message)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	reply, usage, err := a.ai.ChatWithUsage(ctx, a.model, []adapter.Message{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: message},
	})
	metrics.ObserveAIUsage("default", a.model,
		usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens,
		int(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		a.log.Warn().Err(err).Msg("ai analysis failed, using local classifier")
		metrics.IncAIFallback("error")
		return a.classifyLocal(ctx, message)
	}

	analysis, err := parseAnalysis(reply)
	if err != nil {
		a.log.Warn().Err(err).Str("reply", reply).Msg("unparseable ai reply, using local classifier")
		metrics.IncAIFallback("parse")
		return a.classifyLocal(ctx, message)
	}
	analysis.Source = model.SourceAI
	return analysis
}

func (a *analyzeUC) classifyLocal(ctx context.Context, message string) *model.Analysis {
	categories, err := a.categories.ListAll(ctx, repository.NoTX)
	if err != nil || len(categories) == 0 {
		if err != nil {
			a.log.Warn().Err(err).Msg("category repo unavailable, using builtin set")
		}
		categories = model.BuiltinCategories()
	}

	// Highest confidence wins, not highest match count: keyword totals
	// differ per category, so the two orderings disagree.
	best := &model.Analysis{Category: "none", Source: model.SourceLocal}
	for _, c := range categories {
		matches := c.Match(message)
		if matches == 0 {
			continue
		}
		conf := c.Confidence(matches)
		if conf > best.Confidence {
			best.IsThreat = true
			best.Category = c.Label
			best.Matches = matches
			best.Confidence = conf
		}
	}
	return best
}

// localize translates the free-form AI fields. Canned fallback texts are
// already localized via the locale bundles, so only the AI path needs this.
func (a *analyzeUC) localize(ctx context.Context, analysis *model.Analysis) {
	if a.translator == nil {
		return
	}
	if out, err := a.translator.Translate(ctx, analysis.Explanation, model.LangHindi); err == nil {
		analysis.Explanation = out
	} else {
		a.log.Warn().Err(err).Msg("explanation translation failed")
	}
	if out, err := a.translator.Translate(ctx, analysis.Advice, model.LangHindi); err == nil {
		analysis.Advice = out
	} else {
		a.log.Warn().Err(err).Msg("advice translation failed")
	}
}

// recordScan persists the audit row off the reply path; when the pool is
// saturated the write happens inline.
func (a *analyzeUC) recordScan(ctx context.Context, user *model.User, kind model.ScanKind, input string, analysis *model.Analysis) {
	report, err := model.NewScanReport(user.ID, kind, input)
	if err != nil {
		a.log.Error().Err(err).Msg("scan report build failed")
		return
	}
	report.Category = analysis.Category
	report.Verdict = analysis.IsThreat
	report.Confidence = analysis.Confidence
	report.Source = analysis.Source

	task := func(taskCtx context.Context) error {
		return a.scans.Save(taskCtx, repository.NoTX, report)
	}
	if a.pool == nil || a.pool.Submit(task) != nil {
		if err := a.scans.Save(ctx, repository.NoTX, report); err != nil {
			a.log.Error().Err(err).Str("scan_id", report.ID).Msg("scan report save failed")
		}
	}
}

// parseAnalysis accepts raw JSON plus the usual model quirks: markdown
// code fences and prose wrapped around the object.
func parseAnalysis(reply string) (*model.Analysis, error) {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, errors.New("no json object in reply")
	}
	cleaned = cleaned[start : end+1]

	var analysis model.Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, err
	}
	if analysis.Confidence < 0 {
		analysis.Confidence = 0
	}
	if analysis.Confidence > 1 {
		analysis.Confidence = 1
	}
	if analysis.Category == "" {
		analysis.Category = "none"
	}
	return &analysis, nil
}
