package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"telegram-scam-guard/internal/domain"
	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/infra/i18n"
	"telegram-scam-guard/internal/usecase"
)

// BotFacade composes usecases into high-level bot commands. Facade methods
// return rendered strings so the Telegram adapter just forwards them to
// the chat.
type BotFacade struct {
	UserUC    usecase.UserUseCase
	AnalyzeUC usecase.AnalyzeUseCase
	URLUC     usecase.URLCheckUseCase
	StatsUC   usecase.StatsUseCase
	Bundle    *i18n.Bundle
}

func NewBotFacade(
	userUC usecase.UserUseCase,
	analyzeUC usecase.AnalyzeUseCase,
	urlUC usecase.URLCheckUseCase,
	statsUC usecase.StatsUseCase,
	bundle *i18n.Bundle,
) *BotFacade {
	return &BotFacade{
		UserUC:    userUC,
		AnalyzeUC: analyzeUC,
		URLUC:     urlUC,
		StatsUC:   statsUC,
		Bundle:    bundle,
	}
}

// user resolves the caller, registering on first contact.
func (b *BotFacade) user(ctx context.Context, tgID int64, username string) (*model.User, error) {
	return b.UserUC.RegisterOrFetch(ctx, tgID, username)
}

// Language returns the stored language for a chat, defaulting to English
// for unknown users so menus can render before /start.
func (b *BotFacade) Language(ctx context.Context, tgID int64) model.Language {
	u, err := b.UserUC.GetByTelegramID(ctx, tgID)
	if err != nil {
		return model.LangEnglish
	}
	return u.Language
}

// HandleStart registers or fetches the user and returns the welcome text.
func (b *BotFacade) HandleStart(ctx context.Context, tgID int64, username string) (string, error) {
	u, err := b.user(ctx, tgID, username)
	if err != nil {
		return "", fmt.Errorf("register/fetch user: %w", err)
	}
	name := u.Username
	if name == "" {
		name = "friend"
	}
	return b.Bundle.T(u.Language, "welcome", name), nil
}

// HandleAnalyze classifies a forwarded message. The second return value
// reports whether the message contained an emergency phrase, so the
// transport can attach the emergency shortcut.
func (b *BotFacade) HandleAnalyze(ctx context.Context, tgID int64, username, message string) (string, bool, error) {
	u, err := b.user(ctx, tgID, username)
	if err != nil {
		return "", false, fmt.Errorf("register/fetch user: %w", err)
	}

	analysis, err := b.AnalyzeUC.AnalyzeMessage(ctx, u, message)
	if err != nil {
		if errors.Is(err, domain.ErrScanInProgress) {
			return b.Bundle.T(u.Language, "scan_in_progress"), false, nil
		}
		return "", false, fmt.Errorf("analyze message: %w", err)
	}

	return b.renderAnalysis(u.Language, analysis), analysis.Emergency, nil
}

func (b *BotFacade) renderAnalysis(lang model.Language, a *model.Analysis) string {
	explanation := a.Explanation
	advice := a.Advice
	if a.Source != model.SourceAI || explanation == "" {
		explanation = b.Bundle.T(lang, "explanation."+categoryKey(a.Category))
	}
	if a.Source != model.SourceAI || advice == "" {
		advice = b.Bundle.T(lang, "advice."+categoryKey(a.Category))
	}

	var sb strings.Builder
	sb.WriteString(b.Bundle.T(lang, "analysis_header"))
	sb.WriteString("\n\n")
	if a.IsThreat {
		sb.WriteString(b.Bundle.T(lang, "threat_detected"))
		sb.WriteString("\n")
		sb.WriteString(b.Bundle.T(lang, "confidence", a.Confidence*100))
		sb.WriteString("\n\n")
		sb.WriteString(b.Bundle.T(lang, "explanation_label"))
		sb.WriteString("\n")
		sb.WriteString(explanation)
		sb.WriteString("\n\n")
		sb.WriteString(b.Bundle.T(lang, "advice_label"))
		sb.WriteString("\n")
		sb.WriteString(advice)
	} else {
		sb.WriteString(b.Bundle.T(lang, "safe_message"))
		sb.WriteString("\n")
		sb.WriteString(b.Bundle.T(lang, "safe_note", advice))
	}
	if a.Emergency {
		sb.WriteString("\n\n")
		sb.WriteString(b.Bundle.T(lang, "emergency"))
	}
	return sb.String()
}

func categoryKey(category string) string {
	switch category {
	case model.CategoryPhishing, model.CategoryOTPScam, model.CategoryJobFraud, model.CategoryFakeLink:
		return category
	default:
		return "none"
	}
}

// HandleCheckURL runs a reputation lookup and renders the verdict.
func (b *BotFacade) HandleCheckURL(ctx context.Context, tgID int64, username, raw string) (string, error) {
	u, err := b.user(ctx, tgID, username)
	if err != nil {
		return "", fmt.Errorf("register/fetch user: %w", err)
	}

	verdict, err := b.URLUC.CheckURL(ctx, u, raw)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return b.Bundle.T(u.Language, "url_invalid"), nil
		}
		return "", fmt.Errorf("check url: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(b.Bundle.T(u.Language, "url_header", verdict.URL))
	sb.WriteString("\n\n")
	switch verdict.Status {
	case model.URLUnsafe:
		sb.WriteString(b.Bundle.T(u.Language, "url_unsafe", verdict.ThreatType))
		sb.WriteString("\n\n")
		sb.WriteString(b.Bundle.T(u.Language, "url_unsafe_advice"))
	case model.URLSafe:
		sb.WriteString(b.Bundle.T(u.Language, "url_safe"))
	default:
		sb.WriteString(b.Bundle.T(u.Language, "url_suspicious"))
		sb.WriteString("\n")
		sb.WriteString(b.Bundle.T(u.Language, "url_caution"))
	}
	return sb.String(), nil
}

// HandleEmergency returns the immediate-response checklist.
func (b *BotFacade) HandleEmergency(ctx context.Context, tgID int64, username string) (string, error) {
	u, err := b.user(ctx, tgID, username)
	if err != nil {
		return "", fmt.Errorf("register/fetch user: %w", err)
	}
	return b.Bundle.T(u.Language, "emergency"), nil
}

// HandleLearn returns the scam education sheet.
func (b *BotFacade) HandleLearn(ctx context.Context, tgID int64, username string) (string, error) {
	u, err := b.user(ctx, tgID, username)
	if err != nil {
		return "", fmt.Errorf("register/fetch user: %w", err)
	}
	return b.Bundle.Education(u.Language), nil
}

// HandleSetLanguage persists the preference and confirms in the new language.
func (b *BotFacade) HandleSetLanguage(ctx context.Context, tgID int64, username string, lang model.Language) (string, error) {
	if _, err := b.user(ctx, tgID, username); err != nil {
		return "", fmt.Errorf("register/fetch user: %w", err)
	}
	u, err := b.UserUC.SetLanguage(ctx, tgID, lang)
	if err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	return b.Bundle.T(u.Language, "lang_switched"), nil
}

// HandleHelp returns the command summary.
func (b *BotFacade) HandleHelp(ctx context.Context, tgID int64) string {
	return b.Bundle.T(b.Language(ctx, tgID), "help")
}

// HandleStats renders aggregate numbers; admin only.
func (b *BotFacade) HandleStats(ctx context.Context, tgID int64) (string, error) {
	u, err := b.UserUC.GetByTelegramID(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return b.Bundle.T(model.LangEnglish, "no_user"), nil
		}
		return "", err
	}
	if !u.IsAdmin {
		return b.Bundle.T(u.Language, "error_generic"), nil
	}

	totals, err := b.StatsUC.Totals(ctx)
	if err != nil {
		return "", fmt.Errorf("stats totals: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("📊 Stats\n")
	sb.WriteString(fmt.Sprintf("Users: %d (inactive 30d: %d)\n", totals.Users, totals.InactiveUsers))
	sb.WriteString(fmt.Sprintf("Message scans: %d\n", totals.ScansByKind[model.ScanKindMessage]))
	sb.WriteString(fmt.Sprintf("URL checks: %d\n", totals.ScansByKind[model.ScanKindURL]))
	if len(totals.ScansByCategory) > 0 {
		sb.WriteString("Threats by category:\n")
		for category, n := range totals.ScansByCategory {
			sb.WriteString(fmt.Sprintf("  %s: %d\n", category, n))
		}
	}
	return sb.String(), nil
}
