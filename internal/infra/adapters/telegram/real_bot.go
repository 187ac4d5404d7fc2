package telegram

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-scam-guard/internal/application"
	"telegram-scam-guard/internal/config"
	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/adapter"
	"telegram-scam-guard/internal/domain/ports/repository"
	"telegram-scam-guard/internal/infra/metrics"
	red "telegram-scam-guard/internal/infra/redis"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter polls updates with tgbotapi and delegates all
// command semantics to the BotFacade.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	facade      *application.BotFacade
	states      repository.StateRepository
	rateLimiter *red.RateLimiter

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, states repository.StateRepository, rateLimiter *red.RateLimiter, updateWorkers int) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if states == nil {
		return nil, errors.New("state repository is nil")
	}
	if updateWorkers <= 0 {
		updateWorkers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		states:        states,
		rateLimiter:   rateLimiter,
		updateWorkers: updateWorkers,
	}, nil
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						log.Printf("tg worker %d error: %v", id, err)
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// SendMessage implements the adapter port.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	msg := tgbotapi.NewMessage(tgID, text)
	_, err := r.bot.Send(msg)
	return err
}

// SendButtons sends a message with inline buttons.
// - If btn.URL is set, the button opens a link
// - Else if btn.Data is set, the button sends callback data
// - Else a safe fallback uses btn.Text as callback data
func (r *RealTelegramBotAdapter) SendButtons(
	ctx context.Context,
	tgID int64,
	text string,
	rows [][]adapter.InlineButton,
) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		kb := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			var b tgbotapi.InlineKeyboardButton
			switch {
			case btn.URL != "":
				b = tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL)
			case btn.Data != "":
				b = tgbotapi.NewInlineKeyboardButtonData(label, btn.Data)
			default:
				b = tgbotapi.NewInlineKeyboardButtonData(label, label)
			}
			kb = append(kb, b)
		}
		kbRows = append(kbRows, kb)
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(kbRows...)
	msg := tgbotapi.NewMessage(tgID, text)
	msg.ReplyMarkup = markup
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		err := r.handleQuery(ctx, update.CallbackQuery)
		metrics.IncUpdate("callback", outcome(err))
		return err
	}

	if update.Message == nil {
		return nil
	}
	tgUser := update.Message.From
	if tgUser == nil {
		return nil
	}
	kind := "message"
	if update.Message.IsCommand() {
		kind = "command"
	}
	err := r.handleMessage(ctx, update.Message)
	metrics.IncUpdate(kind, outcome(err))
	return err
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (r *RealTelegramBotAdapter) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	tgID := message.From.ID
	username := message.From.UserName
	lang := r.facade.Language(ctx, tgID)

	fields := strings.Fields(message.Text)
	command := "message"
	if len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
		command = fields[0]
	}

	if r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(tgID, command), 20, time.Minute)
		if err != nil {
			log.Printf("rate limit error: %v", err)
		} else if !allowed {
			metrics.IncRateLimited()
			return r.SendMessage(ctx, tgID, r.facade.Bundle.T(lang, "rate_limited"))
		}
	}

	switch command {
	case "/start":
		_ = r.states.ClearState(ctx, tgID)
		text, err := r.facade.HandleStart(ctx, tgID, username)
		if err != nil {
			return r.SendMessage(ctx, tgID, r.facade.Bundle.T(lang, "error_generic"))
		}
		return r.sendMainMenu(ctx, tgID, text)

	case "/help":
		return r.SendMessage(ctx, tgID, r.facade.HandleHelp(ctx, tgID))

	case "/analyze":
		return r.promptAnalyze(ctx, tgID)

	case "/checkurl":
		if len(fields) >= 2 {
			return r.replyURLCheck(ctx, tgID, username, fields[1])
		}
		return r.promptURLCheck(ctx, tgID)

	case "/emergency":
		text, err := r.facade.HandleEmergency(ctx, tgID, username)
		if err != nil {
			return r.SendMessage(ctx, tgID, r.facade.Bundle.T(lang, "error_generic"))
		}
		return r.sendMainMenu(ctx, tgID, text)

	case "/learn":
		text, err := r.facade.HandleLearn(ctx, tgID, username)
		if err != nil {
			return r.SendMessage(ctx, tgID, r.facade.Bundle.T(lang, "error_generic"))
		}
		return r.sendMainMenu(ctx, tgID, text)

	case "/language":
		return r.sendLanguageMenu(ctx, tgID)

	case "/stats":
		text, err := r.facade.HandleStats(ctx, tgID)
		if err != nil {
			return r.SendMessage(ctx, tgID, r.facade.Bundle.T(lang, "error_generic"))
		}
		return r.SendMessage(ctx, tgID, text)

	default:
		if strings.TrimSpace(message.Text) == "" {
			return nil
		}
		return r.handleFreeText(ctx, tgID, username, message.Text)
	}
}

// handleFreeText routes plain text by conversational state: a pending URL
// prompt means the text is a link, everything else is analyzed as a
// suspicious message.
func (r *RealTelegramBotAdapter) handleFreeText(ctx context.Context, tgID int64, username, text string) error {
	state, err := r.states.GetState(ctx, tgID)
	if err != nil {
		log.Printf("state fetch error: %v", err)
	}
	if state != nil {
		_ = r.states.ClearState(ctx, tgID)
		if state.WaitingFor == repository.WaitingURLCheck {
			return r.replyURLCheck(ctx, tgID, username, text)
		}
	}
	return r.replyAnalysis(ctx, tgID, username, text)
}

func (r *RealTelegramBotAdapter) replyAnalysis(ctx context.Context, tgID int64, username, text string) error {
	lang := r.facade.Language(ctx, tgID)
	_ = r.SendMessage(ctx, tgID, r.facade.Bundle.T(lang, "analyzing"))

	reply, emergency, err := r.facade.HandleAnalyze(ctx, tgID, username, text)
	if err != nil {
		return r.SendMessage(ctx, tgID, r.facade.Bundle.T(lang, "error_generic"))
	}

	rows := [][]adapter.InlineButton{
		{{Text: r.facade.Bundle.T(lang, "btn.menu"), Data: "cmd:menu"}},
	}
	if emergency {
		rows = append([][]adapter.InlineButton{
			{{Text: r.facade.Bundle.T(lang, "btn.emergency"), Data: "cmd:emergency"}},
		}, rows...)
	}
	return r.SendButtons(ctx, tgID, reply, rows)
}

func (r *RealTelegramBotAdapter) replyURLCheck(ctx context.Context, tgID int64, username, raw string) error {
	lang := r.facade.Language(ctx, tgID)
	_ = r.SendMessage(ctx, tgID, r.facade.Bundle.T(lang, "checking_url"))

	reply, err := r.facade.HandleCheckURL(ctx, tgID, username, raw)
	if err != nil {
		return r.SendMessage(ctx, tgID, r.facade.Bundle.T(lang, "error_generic"))
	}
	rows := [][]adapter.InlineButton{
		{{Text: r.facade.Bundle.T(lang, "btn.menu"), Data: "cmd:menu"}},
	}
	return r.SendButtons(ctx, tgID, reply, rows)
}

func (r *RealTelegramBotAdapter) promptAnalyze(ctx context.Context, tgID int64) error {
	lang := r.facade.Language(ctx, tgID)
	if err := r.states.SetState(ctx, tgID, &repository.ConversationState{WaitingFor: repository.WaitingMessageAnalysis}); err != nil {
		log.Printf("state save error: %v", err)
	}
	return r.SendMessage(ctx, tgID, r.facade.Bundle.T(lang, "analyze_prompt"))
}

func (r *RealTelegramBotAdapter) promptURLCheck(ctx context.Context, tgID int64) error {
	lang := r.facade.Language(ctx, tgID)
	if err := r.states.SetState(ctx, tgID, &repository.ConversationState{WaitingFor: repository.WaitingURLCheck}); err != nil {
		log.Printf("state save error: %v", err)
	}
	return r.SendMessage(ctx, tgID, r.facade.Bundle.T(lang, "urlcheck_prompt"))
}

type cbHandler func(ctx context.Context, chatID int64, data string) error

// Exact-match callbacks
func (r *RealTelegramBotAdapter) cbRoutes() map[string]cbHandler {
	return map[string]cbHandler{
		"cmd:menu": func(ctx context.Context, id int64, _ string) error {
			lang := r.facade.Language(ctx, id)
			return r.sendMainMenu(ctx, id, r.facade.Bundle.T(lang, "choose_action"))
		},
		"cmd:analyze": func(ctx context.Context, id int64, _ string) error {
			return r.promptAnalyze(ctx, id)
		},
		"cmd:urlcheck": func(ctx context.Context, id int64, _ string) error {
			return r.promptURLCheck(ctx, id)
		},
		"cmd:emergency": func(ctx context.Context, id int64, _ string) error {
			text, err := r.facade.HandleEmergency(ctx, id, "")
			if err != nil {
				text = r.facade.Bundle.T(r.facade.Language(ctx, id), "error_generic")
			}
			return r.sendMainMenu(ctx, id, text)
		},
		"cmd:learn": func(ctx context.Context, id int64, _ string) error {
			text, err := r.facade.HandleLearn(ctx, id, "")
			if err != nil {
				text = r.facade.Bundle.T(r.facade.Language(ctx, id), "error_generic")
			}
			return r.sendMainMenu(ctx, id, text)
		},
	}
}

// Prefix-match callbacks
func (r *RealTelegramBotAdapter) cbPrefixRoutes() []struct {
	Prefix string
	Fn     cbHandler
} {
	return []struct {
		Prefix string
		Fn     cbHandler
	}{
		{
			Prefix: "lang:",
			Fn: func(ctx context.Context, id int64, data string) error {
				lang := model.ParseLanguage(strings.TrimPrefix(data, "lang:"))
				text, err := r.facade.HandleSetLanguage(ctx, id, "", lang)
				if err != nil {
					text = r.facade.Bundle.T(r.facade.Language(ctx, id), "error_generic")
				}
				return r.sendMainMenu(ctx, id, text)
			},
		},
	}
}

func (r *RealTelegramBotAdapter) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil {
		return errors.New("invalid callback query")
	}

	// Stop telegram spinner when we return
	defer func() { _, _ = r.bot.Request(tgbotapi.NewCallback(query.ID, "")) }()

	var chatID int64
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	} else {
		chatID = query.From.ID
	}
	if chatID == 0 {
		return nil
	}

	data := strings.TrimSpace(query.Data)

	if r.rateLimiter != nil {
		if allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(chatID, "cb:"+data), 30, time.Minute); err == nil && !allowed {
			metrics.IncRateLimited()
			return r.SendMessage(ctx, chatID, r.facade.Bundle.T(r.facade.Language(ctx, chatID), "rate_limited"))
		}
	}

	if fn, ok := r.cbRoutes()[data]; ok {
		return fn(ctx, chatID, data)
	}
	for _, pr := range r.cbPrefixRoutes() {
		if strings.HasPrefix(data, pr.Prefix) {
			return pr.Fn(ctx, chatID, data)
		}
	}
	return errors.New("unknown callback data")
}

// sendMainMenu shows the main actions as inline buttons.
func (r *RealTelegramBotAdapter) sendMainMenu(ctx context.Context, tgID int64, intro string) error {
	lang := r.facade.Language(ctx, tgID)

	langBtn := adapter.InlineButton{Text: r.facade.Bundle.T(lang, "btn.lang_hindi"), Data: "lang:hindi"}
	if lang == model.LangHindi {
		langBtn = adapter.InlineButton{Text: r.facade.Bundle.T(lang, "btn.lang_english"), Data: "lang:english"}
	}

	rows := [][]adapter.InlineButton{
		{{Text: r.facade.Bundle.T(lang, "btn.analyze"), Data: "cmd:analyze"}},
		{{Text: r.facade.Bundle.T(lang, "btn.emergency"), Data: "cmd:emergency"}},
		{{Text: r.facade.Bundle.T(lang, "btn.urlcheck"), Data: "cmd:urlcheck"}},
		{{Text: r.facade.Bundle.T(lang, "btn.learn"), Data: "cmd:learn"}},
		{langBtn},
	}
	if strings.TrimSpace(intro) == "" {
		intro = r.facade.Bundle.T(lang, "choose_action")
	}
	return r.SendButtons(ctx, tgID, intro, rows)
}

func (r *RealTelegramBotAdapter) sendLanguageMenu(ctx context.Context, tgID int64) error {
	lang := r.facade.Language(ctx, tgID)
	rows := [][]adapter.InlineButton{
		{{Text: r.facade.Bundle.T(lang, "btn.lang_english"), Data: "lang:english"}},
		{{Text: r.facade.Bundle.T(lang, "btn.lang_hindi"), Data: "lang:hindi"}},
	}
	return r.SendButtons(ctx, tgID, r.facade.Bundle.T(lang, "choose_action"), rows)
}
