package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"telegram-scam-guard/internal/application"
	"telegram-scam-guard/internal/config"
	"telegram-scam-guard/internal/domain/ports/adapter"
	aiAdapters "telegram-scam-guard/internal/infra/adapters/ai"
	"telegram-scam-guard/internal/infra/adapters/reputation"
	tele "telegram-scam-guard/internal/infra/adapters/telegram"
	"telegram-scam-guard/internal/infra/adapters/translate"
	pg "telegram-scam-guard/internal/infra/db/postgres"
	"telegram-scam-guard/internal/infra/i18n"
	"telegram-scam-guard/internal/infra/logging"
	"telegram-scam-guard/internal/infra/metrics"
	red "telegram-scam-guard/internal/infra/redis"
	"telegram-scam-guard/internal/infra/sched"
	"telegram-scam-guard/internal/infra/security"
	"telegram-scam-guard/internal/infra/web"
	"telegram-scam-guard/internal/infra/worker"
	"telegram-scam-guard/internal/usecase"
)

var version = "dev" // set via -ldflags "-X main.version=..."

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop adapters where keys are missing)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer func() { _ = redisClient.Close() }()

	rateLimiter := red.NewRateLimiter(redisClient)
	stateRepo := red.NewStateRepo(redisClient)
	verdictCache := red.NewVerdictCache(redisClient, cfg.Reputation.CacheTTL)
	locker := red.NewLocker(redisClient)

	// ---- Encryption ----
	encKey := cfg.Security.EncryptionKey
	if len(encKey) != 32 {
		logger.Warn().Msg("security.encryption_key not set or not 32 bytes; falling back to dev key (INSECURE)")
		encKey = "0123456789abcdef0123456789abcdef"
	}
	encSvc, err := security.NewEncryptionService(encKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("encryption")
	}

	// ---- Repositories ----
	userRepo := pg.NewPostgresUserRepo(pool)
	scanRepo := pg.NewPostgresScanRepo(pool, encSvc)
	categoryRepo := pg.NewCategoryRepoCacheDecorator(pg.NewPostgresCategoryRepo(pool), redisClient)
	txManager := pg.NewTxManager(pool)

	// ---- Background workers ----
	jobPool := worker.NewPool(4)
	jobPool.Start(ctx)
	defer jobPool.Stop()

	// ---- AI adapters ----
	byProvider := map[string]adapter.AIServiceAdapter{}
	if cfg.AI.GeminiKey != "" {
		gem, err := aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, 2048)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		byProvider["gemini"] = gem
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: Gemini")
	}
	if cfg.AI.OpenAIKey != "" {
		oai, err := aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		byProvider["openai"] = oai
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: OpenAI")
	}

	var ai adapter.AIServiceAdapter
	switch {
	case len(byProvider) > 0:
		ai = aiAdapters.NewMultiAIAdapter("gemini", byProvider, nil)
		ai = aiAdapters.NewLimitedAI(ai, cfg.AI.ConcurrentLimit)
	case cfg.Runtime.Dev:
		logger.Warn().Msg("no AI provider configured; using noop adapter (keyword fallback only)")
		ai = aiAdapters.NewNoopAIAdapter()
	default:
		// analyzeUC degrades to the keyword classifier when ai is nil
		logger.Warn().Msg("no AI provider configured; analyses use the local keyword classifier")
	}

	// ---- Translation ----
	var translator adapter.TranslationAdapter
	if cfg.Translate.APIKey != "" {
		translator, err = translate.NewGoogleTranslateAdapter(&cfg.Translate)
		if err != nil {
			logger.Fatal().Err(err).Msg("translate adapter")
		}
	} else {
		translator = translate.NewNoopTranslateAdapter()
	}

	// ---- URL reputation ----
	heuristic := reputation.NewHeuristicAdapter()
	var primary adapter.URLReputationAdapter
	if cfg.Reputation.SafeBrowsingKey != "" {
		sb, err := reputation.NewSafeBrowsingAdapter(&cfg.Reputation)
		if err != nil {
			logger.Fatal().Err(err).Msg("safebrowsing adapter")
		}
		primary = reputation.NewCachedReputation(sb, verdictCache, logger)
	} else {
		logger.Warn().Msg("no Safe Browsing key; URL checks use the heuristic list only")
	}

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, txManager, cfg.Bot.AdminIDs, logger)
	analyzeUC := usecase.NewAnalyzeUseCase(ai, translator, categoryRepo, scanRepo, locker, jobPool, cfg.AI.DefaultModel, logger)
	urlUC := usecase.NewURLCheckUseCase(primary, heuristic, scanRepo, jobPool, logger)
	statsUC := usecase.NewStatsUseCase(userRepo, scanRepo, logger)

	// ---- Facade ----
	bundle, err := i18n.NewBundle(i18n.LocalesFS)
	if err != nil {
		logger.Fatal().Err(err).Msg("locale bundle")
	}
	facade := application.NewBotFacade(userUC, analyzeUC, urlUC, statsUC, bundle)

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, stateRepo, rateLimiter, cfg.Bot.Workers)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	if strings.ToLower(cfg.Bot.Mode) == "webhook" {
		logger.Warn().Msg("bot.mode=webhook not implemented; falling back to polling")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Operator API ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, "", 30*time.Minute)
	webSrv := web.NewServer(statsUC, userUC, cfg.Admin.APIKey, auth, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler: webSrv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Retention worker ----
	retention := sched.NewRetentionWorker(cfg.Retention.SweepInterval, cfg.Retention.Days, scanRepo, logger)
	go func() { _ = retention.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	botAdapter.StopPolling()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	cancel()
}
