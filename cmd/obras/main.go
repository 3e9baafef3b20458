package main

import (
	"context"
	"os"
	"time"

	"obras/internal/advisor"
	"obras/internal/auth"
	"obras/internal/backend"
	"obras/internal/cache"
	"obras/internal/cli"
	"obras/internal/config"
	apphttp "obras/internal/http"
	applog "obras/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)

	cfg, err := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)
	if err != nil {
		os.Exit(1)
	}

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", applog.FieldError, err)
			}
		}
	}()

	cacheManager := cache.NewManager()
	defer cacheManager.Stop()

	var gen advisor.Generator
	if cfg.AdvisorEnabled() {
		client, err := advisor.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize Gemini client, advisor disabled", applog.FieldError, err)
		} else {
			gen = client
			logger.Info("Advisor enabled", "model", cfg.GeminiModel)
		}
	} else {
		logger.Info("Advisor disabled - no GEMINI_API_KEY provided")
	}
	reports := cache.NewLRUCache[string](256, cfg.AdvisorCacheTTL)
	cacheManager.Register(reports)

	sessions := auth.NewSessions(cfg.SessionIdleTimeout, result.Provider.Release)
	cacheManager.Register(sessions)
	cacheManager.StartCleanup(time.Minute)

	creds, err := auth.NewCredentials(cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		logger.Error("Failed to prepare credentials", applog.FieldError, err)
		os.Exit(1)
	}

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		Provider:           result.Provider,
		Publisher:          result.Publisher,
		Advisor:            advisor.New(gen, reports),
		Sessions:           sessions,
		Credentials:        creds,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
		DefaultLang:        cfg.DefaultLang,
		SecureCookies:      cfg.SecureCookies,
		Logger:             logger,
	})
	if err != nil {
		logger.Error("Failed to build HTTP server", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Starting obras server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"events", cfg.EventsEnabled(),
		"advisor", gen != nil)
	if err := cli.ServeUntilDone(ctx, logger, srv, 30*time.Second); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
}
