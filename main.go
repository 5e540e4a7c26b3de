package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"property-ops/ai"
	"property-ops/config"
	"property-ops/database"
	"property-ops/handlers"
	"property-ops/logging"
	"property-ops/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "").WithError(err).Fatal("invalid configuration")
	}
	logger := logging.New(cfg.LogLevel, cfg.GoAppEnvironment)

	startCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	store, err := database.Open(startCtx, cfg)
	cancel()
	if err != nil {
		logger.WithError(err).Fatal("cannot open storage")
	}

	var llm ai.Completer
	if completer := ai.NewOpenAICompleter(cfg.OpenAI); completer != nil {
		llm = completer
		logger.WithField("model", cfg.OpenAI.Model).Info("AI rationale enabled")
	}

	var cache ai.Cache
	if cfg.RedisURL != "" {
		client, err := ai.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Fatal("invalid REDIS_URL")
		}
		defer client.Close()
		cache = ai.NewRedisCache(client, "property-ops:ai:", cfg.AICacheTTL)
	}

	h := handlers.New(cfg, store, llm, cache)

	created, err := h.Staff().EnsureAdmin(context.Background(), cfg.AdminLogin, cfg.AdminPassword)
	if err != nil {
		logger.WithError(err).Fatal("cannot bootstrap admin account")
	}
	if created {
		logger.WithField("login", cfg.AdminLogin).Info("bootstrap admin account created")
	}

	app := router.NewApp()
	router.SetupRoutes(app, h, cfg, logger)

	go func() {
		logger.WithField("address", cfg.SocketAddress).Info("property-ops listening")
		if err := app.Listen(cfg.SocketAddress); err != nil {
			logger.WithError(err).Fatal("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.WithError(err).Warn("shutdown error")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		logger.WithError(err).Warn("cannot close storage")
	}
}
