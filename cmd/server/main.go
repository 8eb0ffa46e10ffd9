package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/BekzhanK1/moodlog-backend/internal/auth"
	"github.com/BekzhanK1/moodlog-backend/internal/config"
	"github.com/BekzhanK1/moodlog-backend/internal/crypto"
	"github.com/BekzhanK1/moodlog-backend/internal/database"
	"github.com/BekzhanK1/moodlog-backend/internal/entries"
	"github.com/BekzhanK1/moodlog-backend/internal/generation"
	"github.com/BekzhanK1/moodlog-backend/internal/health"
	"github.com/BekzhanK1/moodlog-backend/internal/insights"
	"github.com/BekzhanK1/moodlog-backend/internal/logging"
	"github.com/BekzhanK1/moodlog-backend/internal/mood"
	"github.com/BekzhanK1/moodlog-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err.Error())
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, logger); err != nil {
		logger.Error("Failed to run migrations", "error", err.Error())
		os.Exit(1)
	}

	encryptor, err := crypto.NewContentEncryptor(cfg.ContentKey)
	if err != nil {
		logger.Error("Failed to initialize content encryptor", "error", err.Error())
		os.Exit(1)
	}

	if cfg.Env == "development" {
		if err := database.SeedDevData(db, encryptor, logger); err != nil {
			logger.Warn("Failed to seed dev data", "error", err.Error())
		}
	}

	prompts, err := generation.NewPromptBuilder()
	if err != nil {
		logger.Error("Failed to load prompt templates", "error", err.Error())
		os.Exit(1)
	}

	genClient := generation.NewClient(cfg.GenerationURL, cfg.GenerationSecret, 60*time.Second, cfg.GenerationStub)
	entryRepo := entries.NewRepository(db, encryptor)
	store := insights.NewStore(db)
	generator := insights.NewGenerator(store, entryRepo, genClient, prompts, logger)

	moodCache, err := mood.NewCache(cfg.RedisURL, 5*time.Minute)
	if err != nil {
		logger.Warn("Mood cache disabled", "error", err.Error())
		moodCache = nil
	}
	defer moodCache.Close()

	// Background pipeline: task client, embedded worker, periodic sweep.
	if err := worker.InitClient(cfg.RedisURL); err != nil {
		logger.Error("Failed to initialize task client", "error", err.Error())
		os.Exit(1)
	}
	defer worker.CloseClient()

	stopWorker, err := worker.Start(cfg, db, generator)
	if err != nil {
		logger.Error("Failed to start worker", "error", err.Error())
		os.Exit(1)
	}
	defer stopWorker()

	stopScheduler, err := worker.StartScheduler(cfg)
	if err != nil {
		logger.Error("Failed to start scheduler", "error", err.Error())
		os.Exit(1)
	}
	defer stopScheduler()

	auth.InitProviders(cfg, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("moodlog_session", sessionStore))

	router.GET("/health", gin.WrapF(health.Handler))
	router.GET("/auth/login", auth.HandleLogin)
	router.GET("/auth/callback", auth.HandleCallback(db, logger, cfg.FrontendURL))
	router.POST("/auth/logout", auth.HandleLogout(logger))

	api := router.Group("/api", auth.RequireAuth(db))
	{
		api.POST("/entries", entries.CreateHandler(entryRepo))
		api.GET("/entries", entries.ListHandler(entryRepo))
		api.DELETE("/entries/:id", entries.DeleteHandler(entryRepo))

		api.POST("/insights/:type/:periodKey", insights.GenerateHandler(generator))
		api.GET("/insights/:type/:periodKey", insights.GetHandler(generator))
		api.GET("/insights", insights.ListHandler(generator))

		api.GET("/mood/trend", mood.TrendHandler(entryRepo, moodCache))
		api.GET("/mood/extremes", mood.ExtremesHandler(entryRepo))
		api.GET("/mood/month-comparison", mood.MonthComparisonHandler(entryRepo, time.Now))
		api.GET("/mood/yearly", mood.YearlyHandler(entryRepo, moodCache))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err.Error())
	}
}
