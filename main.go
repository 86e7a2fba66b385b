package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"cafe-api/config"
	"cafe-api/handlers"
	"cafe-api/logging"
	"cafe-api/middleware"
	"cafe-api/routes"
	"cafe-api/store"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	// Debug flag selects gin's mode
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.OpenDB(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	keys, err := apiKey(cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to set up API key")
	}
	if cfg.UsesDefaultAPIKey() {
		logging.Warn().Msg("Using the built-in API key; set API_KEY or API_KEY_HASH")
	}

	h := handlers.New(store.NewCafeStore(db), keys)
	r := routes.NewRouter(h, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Info().Int("port", cfg.Server.Port).Bool("debug", cfg.Server.Debug).Msg("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func apiKey(cfg config.SecurityConfig) (*middleware.APIKey, error) {
	if cfg.APIKeyHash != "" {
		return middleware.NewAPIKeyFromHash(cfg.APIKeyHash)
	}
	return middleware.NewAPIKey(cfg.APIKey, middleware.InMemoryKeyCost)
}
