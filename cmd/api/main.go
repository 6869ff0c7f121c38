package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/config"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/metrics"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/server"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/ws"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/database"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Env: "production"}).Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if envErr != nil {
		log.Warn().Msg(".env file not found, relying on system env")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(database.Config{
		DSN:       cfg.DB.DSN(),
		Debug:     cfg.DB.Debug,
		LogWriter: log.Writer(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := server.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// 3. Seed roles and the bootstrap manager
	if err := server.Seed(db, cfg.Seed, log); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	app := server.New(server.Options{
		Config:  cfg,
		DB:      db,
		Log:     log,
		Metrics: metrics.New(),
		Hub:     wsHub,
	})

	// 5. Graceful Shutdown
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr()).Str("env", cfg.App.Env).Msg("server starting")
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
