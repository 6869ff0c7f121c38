// Command reset-password sets a new password for an account and signs out its sessions.
package main

import (
	"flag"
	"os"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/config"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/repository"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/database"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	username := flag.String("username", "", "account to reset")
	password := flag.String("password", "", "new password (min 6 characters)")
	flag.Parse()

	envErr := godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if envErr != nil {
		log.Warn().Msg(".env file not found, relying on system env")
	}

	if *username == "" || len(*password) < 6 {
		flag.Usage()
		os.Exit(2)
	}

	db, err := database.ConnectDB(database.Config{DSN: cfg.DB.DSN(), LogWriter: log.Writer()})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	userRepo := repository.NewUserRepo(db)

	user, err := userRepo.FindByUsername(*username)
	if err != nil {
		log.Fatal().Err(err).Str("username", *username).Msg("user not found")
	}

	var hashed model.User
	if err := hashed.SetPassword(*password); err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}
	if err := userRepo.UpdatePassword(user.ID, hashed.Password); err != nil {
		log.Fatal().Err(err).Msg("failed to update password")
	}
	// existing sessions stop resolving
	if err := userRepo.UpdateTokenVersion(user.ID, uuid.New().String()); err != nil {
		log.Fatal().Err(err).Msg("failed to revoke sessions")
	}

	log.Info().Str("username", user.Username).Msg("password reset")
}
