package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/elys-network/bondstake/internal/logger"
	"github.com/elys-network/bondstake/internal/state"
)

// Drops and recreates the receipt history tables. The contract state directory is not touched.
func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found or error loading .env file. Relying on OS environment variables.")
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Initialize(logLevel, os.Getenv("LOG_FORMAT"))
	log.Info().Msg("Starting history reset script...")

	ctx := context.Background()

	var (
		store *state.SQLStore
		err   error
	)
	switch recorder := os.Getenv("RECORDER"); recorder {
	case "postgres":
		store, err = openPostgres(ctx)
	case "", "sqlite":
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "~/.bondstake/history.db"
		}
		if strings.HasPrefix(path, "~/") {
			home, herr := os.UserHomeDir()
			if herr != nil {
				log.Fatal().Err(herr).Msg("Failed to resolve home directory")
			}
			path = filepath.Join(home, path[2:])
		}
		log.Info().Str("path", path).Msg("Opening SQLite history")
		store, err = state.OpenSQLite(ctx, path)
	default:
		log.Fatal().Str("recorder", recorder).Msg("Nothing to reset for this recorder")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open history database")
	}
	defer store.Close()

	log.Info().Msg("Connected. Dropping and recreating all tables...")
	if err := store.ResetSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to reset schema")
	}

	log.Info().Msg("History reset complete!")
}

func openPostgres(ctx context.Context) (*state.SQLStore, error) {
	dbHost := os.Getenv("DB_HOST")
	dbPortStr := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbName := os.Getenv("DB_NAME")
	dbSSLMode := os.Getenv("DB_SSLMODE")

	// Set defaults for missing values
	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER environment variable not set")
	}
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME environment variable not set")
	}
	if dbSSLMode == "" {
		dbSSLMode = "disable"
	}

	dbPort := 5432
	if dbPortStr != "" {
		if _, err := fmt.Sscanf(dbPortStr, "%d", &dbPort); err != nil {
			return nil, fmt.Errorf("invalid DB_PORT %q: %w", dbPortStr, err)
		}
	}

	dbCfg := state.DBConfig{
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   dbName,
		SSLMode:  dbSSLMode,
	}

	log.Info().
		Str("host", dbCfg.Host).
		Int("port", dbCfg.Port).
		Str("user", dbCfg.User).
		Str("dbname", dbCfg.DBName).
		Msg("Connecting to database")

	return state.OpenPostgres(ctx, dbCfg)
}
