package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Daemon configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFormat is "console" or "json".
	LogFormat string

	// StateBackend is the cosmos-db backend holding contract state (goleveldb or memdb).
	StateBackend string
	// StateDir is the directory of the contract state database.
	StateDir string

	// Recorder selects where call receipts go: none, sqlite or postgres.
	Recorder string
	// SQLitePath is the receipt database file when Recorder is sqlite.
	SQLitePath string

	// GenesisFile is a YAML or JSON genesis. Empty uses DefaultGenesis.
	GenesisFile string
	// GenesisAdmin administers every contract of the default genesis.
	GenesisAdmin string
	// GenesisTreasury receives bonded principal under the default genesis.
	GenesisTreasury string

	// RebaseSchedule is the cron spec of the rebase keeper. Empty disables it.
	RebaseSchedule string
	// KeeperAddress sends the scheduled rebase calls.
	KeeperAddress string
)

// LoadConfig loads configuration from environment variables and sets the global config vars.
// Only the variables without a sensible default are required.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	var err error

	LogLevel = getEnvOrDefault("LOG_LEVEL", "info")
	LogFormat = getEnvOrDefault("LOG_FORMAT", "console")
	StateBackend = getEnvOrDefault("STATE_BACKEND", "goleveldb")
	StateDir = getEnvOrDefault("STATE_DIR", "~/.bondstake/data")
	Recorder = getEnvOrDefault("RECORDER", "sqlite")
	SQLitePath = getEnvOrDefault("SQLITE_PATH", "~/.bondstake/history.db")
	GenesisFile = getEnvOrDefault("GENESIS_FILE", "")
	RebaseSchedule = getEnvOrDefault("REBASE_SCHEDULE", "@every 1m")

	switch Recorder {
	case "none", "sqlite", "postgres":
	default:
		return errors.New("environment variable RECORDER must be one of none, sqlite, postgres, got: " + Recorder)
	}

	if GenesisFile == "" {
		GenesisAdmin, err = getEnv("GENESIS_ADMIN")
		if err != nil {
			return err
		}
		GenesisTreasury = getEnvOrDefault("GENESIS_TREASURY", GenesisAdmin)
	}
	if RebaseSchedule != "" {
		KeeperAddress, err = getEnv("KEEPER_ADDRESS")
		if err != nil {
			return err
		}
	}

	// Load endpoint configuration
	if err := loadEndpointConfig(); err != nil {
		return err
	}

	for _, p := range []*string{&StateDir, &SQLitePath, &GenesisFile} {
		if *p, err = expandHome(*p); err != nil {
			return err
		}
	}

	log.Debug().
		Str("StateBackend", StateBackend).
		Str("StateDir", StateDir).
		Str("Recorder", Recorder).
		Str("RebaseSchedule", RebaseSchedule).
		Msg("Configuration loaded successfully.")

	return nil
}

// expandHome expands a leading tilde to the user's home directory.
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}

// getEnv retrieves a string environment variable. Returns error if not set.
func getEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists {
		return value, nil
	}
	return "", errors.New("environment variable " + key + " is required but not set")
}

// getEnvOrDefault retrieves a string environment variable, falling back to def when unset.
func getEnvOrDefault(key, def string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return def
}

// getEnvAsIntOrDefault retrieves an environment variable as an int. Returns error if set but invalid.
func getEnvAsIntOrDefault(key string, def int) (int, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return def, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid int, got: " + valueStr)
	}
	return value, nil
}
