package config

import (
	"github.com/rs/zerolog/log"
)

// Endpoint configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// HTTPListen is the address of the REST API and metrics server.
	HTTPListen string
	// GRPCListen is the address of the gRPC health server. Empty disables it.
	GRPCListen string

	// Postgres connection of the receipt recorder when Recorder is postgres.
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDBName   string
	PostgresSSLMode  string
)

// loadEndpointConfig loads endpoint configuration from environment variables.
// This function is called by LoadConfig() in General.go.
func loadEndpointConfig() error {
	log.Info().Msg("Loading endpoint configuration from environment variables...")

	var err error

	HTTPListen = getEnvOrDefault("HTTP_LISTEN", ":8080")
	GRPCListen = getEnvOrDefault("GRPC_LISTEN", ":9090")

	if Recorder == "postgres" {
		PostgresHost = getEnvOrDefault("DB_HOST", "localhost")
		PostgresPort, err = getEnvAsIntOrDefault("DB_PORT", 5432)
		if err != nil {
			return err
		}
		PostgresUser, err = getEnv("DB_USER")
		if err != nil {
			return err
		}
		PostgresPassword = getEnvOrDefault("DB_PASSWORD", "")
		PostgresDBName, err = getEnv("DB_NAME")
		if err != nil {
			return err
		}
		PostgresSSLMode = getEnvOrDefault("DB_SSLMODE", "disable")
	}

	log.Debug().
		Str("HTTPListen", HTTPListen).
		Str("GRPCListen", GRPCListen).
		Str("PostgresHost", PostgresHost).
		Msg("Endpoint configuration loaded successfully.")

	return nil
}
