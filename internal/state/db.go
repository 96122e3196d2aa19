/*

This file contains the SQL history store. It keeps a queryable record of executed calls, epochs and
applied genesis files next to the contract state. The contract state itself never depends on it.

Both PostgreSQL (lib/pq) and SQLite (modernc) are supported. Queries are written with ? placeholders
and rebound for PostgreSQL.

*/

package state

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog"

	"github.com/elys-network/bondstake/internal/logger"
)

type dialect int

const (
	dialectPostgres dialect = iota
	dialectSQLite
)

// DBConfig holds database connection parameters.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // "disable", "require", "verify-full", etc.
}

// SQLStore is a Recorder backed by a SQL database.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	logger  zerolog.Logger
}

// OpenPostgres connects to PostgreSQL and ensures the schema.
func OpenPostgres(ctx context.Context, cfg DBConfig) (*SQLStore, error) {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &SQLStore{db: db, dialect: dialectPostgres, logger: logger.GetForComponent("state_postgres")}
	if err := s.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info().Str("host", cfg.Host).Str("db", cfg.DBName).Msg("Successfully connected to the PostgreSQL database")
	return s, nil
}

// Close closes the connection pool.
func (s *SQLStore) Close() error {
	s.logger.Info().Msg("Closing database connection...")
	return s.db.Close()
}

// Ping checks that the database answers within five seconds.
func (s *SQLStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func (s *SQLStore) schema() []string {
	id := "SERIAL PRIMARY KEY"
	if s.dialect == dialectSQLite {
		id = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS receipts (
			receipt_id ` + id + `,
			trace_id VARCHAR(64) NOT NULL,
			height BIGINT NOT NULL,
			block_time BIGINT NOT NULL,
			sender VARCHAR(128) NOT NULL,
			contract VARCHAR(64) NOT NULL,
			msg_type VARCHAR(64) NOT NULL,
			funds TEXT NOT NULL,
			success BOOLEAN NOT NULL,
			error TEXT,
			events TEXT,
			duration_ms BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_receipts_height ON receipts(height DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_receipts_trace ON receipts(trace_id)`,
		`CREATE INDEX IF NOT EXISTS idx_receipts_contract_type ON receipts(contract, msg_type)`,
		`CREATE TABLE IF NOT EXISTS epochs (
			epoch_number BIGINT PRIMARY KEY,
			epoch_start BIGINT NOT NULL,
			epoch_end BIGINT NOT NULL,
			minted TEXT NOT NULL,
			apr TEXT NOT NULL,
			height BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS genesis_history (
			genesis_id ` + id + `,
			version INTEGER NOT NULL,
			applied_at BIGINT NOT NULL,
			genesis TEXT NOT NULL
		)`,
	}
}

// EnsureSchema creates the tables if they don't exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema DDL: %w", err)
		}
	}
	s.logger.Debug().Msg("Database schema ensured")
	return nil
}

// ResetSchema drops every table and recreates them empty.
func (s *SQLStore) ResetSchema(ctx context.Context) error {
	for _, table := range []string{"receipts", "epochs", "genesis_history"} {
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
		s.logger.Info().Str("table", table).Msg("Dropped table")
	}
	return s.EnsureSchema(ctx)
}

// rebind turns ? placeholders into $n for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
