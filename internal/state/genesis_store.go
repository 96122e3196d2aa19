/*

This file keeps every genesis the daemon was instantiated from, versioned, the way parameter sets
were versioned before.

*/

package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elys-network/bondstake/internal/types"
)

// RecordGenesis stores genesis as the next version and returns that version.
func (s *SQLStore) RecordGenesis(ctx context.Context, genesis types.Genesis) (int, error) {
	bz, err := json.Marshal(genesis)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal genesis: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			s.logger.Error().Err(rbErr).Msg("Failed to rollback genesis transaction")
		}
	}()

	var latest sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(version) FROM genesis_history`).Scan(&latest); err != nil {
		return 0, fmt.Errorf("failed to get latest genesis version: %w", err)
	}
	version := int(latest.Int64) + 1

	query := s.rebind(`INSERT INTO genesis_history (version, applied_at, genesis) VALUES (?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, query, version, time.Now().Unix(), string(bz)); err != nil {
		return 0, fmt.Errorf("failed to insert genesis: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit genesis: %w", err)
	}

	s.logger.Info().Int("version", version).Msg("Genesis recorded")
	return version, nil
}

// LatestGenesis returns the last recorded genesis and its version.
func (s *SQLStore) LatestGenesis(ctx context.Context) (types.Genesis, int, error) {
	var (
		genesis types.Genesis
		version int
		bz      string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT version, genesis FROM genesis_history ORDER BY version DESC LIMIT 1`,
	).Scan(&version, &bz)
	if err == sql.ErrNoRows {
		return genesis, 0, fmt.Errorf("no genesis recorded")
	}
	if err != nil {
		return genesis, 0, fmt.Errorf("failed to load genesis: %w", err)
	}
	if err := json.Unmarshal([]byte(bz), &genesis); err != nil {
		return genesis, 0, fmt.Errorf("failed to unmarshal genesis: %w", err)
	}
	return genesis, version, nil
}
