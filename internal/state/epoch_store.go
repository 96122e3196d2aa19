/*

This file manages the history of executed rebases. An epoch number is recorded once.

*/

package state

import (
	"context"
	"fmt"
	"time"

	"github.com/elys-network/bondstake/internal/types"
)

// RecordEpoch saves a rebase. Recording the same epoch twice keeps the first record.
func (s *SQLStore) RecordEpoch(ctx context.Context, e types.EpochRecord) error {
	query := s.rebind(`
		INSERT INTO epochs (epoch_number, epoch_start, epoch_end, minted, apr, height)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (epoch_number) DO NOTHING`)

	_, err := s.db.ExecContext(ctx, query,
		int64(e.Number), e.Start.Unix(), e.End.Unix(), e.Minted, e.Apr, e.Height,
	)
	if err != nil {
		return fmt.Errorf("failed to save epoch %d: %w", e.Number, err)
	}

	s.logger.Info().Uint64("epoch", e.Number).Str("minted", e.Minted).Msg("Epoch saved to database")
	return nil
}

// RecentEpochs returns the latest epochs, newest first.
func (s *SQLStore) RecentEpochs(ctx context.Context, limit int) ([]types.EpochRecord, error) {
	query := s.rebind(`
		SELECT epoch_number, epoch_start, epoch_end, minted, apr, height
		FROM epochs
		ORDER BY epoch_number DESC
		LIMIT ?`)

	rows, err := s.db.QueryContext(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query recent epochs: %w", err)
	}
	defer rows.Close()

	epochs := []types.EpochRecord{}
	for rows.Next() {
		var (
			e          types.EpochRecord
			number     int64
			start, end int64
		)
		if err := rows.Scan(&number, &start, &end, &e.Minted, &e.Apr, &e.Height); err != nil {
			return nil, fmt.Errorf("failed to scan epoch row: %w", err)
		}
		e.Number = uint64(number)
		e.Start = time.Unix(start, 0).UTC()
		e.End = time.Unix(end, 0).UTC()
		epochs = append(epochs, e)
	}
	return epochs, rows.Err()
}
