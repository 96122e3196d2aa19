package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ContractSummary aggregates the calls of one contract.
type ContractSummary struct {
	Calls     int64 `json:"calls"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}

// Summary represents high-level protocol activity.
type Summary struct {
	TotalCalls   int64                      `json:"total_calls"`
	SuccessRate  float64                    `json:"success_rate"`
	LastHeight   int64                      `json:"last_height"`
	LastCallTime *time.Time                 `json:"last_call_time,omitempty"`
	Epochs       int                        `json:"epochs"`
	Contracts    map[string]ContractSummary `json:"contracts"`
}

// Summary aggregates the recorded receipts and epochs.
func (s *SQLStore) Summary(ctx context.Context) (Summary, error) {
	summary := Summary{Contracts: map[string]ContractSummary{}}

	rows, err := s.db.QueryContext(ctx, `
		SELECT contract, success, COUNT(*)
		FROM receipts
		GROUP BY contract, success`)
	if err != nil {
		return summary, fmt.Errorf("failed to aggregate receipts: %w", err)
	}
	defer rows.Close()

	var succeeded int64
	for rows.Next() {
		var (
			contract string
			success  bool
			count    int64
		)
		if err := rows.Scan(&contract, &success, &count); err != nil {
			return summary, fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		cs := summary.Contracts[contract]
		cs.Calls += count
		if success {
			cs.Succeeded += count
			succeeded += count
		} else {
			cs.Failed += count
		}
		summary.Contracts[contract] = cs
		summary.TotalCalls += count
	}
	if err := rows.Err(); err != nil {
		return summary, err
	}
	if summary.TotalCalls > 0 {
		summary.SuccessRate = float64(succeeded) / float64(summary.TotalCalls)
	}

	var (
		lastHeight sql.NullInt64
		lastTime   sql.NullInt64
	)
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(height), MAX(block_time) FROM receipts`).Scan(&lastHeight, &lastTime); err != nil {
		return summary, fmt.Errorf("failed to get last height: %w", err)
	}
	summary.LastHeight = lastHeight.Int64
	if lastTime.Valid {
		t := time.Unix(lastTime.Int64, 0).UTC()
		summary.LastCallTime = &t
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM epochs`).Scan(&summary.Epochs); err != nil {
		return summary, fmt.Errorf("failed to count epochs: %w", err)
	}
	return summary, nil
}
