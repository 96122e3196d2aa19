package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elys-network/bondstake/internal/types"
)

// RecordReceipt saves the outcome of one call.
func (s *SQLStore) RecordReceipt(ctx context.Context, r types.Receipt) error {
	fundsJSON, err := json.Marshal(r.Funds)
	if err != nil {
		return fmt.Errorf("failed to marshal funds: %w", err)
	}
	eventsJSON, err := json.Marshal(r.Events)
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}

	query := s.rebind(`
		INSERT INTO receipts (
			trace_id, height, block_time, sender, contract, msg_type,
			funds, success, error, events, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = s.db.ExecContext(ctx, query,
		r.TraceID, r.Height, r.Time.Unix(), r.Sender, r.Contract, r.MsgType,
		string(fundsJSON), r.Success, r.Error, string(eventsJSON), r.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("failed to save receipt: %w", err)
	}

	s.logger.Debug().
		Str("trace_id", r.TraceID).
		Int64("height", r.Height).
		Bool("success", r.Success).
		Msg("Receipt saved to database")
	return nil
}

// RecentReceipts returns the latest receipts, newest first.
func (s *SQLStore) RecentReceipts(ctx context.Context, limit int) ([]types.Receipt, error) {
	query := s.rebind(`
		SELECT trace_id, height, block_time, sender, contract, msg_type,
			funds, success, error, events, duration_ms
		FROM receipts
		ORDER BY receipt_id DESC
		LIMIT ?`)

	rows, err := s.db.QueryContext(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query recent receipts: %w", err)
	}
	defer rows.Close()

	receipts := []types.Receipt{}
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to scan receipt row")
			continue
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipts: %w", err)
	}
	return receipts, nil
}

// ReceiptByTrace returns the receipt of a trace id.
func (s *SQLStore) ReceiptByTrace(ctx context.Context, traceID string) (types.Receipt, error) {
	query := s.rebind(`
		SELECT trace_id, height, block_time, sender, contract, msg_type,
			funds, success, error, events, duration_ms
		FROM receipts WHERE trace_id = ?`)

	r, err := scanReceipt(s.db.QueryRowContext(ctx, query, traceID))
	if err == sql.ErrNoRows {
		return r, fmt.Errorf("receipt %s not found", traceID)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row scanner) (types.Receipt, error) {
	var (
		r          types.Receipt
		blockTime  int64
		fundsJSON  string
		errText    sql.NullString
		eventsJSON sql.NullString
	)
	err := row.Scan(
		&r.TraceID, &r.Height, &blockTime, &r.Sender, &r.Contract, &r.MsgType,
		&fundsJSON, &r.Success, &errText, &eventsJSON, &r.DurationMs,
	)
	if err != nil {
		return r, err
	}
	r.Time = time.Unix(blockTime, 0).UTC()
	r.Error = errText.String
	if err := json.Unmarshal([]byte(fundsJSON), &r.Funds); err != nil {
		return r, fmt.Errorf("failed to unmarshal funds: %w", err)
	}
	if eventsJSON.Valid && eventsJSON.String != "" && eventsJSON.String != "null" {
		if err := json.Unmarshal([]byte(eventsJSON.String), &r.Events); err != nil {
			return r, fmt.Errorf("failed to unmarshal events: %w", err)
		}
	}
	return r, nil
}
