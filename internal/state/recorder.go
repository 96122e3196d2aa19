package state

import (
	"context"

	"github.com/elys-network/bondstake/internal/types"
)

// Recorder keeps the history of executed calls.
type Recorder interface {
	RecordReceipt(ctx context.Context, receipt types.Receipt) error
	RecordEpoch(ctx context.Context, epoch types.EpochRecord) error
	RecordGenesis(ctx context.Context, genesis types.Genesis) (int, error)
	RecentReceipts(ctx context.Context, limit int) ([]types.Receipt, error)
	RecentEpochs(ctx context.Context, limit int) ([]types.EpochRecord, error)
	Summary(ctx context.Context) (Summary, error)
	Ping(ctx context.Context) error
	Close() error
}

// Noop is a Recorder that keeps nothing.
type Noop struct{}

var _ Recorder = Noop{}
var _ Recorder = (*SQLStore)(nil)

func (Noop) RecordReceipt(context.Context, types.Receipt) error { return nil }

func (Noop) RecordEpoch(context.Context, types.EpochRecord) error { return nil }

func (Noop) RecordGenesis(context.Context, types.Genesis) (int, error) { return 0, nil }

func (Noop) RecentReceipts(context.Context, int) ([]types.Receipt, error) {
	return []types.Receipt{}, nil
}

func (Noop) RecentEpochs(context.Context, int) ([]types.EpochRecord, error) {
	return []types.EpochRecord{}, nil
}

func (Noop) Summary(context.Context) (Summary, error) {
	return Summary{Contracts: map[string]ContractSummary{}}, nil
}

func (Noop) Ping(context.Context) error { return nil }

func (Noop) Close() error { return nil }

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 10
	}
	return limit
}
