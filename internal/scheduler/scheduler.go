package scheduler

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/elys-network/bondstake/internal/app"
	"github.com/elys-network/bondstake/internal/logger"
	"github.com/elys-network/bondstake/internal/types"
)

// Host is the part of the app the keeper drives.
type Host interface {
	Execute(ctx context.Context, sender string, funds sdk.Coins, msg types.ExecuteMsg) (*app.Result, error)
	Query(ctx context.Context, req types.QueryRequest) (any, error)
}

// Scheduler runs the rebase keeper on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	host   Host
	sender string
	logger zerolog.Logger
	ctx    context.Context
}

// NewScheduler creates a scheduler whose calls are sent by sender.
func NewScheduler(ctx context.Context, host Host, sender string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		host:   host,
		sender: sender,
		logger: logger.GetForComponent("scheduler"),
		ctx:    ctx,
	}
}

// RegisterRebase schedules the rebase keeper, e.g. "@every 1m" or "*/5 * * * *".
func (s *Scheduler) RegisterRebase(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() { _, _ = s.RunRebase() }); err != nil {
		return fmt.Errorf("register rebase task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Int("tasks", len(s.cron.Entries())).Msg("Scheduler started")
}

// Stop stops the cron scheduler and waits for a running task.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Scheduler stopped")
}

// RunRebase sends a rebase when the running epoch is over. It reports whether a rebase was sent.
func (s *Scheduler) RunRebase() (bool, error) {
	res, err := s.host.Query(s.ctx, types.QueryRequest{Contract: types.StakingModuleName, Query: types.QueryEpoch})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to query epoch")
		return false, err
	}
	epoch, ok := res.(types.EpochResponse)
	if !ok {
		return false, fmt.Errorf("unexpected epoch response %T", res)
	}
	if !epoch.Due {
		s.logger.Debug().Uint64("epoch", epoch.Number).Time("end", epoch.End).Msg("Epoch not over yet")
		return false, nil
	}

	result, err := s.host.Execute(s.ctx, s.sender, nil, types.RebaseMsg{})
	if err != nil {
		s.logger.Error().Err(err).Uint64("epoch", epoch.Number).Msg("Rebase failed")
		return false, err
	}
	s.logger.Info().
		Uint64("epoch", epoch.Number).
		Str("trace_id", result.TraceID).
		Int64("height", result.Height).
		Msg("Rebase sent")
	return true, nil
}
