package types

import (
	"context"
	"time"

	storetypes "cosmossdk.io/store/types"
	"github.com/rs/zerolog"
)

// Context carries everything a keeper needs for one call: the staged store of the call,
// the block environment and a logger tagged with the call's trace id. It is a context.Context, so
// state collections open the staged store straight from it.
type Context struct {
	baseCtx   context.Context
	store     storetypes.KVStore
	blockTime time.Time
	height    int64
	logger    zerolog.Logger
}

// NewContext creates a new call context.
func NewContext(ctx context.Context, store storetypes.KVStore, blockTime time.Time, height int64, logger zerolog.Logger) Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if inner, ok := ctx.(Context); ok {
		ctx = inner.baseCtx
	}
	return Context{
		baseCtx:   ctx,
		store:     store,
		blockTime: blockTime.UTC(),
		height:    height,
		logger:    logger,
	}
}

func (c Context) Context() context.Context    { return c.baseCtx }
func (c Context) KVStore() storetypes.KVStore { return c.store }
func (c Context) BlockTime() time.Time        { return c.blockTime }
func (c Context) BlockHeight() int64          { return c.height }
func (c Context) Logger() *zerolog.Logger     { return &c.logger }

func (c Context) Deadline() (time.Time, bool) { return c.baseCtx.Deadline() }
func (c Context) Done() <-chan struct{}       { return c.baseCtx.Done() }
func (c Context) Err() error                  { return c.baseCtx.Err() }
func (c Context) Value(key any) any           { return c.baseCtx.Value(key) }

// WithBlockTime returns a copy of the context at another block time.
func (c Context) WithBlockTime(t time.Time) Context {
	c.blockTime = t.UTC()
	return c
}

// ElapsedSeconds returns the whole seconds between from and to, never negative.
func ElapsedSeconds(from, to time.Time) uint64 {
	if !to.After(from) {
		return 0
	}
	return uint64(to.Unix() - from.Unix())
}
