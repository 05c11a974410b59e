package state

import (
	"context"
	"log/slog"
)

// Env can be read from any Goroutine
type Env struct {
	Cfg
	Context context.Context
	Cancel  context.CancelCauseFunc
	Log     *slog.Logger
}

func NewEnv(ctx context.Context, cfg Cfg, log *slog.Logger) *Env {
	ctx, cancel := context.WithCancelCause(ctx)
	return &Env{
		Cfg:     cfg,
		Context: ctx,
		Cancel:  cancel,
		Log:     log,
	}
}
