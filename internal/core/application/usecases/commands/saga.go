package commands

import (
	"context"
	"errors"
	"log/slog"
)

type compensation struct {
	name string
	fn   func(ctx context.Context) error
	done bool
}

// saga records how to undo each completed step. It is only used with units
// of work whose Rollback cannot undo writes.
type saga struct {
	logger *slog.Logger
	steps  []*compensation
}

func newSaga(logger *slog.Logger) *saga {
	return &saga{logger: logger}
}

func (s *saga) add(name string, fn func(ctx context.Context) error) {
	s.steps = append(s.steps, &compensation{name: name, fn: fn})
}

// compensate runs the recorded actions in reverse order. Actions that
// already ran are skipped, so calling it twice is harmless. It ignores
// cancellation of ctx.
func (s *saga) compensate(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)

	var failures []error
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.done {
			continue
		}
		if err := step.fn(ctx); err != nil {
			s.logger.ErrorContext(ctx, "compensation failed", "step", step.name, "error", err)
			failures = append(failures, err)
			continue
		}
		step.done = true
		s.logger.InfoContext(ctx, "compensation applied", "step", step.name)
	}
	return errors.Join(failures...)
}
