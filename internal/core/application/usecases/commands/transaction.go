package commands

import (
	"context"
	"errors"

	"mealorder/internal/core/ports"
	"mealorder/internal/pkg/errs"
	"mealorder/internal/pkg/retry"
)

func isSerializationConflict(err error) bool {
	return errs.Is(err, ports.ErrSerializationConflict)
}

func isUniqueViolation(err error) bool {
	return errs.Is(err, ports.ErrUniqueViolation)
}

// runInTransaction runs fn in a fresh unit of work and commits it. A
// serialization conflict restarts the attempt with a new unit of work; once
// the policy gives up the error is marked ErrSchedulingConflict.
func runInTransaction[U TxManager](
	ctx context.Context,
	create func() U,
	policy retry.Policy,
	fn func(ctx context.Context, uow U) error,
) error {
	err := policy.Do(ctx, isSerializationConflict, func(int) error {
		uow := create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(context.WithoutCancel(ctx))
		}()

		if err := fn(ctx, uow); err != nil {
			return err
		}

		return uow.Commit(ctx)
	})

	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		return errs.Mark(err, ErrSchedulingConflict)
	}
	return err
}
