package pgerr_test

import (
	"errors"
	"fmt"
	"testing"

	"mealorder/internal/adapters/out/postgres/pgerr"
	"mealorder/internal/core/ports"
	"mealorder/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "pgx serialization failure", err: &pgconn.PgError{Code: "40001"}, want: ports.ErrSerializationConflict},
		{name: "pgx deadlock", err: &pgconn.PgError{Code: "40P01"}, want: ports.ErrSerializationConflict},
		{name: "pgx unique violation", err: &pgconn.PgError{Code: "23505"}, want: ports.ErrUniqueViolation},
		{name: "pq serialization failure", err: &pq.Error{Code: "40001"}, want: ports.ErrSerializationConflict},
		{name: "pq unique violation", err: &pq.Error{Code: "23505"}, want: ports.ErrUniqueViolation},
		{
			name: "wrapped driver error",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}),
			want: ports.ErrUniqueViolation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pgerr.Classify(tt.err)

			assert.True(t, errs.Is(got, tt.want))
			assert.ErrorIs(t, got, tt.err)
		})
	}

	t.Run("other errors pass through", func(t *testing.T) {
		plain := errors.New("connection refused")
		check := &pgconn.PgError{Code: "23514"}

		assert.Same(t, plain, pgerr.Classify(plain))
		assert.False(t, errs.Is(pgerr.Classify(check), ports.ErrSerializationConflict))
		assert.False(t, errs.Is(pgerr.Classify(check), ports.ErrUniqueViolation))
		assert.NoError(t, pgerr.Classify(nil))
	})
}
