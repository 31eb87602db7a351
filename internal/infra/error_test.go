//go:build unit

package infra_test

import (
	"errors"
	"fmt"
	"testing"

	"easyrent/internal/infra"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestKindFromPgErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want infra.RepositoryErrorKind
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: infra.KindDuplicateKey},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}, want: infra.KindForeignKeyViolated},
		{name: "exclusion violation", err: &pgconn.PgError{Code: "23P01"}, want: infra.KindConflict},
		{name: "wrapped exclusion violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"}), want: infra.KindConflict},
		{name: "other pg error", err: &pgconn.PgError{Code: "42P01"}, want: infra.KindDBFailure},
		{name: "plain error", err: errors.New("boom"), want: infra.KindDBFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, infra.KindFromPgErr(tt.err))
		})
	}
}

func TestWrapRepoErr(t *testing.T) {
	cause := errors.New("connection reset")
	err := infra.WrapRepoErr(nil, infra.KindDBFailure, "failed to load car", cause)

	assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	assert.False(t, infra.IsKind(err, infra.KindNotFound))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "DB_FAILURE: failed to load car")

	conflict := infra.WrapPgErr(nil, "failed to insert booking", &pgconn.PgError{Code: "23P01"})
	assert.True(t, infra.IsKind(conflict, infra.KindConflict))
	assert.False(t, infra.IsKind(errors.New("x"), infra.KindConflict))
}
