package postgres_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/textil-api/internal/infrastructure/postgres"
)

const (
	ensureSQL    = `INSERT INTO billing_counters (key, value) VALUES ($1, 0) ON CONFLICT (key) DO NOTHING`
	incrementSQL = `UPDATE billing_counters SET value = value + 1`
	getSQL       = `SELECT value FROM billing_counters WHERE key = $1`
	casSQL       = `SET value = $3, updated_at = now() WHERE key = $1 AND value = $2`
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func q(sql string) string { return regexp.QuoteMeta(sql) }

func TestCounterRepo_IncrementBelowDevuelveValorNuevo(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(q(ensureSQL)).WithArgs("k").WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery(q(incrementSQL)).WithArgs("k", int64(100_000)).
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(int64(8)))

	v, ok, err := postgres.NewCounterRepository(mock).IncrementBelow(context.Background(), "k", 100_000)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(8), v)
}

func TestCounterRepo_IncrementBelowEnElLimiteNoAvanza(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(q(ensureSQL)).WithArgs("k").WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery(q(incrementSQL)).WithArgs("k", int64(100_000)).
		WillReturnRows(pgxmock.NewRows([]string{"value"}))
	mock.ExpectQuery(q(getSQL)).WithArgs("k").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(int64(100_000)))

	v, ok, err := postgres.NewCounterRepository(mock).IncrementBelow(context.Background(), "k", 100_000)
	require.NoError(t, err)
	assert.False(t, ok, "el UPDATE no afecta filas en el límite")
	assert.Equal(t, int64(100_000), v)
}

func TestCounterRepo_IncrementBelowErrorAlCrearFila(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(q(ensureSQL)).WithArgs("k").WillReturnError(errors.New("connection refused"))

	_, ok, err := postgres.NewCounterRepository(mock).IncrementBelow(context.Background(), "k", 100_000)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "init billing_counter k")
}

func TestCounterRepo_CompareAndSwap(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(q(casSQL)).WithArgs("k", int64(4), int64(3)).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(q(casSQL)).WithArgs("k", int64(4), int64(3)).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := postgres.NewCounterRepository(mock)
	swapped, err := repo.CompareAndSwap(context.Background(), "k", 4, 3)
	require.NoError(t, err)
	assert.True(t, swapped)

	swapped, err = repo.CompareAndSwap(context.Background(), "k", 4, 3)
	require.NoError(t, err)
	assert.False(t, swapped, "otro proceso ya movió el contador")
}

func TestCounterRepo_GetSinFilaEsCero(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(q(getSQL)).WithArgs("nuevo").WillReturnRows(pgxmock.NewRows([]string{"value"}))

	v, err := postgres.NewCounterRepository(mock).Get(context.Background(), "nuevo")
	require.NoError(t, err)
	assert.Zero(t, v)
}
