package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/textil-api/internal/domain/repository"
)

var _ repository.AtomicCounterRepository = (*CounterRepo)(nil)

// CounterRepo contador de consecutivos sobre la tabla billing_counters.
// El incremento es una sola sentencia UPDATE, válida con varias réplicas del servicio.
type CounterRepo struct {
	db Querier
}

// NewCounterRepository construye el repositorio.
func NewCounterRepository(db Querier) *CounterRepo {
	return &CounterRepo{db: db}
}

func (r *CounterRepo) Get(ctx context.Context, key string) (int64, error) {
	const q = `SELECT value FROM billing_counters WHERE key = $1`
	var v int64
	if err := r.db.QueryRow(ctx, q, key).Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "get billing_counter %s", key)
	}
	return v, nil
}

func (r *CounterRepo) Set(ctx context.Context, key string, value int64) error {
	const q = `
		INSERT INTO billing_counters (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := r.db.Exec(ctx, q, key, value); err != nil {
		return errors.Wrapf(err, "set billing_counter %s", key)
	}
	return nil
}

// IncrementBelow suma 1 si el valor es menor que limit y devuelve el valor nuevo.
func (r *CounterRepo) IncrementBelow(ctx context.Context, key string, limit int64) (int64, bool, error) {
	if err := r.ensure(ctx, key); err != nil {
		return 0, false, err
	}

	const q = `
		UPDATE billing_counters
		SET value = value + 1, updated_at = now()
		WHERE key = $1 AND value < $2
		RETURNING value`
	var v int64
	err := r.db.QueryRow(ctx, q, key, limit).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		current, gerr := r.Get(ctx, key)
		return current, false, gerr
	}
	if err != nil {
		return 0, false, errors.Wrapf(err, "increment billing_counter %s", key)
	}
	return v, true, nil
}

func (r *CounterRepo) CompareAndSwap(ctx context.Context, key string, old, next int64) (bool, error) {
	const q = `
		UPDATE billing_counters
		SET value = $3, updated_at = now()
		WHERE key = $1 AND value = $2`
	tag, err := r.db.Exec(ctx, q, key, old, next)
	if err != nil {
		return false, errors.Wrapf(err, "cas billing_counter %s", key)
	}
	return tag.RowsAffected() == 1, nil
}

// ensure crea la fila en 0 si no existe.
func (r *CounterRepo) ensure(ctx context.Context, key string) error {
	const q = `INSERT INTO billing_counters (key, value) VALUES ($1, 0) ON CONFLICT (key) DO NOTHING`
	if _, err := r.db.Exec(ctx, q, key); err != nil {
		return errors.Wrapf(err, "init billing_counter %s", key)
	}
	return nil
}
