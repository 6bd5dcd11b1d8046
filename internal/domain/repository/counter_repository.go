package repository

import "context"

// CounterRepository almacén clave-valor del contador de consecutivos.
// No ofrece transacciones: Get y Set son operaciones independientes.
// Una clave inexistente vale 0.
type CounterRepository interface {
	Get(ctx context.Context, key string) (int64, error)
	Set(ctx context.Context, key string, value int64) error
}

// AtomicCounterRepository contador con incremento atómico (ej. UPDATE ... RETURNING).
// Si el almacén lo implementa, el asignador lo prefiere sobre Get/Set.
type AtomicCounterRepository interface {
	CounterRepository

	// IncrementBelow suma 1 sólo si el valor actual es menor que limit.
	// Devuelve el valor nuevo; ok=false si el contador ya alcanzó el límite.
	IncrementBelow(ctx context.Context, key string, limit int64) (value int64, ok bool, err error)

	// CompareAndSwap escribe next sólo si el valor actual es old.
	CompareAndSwap(ctx context.Context, key string, old, next int64) (bool, error)
}
