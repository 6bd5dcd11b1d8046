// Package memory implementa los puertos de persistencia en memoria del proceso.
// Se usa cuando no hay base de datos configurada y en tests.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/textil-api/internal/domain/repository"
)

var _ repository.CounterRepository = (*CounterStore)(nil)

// CounterStore almacén clave-valor sin transacciones, como el almacenamiento local del dispositivo.
type CounterStore struct {
	mu     sync.Mutex
	values map[string]int64
}

// NewCounterStore construye el almacén vacío.
func NewCounterStore() *CounterStore {
	return &CounterStore{values: make(map[string]int64)}
}

// Get devuelve el valor de la clave; 0 si no existe.
func (s *CounterStore) Get(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

// Set escribe el valor de la clave.
func (s *CounterStore) Set(_ context.Context, key string, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
