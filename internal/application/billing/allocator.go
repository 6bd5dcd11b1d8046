package billing

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/jhoicas/textil-api/internal/domain"
	dbilling "github.com/jhoicas/textil-api/internal/domain/billing"
	"github.com/jhoicas/textil-api/internal/domain/repository"
	"github.com/jhoicas/textil-api/pkg/logger"
)

// DefaultCounterKey clave del contador de consecutivos en el almacén.
const DefaultCounterKey = "invoice_counter"

// Reservation consecutivo reservado y los valores del contador antes y después.
type Reservation struct {
	Identifier string
	Previous   int64
	Next       int64
}

// Allocator asigna consecutivos A00000..Z99999 a partir de un contador persistido.
//
// Dentro del proceso las reservas pasan por un único escritor (mutex). Si el
// almacén es atómico se usa su incremento, que además cubre varios procesos.
// El contador se incrementa y persiste antes del envío al servidor; si el envío
// falla se llama Rollback.
type Allocator struct {
	mu    sync.Mutex
	store repository.CounterRepository
	key   string
	log   *logger.Logger
}

// NewAllocator construye el asignador. key vacío usa DefaultCounterKey.
func NewAllocator(store repository.CounterRepository, key string, log *logger.Logger) *Allocator {
	if key == "" {
		key = DefaultCounterKey
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Allocator{store: store, key: key, log: log.Component("allocator")}
}

// Reserve incrementa y persiste el contador, devolviendo el consecutivo reservado.
func (a *Allocator) Reserve(ctx context.Context) (Reservation, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if atomic, ok := a.store.(repository.AtomicCounterRepository); ok {
		next, ok, err := atomic.IncrementBelow(ctx, a.key, dbilling.IdentifierCapacity)
		if err != nil {
			return Reservation{}, errors.Wrap(err, "reservar consecutivo")
		}
		if !ok {
			return Reservation{}, errors.Wrapf(domain.ErrIdentifierSpaceExhausted, "contador %s", a.key)
		}
		id, err := dbilling.FormatIdentifier(next - 1)
		if err != nil {
			return Reservation{}, err
		}
		a.log.Debug().Str("identifier", id).Int64("counter", next).Msg("consecutivo reservado")
		return Reservation{Identifier: id, Previous: next - 1, Next: next}, nil
	}

	current, err := a.store.Get(ctx, a.key)
	if err != nil {
		return Reservation{}, errors.Wrap(err, "leer contador")
	}
	id, next, err := dbilling.ReserveNext(current)
	if err != nil {
		return Reservation{}, err
	}
	if err := a.store.Set(ctx, a.key, next); err != nil {
		return Reservation{}, errors.Wrap(err, "guardar contador")
	}
	a.log.Debug().Str("identifier", id).Int64("counter", next).Msg("consecutivo reservado")
	return Reservation{Identifier: id, Previous: current, Next: next}, nil
}

// Commit confirma la reserva. No hace nada: Reserve ya persistió el contador.
func (a *Allocator) Commit(Reservation) {}

// Rollback devuelve el contador al valor previo a la reserva.
// Sólo revierte si nadie reservó después; si el contador avanzó deja el hueco
// y devuelve ErrRollbackSkipped para no pisar otra reserva.
func (a *Allocator) Rollback(ctx context.Context, r Reservation) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if atomic, ok := a.store.(repository.AtomicCounterRepository); ok {
		swapped, err := atomic.CompareAndSwap(ctx, a.key, r.Next, r.Previous)
		if err != nil {
			return errors.Wrap(err, "revertir contador")
		}
		if !swapped {
			return errors.Wrapf(domain.ErrRollbackSkipped, "consecutivo %s", r.Identifier)
		}
		return nil
	}

	current, err := a.store.Get(ctx, a.key)
	if err != nil {
		return errors.Wrap(err, "leer contador")
	}
	if current != r.Next {
		return errors.Wrapf(domain.ErrRollbackSkipped, "consecutivo %s, contador en %d", r.Identifier, current)
	}
	if err := a.store.Set(ctx, a.key, r.Previous); err != nil {
		return errors.Wrap(err, "revertir contador")
	}
	return nil
}

// PreviewNext calcula el próximo consecutivo sin reservarlo.
// El valor mostrado puede ser tomado por otra operación antes de guardar.
func (a *Allocator) PreviewNext(ctx context.Context) (string, error) {
	current, err := a.store.Get(ctx, a.key)
	if err != nil {
		return "", errors.Wrap(err, "leer contador")
	}
	return dbilling.FormatIdentifier(current)
}
