package memory

import (
	"context"
	"sync"

	"github.com/samber/lo"

	"github.com/jhoicas/textil-api/internal/domain/entity"
	"github.com/jhoicas/textil-api/internal/domain/repository"
)

var _ repository.PaymentOutcomeRepository = (*PaymentOutcomeStore)(nil)

// PaymentOutcomeStore registro de resultados de pago en memoria.
type PaymentOutcomeStore struct {
	mu       sync.Mutex
	outcomes []entity.PaymentOutcome
}

// NewPaymentOutcomeStore construye el registro vacío.
func NewPaymentOutcomeStore() *PaymentOutcomeStore {
	return &PaymentOutcomeStore{}
}

// Record agrega un resultado.
func (s *PaymentOutcomeStore) Record(_ context.Context, outcome *entity.PaymentOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, *outcome)
	return nil
}

// ListByInvoice devuelve los resultados de una factura en orden de registro.
func (s *PaymentOutcomeStore) ListByInvoice(_ context.Context, invoiceIdentifier string) ([]*entity.PaymentOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matches := lo.Filter(s.outcomes, func(o entity.PaymentOutcome, _ int) bool {
		return o.InvoiceIdentifier == invoiceIdentifier
	})
	return lo.Map(matches, func(o entity.PaymentOutcome, _ int) *entity.PaymentOutcome {
		return &o
	}), nil
}
