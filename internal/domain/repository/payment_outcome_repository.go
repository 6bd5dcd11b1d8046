package repository

import (
	"context"

	"github.com/jhoicas/textil-api/internal/domain/entity"
)

// PaymentOutcomeRepository registro individual de cada intento de envío de pago.
// Es la traza de qué pagos llegaron realmente al servidor en un lote.
type PaymentOutcomeRepository interface {
	Record(ctx context.Context, outcome *entity.PaymentOutcome) error
	ListByInvoice(ctx context.Context, invoiceIdentifier string) ([]*entity.PaymentOutcome, error)
}
