package billing

import (
	"context"

	"github.com/shopspring/decimal"

	dbilling "github.com/jhoicas/textil-api/internal/domain/billing"
	"github.com/jhoicas/textil-api/internal/domain/entity"
)

// RemoteBilling puerto hacia el backend REST de pedidos y pagos.
// Las llamadas no son idempotentes: un error no se reintenta aquí.
// En éxito devuelven el id de registro asignado por el servidor.
type RemoteBilling interface {
	CreateInvoice(ctx context.Context, inv entity.Invoice) (remoteID string, err error)
	UpdateInvoice(ctx context.Context, inv entity.Invoice) error
	CreatePayment(ctx context.Context, invoiceRemoteID string, p entity.PaymentRecord) (remoteID string, err error)
	GetInvoiceBalance(ctx context.Context, invoiceRemoteID string) (RemoteBalance, error)
}

// RemoteBalance total y pagado de una factura según el servidor.
type RemoteBalance struct {
	GrandTotal decimal.Decimal
	AmountPaid decimal.Decimal
}

// InvoicePDFGenerator genera el documento descargable de la factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv entity.Invoice, totals dbilling.Totals, ledger dbilling.Ledger) ([]byte, error)
}
