package billing

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/textil-api/internal/domain"
	"github.com/jhoicas/textil-api/internal/domain/entity"
)

// Ledger libro de pagos de una factura. DueAmount nunca es negativo.
type Ledger struct {
	GrandTotal decimal.Decimal
	TotalPaid  decimal.Decimal
	DueAmount  decimal.Decimal
	Payments   []entity.PaymentRecord // orden de inserción
}

// NewLedger reconstruye el libro a partir del total y los pagos.
func NewLedger(grandTotal decimal.Decimal, payments []entity.PaymentRecord) Ledger {
	paid := sumPayments(payments)
	due := grandTotal.Sub(paid)
	if due.IsNegative() {
		due = decimal.Zero
	}
	return Ledger{
		GrandTotal: grandTotal,
		TotalPaid:  paid,
		DueAmount:  due,
		Payments:   append([]entity.PaymentRecord(nil), payments...),
	}
}

// ApplyPayment agrega un pago. Rechaza (no trunca) montos mayores al saldo.
// El libro recibido no se modifica.
func ApplyPayment(l Ledger, p entity.PaymentRecord) (Ledger, error) {
	if !p.Amount.IsPositive() {
		return l, errors.Wrapf(domain.ErrInvalidAmount, "pago %s", p.Amount.String())
	}
	if !p.Method.Valid() {
		return l, errors.Wrapf(domain.ErrInvalidInput, "medio de pago %q", p.Method)
	}
	if p.Amount.GreaterThan(l.DueAmount) {
		return l, errors.Wrapf(domain.ErrExceedsDueAmount,
			"pago %s, saldo %s", p.Amount.StringFixed(AmountPlaces), l.DueAmount.StringFixed(AmountPlaces))
	}
	return NewLedger(l.GrandTotal, append(append([]entity.PaymentRecord(nil), l.Payments...), p)), nil
}

// RemovePayment quita un pago por ID y recalcula total pagado y saldo.
func RemovePayment(l Ledger, paymentID string) (Ledger, error) {
	if _, ok := lo.Find(l.Payments, func(p entity.PaymentRecord) bool { return p.ID == paymentID }); !ok {
		return l, errors.Wrapf(domain.ErrPaymentNotFound, "id %s", paymentID)
	}
	rest := lo.Reject(l.Payments, func(p entity.PaymentRecord, _ int) bool { return p.ID == paymentID })
	return NewLedger(l.GrandTotal, rest), nil
}

// IsSettled indica saldo pendiente exactamente en cero.
func IsSettled(l Ledger) bool {
	return l.DueAmount.IsZero()
}

func sumPayments(payments []entity.PaymentRecord) decimal.Decimal {
	return lo.Reduce(payments, func(acc decimal.Decimal, p entity.PaymentRecord, _ int) decimal.Decimal {
		return acc.Add(p.Amount)
	}, decimal.Zero)
}
