package billing

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/textil-api/internal/domain"
	"github.com/jhoicas/textil-api/internal/domain/entity"
)

// Ciclo de vida: draft → saved → settled.
//
// Cada mutación trabaja sobre una copia, vuelve a calcular totales y libro, y
// reevalúa la condición de saldada. Solo queda saldada una factura guardada
// con algo pagado y saldo cero. Una factura saldada no acepta mutaciones ni
// vuelve a saved (aunque el servidor anule un pago después).

// NewDraft crea una factura en borrador, sin consecutivo.
func NewDraft(seller, buyer entity.BillingParty, now time.Time) entity.Invoice {
	return entity.Invoice{
		State:     entity.InvoiceStateDraft,
		Seller:    seller,
		Buyer:     buyer,
		Discount:  entity.PercentDiscount(decimal.Zero),
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// InvoiceTotals totales de la factura.
func InvoiceTotals(inv entity.Invoice) Totals {
	return ComputeTotals(inv.Items, inv.Discount, inv.Tax)
}

// InvoiceLedger libro de pagos de la factura contra su total vigente.
func InvoiceLedger(inv entity.Invoice) Ledger {
	return NewLedger(InvoiceTotals(inv).GrandTotal, inv.Payments)
}

// AddItem agrega una línea.
func AddItem(inv entity.Invoice, item entity.LineItem) (entity.Invoice, error) {
	if err := ensureEditable(inv); err != nil {
		return inv, err
	}
	if err := validateItem(item); err != nil {
		return inv, err
	}
	if lo.ContainsBy(inv.Items, func(li entity.LineItem) bool { return li.ID == item.ID }) {
		return inv, errors.Wrapf(domain.ErrInvalidInput, "línea duplicada %s", item.ID)
	}
	next := inv.Clone()
	next.Items = append(next.Items, item)
	return reprice(inv, next)
}

// UpdateItemRate cambia la tarifa de una línea (la cantidad no se edita).
func UpdateItemRate(inv entity.Invoice, itemID string, rate decimal.Decimal) (entity.Invoice, error) {
	if err := ensureEditable(inv); err != nil {
		return inv, err
	}
	if rate.IsNegative() {
		return inv, errors.Wrapf(domain.ErrInvalidAmount, "tarifa %s", rate.String())
	}
	_, idx, ok := lo.FindIndexOf(inv.Items, func(li entity.LineItem) bool { return li.ID == itemID })
	if !ok {
		return inv, errors.Wrapf(domain.ErrNotFound, "línea %s", itemID)
	}
	next := inv.Clone()
	next.Items[idx].UnitRate = rate
	return reprice(inv, next)
}

// RemoveItem quita una línea por ID.
func RemoveItem(inv entity.Invoice, itemID string) (entity.Invoice, error) {
	if err := ensureEditable(inv); err != nil {
		return inv, err
	}
	if !lo.ContainsBy(inv.Items, func(li entity.LineItem) bool { return li.ID == itemID }) {
		return inv, errors.Wrapf(domain.ErrNotFound, "línea %s", itemID)
	}
	next := inv.Clone()
	next.Items = lo.Reject(next.Items, func(li entity.LineItem, _ int) bool { return li.ID == itemID })
	if len(next.Items) == 0 && inv.State == entity.InvoiceStateSaved {
		return inv, domain.MissingField("items")
	}
	return reprice(inv, next)
}

// SetDiscount reemplaza la especificación de descuento.
func SetDiscount(inv entity.Invoice, spec entity.DiscountSpec) (entity.Invoice, error) {
	if err := ensureEditable(inv); err != nil {
		return inv, err
	}
	if spec.Mode != entity.DiscountPercent && spec.Mode != entity.DiscountFixed {
		return inv, errors.Wrapf(domain.ErrInvalidInput, "modo de descuento %q", spec.Mode)
	}
	if spec.Percent.IsNegative() || spec.Fixed.IsNegative() {
		return inv, errors.Wrap(domain.ErrInvalidAmount, "descuento negativo")
	}
	next := inv.Clone()
	next.Discount = spec
	return reprice(inv, next)
}

// SwitchDiscountMode activa otro modo conservando el valor del modo inactivo.
func SwitchDiscountMode(inv entity.Invoice, mode entity.DiscountMode) (entity.Invoice, error) {
	return SetDiscount(inv, inv.Discount.WithMode(mode))
}

// SetTax reemplaza el porcentaje de GST.
func SetTax(inv entity.Invoice, tax entity.TaxSpec) (entity.Invoice, error) {
	if err := ensureEditable(inv); err != nil {
		return inv, err
	}
	if tax.GSTPercentage.IsNegative() {
		return inv, errors.Wrapf(domain.ErrInvalidAmount, "GST %s", tax.GSTPercentage.String())
	}
	next := inv.Clone()
	next.Tax = tax
	return reprice(inv, next)
}

// SetParties reemplaza vendedor y comprador.
func SetParties(inv entity.Invoice, seller, buyer entity.BillingParty) (entity.Invoice, error) {
	if err := ensureEditable(inv); err != nil {
		return inv, err
	}
	next := inv.Clone()
	next.Seller = seller
	next.Buyer = buyer
	return next, nil
}

// ApplyInvoicePayment aplica un pago; en saved puede dejar la factura saldada.
func ApplyInvoicePayment(inv entity.Invoice, p entity.PaymentRecord) (entity.Invoice, error) {
	if err := ensureEditable(inv); err != nil {
		return inv, err
	}
	if lo.ContainsBy(inv.Payments, func(x entity.PaymentRecord) bool { return x.ID == p.ID }) {
		return inv, errors.Wrapf(domain.ErrInvalidInput, "pago duplicado %s", p.ID)
	}
	l, err := ApplyPayment(InvoiceLedger(inv), p)
	if err != nil {
		return inv, err
	}
	next := inv.Clone()
	next.Payments = l.Payments
	return settle(next), nil
}

// RemoveInvoicePayment quita un pago aún no confirmado por el servidor.
func RemoveInvoicePayment(inv entity.Invoice, paymentID string) (entity.Invoice, error) {
	if err := ensureEditable(inv); err != nil {
		return inv, err
	}
	p, ok := lo.Find(inv.Payments, func(x entity.PaymentRecord) bool { return x.ID == paymentID })
	if ok && p.Persisted() {
		return inv, errors.Wrapf(domain.ErrPaymentPersisted, "pago %s", paymentID)
	}
	l, err := RemovePayment(InvoiceLedger(inv), paymentID)
	if err != nil {
		return inv, err
	}
	next := inv.Clone()
	next.Payments = l.Payments
	return settle(next), nil
}

// ValidateForSave verifica las precondiciones de draft → saved (y de saved → saved).
func ValidateForSave(inv entity.Invoice) error {
	if inv.IsSettled() {
		return domain.ErrInvoiceAlreadySettled
	}
	if len(inv.Items) == 0 {
		return domain.MissingField("items")
	}
	if pending := lo.Reject(inv.Payments, func(p entity.PaymentRecord, _ int) bool { return p.Persisted() }); len(pending) > 0 {
		return errors.Wrapf(domain.ErrPendingPayments, "pago %s", pending[0].ID)
	}
	switch {
	case strings.TrimSpace(inv.Seller.Name) == "":
		return domain.MissingField("seller.name")
	case strings.TrimSpace(inv.Buyer.Name) == "":
		return domain.MissingField("buyer.name")
	case strings.TrimSpace(inv.Buyer.Phone) == "":
		return domain.MissingField("buyer.phone")
	}
	for _, it := range inv.Items {
		if err := validateItem(it); err != nil {
			return err
		}
	}
	return nil
}

// MarkSaved registra el consecutivo y el id del servidor tras un envío exitoso.
// Queda saldada solo si los pagos confirmados por el servidor cubren el total.
func MarkSaved(inv entity.Invoice, identifier, remoteID string) (entity.Invoice, error) {
	if inv.IsSettled() {
		return inv, domain.ErrInvoiceAlreadySettled
	}
	if !ValidIdentifier(identifier) {
		return inv, errors.Wrapf(domain.ErrInvalidInput, "consecutivo %q", identifier)
	}
	if remoteID == "" {
		return inv, domain.MissingField("remote_id")
	}
	next := inv.Clone()
	next.Identifier = identifier
	next.RemoteID = remoteID
	next.State = entity.InvoiceStateSaved
	return settleWith(next, lo.Filter(next.Payments, func(p entity.PaymentRecord, _ int) bool { return p.Persisted() })), nil
}

func ensureEditable(inv entity.Invoice) error {
	if inv.IsSettled() {
		return domain.ErrInvoiceAlreadySettled
	}
	return nil
}

func validateItem(it entity.LineItem) error {
	if it.ID == "" {
		return domain.MissingField("item.id")
	}
	if strings.TrimSpace(it.Name) == "" {
		return domain.MissingField("item.name")
	}
	if it.Quantity <= 0 {
		return errors.Wrapf(domain.ErrInvalidAmount, "cantidad %d", it.Quantity)
	}
	if it.UnitRate.IsNegative() {
		return errors.Wrapf(domain.ErrInvalidAmount, "tarifa %s", it.UnitRate.String())
	}
	return nil
}

// reprice valida que el nuevo total no quede por debajo de lo pagado y reevalúa saldada.
func reprice(prev, next entity.Invoice) (entity.Invoice, error) {
	l := InvoiceLedger(next)
	if l.GrandTotal.LessThan(l.TotalPaid) {
		return prev, errors.Wrapf(domain.ErrTotalBelowPaid,
			"total %s, pagado %s", l.GrandTotal.StringFixed(AmountPlaces), l.TotalPaid.StringFixed(AmountPlaces))
	}
	return settle(next), nil
}

func settle(inv entity.Invoice) entity.Invoice {
	return settleWith(inv, inv.Payments)
}

// settleWith evalúa la condición de saldada contando solo los pagos dados.
// Sin nada pagado no se salda aunque el total sea cero.
func settleWith(inv entity.Invoice, payments []entity.PaymentRecord) entity.Invoice {
	if inv.State != entity.InvoiceStateSaved {
		return inv
	}
	l := NewLedger(InvoiceTotals(inv).GrandTotal, payments)
	if l.TotalPaid.IsPositive() && IsSettled(l) {
		inv.State = entity.InvoiceStateSettled
	}
	return inv
}

// SettledBalance aplica la condición de saldada a un saldo informado por el servidor.
func SettledBalance(grandTotal, paid decimal.Decimal) bool {
	return paid.IsPositive() && !paid.LessThan(grandTotal)
}
