package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceState estado del ciclo de vida de una factura.
type InvoiceState string

// Estados del ciclo de vida.
const (
	InvoiceStateDraft   InvoiceState = "draft"   // editable, sin consecutivo ni envío al servidor
	InvoiceStateSaved   InvoiceState = "saved"   // consecutivo asignado y persistida en el servidor
	InvoiceStateSettled InvoiceState = "settled" // saldo pendiente en cero; solo lectura
)

// Invoice agrupa la factura de venta: partes, líneas, descuento, impuesto y pagos.
// Los totales y el saldo no se almacenan: se derivan con el paquete billing.
type Invoice struct {
	RemoteID   string // id asignado por el servidor (distinto del consecutivo)
	Identifier string // consecutivo legible, ej. "A00042"; vacío en borrador
	State      InvoiceState
	Seller     BillingParty
	Buyer      BillingParty
	Items      []LineItem
	Discount   DiscountSpec
	Tax        TaxSpec
	Payments   []PaymentRecord
	Notes      string
	Date       time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Clone devuelve una copia independiente (los slices no se comparten).
func (inv Invoice) Clone() Invoice {
	out := inv
	out.Items = append([]LineItem(nil), inv.Items...)
	out.Payments = append([]PaymentRecord(nil), inv.Payments...)
	return out
}

// IsSettled indica si la factura está en estado terminal.
func (inv Invoice) IsSettled() bool {
	return inv.State == InvoiceStateSettled
}

// LineItem línea de la factura (tela, rollo, pieza...).
type LineItem struct {
	ID       string
	Name     string
	Quantity int64           // entero positivo
	UnitRate decimal.Decimal // no negativo
	HSNCode  string
	Unit     string // mts, pcs, kg
}

// Amount devuelve cantidad * tarifa.
func (li LineItem) Amount() decimal.Decimal {
	return decimal.NewFromInt(li.Quantity).Mul(li.UnitRate)
}

// TaxSpec impuesto GST aplicado sobre el subtotal después de descuento.
type TaxSpec struct {
	GSTPercentage decimal.Decimal
}
