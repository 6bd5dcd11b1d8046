package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartyRequest vendedor o comprador.
type PartyRequest struct {
	Name    string `json:"name" validate:"max=200"`
	GSTIN   string `json:"gstin,omitempty" validate:"omitempty,gstin"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address string `json:"address,omitempty" validate:"max=500"`
	State   string `json:"state,omitempty" validate:"max=100"`
}

// LineItemRequest línea de factura. La cantidad es entera (piezas, metros enteros).
type LineItemRequest struct {
	ID       string          `json:"id" validate:"required,max=64"`
	Name     string          `json:"name" validate:"required,max=200"`
	Quantity int64           `json:"quantity" validate:"gt=0"`
	Rate     decimal.Decimal `json:"rate" validate:"gte=0"`
	HSNCode  string          `json:"hsn_code,omitempty" validate:"omitempty,numeric,min=4,max=8"`
	Unit     string          `json:"unit,omitempty" validate:"max=16"`
}

// DiscountRequest descuento de la factura. Se conservan ambos valores al cambiar de modo.
type DiscountRequest struct {
	Mode    string          `json:"mode" validate:"discount_mode"`
	Percent decimal.Decimal `json:"percent" validate:"gte=0"`
	Fixed   decimal.Decimal `json:"fixed" validate:"gte=0"`
}

// PaymentRequest pago. RemoteID presente = ya confirmado por el servidor.
type PaymentRequest struct {
	ID        string          `json:"id,omitempty" validate:"max=64"`
	RemoteID  string          `json:"remote_id,omitempty"`
	Amount    decimal.Decimal `json:"amount" validate:"gt=0"`
	Method    string          `json:"method" validate:"payment_method"`
	Reference string          `json:"reference,omitempty" validate:"max=100"`
	Note      string          `json:"note,omitempty" validate:"max=500"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
}

// InvoiceRequest factura completa tal como la tiene el cliente.
// Sin identifier es un borrador; con identifier y remote_id está guardada.
type InvoiceRequest struct {
	Identifier    string            `json:"identifier,omitempty" validate:"omitempty,identifier"`
	RemoteID      string            `json:"remote_id,omitempty" validate:"required_with=Identifier"`
	Date          *time.Time        `json:"date,omitempty"`
	Seller        PartyRequest      `json:"seller"`
	Buyer         PartyRequest      `json:"buyer"`
	Items         []LineItemRequest `json:"items" validate:"max=500,dive"`
	Discount      DiscountRequest   `json:"discount"`
	GSTPercentage decimal.Decimal   `json:"gst_percentage" validate:"gte=0,lte=100"`
	Payments      []PaymentRequest  `json:"payments,omitempty" validate:"max=100,dive"`
	Notes         string            `json:"notes,omitempty" validate:"max=1000"`
}

// SubmitPaymentsRequest body para POST /api/invoices/payments.
type SubmitPaymentsRequest struct {
	Invoice  InvoiceRequest   `json:"invoice"`
	Payments []PaymentRequest `json:"payments" validate:"required,min=1,max=20,dive"`
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// TotalsResponse totales de la factura.
type TotalsResponse struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	CGST           decimal.Decimal `json:"cgst"`
	SGST           decimal.Decimal `json:"sgst"`
	IGST           decimal.Decimal `json:"igst"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

// LineTotalsResponse reparto por línea.
type LineTotalsResponse struct {
	ItemID   string          `json:"item_id"`
	Gross    decimal.Decimal `json:"gross"`
	Discount decimal.Decimal `json:"discount"`
	Net      decimal.Decimal `json:"net"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// LedgerResponse libro de pagos.
type LedgerResponse struct {
	GrandTotal decimal.Decimal   `json:"grand_total"`
	TotalPaid  decimal.Decimal   `json:"total_paid"`
	DueAmount  decimal.Decimal   `json:"due_amount"`
	Payments   []PaymentResponse `json:"payments"`
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID        string          `json:"id"`
	RemoteID  string          `json:"remote_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	Note      string          `json:"note,omitempty"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
}

// QuoteResponse respuesta de POST /api/billing/quote.
type QuoteResponse struct {
	Totals  TotalsResponse       `json:"totals"`
	Lines   []LineTotalsResponse `json:"lines"`
	Ledger  LedgerResponse       `json:"ledger"`
	Settled bool                 `json:"settled"`
}

// InvoiceResponse factura con sus cálculos.
type InvoiceResponse struct {
	Identifier    string            `json:"identifier,omitempty"`
	RemoteID      string            `json:"remote_id,omitempty"`
	State         string            `json:"state"`
	Date          time.Time         `json:"date"`
	Seller        PartyRequest      `json:"seller"`
	Buyer         PartyRequest      `json:"buyer"`
	Items         []LineItemRequest `json:"items"`
	Discount      DiscountRequest   `json:"discount"`
	GSTPercentage decimal.Decimal   `json:"gst_percentage"`
	Notes         string            `json:"notes,omitempty"`
	Totals        TotalsResponse    `json:"totals"`
	Ledger        LedgerResponse    `json:"ledger"`
}

// PaymentOutcomeResponse resultado individual de un pago del lote.
type PaymentOutcomeResponse struct {
	PaymentID       string          `json:"payment_id"`
	PaymentRemoteID string          `json:"payment_remote_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Method          string          `json:"method"`
	Status          string          `json:"status"`
	Error           string          `json:"error,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PaymentOutcomeListResponse registro de envíos de pagos de una factura.
type PaymentOutcomeListResponse struct {
	Items []PaymentOutcomeResponse `json:"items"`
	Page  OutcomePage              `json:"page"`
}

// SubmitPaymentsResponse factura con los pagos que llegaron más el detalle por pago.
// Con Error presente el lote se detuvo en el primer fallo.
type SubmitPaymentsResponse struct {
	Invoice  InvoiceResponse          `json:"invoice"`
	Outcomes []PaymentOutcomeResponse `json:"outcomes"`
	Error    *ErrorResponse           `json:"error,omitempty"`
}

// IdentifierPreviewResponse respuesta de GET /api/billing/identifiers/next.
type IdentifierPreviewResponse struct {
	Next string `json:"next"`
}
