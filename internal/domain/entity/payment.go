package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago.
type PaymentMethod string

// Medios de pago aceptados.
const (
	PaymentCash         PaymentMethod = "cash"
	PaymentUPI          PaymentMethod = "upi"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCheque       PaymentMethod = "cheque"
	PaymentCard         PaymentMethod = "card"
	PaymentCreditNote   PaymentMethod = "credit_note"
)

// Valid indica si el medio de pago es conocido.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentUPI, PaymentBankTransfer, PaymentCheque, PaymentCard, PaymentCreditNote:
		return true
	}
	return false
}

// PaymentRecord abono aplicado a una factura.
// Una vez confirmado por el servidor (RemoteID != "") es inmutable.
type PaymentRecord struct {
	ID        string
	RemoteID  string
	Amount    decimal.Decimal
	Method    PaymentMethod
	Reference string // número de cheque, UTR, etc.
	Note      string
	PaidAt    time.Time
}

// Persisted indica si el servidor ya confirmó el pago.
func (p PaymentRecord) Persisted() bool {
	return p.RemoteID != ""
}

// PaymentStatus resultado del envío de un pago al servidor.
type PaymentStatus string

const (
	PaymentStatusCommitted PaymentStatus = "committed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRejected  PaymentStatus = "rejected" // validación local, nunca salió a la red
	PaymentStatusSkipped   PaymentStatus = "skipped"  // no se intentó porque uno anterior falló
)

// PaymentOutcome registro individual de cada intento de envío de pago.
type PaymentOutcome struct {
	ID                string
	InvoiceIdentifier string
	InvoiceRemoteID   string
	PaymentID         string
	PaymentRemoteID   string
	Amount            decimal.Decimal
	Method            PaymentMethod
	Status            PaymentStatus
	Error             string
	CreatedAt         time.Time
}
