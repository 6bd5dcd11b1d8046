package domain

import "github.com/cockroachdb/errors"

// Errores de dominio generales.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
)

// Errores del motor de facturación y conciliación de pagos.
// Los use cases y handlers los comparan con errors.Is; nunca por texto.
var (
	ErrInvalidAmount            = errors.New("monto inválido")
	ErrExceedsDueAmount         = errors.New("el pago excede el saldo pendiente")
	ErrIdentifierSpaceExhausted = errors.New("rango de consecutivos agotado")
	ErrInvoiceAlreadySettled    = errors.New("la factura ya está saldada")
	ErrMissingRequiredField     = errors.New("falta un campo obligatorio")
	ErrRemoteSubmissionFailed   = errors.New("falló el envío al servidor")

	ErrTotalBelowPaid   = errors.New("el total quedaría por debajo de lo ya pagado")
	ErrPaymentNotFound  = errors.New("pago no encontrado")
	ErrPaymentPersisted = errors.New("el pago ya fue registrado en el servidor")
	ErrInvoiceNotSaved  = errors.New("la factura aún no ha sido guardada")
	ErrRollbackSkipped  = errors.New("el consecutivo avanzó; no se revierte la reserva")
	ErrPendingPayments  = errors.New("la factura tiene pagos sin registrar en el servidor")
)

// MissingField marca ErrMissingRequiredField con el nombre del campo.
func MissingField(field string) error {
	return errors.Wrapf(ErrMissingRequiredField, "%s", field)
}

// RemoteFailure envuelve un error de red o de timeout marcándolo como ErrRemoteSubmissionFailed.
func RemoteFailure(err error, op string) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrapf(err, "%s", op), ErrRemoteSubmissionFailed)
}
