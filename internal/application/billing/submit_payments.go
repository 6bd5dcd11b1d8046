package billing

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/textil-api/internal/domain"
	dbilling "github.com/jhoicas/textil-api/internal/domain/billing"
	"github.com/jhoicas/textil-api/internal/domain/entity"
	"github.com/jhoicas/textil-api/internal/domain/repository"
	"github.com/jhoicas/textil-api/pkg/logger"
)

// PaymentSubmission resultado de un lote: la factura refleja sólo los pagos confirmados.
type PaymentSubmission struct {
	Invoice  entity.Invoice
	Outcomes []entity.PaymentOutcome
}

// SubmitPaymentsUseCase envía varios pagos como requests secuenciales independientes.
//
// El lote no es atómico: cada pago se valida contra el libro vigente, se envía y
// se registra por separado. El primer fallo detiene el lote; los pagos anteriores
// quedan confirmados y los siguientes se marcan como skipped.
type SubmitPaymentsUseCase struct {
	remote   RemoteBilling
	outcomes repository.PaymentOutcomeRepository
	timeout  time.Duration
	now      func() time.Time
	log      *logger.Logger
}

// NewSubmitPaymentsUseCase construye el caso de uso. outcomes puede ser nil.
func NewSubmitPaymentsUseCase(remote RemoteBilling, outcomes repository.PaymentOutcomeRepository, timeout time.Duration, log *logger.Logger) *SubmitPaymentsUseCase {
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SubmitPaymentsUseCase{
		remote:   remote,
		outcomes: outcomes,
		timeout:  timeout,
		now:      time.Now,
		log:      log.Component("submit_payments"),
	}
}

// Submit envía los pagos en orden. Si alguno falla devuelve el resultado parcial
// junto con el error (ErrRemoteSubmissionFailed o la validación local).
func (uc *SubmitPaymentsUseCase) Submit(ctx context.Context, inv entity.Invoice, payments []entity.PaymentRecord) (*PaymentSubmission, error) {
	if inv.IsSettled() {
		return nil, domain.ErrInvoiceAlreadySettled
	}
	if inv.State != entity.InvoiceStateSaved || inv.RemoteID == "" {
		return nil, domain.ErrInvoiceNotSaved
	}
	if len(payments) == 0 {
		return nil, domain.MissingField("payments")
	}

	current := inv
	result := &PaymentSubmission{Outcomes: make([]entity.PaymentOutcome, 0, len(payments))}
	var failure error

	for _, p := range payments {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.PaidAt.IsZero() {
			p.PaidAt = uc.now()
		}
		if failure != nil {
			result.Outcomes = append(result.Outcomes, uc.record(ctx, current, p, entity.PaymentStatusSkipped, nil))
			continue
		}

		// validar antes de salir a la red: nunca se envía un pago que el libro rechazaría
		if _, err := dbilling.ApplyInvoicePayment(current, p); err != nil {
			failure = err
			result.Outcomes = append(result.Outcomes, uc.record(ctx, current, p, entity.PaymentStatusRejected, err))
			continue
		}

		remoteID, err := uc.post(ctx, current.RemoteID, p)
		if err != nil {
			failure = domain.RemoteFailure(err, "registrar pago "+p.ID)
			uc.log.Error().Err(err).Str("identifier", current.Identifier).Str("payment_id", p.ID).Msg("pago no registrado")
			result.Outcomes = append(result.Outcomes, uc.record(ctx, current, p, entity.PaymentStatusFailed, err))
			continue
		}

		p.RemoteID = remoteID
		next, err := dbilling.ApplyInvoicePayment(current, p)
		if err != nil {
			// el servidor aceptó un pago que el libro local ya validó; no debería ocurrir
			return nil, errors.Wrapf(err, "aplicar pago confirmado %s", p.ID)
		}
		current = next
		result.Outcomes = append(result.Outcomes, uc.record(ctx, current, p, entity.PaymentStatusCommitted, nil))
	}

	result.Invoice = current
	uc.log.Info().
		Str("identifier", current.Identifier).
		Int("requested", len(payments)).
		Int("committed", lo.CountBy(result.Outcomes, func(o entity.PaymentOutcome) bool {
			return o.Status == entity.PaymentStatusCommitted
		})).
		Str("state", string(current.State)).
		Msg("lote de pagos procesado")
	return result, failure
}

func (uc *SubmitPaymentsUseCase) post(ctx context.Context, invoiceRemoteID string, p entity.PaymentRecord) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	remoteID, err := uc.remote.CreatePayment(ctx, invoiceRemoteID, p)
	if err != nil {
		return "", err
	}
	if remoteID == "" {
		return "", errors.New("el servidor no devolvió id de pago")
	}
	return remoteID, nil
}

// record guarda el resultado individual. Un fallo al registrar no cambia el resultado del pago.
func (uc *SubmitPaymentsUseCase) record(ctx context.Context, inv entity.Invoice, p entity.PaymentRecord, status entity.PaymentStatus, cause error) entity.PaymentOutcome {
	o := entity.PaymentOutcome{
		ID:                uuid.New().String(),
		InvoiceIdentifier: inv.Identifier,
		InvoiceRemoteID:   inv.RemoteID,
		PaymentID:         p.ID,
		PaymentRemoteID:   p.RemoteID,
		Amount:            p.Amount,
		Method:            p.Method,
		Status:            status,
		CreatedAt:         uc.now(),
	}
	if cause != nil {
		o.Error = cause.Error()
	}
	if uc.outcomes != nil {
		if err := uc.outcomes.Record(context.WithoutCancel(ctx), &o); err != nil {
			uc.log.Warn().Err(err).Str("payment_id", p.ID).Msg("no se registró el resultado del pago")
		}
	}
	return o
}
