package billing

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/jhoicas/textil-api/internal/domain"
	dbilling "github.com/jhoicas/textil-api/internal/domain/billing"
	"github.com/jhoicas/textil-api/internal/domain/entity"
	"github.com/jhoicas/textil-api/pkg/logger"
)

// DefaultSubmitTimeout tiempo máximo de un envío al servidor.
const DefaultSubmitTimeout = 20 * time.Second

const rollbackTimeout = 5 * time.Second

// SaveInvoiceUseCase guarda una factura: draft → saved, o saved → saved en edición.
// El envío al servidor es una unidad: o se completa y la factura pasa a saved,
// o falla y se revierte el consecutivo recién reservado.
type SaveInvoiceUseCase struct {
	allocator *Allocator
	remote    RemoteBilling
	timeout   time.Duration
	now       func() time.Time
	log       *logger.Logger
}

// NewSaveInvoiceUseCase construye el caso de uso. timeout <= 0 usa DefaultSubmitTimeout.
func NewSaveInvoiceUseCase(allocator *Allocator, remote RemoteBilling, timeout time.Duration, log *logger.Logger) *SaveInvoiceUseCase {
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SaveInvoiceUseCase{
		allocator: allocator,
		remote:    remote,
		timeout:   timeout,
		now:       time.Now,
		log:       log.Component("save_invoice"),
	}
}

// Save valida, asigna consecutivo si hace falta y envía la factura al servidor.
// Una edición se rechaza si el servidor ya tiene la factura saldada.
// En error devuelve la factura recibida sin cambios.
func (uc *SaveInvoiceUseCase) Save(ctx context.Context, inv entity.Invoice) (entity.Invoice, error) {
	if err := dbilling.ValidateForSave(inv); err != nil {
		return inv, err
	}
	if inv.RemoteID != "" {
		if err := uc.ensureOpen(ctx, inv); err != nil {
			return inv, err
		}
	}

	identifier := inv.Identifier
	var reservation *Reservation
	if identifier == "" {
		r, err := uc.allocator.Reserve(ctx)
		if err != nil {
			return inv, err
		}
		reservation = &r
		identifier = r.Identifier
	}

	candidate := inv.Clone()
	candidate.Identifier = identifier
	candidate.UpdatedAt = uc.now()

	remoteID, err := uc.submit(ctx, candidate)
	if err != nil {
		uc.log.Error().Err(err).Str("identifier", identifier).Msg("envío de factura fallido")
		if reservation != nil {
			uc.rollback(ctx, *reservation)
		}
		return inv, domain.RemoteFailure(err, "guardar factura "+identifier)
	}
	if reservation != nil {
		uc.allocator.Commit(*reservation)
	}

	saved, err := dbilling.MarkSaved(candidate, identifier, remoteID)
	if err != nil {
		return inv, err
	}
	uc.log.Info().
		Str("identifier", identifier).
		Str("remote_id", remoteID).
		Str("state", string(saved.State)).
		Msg("factura guardada")
	return saved, nil
}

// ensureOpen consulta el saldo en el servidor: el cuerpo recibido no es fuente de verdad del estado.
func (uc *SaveInvoiceUseCase) ensureOpen(ctx context.Context, inv entity.Invoice) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	bal, err := uc.remote.GetInvoiceBalance(ctx, inv.RemoteID)
	if err != nil {
		return domain.RemoteFailure(err, "consultar factura "+inv.Identifier)
	}
	if dbilling.SettledBalance(bal.GrandTotal, bal.AmountPaid) {
		uc.log.Warn().
			Str("identifier", inv.Identifier).
			Str("paid", bal.AmountPaid.String()).
			Msg("edición de factura saldada en el servidor")
		return errors.Wrapf(domain.ErrInvoiceAlreadySettled, "factura %s", inv.Identifier)
	}
	return nil
}

// submit crea o actualiza según la factura ya tenga id del servidor.
// Un timeout cuenta como fallo.
func (uc *SaveInvoiceUseCase) submit(ctx context.Context, inv entity.Invoice) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if inv.RemoteID != "" {
		if err := uc.remote.UpdateInvoice(ctx, inv); err != nil {
			return "", err
		}
		return inv.RemoteID, nil
	}
	remoteID, err := uc.remote.CreateInvoice(ctx, inv)
	if err != nil {
		return "", err
	}
	if remoteID == "" {
		return "", errors.New("el servidor no devolvió id de factura")
	}
	return remoteID, nil
}

// rollback revierte la reserva con su propio plazo: el contexto del envío puede estar vencido.
func (uc *SaveInvoiceUseCase) rollback(ctx context.Context, r Reservation) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()

	if err := uc.allocator.Rollback(ctx, r); err != nil {
		uc.log.Warn().Err(err).Str("identifier", r.Identifier).Msg("no se revirtió el consecutivo")
		return
	}
	uc.log.Info().Str("identifier", r.Identifier).Msg("consecutivo revertido")
}
