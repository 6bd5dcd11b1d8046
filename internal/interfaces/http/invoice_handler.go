package http

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	appbilling "github.com/jhoicas/textil-api/internal/application/billing"
	"github.com/jhoicas/textil-api/internal/application/dto"
	"github.com/jhoicas/textil-api/internal/domain"
	"github.com/jhoicas/textil-api/internal/domain/entity"
	"github.com/jhoicas/textil-api/pkg/logger"
	"github.com/jhoicas/textil-api/pkg/validator"
)

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
// El servicio no guarda facturas: cada request trae la factura completa.
type InvoiceHandler struct {
	allocator *appbilling.Allocator
	save      *appbilling.SaveInvoiceUseCase
	payments  *appbilling.SubmitPaymentsUseCase
	pdf       *appbilling.PDFUseCase
	seller    entity.BillingParty
	now       func() time.Time
	log       *logger.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(
	allocator *appbilling.Allocator,
	save *appbilling.SaveInvoiceUseCase,
	payments *appbilling.SubmitPaymentsUseCase,
	pdf *appbilling.PDFUseCase,
	log *logger.Logger,
) *InvoiceHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceHandler{
		allocator: allocator,
		save:      save,
		payments:  payments,
		pdf:       pdf,
		now:       time.Now,
		log:       log.Component("invoice_handler"),
	}
}

// WithDefaultSeller completa los datos del vendedor que no vengan en la factura.
func (h *InvoiceHandler) WithDefaultSeller(seller entity.BillingParty) *InvoiceHandler {
	h.seller = seller
	return h
}

// Quote calcula totales, reparto por línea y saldo sin efectos.
// POST /api/billing/quote
func (h *InvoiceHandler) Quote(c *fiber.Ctx) error {
	inv, err := h.parseInvoice(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fromQuote(appbilling.QuoteInvoice(inv), inv))
}

// PreviewIdentifier muestra el próximo consecutivo sin reservarlo.
// GET /api/billing/identifiers/next
func (h *InvoiceHandler) PreviewIdentifier(c *fiber.Ctx) error {
	next, err := h.allocator.PreviewNext(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.IdentifierPreviewResponse{Next: next})
}

// Save guarda un borrador (asigna consecutivo) o una factura ya guardada (edición).
// POST /api/invoices/save
func (h *InvoiceHandler) Save(c *fiber.Ctx) error {
	inv, err := h.parseInvoice(c)
	if err != nil {
		return h.fail(c, err)
	}
	isNew := inv.Identifier == ""

	saved, err := h.save.Save(c.UserContext(), inv)
	if err != nil {
		return h.fail(c, err)
	}
	h.log.Info().
		Str("user_id", GetUserID(c)).
		Str("company_id", GetCompanyID(c)).
		Str("identifier", saved.Identifier).
		Bool("new", isNew).
		Msg("factura guardada")

	status := fiber.StatusOK
	if isNew {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fromInvoice(saved))
}

// SubmitPayments envía un lote de pagos, uno por uno.
// POST /api/invoices/payments
//
// Si un pago falla la respuesta incluye la factura con los pagos que sí llegaron,
// el resultado por pago y el error.
func (h *InvoiceHandler) SubmitPayments(c *fiber.Ctx) error {
	var in dto.SubmitPaymentsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.ValidateRequest(in); err != nil {
		return h.fail(c, err)
	}
	inv, err := h.toInvoice(in.Invoice)
	if err != nil {
		return h.fail(c, err)
	}
	batch := lo.Map(in.Payments, func(p dto.PaymentRequest, _ int) entity.PaymentRecord { return toPayment(p) })

	res, err := h.payments.Submit(c.UserContext(), inv, batch)
	if res == nil {
		return h.fail(c, err)
	}

	out := dto.SubmitPaymentsResponse{
		Invoice:  fromInvoice(res.Invoice),
		Outcomes: lo.Map(res.Outcomes, func(o entity.PaymentOutcome, _ int) dto.PaymentOutcomeResponse { return fromOutcome(o) }),
	}
	if err == nil {
		return c.JSON(out)
	}
	status, body := h.errorBody(err)
	out.Error = &body
	return c.Status(status).JSON(out)
}

// DownloadPDF genera el PDF de una factura guardada o saldada.
// POST /api/invoices/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	inv, err := h.parseInvoice(c)
	if err != nil {
		return h.fail(c, err)
	}
	data, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), inv)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (h *InvoiceHandler) parseInvoice(c *fiber.Ctx) (entity.Invoice, error) {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return entity.Invoice{}, errors.Mark(errors.Wrap(err, "cuerpo inválido"), errBadBody)
	}
	if err := validator.ValidateRequest(in); err != nil {
		return entity.Invoice{}, err
	}
	return h.toInvoice(in)
}

func (h *InvoiceHandler) toInvoice(in dto.InvoiceRequest) (entity.Invoice, error) {
	in.Seller = withDefaults(in.Seller, h.seller)
	return toInvoice(in, h.now())
}

var errBadBody = errors.New("cuerpo inválido")

type errorMapping struct {
	target error
	status int
	code   string
}

// orden: el primero que coincide gana (RemoteSubmissionFailed antes que los genéricos).
var errorMappings = []errorMapping{
	{errBadBody, fiber.StatusBadRequest, "INVALID_BODY"},
	{domain.ErrRemoteSubmissionFailed, fiber.StatusBadGateway, "REMOTE_SUBMISSION_FAILED"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrMissingRequiredField, fiber.StatusUnprocessableEntity, "MISSING_REQUIRED_FIELD"},
	{domain.ErrInvalidAmount, fiber.StatusUnprocessableEntity, "INVALID_AMOUNT"},
	{domain.ErrExceedsDueAmount, fiber.StatusUnprocessableEntity, "EXCEEDS_DUE_AMOUNT"},
	{domain.ErrTotalBelowPaid, fiber.StatusUnprocessableEntity, "TOTAL_BELOW_PAID"},
	{domain.ErrInvoiceAlreadySettled, fiber.StatusConflict, "INVOICE_ALREADY_SETTLED"},
	{domain.ErrInvoiceNotSaved, fiber.StatusConflict, "INVOICE_NOT_SAVED"},
	{domain.ErrPaymentPersisted, fiber.StatusConflict, "PAYMENT_PERSISTED"},
	{domain.ErrPendingPayments, fiber.StatusConflict, "PENDING_PAYMENTS"},
	{domain.ErrIdentifierSpaceExhausted, fiber.StatusConflict, "IDENTIFIER_SPACE_EXHAUSTED"},
	{domain.ErrPaymentNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
}

func (h *InvoiceHandler) errorBody(err error) (int, dto.ErrorResponse) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, dto.ErrorResponse{Code: m.code, Message: err.Error()}
		}
	}
	h.log.Error().Err(err).Msg("error no mapeado")
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

func (h *InvoiceHandler) fail(c *fiber.Ctx, err error) error {
	status, body := h.errorBody(err)
	return c.Status(status).JSON(body)
}
