package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/jhoicas/textil-api/internal/application/dto"
	dbilling "github.com/jhoicas/textil-api/internal/domain/billing"
	"github.com/jhoicas/textil-api/internal/domain/entity"
	"github.com/jhoicas/textil-api/internal/domain/repository"
	"github.com/jhoicas/textil-api/pkg/logger"
	"github.com/jhoicas/textil-api/pkg/validator"
)

// PaymentLogHandler consulta el registro de envíos de pagos (protegido).
type PaymentLogHandler struct {
	repo repository.PaymentOutcomeRepository
	log  *logger.Logger
}

// NewPaymentLogHandler construye el handler.
func NewPaymentLogHandler(repo repository.PaymentOutcomeRepository, log *logger.Logger) *PaymentLogHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PaymentLogHandler{repo: repo, log: log.Component("payment_log_handler")}
}

// List devuelve los intentos de pago de una factura, del más antiguo al más reciente.
// GET /api/invoices/:identifier/payment-outcomes?limit=&offset=
func (h *PaymentLogHandler) List(c *fiber.Ctx) error {
	identifier := c.Params("identifier")
	if !dbilling.ValidIdentifier(identifier) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_IDENTIFIER", Message: "consecutivo inválido: " + identifier})
	}
	var page dto.OutcomePageQuery
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: err.Error()})
	}
	if err := validator.ValidateRequest(page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	outcomes, err := h.repo.ListByInvoice(c.UserContext(), identifier)
	if err != nil {
		h.log.Error().Err(err).Str("identifier", identifier).Msg("listar resultados de pagos")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}

	from, to := page.Window(len(outcomes))
	items := lo.Map(outcomes[from:to], func(o *entity.PaymentOutcome, _ int) dto.PaymentOutcomeResponse {
		return fromOutcome(*o)
	})
	return c.JSON(dto.PaymentOutcomeListResponse{
		Items: items,
		Page:  dto.OutcomePage{Limit: page.Size(), Offset: page.Offset, Total: len(outcomes)},
	})
}
