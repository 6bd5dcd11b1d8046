package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/textil-api/pkg/jwt"
)

// Pinger comprueba que el backend remoto responde.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Invoices   *InvoiceHandler
	PaymentLog *PaymentLogHandler
	Remote     Pinger
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", Health(deps.Remote))

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(jwt.RoleOwner, jwt.RoleSales, jwt.RoleAccountant)

	// Cálculos sin efectos
	billingGroup := api.Group("/billing", anyRole)
	billingGroup.Post("/quote", deps.Invoices.Quote)
	billingGroup.Get("/identifiers/next", deps.Invoices.PreviewIdentifier)

	// Facturas
	invoices := api.Group("/invoices")
	invoices.Post("/save", RequireRole(jwt.RoleOwner, jwt.RoleSales), deps.Invoices.Save)
	invoices.Post("/payments", RequireRole(jwt.RoleOwner, jwt.RoleAccountant), deps.Invoices.SubmitPayments)
	invoices.Post("/pdf", anyRole, deps.Invoices.DownloadPDF)
	if deps.PaymentLog != nil {
		invoices.Get("/:identifier/payment-outcomes", RequireRole(jwt.RoleOwner, jwt.RoleAccountant), deps.PaymentLog.List)
	}
}

// Health responde ok; con ?deep=true también consulta el backend remoto.
func Health(remote Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if remote == nil || !c.QueryBool("deep") {
			return c.JSON(fiber.Map{"status": "ok"})
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()
		if err := remote.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "remote": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok", "remote": "ok"})
	}
}
