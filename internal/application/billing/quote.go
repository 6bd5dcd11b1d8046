package billing

import (
	dbilling "github.com/jhoicas/textil-api/internal/domain/billing"
	"github.com/jhoicas/textil-api/internal/domain/entity"
)

// Quote vista calculada de una factura para la pantalla de edición.
type Quote struct {
	Totals  dbilling.Totals
	Lines   []dbilling.ItemTotals
	Ledger  dbilling.Ledger
	Settled bool
}

// QuoteInvoice calcula totales, reparto por línea y libro sin efectos secundarios.
func QuoteInvoice(inv entity.Invoice) Quote {
	totals := dbilling.InvoiceTotals(inv)
	ledger := dbilling.NewLedger(totals.GrandTotal, inv.Payments)
	return Quote{
		Totals:  totals,
		Lines:   dbilling.ItemBreakdown(inv.Items, inv.Discount, inv.Tax),
		Ledger:  ledger,
		Settled: dbilling.IsSettled(ledger),
	}
}
