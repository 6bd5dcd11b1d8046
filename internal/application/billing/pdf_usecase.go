package billing

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/jhoicas/textil-api/internal/domain"
	dbilling "github.com/jhoicas/textil-api/internal/domain/billing"
	"github.com/jhoicas/textil-api/internal/domain/entity"
)

// PDFUseCase genera el documento descargable de una factura.
// Es una de las pocas operaciones legales sobre una factura saldada.
type PDFUseCase struct {
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{generator: generator}
}

// DownloadInvoicePDF genera el PDF de una factura guardada o saldada.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrInvoiceNotSaved  si la factura sigue en borrador (sin consecutivo).
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, inv entity.Invoice) ([]byte, string, error) {
	if inv.State == entity.InvoiceStateDraft || inv.Identifier == "" {
		return nil, "", domain.ErrInvoiceNotSaved
	}
	totals := dbilling.InvoiceTotals(inv)
	ledger := dbilling.NewLedger(totals.GrandTotal, inv.Payments)

	pdfBytes, err := uc.generator.GenerateInvoicePDF(ctx, inv, totals, ledger)
	if err != nil {
		return nil, "", errors.Wrap(err, "pdf: generar factura")
	}
	return pdfBytes, fmt.Sprintf("invoice_%s.pdf", inv.Identifier), nil
}
