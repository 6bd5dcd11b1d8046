package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbilling "github.com/jhoicas/textil-api/internal/domain/billing"
	"github.com/jhoicas/textil-api/internal/domain/entity"
	"github.com/jhoicas/textil-api/internal/infrastructure/pdf"
)

func savedInvoice(t *testing.T) entity.Invoice {
	t.Helper()
	inv := dbilling.NewDraft(
		entity.BillingParty{Name: "Shree Textiles", GSTIN: "24AAAAA0000A1Z5", State: "Gujarat"},
		entity.BillingParty{Name: "Mehta Fabrics", Phone: "9800000002", State: "Maharashtra"},
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	)
	inv, err := dbilling.AddItem(inv, entity.LineItem{ID: "1", Name: "Rayon 60in", Quantity: 2, UnitRate: decimal.NewFromInt(100), HSNCode: "5408", Unit: "m"})
	require.NoError(t, err)
	inv, err = dbilling.SetDiscount(inv, entity.PercentDiscount(decimal.NewFromInt(10)))
	require.NoError(t, err)
	inv, err = dbilling.SetTax(inv, entity.TaxSpec{GSTPercentage: decimal.NewFromInt(5)})
	require.NoError(t, err)
	inv, err = dbilling.MarkSaved(inv, "A00012", "srv-12")
	require.NoError(t, err)
	return inv
}

func TestGenerateInvoicePDF_ConSaldoYQR(t *testing.T) {
	inv := savedInvoice(t)
	inv, err := dbilling.ApplyInvoicePayment(inv, entity.PaymentRecord{
		ID: "p1", Amount: decimal.NewFromInt(50), Method: entity.PaymentUPI, Reference: "UTR123",
		PaidAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	gen := pdf.NewMarotoPDFGenerator(pdf.Options{UPIID: "shree@upi"})
	data, err := gen.GenerateInvoicePDF(context.Background(), inv, dbilling.InvoiceTotals(inv), dbilling.InvoiceLedger(inv))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestGenerateInvoicePDF_Saldada(t *testing.T) {
	inv, err := dbilling.ApplyInvoicePayment(savedInvoice(t), entity.PaymentRecord{
		ID: "p1", Amount: decimal.NewFromInt(189), Method: entity.PaymentCash,
	})
	require.NoError(t, err)
	require.True(t, inv.IsSettled())

	data, err := pdf.NewMarotoPDFGenerator(pdf.Options{}).
		GenerateInvoicePDF(context.Background(), inv, dbilling.InvoiceTotals(inv), dbilling.InvoiceLedger(inv))
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
