package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/textil-api/internal/domain"
	"github.com/jhoicas/textil-api/internal/domain/billing"
	"github.com/jhoicas/textil-api/internal/domain/entity"
)

var (
	testSeller = entity.BillingParty{Name: "Shree Textiles", GSTIN: "24AAACS1234F1Z5", Phone: "9800000001"}
	testBuyer  = entity.BillingParty{Name: "Mehta Fabrics", Phone: "9800000002"}
	testNow    = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
)

// draft189 2 x 100, 10% de descuento y 5% de GST: total 189.
func draft189(t *testing.T) entity.Invoice {
	t.Helper()
	inv := billing.NewDraft(testSeller, testBuyer, testNow)
	inv, err := billing.AddItem(inv, item("1", 2, "100"))
	require.NoError(t, err)
	inv, err = billing.SetDiscount(inv, entity.PercentDiscount(dec("10")))
	require.NoError(t, err)
	inv, err = billing.SetTax(inv, gst("5"))
	require.NoError(t, err)
	return inv
}

func saved189(t *testing.T) entity.Invoice {
	t.Helper()
	inv, err := billing.MarkSaved(draft189(t), "A00007", "srv-1")
	require.NoError(t, err)
	require.Equal(t, entity.InvoiceStateSaved, inv.State)
	return inv
}

// ── draft ─────────────────────────────────────────────────────────────────────

func TestNewDraft_SinConsecutivo(t *testing.T) {
	inv := billing.NewDraft(testSeller, testBuyer, testNow)
	assert.Equal(t, entity.InvoiceStateDraft, inv.State)
	assert.Empty(t, inv.Identifier)
	assert.True(t, billing.InvoiceTotals(inv).GrandTotal.IsZero())
}

func TestAddItem_ValidaLinea(t *testing.T) {
	inv := billing.NewDraft(testSeller, testBuyer, testNow)

	_, err := billing.AddItem(inv, item("1", 0, "10"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = billing.AddItem(inv, item("1", 1, "-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = billing.AddItem(inv, entity.LineItem{ID: "1", Quantity: 1, UnitRate: dec("1")})
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	inv, err = billing.AddItem(inv, item("1", 1, "10"))
	require.NoError(t, err)
	_, err = billing.AddItem(inv, item("1", 1, "10"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "id duplicado")
}

func TestAddItem_NoModificaLaOriginal(t *testing.T) {
	inv := billing.NewDraft(testSeller, testBuyer, testNow)
	_, err := billing.AddItem(inv, item("1", 1, "10"))
	require.NoError(t, err)
	assert.Empty(t, inv.Items)
}

func TestUpdateItemRateYRemoveItem(t *testing.T) {
	inv := draft189(t)

	inv, err := billing.UpdateItemRate(inv, "1", dec("50"))
	require.NoError(t, err)
	assertDecimal(t, "94.5", billing.InvoiceTotals(inv).GrandTotal, "2x50 -10% +5%")

	_, err = billing.UpdateItemRate(inv, "nope", dec("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	inv, err = billing.RemoveItem(inv, "1")
	require.NoError(t, err)
	assert.Empty(t, inv.Items)
}

func TestSwitchDiscountMode_ConservaAmbosValores(t *testing.T) {
	inv := draft189(t)
	inv, err := billing.SetDiscount(inv, entity.DiscountSpec{Mode: entity.DiscountPercent, Percent: dec("10"), Fixed: dec("30")})
	require.NoError(t, err)

	inv, err = billing.SwitchDiscountMode(inv, entity.DiscountFixed)
	require.NoError(t, err)
	assertDecimal(t, "30", billing.InvoiceTotals(inv).DiscountAmount, "fijo activo")
	assertDecimal(t, "10", inv.Discount.Percent, "porcentaje conservado")

	inv, err = billing.SwitchDiscountMode(inv, entity.DiscountPercent)
	require.NoError(t, err)
	assertDecimal(t, "20", billing.InvoiceTotals(inv).DiscountAmount, "porcentaje activo")
	assertDecimal(t, "30", inv.Discount.Fixed, "fijo conservado")

	_, err = billing.SwitchDiscountMode(inv, "bogus")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDraft_PagoLocalNoSaldaAlGuardar(t *testing.T) {
	inv, err := billing.ApplyInvoicePayment(draft189(t), payment("p1", "189"))
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStateDraft, inv.State)

	assert.ErrorIs(t, billing.ValidateForSave(inv), domain.ErrPendingPayments)

	inv, err = billing.MarkSaved(inv, "A00001", "srv-9")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStateSaved, inv.State, "un pago sin confirmar no salda")
}

func TestMarkSaved_PagosConfirmadosQueCubrenElTotalSaldan(t *testing.T) {
	p := payment("p1", "189")
	p.RemoteID = "srv-pay-1"
	inv, err := billing.ApplyInvoicePayment(draft189(t), p)
	require.NoError(t, err)
	require.NoError(t, billing.ValidateForSave(inv))

	inv, err = billing.MarkSaved(inv, "A00001", "srv-9")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStateSettled, inv.State)
}

// ── validación para guardar ───────────────────────────────────────────────────

func TestValidateForSave_CamposObligatorios(t *testing.T) {
	empty := billing.NewDraft(testSeller, testBuyer, testNow)
	assert.ErrorIs(t, billing.ValidateForSave(empty), domain.ErrMissingRequiredField)

	inv := draft189(t)
	require.NoError(t, billing.ValidateForSave(inv))

	noBuyer, err := billing.SetParties(inv, testSeller, entity.BillingParty{Phone: "1"})
	require.NoError(t, err)
	assert.ErrorIs(t, billing.ValidateForSave(noBuyer), domain.ErrMissingRequiredField)

	noPhone, err := billing.SetParties(inv, testSeller, entity.BillingParty{Name: "X"})
	require.NoError(t, err)
	assert.ErrorIs(t, billing.ValidateForSave(noPhone), domain.ErrMissingRequiredField)
}

func TestMarkSaved_ValidaConsecutivo(t *testing.T) {
	_, err := billing.MarkSaved(draft189(t), "A1", "srv")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = billing.MarkSaved(draft189(t), "A00001", "")
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
}

// ── saved → settled ───────────────────────────────────────────────────────────

// un pago por el total en una sola llamada salda la factura
func TestApplyInvoicePayment_SaldaAutomaticamente(t *testing.T) {
	inv, err := billing.ApplyInvoicePayment(saved189(t), payment("p1", "189"))
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStateSettled, inv.State)
	assert.True(t, billing.InvoiceLedger(inv).DueAmount.IsZero())
}

func TestApplyInvoicePayment_ParcialSigueGuardada(t *testing.T) {
	inv, err := billing.ApplyInvoicePayment(saved189(t), payment("p1", "100"))
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStateSaved, inv.State)
	assertDecimal(t, "89", billing.InvoiceLedger(inv).DueAmount, "saldo")

	_, err = billing.ApplyInvoicePayment(inv, payment("p1", "1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "id de pago duplicado")
}

func TestSettled_BloqueaMutaciones(t *testing.T) {
	inv, err := billing.ApplyInvoicePayment(saved189(t), payment("p1", "189"))
	require.NoError(t, err)
	require.True(t, inv.IsSettled())

	_, err = billing.RemoveInvoicePayment(inv, "p1")
	assert.ErrorIs(t, err, domain.ErrInvoiceAlreadySettled)

	_, err = billing.AddItem(inv, item("2", 1, "1"))
	assert.ErrorIs(t, err, domain.ErrInvoiceAlreadySettled)

	_, err = billing.UpdateItemRate(inv, "1", dec("1"))
	assert.ErrorIs(t, err, domain.ErrInvoiceAlreadySettled)

	_, err = billing.RemoveItem(inv, "1")
	assert.ErrorIs(t, err, domain.ErrInvoiceAlreadySettled)

	_, err = billing.SetDiscount(inv, entity.FixedDiscount(dec("1")))
	assert.ErrorIs(t, err, domain.ErrInvoiceAlreadySettled)

	_, err = billing.SetTax(inv, gst("12"))
	assert.ErrorIs(t, err, domain.ErrInvoiceAlreadySettled)

	_, err = billing.SetParties(inv, testSeller, testBuyer)
	assert.ErrorIs(t, err, domain.ErrInvoiceAlreadySettled)

	_, err = billing.ApplyInvoicePayment(inv, payment("p2", "1"))
	assert.ErrorIs(t, err, domain.ErrInvoiceAlreadySettled)

	assert.ErrorIs(t, billing.ValidateForSave(inv), domain.ErrInvoiceAlreadySettled)
}

func TestEdicion_NoPuedeBajarDeLoPagado(t *testing.T) {
	inv, err := billing.ApplyInvoicePayment(saved189(t), payment("p1", "150"))
	require.NoError(t, err)

	_, err = billing.UpdateItemRate(inv, "1", dec("10"))
	assert.ErrorIs(t, err, domain.ErrTotalBelowPaid)

	_, err = billing.SetDiscount(inv, entity.FixedDiscount(dec("100")))
	assert.ErrorIs(t, err, domain.ErrTotalBelowPaid)
}

func TestEdicion_QueIgualaLoPagadoSalda(t *testing.T) {
	inv, err := billing.ApplyInvoicePayment(saved189(t), payment("p1", "94.5"))
	require.NoError(t, err)

	inv, err = billing.UpdateItemRate(inv, "1", dec("50"))
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStateSettled, inv.State)
}

func TestEdicion_SinPagosNoSalda(t *testing.T) {
	inv, err := billing.UpdateItemRate(saved189(t), "1", dec("0"))
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStateSaved, inv.State)
	assert.True(t, billing.InvoiceLedger(inv).DueAmount.IsZero())

	inv, err = billing.UpdateItemRate(inv, "1", dec("80"))
	require.NoError(t, err, "sigue editable")
	assertDecimal(t, "151.2", billing.InvoiceTotals(inv).GrandTotal, "2x80 -10% +5%")
}

func TestRemoveItem_UltimaLineaDeGuardadaSeRechaza(t *testing.T) {
	inv := saved189(t)

	got, err := billing.RemoveItem(inv, "1")
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
	assert.Equal(t, entity.InvoiceStateSaved, got.State)
	assert.Len(t, got.Items, 1)

	inv, err = billing.AddItem(inv, item("2", 1, "50"))
	require.NoError(t, err)
	inv, err = billing.RemoveItem(inv, "1")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStateSaved, inv.State)
}

func TestSettledBalance(t *testing.T) {
	assert.True(t, billing.SettledBalance(dec("189"), dec("189")))
	assert.False(t, billing.SettledBalance(dec("189"), dec("100")))
	assert.False(t, billing.SettledBalance(dec("0"), dec("0")), "sin pagos no hay saldada")
}

func TestRemoveInvoicePayment_PagoConfirmadoEsInmutable(t *testing.T) {
	p := payment("p1", "50")
	p.RemoteID = "srv-pay-1"
	inv, err := billing.ApplyInvoicePayment(saved189(t), p)
	require.NoError(t, err)

	_, err = billing.RemoveInvoicePayment(inv, "p1")
	assert.ErrorIs(t, err, domain.ErrPaymentPersisted)

	inv, err = billing.ApplyInvoicePayment(inv, payment("p2", "20"))
	require.NoError(t, err)
	inv, err = billing.RemoveInvoicePayment(inv, "p2")
	require.NoError(t, err)
	assertDecimal(t, "139", billing.InvoiceLedger(inv).DueAmount, "saldo")

	_, err = billing.RemoveInvoicePayment(inv, "nope")
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}
