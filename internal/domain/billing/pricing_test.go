package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/textil-api/internal/domain/billing"
	"github.com/jhoicas/textil-api/internal/domain/entity"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: esperado %s, obtenido %s", msg, want, got.String())
}

func item(id string, qty int64, rate string) entity.LineItem {
	return entity.LineItem{ID: id, Name: "Tela " + id, Quantity: qty, UnitRate: dec(rate)}
}

func gst(p string) entity.TaxSpec {
	return entity.TaxSpec{GSTPercentage: dec(p)}
}

// ── ComputeTotals ─────────────────────────────────────────────────────────────

// 2 x 100, descuento 10 %, GST 5 % → 200 / 20 / 180 / 9 / 189.
func TestComputeTotals_PorcentajeConGST(t *testing.T) {
	totals := billing.ComputeTotals(
		[]entity.LineItem{item("1", 2, "100")},
		entity.PercentDiscount(dec("10")),
		gst("5"),
	)

	assertDecimal(t, "200", totals.Subtotal, "subtotal")
	assertDecimal(t, "20", totals.DiscountAmount, "descuento")
	assertDecimal(t, "180", totals.TaxableAmount, "base gravable")
	assertDecimal(t, "9", totals.TaxAmount, "impuesto")
	assertDecimal(t, "189", totals.GrandTotal, "total")
}

func TestComputeTotals_DescuentoFijoSeLimitaAlSubtotal(t *testing.T) {
	totals := billing.ComputeTotals(
		[]entity.LineItem{item("1", 2, "100")},
		entity.FixedDiscount(dec("500")),
		gst("12"),
	)

	assertDecimal(t, "200", totals.DiscountAmount, "descuento limitado")
	assertDecimal(t, "0", totals.TaxAmount, "sin base gravable")
	assertDecimal(t, "0", totals.GrandTotal, "total")
}

func TestComputeTotals_PorcentajeMayorA100SeLimita(t *testing.T) {
	totals := billing.ComputeTotals(
		[]entity.LineItem{item("1", 4, "50")},
		entity.PercentDiscount(dec("150")),
		gst("5"),
	)

	assertDecimal(t, "200", totals.DiscountAmount, "descuento al 100 %")
	assertDecimal(t, "0", totals.GrandTotal, "total nunca negativo")
}

func TestComputeTotals_EntradasNegativasCuentanComoCero(t *testing.T) {
	totals := billing.ComputeTotals(
		[]entity.LineItem{item("1", -3, "100"), item("2", 1, "-20"), item("3", 1, "10")},
		entity.FixedDiscount(dec("-5")),
		gst("-18"),
	)

	assertDecimal(t, "10", totals.Subtotal, "solo la línea válida")
	assertDecimal(t, "0", totals.DiscountAmount, "descuento negativo")
	assertDecimal(t, "0", totals.TaxAmount, "GST negativo")
	assertDecimal(t, "10", totals.GrandTotal, "total")
}

func TestComputeTotals_RedondeoAPaisa(t *testing.T) {
	totals := billing.ComputeTotals(
		[]entity.LineItem{item("1", 1, "33.33")},
		entity.PercentDiscount(dec("10")),
		gst("5"),
	)

	assertDecimal(t, "3.33", totals.DiscountAmount, "3.333 → 3.33")
	assertDecimal(t, "30", totals.TaxableAmount, "base")
	assertDecimal(t, "1.5", totals.TaxAmount, "impuesto")
	assertDecimal(t, "31.5", totals.GrandTotal, "total")
}

func TestComputeTotals_SinLineas(t *testing.T) {
	totals := billing.ComputeTotals(nil, entity.FixedDiscount(dec("10")), gst("5"))
	assert.True(t, totals.GrandTotal.IsZero())
	assert.True(t, totals.DiscountAmount.IsZero())
}

// total = subtotal - descuento + impuesto, exacto, para combinaciones variadas.
func TestComputeTotals_ConciliacionExacta(t *testing.T) {
	itemSets := [][]entity.LineItem{
		{item("1", 1, "0.01")},
		{item("1", 7, "123.45"), item("2", 3, "9.99")},
		{item("1", 12, "1049.5"), item("2", 1, "0"), item("3", 250, "3.333")},
	}
	discounts := []entity.DiscountSpec{
		entity.PercentDiscount(dec("0")),
		entity.PercentDiscount(dec("7.5")),
		entity.PercentDiscount(dec("100")),
		entity.FixedDiscount(dec("0")),
		entity.FixedDiscount(dec("17.77")),
		entity.FixedDiscount(dec("999999")),
	}
	taxes := []entity.TaxSpec{gst("0"), gst("5"), gst("12"), gst("18"), gst("28")}

	for _, items := range itemSets {
		for _, d := range discounts {
			for _, tx := range taxes {
				got := billing.ComputeTotals(items, d, tx)
				want := got.Subtotal.Sub(got.DiscountAmount).Add(got.TaxAmount)
				require.True(t, want.Equal(got.GrandTotal), "total %s != %s", got.GrandTotal, want)
				require.False(t, got.DiscountAmount.IsNegative())
				require.False(t, got.TaxAmount.IsNegative())
				require.True(t, got.DiscountAmount.LessThanOrEqual(got.Subtotal))
			}
		}
	}
}

func TestComputeTotals_Determinista(t *testing.T) {
	items := []entity.LineItem{item("1", 3, "77.77"), item("2", 2, "12.5")}
	a := billing.ComputeTotals(items, entity.PercentDiscount(dec("3.5")), gst("18"))
	b := billing.ComputeTotals(items, entity.PercentDiscount(dec("3.5")), gst("18"))
	assert.Equal(t, a.GrandTotal.String(), b.GrandTotal.String())
	assert.Equal(t, a.TaxAmount.String(), b.TaxAmount.String())
}

// ── ItemBreakdown ─────────────────────────────────────────────────────────────

func TestItemBreakdown_FijoSeRepartePorIgual(t *testing.T) {
	lines := billing.ItemBreakdown(
		[]entity.LineItem{item("a", 1, "100"), item("b", 1, "50")},
		entity.FixedDiscount(dec("30")),
		gst("10"),
	)

	require.Len(t, lines, 2)
	assertDecimal(t, "15", lines[0].Discount, "línea a")
	assertDecimal(t, "15", lines[1].Discount, "línea b")
	assertDecimal(t, "85", lines[0].Net, "neto a")
	assertDecimal(t, "8.5", lines[0].Tax, "impuesto a")
	assertDecimal(t, "93.5", lines[0].Total, "total a")
}

func TestItemBreakdown_PorcentajeEsProporcional(t *testing.T) {
	lines := billing.ItemBreakdown(
		[]entity.LineItem{item("a", 2, "100"), item("b", 1, "50")},
		entity.PercentDiscount(dec("10")),
		gst("0"),
	)

	require.Len(t, lines, 2)
	assertDecimal(t, "20", lines[0].Discount, "línea a")
	assertDecimal(t, "5", lines[1].Discount, "línea b")
	assert.Equal(t, "a", lines[0].ItemID)
}

func TestItemBreakdown_SinLineas(t *testing.T) {
	assert.Nil(t, billing.ItemBreakdown(nil, entity.FixedDiscount(dec("10")), gst("5")))
}
