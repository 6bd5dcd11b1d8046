// Package billing contiene el motor de facturación: precios, libro de pagos,
// formato del consecutivo y ciclo de vida de la factura.
//
// Todo el paquete es puro: recibe valores y devuelve valores nuevos, sin I/O
// ni reloj. La persistencia y la red viven en la capa de aplicación.
package billing

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/textil-api/internal/domain/entity"
)

// AmountPlaces decimales de los montos derivados (paisa).
const AmountPlaces int32 = 2

var hundred = decimal.NewFromInt(100)

// Totals totales derivados de una factura. Nunca se almacenan.
// GrandTotal = Subtotal - DiscountAmount + TaxAmount, exacto.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableAmount  decimal.Decimal
	TaxAmount      decimal.Decimal
	GrandTotal     decimal.Decimal
}

// ItemTotals reparto informativo por línea. No se suma para redefinir el total.
type ItemTotals struct {
	ItemID   string
	Gross    decimal.Decimal
	Discount decimal.Decimal
	Net      decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals calcula subtotal, descuento, impuesto y total.
// No falla: cantidades, tarifas, descuentos e impuestos negativos cuentan como cero,
// el porcentaje se limita a 100 y el descuento fijo al subtotal.
func ComputeTotals(items []entity.LineItem, discount entity.DiscountSpec, tax entity.TaxSpec) Totals {
	subtotal := lo.Reduce(items, func(acc decimal.Decimal, it entity.LineItem, _ int) decimal.Decimal {
		return acc.Add(lineAmount(it))
	}, decimal.Zero)

	discountAmount := DiscountAmount(subtotal, discount)
	taxable := subtotal.Sub(discountAmount)
	taxAmount := percentOf(taxable, nonNegative(tax.GSTPercentage))

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxable,
		TaxAmount:      taxAmount,
		GrandTotal:     subtotal.Sub(discountAmount).Add(taxAmount),
	}
}

// DiscountAmount descuento aplicable a un subtotal; siempre entre 0 y subtotal.
func DiscountAmount(subtotal decimal.Decimal, discount entity.DiscountSpec) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	var amount decimal.Decimal
	switch discount.Mode {
	case entity.DiscountPercent:
		amount = percentOf(subtotal, clampPercent(discount.Percent))
	case entity.DiscountFixed:
		amount = nonNegative(discount.Fixed).Round(AmountPlaces)
	default:
		return decimal.Zero
	}
	return decimal.Min(amount, subtotal)
}

// ItemBreakdown reparte descuento e impuesto por línea para mostrar en pantalla.
// En modo fijo el descuento se divide en partes iguales; en porcentual es proporcional.
// Por redondeo la suma de líneas puede no coincidir con ComputeTotals.
func ItemBreakdown(items []entity.LineItem, discount entity.DiscountSpec, tax entity.TaxSpec) []ItemTotals {
	if len(items) == 0 {
		return nil
	}
	gst := nonNegative(tax.GSTPercentage)
	subtotal := ComputeTotals(items, entity.DiscountSpec{}, entity.TaxSpec{}).Subtotal

	var fixedShare decimal.Decimal
	if discount.Mode == entity.DiscountFixed {
		fixedShare = DiscountAmount(subtotal, discount).
			Div(decimal.NewFromInt(int64(len(items)))).
			Round(AmountPlaces)
	}

	return lo.Map(items, func(it entity.LineItem, _ int) ItemTotals {
		gross := lineAmount(it)
		var disc decimal.Decimal
		switch discount.Mode {
		case entity.DiscountPercent:
			disc = percentOf(gross, clampPercent(discount.Percent))
		case entity.DiscountFixed:
			disc = fixedShare
		}
		net := gross.Sub(disc)
		lineTax := percentOf(net, gst)
		return ItemTotals{
			ItemID:   it.ID,
			Gross:    gross,
			Discount: disc,
			Net:      net,
			Tax:      lineTax,
			Total:    net.Add(lineTax),
		}
	})
}

func lineAmount(it entity.LineItem) decimal.Decimal {
	if it.Quantity <= 0 || it.UnitRate.IsNegative() {
		return decimal.Zero
	}
	return it.Amount()
}

func percentOf(base, pct decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() || !pct.IsPositive() {
		return decimal.Zero
	}
	return base.Mul(pct).Div(hundred).Round(AmountPlaces)
}

func clampPercent(p decimal.Decimal) decimal.Decimal {
	return decimal.Min(nonNegative(p), hundred)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
