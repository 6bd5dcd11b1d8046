package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// GSTSplit reparto del impuesto para la presentación de la factura.
// Venta dentro del mismo estado: CGST + SGST a partes iguales; entre estados: IGST.
type GSTSplit struct {
	InterState bool
	CGST       decimal.Decimal
	SGST       decimal.Decimal
	IGST       decimal.Decimal
}

// SplitGST reparte taxAmount según el estado del vendedor y del comprador.
// Si falta alguno de los dos se asume venta intraestatal.
// CGST + SGST siempre suma exactamente taxAmount.
func SplitGST(taxAmount decimal.Decimal, sellerState, buyerState string) GSTSplit {
	s := strings.TrimSpace(sellerState)
	b := strings.TrimSpace(buyerState)
	if s != "" && b != "" && !strings.EqualFold(s, b) {
		return GSTSplit{InterState: true, CGST: decimal.Zero, SGST: decimal.Zero, IGST: taxAmount}
	}
	half := taxAmount.Div(decimal.NewFromInt(2)).Round(AmountPlaces)
	return GSTSplit{CGST: half, SGST: taxAmount.Sub(half), IGST: decimal.Zero}
}
