package entity

import "github.com/shopspring/decimal"

// DiscountMode modo de descuento activo.
type DiscountMode string

const (
	DiscountPercent DiscountMode = "percent"
	DiscountFixed   DiscountMode = "fixed"
)

// DiscountSpec guarda ambos valores de descuento; solo uno está activo.
// Cambiar de modo no borra el valor inactivo.
type DiscountSpec struct {
	Mode    DiscountMode
	Percent decimal.Decimal
	Fixed   decimal.Decimal
}

// PercentDiscount construye un descuento porcentual.
func PercentDiscount(v decimal.Decimal) DiscountSpec {
	return DiscountSpec{Mode: DiscountPercent, Percent: v}
}

// FixedDiscount construye un descuento de valor fijo.
func FixedDiscount(v decimal.Decimal) DiscountSpec {
	return DiscountSpec{Mode: DiscountFixed, Fixed: v}
}

// Value devuelve el valor del modo activo. Un modo desconocido equivale a sin descuento.
func (d DiscountSpec) Value() decimal.Decimal {
	switch d.Mode {
	case DiscountPercent:
		return d.Percent
	case DiscountFixed:
		return d.Fixed
	default:
		return decimal.Zero
	}
}

// WithMode activa otro modo conservando los dos valores.
func (d DiscountSpec) WithMode(mode DiscountMode) DiscountSpec {
	d.Mode = mode
	return d
}
