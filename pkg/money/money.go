// Package money formatea importes en rupias con la agrupación de dígitos de en-IN.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format devuelve el importe con dos decimales y agrupación india:
// las últimas tres cifras enteras y luego de a dos (ej. 1,234.50; 12,34,567.50).
// Trabaja sobre el texto exacto del decimal; no hay límite de magnitud.
func Format(d decimal.Decimal) string {
	s := d.Round(2).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + group(intPart) + "." + frac
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/2)
	if len(head)%2 == 1 {
		b.WriteString(head[:1])
		b.WriteByte(',')
		head = head[1:]
	}
	for i := 0; i < len(head); i += 2 {
		b.WriteString(head[i : i+2])
		b.WriteByte(',')
	}
	b.WriteString(tail)
	return b.String()
}

// Rupees antepone el prefijo "Rs." (las fuentes estándar del PDF no tienen el símbolo ₹).
func Rupees(d decimal.Decimal) string {
	return "Rs. " + Format(d)
}

// Percent formatea un porcentaje sin ceros sobrantes (ej. 5%, 12.5%).
func Percent(d decimal.Decimal) string {
	return d.String() + "%"
}
