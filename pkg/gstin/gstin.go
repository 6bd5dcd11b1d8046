// Package gstin valida el GSTIN (Goods and Services Tax Identification Number) y
// deduce el estado a partir de su código.
package gstin

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Length longitud fija del GSTIN: estado(2) + PAN(10) + entidad(1) + 'Z' + dígito de control.
const Length = 15

const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ErrInvalid GSTIN con formato o dígito de control incorrecto.
var ErrInvalid = errors.New("gstin inválido")

// stateCodes códigos de estado/territorio asignados por el GST Council.
var stateCodes = map[string]string{
	"01": "Jammu and Kashmir", "02": "Himachal Pradesh", "03": "Punjab", "04": "Chandigarh",
	"05": "Uttarakhand", "06": "Haryana", "07": "Delhi", "08": "Rajasthan",
	"09": "Uttar Pradesh", "10": "Bihar", "11": "Sikkim", "12": "Arunachal Pradesh",
	"13": "Nagaland", "14": "Manipur", "15": "Mizoram", "16": "Tripura",
	"17": "Meghalaya", "18": "Assam", "19": "West Bengal", "20": "Jharkhand",
	"21": "Odisha", "22": "Chhattisgarh", "23": "Madhya Pradesh", "24": "Gujarat",
	"26": "Dadra and Nagar Haveli and Daman and Diu", "27": "Maharashtra", "29": "Karnataka",
	"30": "Goa", "31": "Lakshadweep", "32": "Kerala", "33": "Tamil Nadu",
	"34": "Puducherry", "35": "Andaman and Nicobar Islands", "36": "Telangana",
	"37": "Andhra Pradesh", "38": "Ladakh", "97": "Other Territory",
}

// Normalize quita espacios y pasa a mayúsculas.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Validate verifica longitud, estructura y dígito de control (módulo 36).
func Validate(s string) error {
	g := Normalize(s)
	if len(g) != Length {
		return errors.Wrapf(ErrInvalid, "longitud %d, se esperan %d", len(g), Length)
	}
	if _, ok := stateCodes[g[:2]]; !ok {
		return errors.Wrapf(ErrInvalid, "código de estado %q", g[:2])
	}
	if !isPAN(g[2:12]) {
		return errors.Wrapf(ErrInvalid, "PAN %q", g[2:12])
	}
	for _, c := range g {
		if strings.IndexRune(charset, c) < 0 {
			return errors.Wrapf(ErrInvalid, "carácter %q", c)
		}
	}
	want, _ := CheckDigit(g[:Length-1])
	if g[Length-1] != want {
		return errors.Wrapf(ErrInvalid, "dígito de control: esperado %c, recibido %c", want, g[Length-1])
	}
	return nil
}

// CheckDigit calcula el dígito de control para los 14 primeros caracteres.
func CheckDigit(prefix string) (byte, error) {
	p := Normalize(prefix)
	if len(p) != Length-1 {
		return 0, errors.Wrapf(ErrInvalid, "se requieren %d caracteres, se recibieron %d", Length-1, len(p))
	}
	var sum int
	for i, c := range p {
		v := strings.IndexRune(charset, c)
		if v < 0 {
			return 0, errors.Wrapf(ErrInvalid, "carácter %q", c)
		}
		factor := 1
		if i%2 == 1 {
			factor = 2
		}
		prod := v * factor
		sum += prod/len(charset) + prod%len(charset)
	}
	return charset[(len(charset)-sum%len(charset))%len(charset)], nil
}

// State devuelve el nombre del estado codificado en los dos primeros dígitos.
func State(s string) (string, bool) {
	g := Normalize(s)
	if len(g) < 2 {
		return "", false
	}
	name, ok := stateCodes[g[:2]]
	return name, ok
}

// PAN: 5 letras, 4 dígitos, 1 letra.
func isPAN(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < 10; i++ {
		c := s[i]
		isLetter := c >= 'A' && c <= 'Z'
		isDigit := c >= '0' && c <= '9'
		if (i < 5 || i == 9) && !isLetter {
			return false
		}
		if i >= 5 && i < 9 && !isDigit {
			return false
		}
	}
	return true
}
