package gstin_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/textil-api/pkg/gstin"
)

func TestValidate_Validos(t *testing.T) {
	for _, g := range []string{"27AAPFU0939F1ZV", "29AAGCB7383J1Z4", " 27aapfu0939f1zv "} {
		assert.NoError(t, gstin.Validate(g), g)
	}
}

func TestValidate_Invalidos(t *testing.T) {
	cases := map[string]string{
		"corto":              "27AAPFU0939F1Z",
		"digito de control":  "27AAPFU0939F1ZX",
		"estado inexistente": "99AAPFU0939F1ZV",
		"PAN mal formado":    "2712345U0939F1Z",
		"caracter invalido":  "27AAPFU0939F1Z#",
	}
	for name, g := range cases {
		t.Run(name, func(t *testing.T) {
			err := gstin.Validate(g)
			require.Error(t, err)
			assert.True(t, errors.Is(err, gstin.ErrInvalid))
		})
	}
}

func TestCheckDigit(t *testing.T) {
	d, err := gstin.CheckDigit("29AAGCB7383J1Z")
	require.NoError(t, err)
	assert.Equal(t, byte('4'), d)

	_, err = gstin.CheckDigit("29AAG")
	assert.Error(t, err)
}

func TestState(t *testing.T) {
	s, ok := gstin.State("33AAACR4849R1ZT")
	require.True(t, ok)
	assert.Equal(t, "Tamil Nadu", s)

	_, ok = gstin.State("X")
	assert.False(t, ok)
}
