package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/textil-api/internal/domain"
	"github.com/jhoicas/textil-api/internal/domain/billing"
)

// 0 → A00000, 1 → A00001.
func TestReserveNext_PrimerosConsecutivos(t *testing.T) {
	id, next, err := billing.ReserveNext(0)
	require.NoError(t, err)
	assert.Equal(t, "A00000", id)
	assert.Equal(t, int64(1), next)

	id, next, err = billing.ReserveNext(next)
	require.NoError(t, err)
	assert.Equal(t, "A00001", id)
	assert.Equal(t, int64(2), next)
}

// 99999 → A99999 y luego B00000.
func TestReserveNext_CambioDeLetra(t *testing.T) {
	id, next, err := billing.ReserveNext(99_999)
	require.NoError(t, err)
	assert.Equal(t, "A99999", id)

	id, _, err = billing.ReserveNext(next)
	require.NoError(t, err)
	assert.Equal(t, "B00000", id)
}

func TestReserveNext_RangoAgotado(t *testing.T) {
	id, _, err := billing.ReserveNext(2_599_999)
	require.NoError(t, err)
	assert.Equal(t, "Z99999", id)

	_, next, err := billing.ReserveNext(2_600_000)
	assert.ErrorIs(t, err, domain.ErrIdentifierSpaceExhausted)
	assert.Equal(t, int64(2_600_000), next, "el contador no avanza")

	_, err = billing.FormatIdentifier(-1)
	assert.ErrorIs(t, err, domain.ErrIdentifierSpaceExhausted)
}

func TestParseIdentifier_IdaYVuelta(t *testing.T) {
	for _, counter := range []int64{0, 1, 42, 99_999, 100_000, 1_234_567, 2_599_999} {
		id, err := billing.FormatIdentifier(counter)
		require.NoError(t, err)
		assert.True(t, billing.ValidIdentifier(id), id)

		back, err := billing.ParseIdentifier(id)
		require.NoError(t, err)
		assert.Equal(t, counter, back)
	}
}

func TestParseIdentifier_FormatoInvalido(t *testing.T) {
	for _, id := range []string{"", "a00001", "A0001", "A000001", "AA0001", "1A0000", "A0000x"} {
		_, err := billing.ParseIdentifier(id)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, id)
	}
}
