package billing

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/jhoicas/textil-api/internal/domain"
)

// Consecutivo: una letra A-Z seguida de cinco dígitos.
// letra = 'A' + contador/100000, dígitos = contador%100000.
const (
	IdentifierBlock    int64 = 100_000
	IdentifierCapacity int64 = 26 * IdentifierBlock // 2.600.000 consecutivos
)

var identifierPattern = regexp.MustCompile(`^[A-Z][0-9]{5}$`)

// FormatIdentifier convierte el valor del contador en consecutivo.
func FormatIdentifier(counter int64) (string, error) {
	if counter < 0 || counter >= IdentifierCapacity {
		return "", errors.Wrapf(domain.ErrIdentifierSpaceExhausted, "contador %d", counter)
	}
	letter := rune('A' + counter/IdentifierBlock)
	return fmt.Sprintf("%c%05d", letter, counter%IdentifierBlock), nil
}

// ReserveNext devuelve el consecutivo del contador actual y el nuevo valor del contador.
func ReserveNext(counter int64) (string, int64, error) {
	id, err := FormatIdentifier(counter)
	if err != nil {
		return "", counter, err
	}
	return id, counter + 1, nil
}

// ParseIdentifier devuelve el valor del contador que produjo el consecutivo.
func ParseIdentifier(id string) (int64, error) {
	if !ValidIdentifier(id) {
		return 0, errors.Wrapf(domain.ErrInvalidInput, "consecutivo %q", id)
	}
	n, err := strconv.ParseInt(id[1:], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(domain.ErrInvalidInput, "consecutivo %q", id)
	}
	return int64(id[0]-'A')*IdentifierBlock + n, nil
}

// ValidIdentifier valida el formato ^[A-Z][0-9]{5}$.
func ValidIdentifier(id string) bool {
	return identifierPattern.MatchString(id)
}
