package phone

import (
	"errors"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// DefaultRegion región usada cuando el número no trae indicativo.
const DefaultRegion = "CO"

// ErrInvalid el número no es válido para la región.
var ErrInvalid = errors.New("teléfono inválido")

// Normalize valida el número (por defecto Colombia) y lo devuelve en formato E.164.
// Un valor vacío se devuelve vacío.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := libphonenumber.Parse(raw, DefaultRegion)
	if err != nil {
		return "", ErrInvalid
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", ErrInvalid
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}
