// Package nit valida y calcula el dígito de verificación del NIT colombiano (módulo 11, DIAN).
package nit

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// pesos DIAN aplicados de derecha a izquierda sobre la base del NIT (hasta 15 dígitos).
var weights = [15]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

// ErrInvalid se devuelve cuando el NIT no tiene formato válido o el dígito no coincide.
var ErrInvalid = errors.New("nit: NIT inválido")

// VerificationDigit calcula el dígito de verificación de la base (sin DV).
func VerificationDigit(base string) (int, error) {
	digits := onlyDigits(base)
	if len(digits) == 0 || len(digits) > len(weights) {
		return 0, fmt.Errorf("%w: la base debe tener entre 1 y %d dígitos", ErrInvalid, len(weights))
	}
	sum := 0
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		sum += d * weights[i]
	}
	r := sum % 11
	if r > 1 {
		return 11 - r, nil
	}
	return r, nil
}

// Validate acepta "900123456-8", "900.123.456-8" o "9001234568" (último dígito = DV).
func Validate(taxID string) error {
	taxID = strings.TrimSpace(taxID)
	var base, dv string
	if i := strings.LastIndex(taxID, "-"); i >= 0 {
		base, dv = taxID[:i], onlyDigits(taxID[i+1:])
	} else {
		all := onlyDigits(taxID)
		if len(all) < 2 {
			return fmt.Errorf("%w: se requieren base y dígito de verificación", ErrInvalid)
		}
		base, dv = all[:len(all)-1], all[len(all)-1:]
	}
	if len(dv) != 1 {
		return fmt.Errorf("%w: dígito de verificación ausente", ErrInvalid)
	}
	expected, err := VerificationDigit(base)
	if err != nil {
		return err
	}
	if int(dv[0]-'0') != expected {
		return fmt.Errorf("%w: esperado %d, recibido %s", ErrInvalid, expected, dv)
	}
	return nil
}

// Format normaliza a "base-dv" sin puntos.
func Format(taxID string) (string, error) {
	if err := Validate(taxID); err != nil {
		return "", err
	}
	all := onlyDigits(taxID)
	return all[:len(all)-1] + "-" + all[len(all)-1:], nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
