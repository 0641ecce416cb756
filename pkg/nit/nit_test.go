package nit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationDigit_NITDIAN(t *testing.T) {
	dv, err := VerificationDigit("800.197.268")
	require.NoError(t, err)
	assert.Equal(t, 4, dv)

	dv, err = VerificationDigit("900123456")
	require.NoError(t, err)
	assert.Equal(t, 8, dv)
}

func TestValidate_Formatos(t *testing.T) {
	for _, in := range []string{"800197268-4", "800.197.268-4", "8001972684", " 900123456-8 "} {
		assert.NoError(t, Validate(in), in)
	}
}

func TestValidate_DigitoIncorrecto(t *testing.T) {
	err := Validate("800197268-5")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)

	assert.ErrorIs(t, Validate("8"), ErrInvalid)
	assert.ErrorIs(t, Validate("800197268-"), ErrInvalid)
}

func TestFormat_Normaliza(t *testing.T) {
	out, err := Format("800.197.268-4")
	require.NoError(t, err)
	assert.Equal(t, "800197268-4", out)
}
