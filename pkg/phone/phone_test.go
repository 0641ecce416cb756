package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_CelularColombiano(t *testing.T) {
	got, err := Normalize("300 123 4567")
	require.NoError(t, err)
	assert.Equal(t, "+573001234567", got)
}

func TestNormalize_Vacio(t *testing.T) {
	got, err := Normalize("  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNormalize_Invalido(t *testing.T) {
	_, err := Normalize("12")
	assert.ErrorIs(t, err, ErrInvalid)
}
