package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	assert.Equal(t, "jabon-de-calendula", Make("Jabón de  Caléndula"))
	assert.Equal(t, "aceite-100-ml", Make("¡Aceite 100 ml!"))
	assert.Equal(t, "nino", Make("Niño"))
}

func TestUnique_AgregaSufijo(t *testing.T) {
	taken := map[string]bool{"te-verde": true, "te-verde-2": true}
	got, err := Unique("te-verde", func(s string) (bool, error) { return taken[s], nil })
	require.NoError(t, err)
	assert.Equal(t, "te-verde-3", got)
}
