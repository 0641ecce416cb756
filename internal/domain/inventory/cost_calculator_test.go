package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	got := CostCalculator(10, decimal.NewFromInt(1000), 10, decimal.NewFromInt(2000))
	assert.True(t, got.Equal(decimal.NewFromInt(1500)), got.String())
}

func TestCostCalculator_SinStockPrevioTomaCostoEntrada(t *testing.T) {
	got := CostCalculator(0, decimal.NewFromInt(1000), 5, decimal.RequireFromString("1234.5"))
	assert.True(t, got.Equal(decimal.RequireFromString("1234.5")))
}

func TestCostCalculator_SinUnidadesConservaCosto(t *testing.T) {
	got := CostCalculator(0, decimal.NewFromInt(800), 0, decimal.NewFromInt(5000))
	assert.True(t, got.Equal(decimal.NewFromInt(800)))
}
