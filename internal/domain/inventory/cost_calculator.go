package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// El stock previo negativo o cero no aporta al promedio.
func CostCalculator(stockActual int, costoActual decimal.Decimal, cantEntrada int, costoEntrada decimal.Decimal) decimal.Decimal {
	if stockActual < 0 {
		stockActual = 0
	}
	sum := stockActual + cantEntrada
	if sum <= 0 {
		return costoActual
	}
	if stockActual == 0 || costoActual.IsZero() {
		return costoEntrada.Round(2)
	}
	num := decimal.NewFromInt(int64(stockActual)).Mul(costoActual).
		Add(decimal.NewFromInt(int64(cantEntrada)).Mul(costoEntrada))
	return num.Div(decimal.NewFromInt(int64(sum))).Round(2)
}
