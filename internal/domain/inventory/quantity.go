package inventory

import "github.com/shopspring/decimal"

// QuantityScale decimales con los que se almacenan y comparan cantidades.
const QuantityScale int32 = 3

// ConsumptionEpsilon consumos iguales o menores a este valor se consideran nulos.
var ConsumptionEpsilon = decimal.New(1, -QuantityScale)

// RoundQuantity redondea una cantidad a QuantityScale decimales.
func RoundQuantity(q decimal.Decimal) decimal.Decimal {
	return q.Round(QuantityScale)
}

// Negligible indica si q no supera el epsilon dado.
func Negligible(q, epsilon decimal.Decimal) bool {
	return q.LessThanOrEqual(epsilon)
}
