package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
)

// PlanLine línea de producción con su cantidad efectiva y la explosión de esa cantidad.
type PlanLine struct {
	LineID       string
	ItemID       string
	Quantity     decimal.Decimal
	Requirements []Requirement
}

// PlanOutput ingreso de producto terminado de una línea.
type PlanOutput struct {
	LineID   string
	ItemID   string
	Quantity decimal.Decimal
}

// ProductionPlan efecto completo de finalizar una orden, calculado antes de tocar stock.
type ProductionPlan struct {
	LocationID   string
	Consumptions []Requirement // agregadas por insumo, ordenadas por ItemID
	Outputs      []PlanOutput  // en el orden de las líneas
}

// BuildProductionPlan agrega los consumos de todas las líneas por insumo. Un ajuste manual
// de insumo reemplaza el total calculado (y se agrega aunque ninguna receta lo use).
// Los consumos que no superan epsilon se descartan.
func BuildProductionPlan(locationID string, lines []PlanLine, ingredientOverrides map[string]decimal.Decimal, epsilon decimal.Decimal) *ProductionPlan {
	totals := make(map[string]decimal.Decimal)
	outputs := make([]PlanOutput, 0, len(lines))
	for _, l := range lines {
		for _, req := range l.Requirements {
			totals[req.ItemID] = totals[req.ItemID].Add(req.Quantity)
		}
		outputs = append(outputs, PlanOutput{LineID: l.LineID, ItemID: l.ItemID, Quantity: RoundQuantity(l.Quantity)})
	}
	for itemID, qty := range ingredientOverrides {
		totals[itemID] = qty
	}

	consumptions := make([]Requirement, 0, len(totals))
	for itemID, qty := range totals {
		qty = RoundQuantity(qty)
		if Negligible(qty, epsilon) {
			continue
		}
		consumptions = append(consumptions, Requirement{ItemID: itemID, Quantity: qty})
	}
	sort.Slice(consumptions, func(i, j int) bool { return consumptions[i].ItemID < consumptions[j].ItemID })

	return &ProductionPlan{LocationID: locationID, Consumptions: consumptions, Outputs: outputs}
}

// ConsumptionKeys claves de stock que el plan descuenta.
func (p *ProductionPlan) ConsumptionKeys() []entity.StockKey {
	keys := make([]entity.StockKey, 0, len(p.Consumptions))
	for _, c := range p.Consumptions {
		keys = append(keys, entity.StockKey{ItemID: c.ItemID, LocationID: p.LocationID})
	}
	return keys
}

// Shortages compara cada consumo con lo disponible (ausente = 0) y devuelve todos los faltantes.
func (p *ProductionPlan) Shortages(available map[string]decimal.Decimal) []domain.Shortage {
	var out []domain.Shortage
	for _, c := range p.Consumptions {
		have := available[c.ItemID]
		if have.LessThan(c.Quantity) {
			out = append(out, domain.Shortage{
				ItemID:     c.ItemID,
				LocationID: p.LocationID,
				Required:   c.Quantity,
				Available:  have,
			})
		}
	}
	return out
}
