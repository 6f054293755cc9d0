package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry cantidad disponible de un ítem en un local. Única por (ítem, local).
// Una entrada inexistente equivale a cantidad cero.
type StockEntry struct {
	ItemID     string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}

// StockKey identifica una entrada de stock.
type StockKey struct {
	ItemID     string
	LocationID string
}

// Key devuelve la clave de la entrada.
func (s *StockEntry) Key() StockKey {
	return StockKey{ItemID: s.ItemID, LocationID: s.LocationID}
}

// Less orden total de claves; los bloqueos se toman en este orden.
func (k StockKey) Less(o StockKey) bool {
	if k.ItemID != o.ItemID {
		return k.ItemID < o.ItemID
	}
	return k.LocationID < o.LocationID
}
