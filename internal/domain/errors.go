package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrAlreadyApplied    = errors.New("el efecto de stock ya fue aplicado")
	ErrSameLocation      = errors.New("el local de origen y destino deben ser diferentes")
)

// Shortage describe un faltante de stock de un ítem en un local.
type Shortage struct {
	ItemID     string
	ItemName   string
	LocationID string
	Required   decimal.Decimal
	Available  decimal.Decimal
}

// Missing cantidad que falta para cubrir lo requerido.
func (s Shortage) Missing() decimal.Decimal {
	return s.Required.Sub(s.Available)
}

// InsufficientStockError agrupa todos los faltantes detectados en una validación.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	Shortages []Shortage
}

// NewInsufficientStockError construye el error con los faltantes dados.
func NewInsufficientStockError(shortages ...Shortage) *InsufficientStockError {
	return &InsufficientStockError{Shortages: shortages}
}

func (e *InsufficientStockError) Error() string {
	if len(e.Shortages) == 0 {
		return ErrInsufficientStock.Error()
	}
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		name := s.ItemName
		if name == "" {
			name = s.ItemID
		}
		parts = append(parts, fmt.Sprintf("Falta %s: Requiere %s, Disponible %s",
			name, s.Required.StringFixed(3), s.Available.StringFixed(3)))
	}
	return ErrInsufficientStock.Error() + ": " + strings.Join(parts, "; ")
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
