package ports

import (
	"context"

	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
)

// MovementNotifier recibe los movimientos ya confirmados (después del Commit).
// Un fallo aquí no revierte el cambio de stock.
type MovementNotifier interface {
	MovementsCommitted(ctx context.Context, movements []*entity.StockMovement)
}

// Notifiers reparte los movimientos a varios notificadores.
type Notifiers []MovementNotifier

// MovementsCommitted implementa MovementNotifier.
func (n Notifiers) MovementsCommitted(ctx context.Context, movements []*entity.StockMovement) {
	if len(movements) == 0 {
		return
	}
	for _, notifier := range n {
		if notifier != nil {
			notifier.MovementsCommitted(ctx, movements)
		}
	}
}

// Notify avisa a n si no es nil.
func Notify(ctx context.Context, n MovementNotifier, movements []*entity.StockMovement) {
	if n == nil || len(movements) == 0 {
		return
	}
	n.MovementsCommitted(ctx, movements)
}
