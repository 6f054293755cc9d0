package entity

import "time"

// Customer cliente de los pedidos de venta. Su administración vive fuera del motor de stock.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
