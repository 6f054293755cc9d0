package entity

import "time"

// Location representa un local (tienda, planta o bodega) donde se almacena inventario.
type Location struct {
	ID        string
	Code      string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
