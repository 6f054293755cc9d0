package entity

// Roles emitidos por el servicio de identidad (fuera de este módulo).
const (
	RoleAdmin      = "admin"
	RoleBodeguero  = "bodeguero"
	RoleVendedor   = "vendedor"
	RoleProduccion = "produccion"
)

// Capability permiso de negocio. Se resuelve una sola vez al validar el token.
type Capability uint16

// Capacidades.
const (
	CapStockRead Capability = 1 << iota
	CapStockWrite
	CapSalesManage
	CapProductionManage
	CapRecipeManage
	CapPurchaseManage
)

// CapabilitySet conjunto de capacidades.
type CapabilitySet Capability

// Has indica si el conjunto incluye c.
func (s CapabilitySet) Has(c Capability) bool {
	return Capability(s)&c == c
}

var roleCapabilities = map[string]CapabilitySet{
	RoleAdmin: CapabilitySet(CapStockRead | CapStockWrite | CapSalesManage |
		CapProductionManage | CapRecipeManage | CapPurchaseManage),
	RoleBodeguero:  CapabilitySet(CapStockRead | CapStockWrite | CapPurchaseManage),
	RoleVendedor:   CapabilitySet(CapStockRead | CapSalesManage),
	RoleProduccion: CapabilitySet(CapStockRead | CapProductionManage | CapRecipeManage),
}

// CapabilitiesForRole traduce el rol del token a capacidades. Rol desconocido = ninguna.
func CapabilitiesForRole(role string) CapabilitySet {
	return roleCapabilities[role]
}
