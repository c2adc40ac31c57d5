package entity

import "time"

// Role es un perfil de acceso del operador.
type Role string

const (
	RoleAdmin      Role = "ADMINISTRADOR"
	RoleFinance    Role = "FINANCIERO"
	RoleSales      Role = "VENTAS"
	RolePurchasing Role = "COMPRAS"
	RoleStock      Role = "INVENTARIO"
	RoleTechnician Role = "TECNICO"
)

// Operator es el usuario que registra operaciones comerciales.
type Operator struct {
	ID           string
	Login        string
	Name         string
	PasswordHash string // bcrypt
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanSell indica si el operador puede registrar ventas.
func (o *Operator) CanSell() bool {
	return o.Active && (o.Role == RoleSales || o.Role == RoleAdmin)
}

// CanPurchase indica si el operador puede registrar compras.
func (o *Operator) CanPurchase() bool {
	return o.Active && (o.Role == RolePurchasing || o.Role == RoleAdmin)
}

// Authorized resuelve el permiso según el tipo de pedido.
func (o *Operator) Authorized(kind OrderKind) bool {
	if kind == OrderPurchase {
		return o.CanPurchase()
	}
	return o.CanSell()
}
