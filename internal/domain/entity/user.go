package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleCajero = "cajero"
)

// User representa un usuario del sistema. Se crean fuera de este servicio;
// aquí solo se leen y se referencian como creadores de ventas y pedidos.
type User struct {
	ID        string
	Username  string
	Email     string
	Role      string // admin, cajero
	IsStaff   bool
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor es el usuario autenticado que ejecuta una operación (autorización y auditoría).
// Se construye a partir de los claims del token; no requiere consultar la DB.
type Actor struct {
	UserID   string
	Username string
	Role     string
}

// IsAdmin indica si el actor tiene rol administrador.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Owns indica si el actor es el creador del recurso.
func (a Actor) Owns(createdBy string) bool { return a.UserID != "" && a.UserID == createdBy }
