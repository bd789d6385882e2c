package entity

import "time"

// Roles de usuario reconocidos por el allow-list del servidor.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleCashier    = "cashier"
	RoleDashboard  = "dashboard"
)

// User es un usuario del punto de venta.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	FullName     string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}

// Branch es una sucursal.
type Branch struct {
	ID        int64
	Name      string
	Currency  string
	Timezone  string
	IsDefault bool
}

// AuditLog es una fila del registro de auditoría. La escritura es best-effort:
// un fallo aquí nunca bloquea la operación de negocio.
type AuditLog struct {
	ID        int64
	UserID    *int64
	Action    string
	Payload   string // JSON
	Timestamp time.Time
}

// APIToken es un token de acceso emitido para un rol concreto.
type APIToken struct {
	ID          int64
	UserID      int64
	Token       string
	Role        string
	Description string
	CreatedAt   time.Time
	IsActive    bool
}
