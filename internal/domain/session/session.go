package session

// Session identifica quién y desde qué sucursal ejecuta una operación del
// ledger. Se pasa explícita a cada caso de uso en lugar de mantener un estado
// global de usuario/sucursal activos.
type Session struct {
	UserID   int64
	BranchID int64
}

// New construye la sesión para un usuario en una sucursal.
func New(userID, branchID int64) Session {
	return Session{UserID: userID, BranchID: branchID}
}
