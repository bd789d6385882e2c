package dto

// LoginRequest credenciales de acceso. BranchID en cero usa la sucursal por
// defecto.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	BranchID int64  `json:"branch_id"`
}

// LoginResponse token de sesión y datos del usuario autenticado.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	BranchID int64  `json:"branch_id"`
}
