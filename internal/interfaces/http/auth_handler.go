package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiendamx/pos-mostrador/internal/application/auth"
	"github.com/tiendamx/pos-mostrador/internal/application/dto"
)

// AuthHandler maneja el login.
type AuthHandler struct {
	uc *auth.Usecase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.Usecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login valida credenciales y devuelve el JWT de sesión.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Login(c.Context(), in.Username, in.Password, in.BranchID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LoginResponse{
		Token:    out.Token,
		UserID:   out.User.ID,
		Username: out.User.Username,
		Role:     out.User.Role,
		BranchID: out.BranchID,
	})
}
