package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tiendamx/pos-mostrador/internal/application/auth"
	"github.com/tiendamx/pos-mostrador/internal/application/dto"
	"github.com/tiendamx/pos-mostrador/internal/domain/session"
	"github.com/tiendamx/pos-mostrador/pkg/jwt"
)

// Locals keys para la sesión en Fiber.
const (
	LocalUserID   = "user_id"
	LocalBranchID = "branch_id"
	LocalRole     = "role"
)

// AuthMiddleware valida el Bearer Token JWT y deja usuario, sucursal y rol en
// c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, branchID, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalBranchID, branchID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireRoles permite el paso sólo a los roles listados (después del
// middleware de auth).
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		if !allowed[GetRole(c)] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
		}
		return c.Next()
	}
}

// TokenMiddleware valida el header X-Token contra los tokens de API activos;
// lo usan los endpoints de sincronización de las cajas cliente. branchID es la
// sucursal del servidor, a la que se atribuyen las operaciones remotas.
func TokenMiddleware(authUC *auth.Usecase, branchID int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("X-Token")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "X-Token requerido"})
		}
		apiToken, err := authUC.ValidateAPIToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o revocado"})
		}
		c.Locals(LocalUserID, apiToken.UserID)
		c.Locals(LocalBranchID, branchID)
		c.Locals(LocalRole, apiToken.Role)
		return c.Next()
	}
}

// GetSession arma la sesión de dominio desde el contexto (después del
// middleware de auth).
func GetSession(c *fiber.Ctx) session.Session {
	userID, _ := c.Locals(LocalUserID).(int64)
	branchID, _ := c.Locals(LocalBranchID).(int64)
	return session.New(userID, branchID)
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
