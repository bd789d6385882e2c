package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiendamx/pos-mostrador/internal/application/backup"
	"github.com/tiendamx/pos-mostrador/internal/application/dto"
)

// BackupHandler maneja respaldos de la base.
type BackupHandler struct {
	uc *backup.Usecase
}

// NewBackupHandler construye el handler.
func NewBackupHandler(uc *backup.Usecase) *BackupHandler {
	return &BackupHandler{uc: uc}
}

// Create genera un respaldo nuevo.
func (h *BackupHandler) Create(c *fiber.Ctx) error {
	var in struct {
		Notes string `json:"notes"`
	}
	_ = c.BodyParser(&in)
	b, err := h.uc.Create(c.Context(), in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.BackupFromEntity(b))
}

// List lista la bitácora de respaldos.
func (h *BackupHandler) List(c *fiber.Ctx) error {
	bs, err := h.uc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BackupsFromEntities(bs))
}

// Verify recalcula el hash de un respaldo contra la bitácora.
func (h *BackupHandler) Verify(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	if err := h.uc.Verify(c.Context(), int64(id)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
