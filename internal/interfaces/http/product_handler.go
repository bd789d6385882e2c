package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiendamx/pos-mostrador/internal/application/catalog"
	"github.com/tiendamx/pos-mostrador/internal/application/dto"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// ProductHandler maneja las peticiones HTTP del catálogo.
type ProductHandler struct {
	uc *catalog.Usecase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.Usecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create da de alta un producto.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductDTO
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	p := in.ToEntity()
	p.ID = 0
	id, err := h.uc.CreateProduct(c.Context(), GetSession(c), p)
	if err != nil {
		return respondError(c, err)
	}
	p.ID = id
	return c.Status(fiber.StatusCreated).JSON(dto.ProductFromEntity(p))
}

// Update edita un producto existente.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	var in dto.ProductDTO
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	p := in.ToEntity()
	p.ID = int64(id)
	if err := h.uc.UpdateProduct(c.Context(), GetSession(c), p); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ProductFromEntity(p))
}

// Delete borra un producto sin ventas; con historial responde conflicto.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	if err := h.uc.DeleteProduct(c.Context(), GetSession(c), int64(id)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Deactivate desactiva un producto conservando su historial.
func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	if err := h.uc.DeactivateProduct(c.Context(), GetSession(c), int64(id)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleFavorite invierte la bandera de favorito.
func (h *ProductHandler) ToggleFavorite(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	if err := h.uc.ToggleFavorite(c.Context(), int64(id)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID devuelve un producto por id.
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	p, err := h.uc.GetProduct(c.Context(), int64(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ProductFromEntity(p))
}

// Find busca por SKU o código de barras exacto (lector de códigos).
func (h *ProductHandler) Find(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return badRequest(c, "code es requerido")
	}
	p, err := h.uc.FindProduct(c.Context(), code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ProductFromEntity(p))
}

// List lista el catálogo; q hace búsqueda parcial por nombre, SKU o código.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if q := c.Query("q"); q != "" {
		ps, err := h.uc.SearchProducts(c.Context(), q, limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(productList(ps))
	}
	onlyActive := c.QueryBool("active", true)
	ps, err := h.uc.ListProducts(c.Context(), onlyActive, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(productList(ps))
}

func productList(ps []*entity.Product) []dto.ProductDTO {
	out := make([]dto.ProductDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, dto.ProductFromEntity(p))
	}
	return out
}
