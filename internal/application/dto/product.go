package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// ProductDTO forma de cable de un producto: la usan los eventos de catálogo y
// el pull incremental de las cajas cliente.
type ProductDTO struct {
	ID             int64                 `json:"id"`
	SKU            string                `json:"sku"`
	Barcode        string                `json:"barcode,omitempty"`
	Name           string                `json:"name"`
	Description    string                `json:"description,omitempty"`
	Price          decimal.Decimal       `json:"price"`
	PriceWholesale decimal.Decimal       `json:"price_wholesale"`
	Cost           decimal.Decimal       `json:"cost"`
	Unit           string                `json:"unit,omitempty"`
	AllowDecimal   bool                  `json:"allow_decimal"`
	Department     string                `json:"department,omitempty"`
	Provider       string                `json:"provider,omitempty"`
	IsActive       bool                  `json:"is_active"`
	IsFavorite     bool                  `json:"is_favorite"`
	SaleType       string                `json:"sale_type"`
	KitItems       []entity.KitComponent `json:"kit_items,omitempty"`
	UsesInventory  bool                  `json:"uses_inventory"`
	UpdatedAt      string                `json:"updated_at,omitempty"`
}

// ProductFromEntity convierte la entidad a su forma de cable.
func ProductFromEntity(p *entity.Product) ProductDTO {
	updated := ""
	if !p.UpdatedAt.IsZero() {
		updated = p.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	return ProductDTO{
		ID:             p.ID,
		SKU:            p.SKU,
		Barcode:        p.Barcode,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		PriceWholesale: p.PriceWholesale,
		Cost:           p.Cost,
		Unit:           p.Unit,
		AllowDecimal:   p.AllowDecimal,
		Department:     p.Department,
		Provider:       p.Provider,
		IsActive:       p.IsActive,
		IsFavorite:     p.IsFavorite,
		SaleType:       p.SaleType,
		KitItems:       p.KitItems,
		UsesInventory:  p.UsesInventory,
		UpdatedAt:      updated,
	}
}

// ToEntity convierte la forma de cable a entidad (merge en la caja cliente).
func (d ProductDTO) ToEntity() *entity.Product {
	return &entity.Product{
		ID:             d.ID,
		SKU:            d.SKU,
		Barcode:        d.Barcode,
		Name:           d.Name,
		Description:    d.Description,
		Price:          d.Price,
		PriceWholesale: d.PriceWholesale,
		Cost:           d.Cost,
		Unit:           d.Unit,
		AllowDecimal:   d.AllowDecimal,
		Department:     d.Department,
		Provider:       d.Provider,
		IsActive:       d.IsActive,
		IsFavorite:     d.IsFavorite,
		SaleType:       d.SaleType,
		KitItems:       d.KitItems,
		UsesInventory:  d.UsesInventory,
	}
}
