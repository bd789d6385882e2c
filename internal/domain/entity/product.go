package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de venta de un producto.
const (
	SaleTypeUnit   = "unit"   // por pieza
	SaleTypeWeight = "weight" // por peso (qty decimal)
	SaleTypeKit    = "kit"    // compuesto; consume componentes al vender
)

// Product representa un producto del catálogo. Los kits no se stockean por sí
// mismos: al vender se descuentan sus componentes en las proporciones de
// KitItems. UsesInventory en falso exime al producto del control de stock.
type Product struct {
	ID             int64
	SKU            string // único
	Barcode        string // único, opcional
	Name           string
	Description    string
	Price          decimal.Decimal
	PriceWholesale decimal.Decimal
	Cost           decimal.Decimal
	Unit           string
	AllowDecimal   bool
	Department     string
	Provider       string
	IsActive       bool
	IsFavorite     bool
	SaleType       string
	KitItems       []KitComponent
	UsesInventory  bool
	UpdatedAt      time.Time
}

// KitComponent es un componente de un kit con su proporción de consumo.
type KitComponent struct {
	ProductID int64           `json:"product_id"`
	Qty       decimal.Decimal `json:"qty"`
}

// IsKit indica si el producto se vende como kit.
func (p *Product) IsKit() bool { return p.SaleType == SaleTypeKit }

// CommonSKU es el SKU del producto sintético para líneas ad-hoc (venta común).
const CommonSKU = "COMMON"
