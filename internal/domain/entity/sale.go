package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/payment"
)

// Sale es una venta persistida. Inmutable después de creada, salvo la liga a
// su CFDI. Subtotal es sin impuesto; Total incluye impuesto, descuento y
// comisión de tarjeta.
type Sale struct {
	ID            int64
	BranchID      int64
	UserID        *int64
	CustomerID    *int64
	Timestamp     time.Time
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod payment.Method
	Breakdown     payment.Breakdown
	Reference     string
	CardFee       decimal.Decimal
	USDAmount     decimal.Decimal
	USDExchange   decimal.Decimal
	VoucherAmount decimal.Decimal
	CheckNumber   string
	TurnID        *int64
}

// SaleItem es una línea de venta. ProductID apunta al producto COMÚN para
// líneas ad-hoc. Metadata marca mayoreo/kit/peso.
type SaleItem struct {
	ID               int64
	SaleID           int64
	ProductID        int64
	Qty              decimal.Decimal
	Price            decimal.Decimal
	Discount         decimal.Decimal
	Total            decimal.Decimal
	PriceIncludesTax bool
	Metadata         SaleItemMeta
}

// SaleItemMeta son banderas de la línea para reportes.
type SaleItemMeta struct {
	Wholesale bool `json:"wholesale,omitempty"`
	Kit       bool `json:"kit,omitempty"`
	Weight    bool `json:"weight,omitempty"`
}
