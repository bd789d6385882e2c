package repository

import (
	"github.com/shopspring/decimal"
)

// MethodTotal total vendido por método de pago en un período.
type MethodTotal struct {
	Method string
	Count  int
	Total  decimal.Decimal
}

// DailyTotal total vendido por día (fecha en formato YYYY-MM-DD).
type DailyTotal struct {
	Day   string
	Count int
	Total decimal.Decimal
}

// TopProductResult resultado crudo de la consulta de productos más vendidos.
// Lo produce la DB; el use case lo convierte en DTO.
type TopProductResult struct {
	ProductID int64
	SKU       string
	Name      string
	UnitsSold decimal.Decimal
	Revenue   decimal.Decimal
}

// LowStockResult producto cuyo stock disponible está en o bajo el mínimo.
type LowStockResult struct {
	ProductID int64
	SKU       string
	Name      string
	Stock     decimal.Decimal
	Reserved  decimal.Decimal
	MinStock  decimal.Decimal
}

// ReportRepository define las consultas de lectura para reportes y dashboard.
// Las implementaciones son read-only (no modifican datos).
type ReportRepository interface {
	// SalesSummary devuelve número de ventas y total bruto en el rango dado.
	SalesSummary(branchID int64, from, to string) (count int, total decimal.Decimal, err error)

	// SalesByMethod agrupa las ventas del período por método de pago.
	SalesByMethod(branchID int64, from, to string) ([]MethodTotal, error)

	// SalesByDay agrupa las ventas del período por día natural.
	SalesByDay(branchID int64, from, to string) ([]DailyTotal, error)

	// TopProducts devuelve los `limit` productos con mayor ingreso en el período.
	TopProducts(branchID int64, from, to string, limit int) ([]TopProductResult, error)

	// LowStock devuelve los productos con disponible <= mínimo en la sucursal.
	LowStock(branchID int64) ([]LowStockResult, error)

	// CreditOutstanding devuelve el saldo de crédito acumulado de todos los clientes.
	CreditOutstanding() (decimal.Decimal, error)

	// LayawayOutstanding devuelve el saldo pendiente de apartados no cancelados.
	LayawayOutstanding(branchID int64) (decimal.Decimal, error)
}
