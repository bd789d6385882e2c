package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
)

// MethodTotalResponse total por método de pago.
type MethodTotalResponse struct {
	Method string          `json:"method"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// DailyTotalResponse total por día natural.
type DailyTotalResponse struct {
	Day   string          `json:"day"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// SalesReportResponse reporte de ventas de un período.
type SalesReportResponse struct {
	Count    int                   `json:"count"`
	Total    decimal.Decimal       `json:"total"`
	ByMethod []MethodTotalResponse `json:"by_method"`
	ByDay    []DailyTotalResponse  `json:"by_day"`
}

// TopProductResponse producto con mayor ingreso en el período.
type TopProductResponse struct {
	ProductID int64           `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitsSold decimal.Decimal `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// LowStockResponse producto con disponible en o bajo el mínimo.
type LowStockResponse struct {
	ProductID int64           `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Stock     decimal.Decimal `json:"stock"`
	Reserved  decimal.Decimal `json:"reserved"`
	MinStock  decimal.Decimal `json:"min_stock"`
}

// OutstandingResponse carteras pendientes.
type OutstandingResponse struct {
	Credit  decimal.Decimal `json:"credit"`
	Layaway decimal.Decimal `json:"layaway"`
}

// MethodTotalsFromResults convierte los agregados por método.
func MethodTotalsFromResults(rs []repository.MethodTotal) []MethodTotalResponse {
	out := make([]MethodTotalResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, MethodTotalResponse{Method: r.Method, Count: r.Count, Total: r.Total})
	}
	return out
}

// DailyTotalsFromResults convierte los agregados por día.
func DailyTotalsFromResults(rs []repository.DailyTotal) []DailyTotalResponse {
	out := make([]DailyTotalResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, DailyTotalResponse{Day: r.Day, Count: r.Count, Total: r.Total})
	}
	return out
}

// TopProductsFromResults convierte el listado de productos top.
func TopProductsFromResults(rs []repository.TopProductResult) []TopProductResponse {
	out := make([]TopProductResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, TopProductResponse{
			ProductID: r.ProductID,
			SKU:       r.SKU,
			Name:      r.Name,
			UnitsSold: r.UnitsSold,
			Revenue:   r.Revenue,
		})
	}
	return out
}

// LowStockFromResults convierte el listado de stock bajo.
func LowStockFromResults(rs []repository.LowStockResult) []LowStockResponse {
	out := make([]LowStockResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, LowStockResponse{
			ProductID: r.ProductID,
			SKU:       r.SKU,
			Name:      r.Name,
			Stock:     r.Stock,
			Reserved:  r.Reserved,
			MinStock:  r.MinStock,
		})
	}
	return out
}
