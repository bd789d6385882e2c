package reports

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
)

// Usecase reportes de lectura para el dashboard: ventas por período, métodos
// de pago, productos top, stock bajo y carteras pendientes.
type Usecase struct {
	reportRepo repository.ReportRepository
}

// New construye el caso de uso.
func New(reportRepo repository.ReportRepository) *Usecase {
	return &Usecase{reportRepo: reportRepo}
}

// Period rango de fechas de un reporte (fechas naturales, inclusivas).
type Period struct {
	From string // YYYY-MM-DD
	To   string // YYYY-MM-DD
}

// bounds expande el período a timestamps de día completo. Sin fechas usa el
// día de hoy.
func (p Period) bounds() (string, string, error) {
	const day = "2006-01-02"
	from := strings.TrimSpace(p.From)
	to := strings.TrimSpace(p.To)
	if from == "" && to == "" {
		today := time.Now().Format(day)
		from, to = today, today
	}
	if from == "" {
		from = to
	}
	if to == "" {
		to = from
	}
	if _, err := time.Parse(day, from); err != nil {
		return "", "", domain.ErrInvalidInput
	}
	if _, err := time.Parse(day, to); err != nil {
		return "", "", domain.ErrInvalidInput
	}
	return from + " 00:00:00", to + " 23:59:59", nil
}

// SalesReport resumen de ventas de un período.
type SalesReport struct {
	Count    int
	Total    decimal.Decimal
	ByMethod []repository.MethodTotal
	ByDay    []repository.DailyTotal
}

// Sales arma el reporte de ventas del período.
func (uc *Usecase) Sales(ctx context.Context, branchID int64, p Period) (*SalesReport, error) {
	from, to, err := p.bounds()
	if err != nil {
		return nil, err
	}
	count, total, err := uc.reportRepo.SalesSummary(branchID, from, to)
	if err != nil {
		return nil, err
	}
	byMethod, err := uc.reportRepo.SalesByMethod(branchID, from, to)
	if err != nil {
		return nil, err
	}
	byDay, err := uc.reportRepo.SalesByDay(branchID, from, to)
	if err != nil {
		return nil, err
	}
	return &SalesReport{Count: count, Total: total, ByMethod: byMethod, ByDay: byDay}, nil
}

// TopProducts productos con mayor ingreso en el período.
func (uc *Usecase) TopProducts(ctx context.Context, branchID int64, p Period, limit int) ([]repository.TopProductResult, error) {
	from, to, err := p.bounds()
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return uc.reportRepo.TopProducts(branchID, from, to, limit)
}

// LowStock productos en o bajo su mínimo en la sucursal.
func (uc *Usecase) LowStock(ctx context.Context, branchID int64) ([]repository.LowStockResult, error) {
	return uc.reportRepo.LowStock(branchID)
}

// Outstanding carteras pendientes: crédito de clientes y apartados.
type Outstanding struct {
	Credit  decimal.Decimal
	Layaway decimal.Decimal
}

// GetOutstanding devuelve las carteras pendientes de la sucursal.
func (uc *Usecase) GetOutstanding(ctx context.Context, branchID int64) (*Outstanding, error) {
	credit, err := uc.reportRepo.CreditOutstanding()
	if err != nil {
		return nil, err
	}
	layaway, err := uc.reportRepo.LayawayOutstanding(branchID)
	if err != nil {
		return nil, err
	}
	return &Outstanding{Credit: credit, Layaway: layaway}, nil
}
