package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiendamx/pos-mostrador/internal/application/dto"
	"github.com/tiendamx/pos-mostrador/internal/application/reports"
)

// DashboardHandler expone los reportes de lectura para el dashboard.
type DashboardHandler struct {
	uc *reports.Usecase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *reports.Usecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

func period(c *fiber.Ctx) reports.Period {
	return reports.Period{From: c.Query("from"), To: c.Query("to")}
}

// Sales reporte de ventas del período (?from=YYYY-MM-DD&to=YYYY-MM-DD; sin
// fechas usa el día de hoy).
func (h *DashboardHandler) Sales(c *fiber.Ctx) error {
	rep, err := h.uc.Sales(c.Context(), GetSession(c).BranchID, period(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SalesReportResponse{
		Count:    rep.Count,
		Total:    rep.Total,
		ByMethod: dto.MethodTotalsFromResults(rep.ByMethod),
		ByDay:    dto.DailyTotalsFromResults(rep.ByDay),
	})
}

// TopProducts productos con mayor ingreso en el período.
func (h *DashboardHandler) TopProducts(c *fiber.Ctx) error {
	rs, err := h.uc.TopProducts(c.Context(), GetSession(c).BranchID, period(c), c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TopProductsFromResults(rs))
}

// LowStock productos con disponible en o bajo su mínimo.
func (h *DashboardHandler) LowStock(c *fiber.Ctx) error {
	rs, err := h.uc.LowStock(c.Context(), GetSession(c).BranchID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LowStockFromResults(rs))
}

// Outstanding carteras pendientes: crédito y apartados.
func (h *DashboardHandler) Outstanding(c *fiber.Ctx) error {
	out, err := h.uc.GetOutstanding(c.Context(), GetSession(c).BranchID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OutstandingResponse{Credit: out.Credit, Layaway: out.Layaway})
}
