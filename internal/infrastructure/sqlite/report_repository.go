package sqlite

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepository)(nil)

// ReportRepository consultas de lectura para reportes sobre SQLite.
type ReportRepository struct {
	q Querier
}

func NewReportRepository(q Querier) *ReportRepository {
	return &ReportRepository{q: q}
}

func (r *ReportRepository) SalesSummary(branchID int64, from, to string) (int, decimal.Decimal, error) {
	var (
		count int
		total decimal.Decimal
	)
	err := r.q.QueryRow(`SELECT COUNT(*), COALESCE(SUM(total), 0) FROM sales
		WHERE branch_id = ? AND timestamp >= ? AND timestamp <= ?`,
		branchID, from, to).Scan(&count, &total)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("sales summary: %w", err)
	}
	return count, total, nil
}

func (r *ReportRepository) SalesByMethod(branchID int64, from, to string) ([]repository.MethodTotal, error) {
	rows, err := r.q.Query(`SELECT payment_method, COUNT(*), COALESCE(SUM(total), 0)
		FROM sales WHERE branch_id = ? AND timestamp >= ? AND timestamp <= ?
		GROUP BY payment_method ORDER BY payment_method`,
		branchID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by method: %w", err)
	}
	defer rows.Close()
	var out []repository.MethodTotal
	for rows.Next() {
		var m repository.MethodTotal
		if err := rows.Scan(&m.Method, &m.Count, &m.Total); err != nil {
			return nil, fmt.Errorf("scan method total: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ReportRepository) SalesByDay(branchID int64, from, to string) ([]repository.DailyTotal, error) {
	rows, err := r.q.Query(`SELECT substr(timestamp, 1, 10) AS day, COUNT(*), COALESCE(SUM(total), 0)
		FROM sales WHERE branch_id = ? AND timestamp >= ? AND timestamp <= ?
		GROUP BY day ORDER BY day`,
		branchID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by day: %w", err)
	}
	defer rows.Close()
	var out []repository.DailyTotal
	for rows.Next() {
		var d repository.DailyTotal
		if err := rows.Scan(&d.Day, &d.Count, &d.Total); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *ReportRepository) TopProducts(branchID int64, from, to string, limit int) ([]repository.TopProductResult, error) {
	rows, err := r.q.Query(`SELECT p.id, p.sku, p.name,
		COALESCE(SUM(i.qty), 0), COALESCE(SUM(i.total), 0) AS revenue
		FROM sale_items i
		JOIN sales s ON s.id = i.sale_id
		JOIN products p ON p.id = i.product_id
		WHERE s.branch_id = ? AND s.timestamp >= ? AND s.timestamp <= ?
		GROUP BY p.id, p.sku, p.name
		ORDER BY revenue DESC LIMIT ?`,
		branchID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()
	var out []repository.TopProductResult
	for rows.Next() {
		var t repository.TopProductResult
		if err := rows.Scan(&t.ProductID, &t.SKU, &t.Name, &t.UnitsSold, &t.Revenue); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *ReportRepository) LowStock(branchID int64) ([]repository.LowStockResult, error) {
	rows, err := r.q.Query(`SELECT p.id, p.sku, p.name, ps.stock, ps.reserved, ps.min_stock
		FROM product_stocks ps
		JOIN products p ON p.id = ps.product_id
		WHERE ps.branch_id = ? AND p.is_active = 1 AND p.uses_inventory = 1
		  AND (ps.stock - ps.reserved) <= ps.min_stock
		ORDER BY p.name`, branchID)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()
	var out []repository.LowStockResult
	for rows.Next() {
		var l repository.LowStockResult
		if err := rows.Scan(&l.ProductID, &l.SKU, &l.Name, &l.Stock, &l.Reserved, &l.MinStock); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *ReportRepository) CreditOutstanding() (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(`SELECT COALESCE(SUM(credit_balance), 0) FROM customers
		WHERE credit_balance > 0`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("credit outstanding: %w", err)
	}
	return total, nil
}

func (r *ReportRepository) LayawayOutstanding(branchID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(`SELECT COALESCE(SUM(balance), 0) FROM layaways
		WHERE branch_id = ? AND status = 'pendiente'`, branchID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("layaway outstanding: %w", err)
	}
	return total, nil
}
