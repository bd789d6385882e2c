package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepository)(nil)

// StockRepository existencias por (producto, sucursal) sobre SQLite.
type StockRepository struct {
	q Querier
}

func NewStockRepository(q Querier) *StockRepository {
	return &StockRepository{q: q}
}

// ensureRow garantiza la fila de stock antes de una mutación relativa.
func (r *StockRepository) ensureRow(productID, branchID int64) error {
	_, err := r.q.Exec(`INSERT OR IGNORE INTO product_stocks
		(product_id, branch_id, stock, reserved, min_stock, max_stock, updated_at)
		VALUES (?, ?, 0, 0, 0, 0, ?)`,
		productID, branchID, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("ensure stock row: %w", err)
	}
	return nil
}

func (r *StockRepository) Get(productID, branchID int64) (*entity.ProductStock, error) {
	var (
		s       entity.ProductStock
		updated string
	)
	err := r.q.QueryRow(`SELECT product_id, branch_id, stock, reserved, min_stock, max_stock, updated_at
		FROM product_stocks WHERE product_id = ? AND branch_id = ?`,
		productID, branchID).
		Scan(&s.ProductID, &s.BranchID, &s.Stock, &s.Reserved, &s.MinStock, &s.MaxStock, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		// Sin fila equivale a existencia cero.
		return &entity.ProductStock{ProductID: productID, BranchID: branchID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stock: %w", err)
	}
	s.UpdatedAt = parseTime(updated)
	return &s, nil
}

func (r *StockRepository) AdjustStock(productID, branchID int64, delta decimal.Decimal) error {
	if err := r.ensureRow(productID, branchID); err != nil {
		return err
	}
	_, err := r.q.Exec(`UPDATE product_stocks
		SET stock = stock + ?, updated_at = ?
		WHERE product_id = ? AND branch_id = ?`,
		delta, formatTime(time.Now()), productID, branchID)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	return nil
}

func (r *StockRepository) Reserve(productID, branchID int64, qty decimal.Decimal) error {
	if err := r.ensureRow(productID, branchID); err != nil {
		return err
	}
	current, err := r.Get(productID, branchID)
	if err != nil {
		return err
	}
	if current.Reserved.Add(qty).GreaterThan(current.Stock) {
		return domain.ErrReservedExceedsStock
	}
	_, err = r.q.Exec(`UPDATE product_stocks
		SET reserved = reserved + ?, updated_at = ?
		WHERE product_id = ? AND branch_id = ?`,
		qty, formatTime(time.Now()), productID, branchID)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}
	return nil
}

func (r *StockRepository) ReleaseReserved(productID, branchID int64, qty decimal.Decimal) error {
	_, err := r.q.Exec(`UPDATE product_stocks
		SET reserved = MAX(reserved - ?, 0), stock = stock + ?, updated_at = ?
		WHERE product_id = ? AND branch_id = ?`,
		qty, qty, formatTime(time.Now()), productID, branchID)
	if err != nil {
		return fmt.Errorf("release reserved: %w", err)
	}
	return nil
}

func (r *StockRepository) ConsumeReserved(productID, branchID int64, qty decimal.Decimal) error {
	_, err := r.q.Exec(`UPDATE product_stocks
		SET reserved = MAX(reserved - ?, 0), stock = stock - ?, updated_at = ?
		WHERE product_id = ? AND branch_id = ?`,
		qty, qty, formatTime(time.Now()), productID, branchID)
	if err != nil {
		return fmt.Errorf("consume reserved: %w", err)
	}
	return nil
}

func (r *StockRepository) SetLevels(productID, branchID int64, minStock, maxStock decimal.Decimal) error {
	if err := r.ensureRow(productID, branchID); err != nil {
		return err
	}
	_, err := r.q.Exec(`UPDATE product_stocks
		SET min_stock = ?, max_stock = ?, updated_at = ?
		WHERE product_id = ? AND branch_id = ?`,
		minStock, maxStock, formatTime(time.Now()), productID, branchID)
	if err != nil {
		return fmt.Errorf("set stock levels: %w", err)
	}
	return nil
}

func (r *StockRepository) ListByBranch(branchID int64) ([]*entity.ProductStock, error) {
	rows, err := r.q.Query(`SELECT product_id, branch_id, stock, reserved, min_stock, max_stock, updated_at
		FROM product_stocks WHERE branch_id = ? ORDER BY product_id`, branchID)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var out []*entity.ProductStock
	for rows.Next() {
		var (
			s       entity.ProductStock
			updated string
		)
		if err := rows.Scan(&s.ProductID, &s.BranchID, &s.Stock, &s.Reserved,
			&s.MinStock, &s.MaxStock, &updated); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		s.UpdatedAt = parseTime(updated)
		out = append(out, &s)
	}
	return out, rows.Err()
}

var _ repository.InventoryLogRepository = (*InventoryLogRepository)(nil)

// InventoryLogRepository bitácora de movimientos sobre SQLite.
type InventoryLogRepository struct {
	q Querier
}

func NewInventoryLogRepository(q Querier) *InventoryLogRepository {
	return &InventoryLogRepository{q: q}
}

func (r *InventoryLogRepository) Create(log *entity.InventoryLog) error {
	ts := log.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := r.q.Exec(`INSERT INTO inventory_logs
		(product_id, branch_id, delta, reason, ref_type, ref_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		log.ProductID, log.BranchID, log.Delta, log.Reason, log.RefType,
		int64PtrArg(log.RefID), formatTime(ts))
	if err != nil {
		return fmt.Errorf("insert inventory log: %w", err)
	}
	log.ID, _ = res.LastInsertId()
	log.CreatedAt = ts
	return nil
}

func (r *InventoryLogRepository) List(productID, branchID int64, limit int) ([]*entity.InventoryLog, error) {
	rows, err := r.q.Query(`SELECT id, product_id, branch_id, delta, reason, ref_type, ref_id, created_at
		FROM inventory_logs
		WHERE (? = 0 OR product_id = ?) AND (? = 0 OR branch_id = ?)
		ORDER BY id DESC LIMIT ?`,
		productID, productID, branchID, branchID, limit)
	if err != nil {
		return nil, fmt.Errorf("list inventory logs: %w", err)
	}
	return collectInventoryLogs(rows)
}

func (r *InventoryLogRepository) Since(since string, limit int) ([]*entity.InventoryLog, error) {
	rows, err := r.q.Query(`SELECT id, product_id, branch_id, delta, reason, ref_type, ref_id, created_at
		FROM inventory_logs WHERE created_at >= ? ORDER BY id LIMIT ?`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("inventory logs since: %w", err)
	}
	return collectInventoryLogs(rows)
}

func collectInventoryLogs(rows *sql.Rows) ([]*entity.InventoryLog, error) {
	defer rows.Close()
	var out []*entity.InventoryLog
	for rows.Next() {
		var (
			l       entity.InventoryLog
			refID   sql.NullInt64
			created string
		)
		if err := rows.Scan(&l.ID, &l.ProductID, &l.BranchID, &l.Delta, &l.Reason,
			&l.RefType, &refID, &created); err != nil {
			return nil, fmt.Errorf("scan inventory log: %w", err)
		}
		l.RefID = nullInt64Ptr(refID)
		l.CreatedAt = parseTime(created)
		out = append(out, &l)
	}
	return out, rows.Err()
}
