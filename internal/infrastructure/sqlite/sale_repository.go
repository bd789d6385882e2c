package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/payment"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepository)(nil)

// SaleRepository ventas sobre SQLite. El desglose de pago se persiste como
// JSON en payment_breakdown; los campos denormalizados (reference, card_fee,
// usd_*) existen para consultas sin parsear JSON.
type SaleRepository struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepository {
	return &SaleRepository{q: q}
}

const saleColumns = `id, branch_id, user_id, customer_id, timestamp, subtotal, discount, total,
	payment_method, payment_breakdown, reference, card_fee, usd_amount,
	usd_exchange, voucher_amount, check_number, turn_id`

func (r *SaleRepository) Create(s *entity.Sale) (int64, error) {
	breakdown, err := json.Marshal(s.Breakdown)
	if err != nil {
		return 0, fmt.Errorf("marshal payment_breakdown: %w", err)
	}
	ts := s.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := r.q.Exec(`INSERT INTO sales
		(branch_id, user_id, customer_id, timestamp, subtotal, discount, total,
		 payment_method, payment_breakdown, reference, card_fee, usd_amount,
		 usd_exchange, voucher_amount, check_number, turn_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.BranchID, int64PtrArg(s.UserID), int64PtrArg(s.CustomerID), formatTime(ts),
		s.Subtotal, s.Discount, s.Total, string(s.PaymentMethod), string(breakdown),
		s.Reference, s.CardFee, s.USDAmount, s.USDExchange, s.VoucherAmount,
		s.CheckNumber, int64PtrArg(s.TurnID))
	if err != nil {
		return 0, fmt.Errorf("insert sale: %w", err)
	}
	s.Timestamp = ts
	return res.LastInsertId()
}

func (r *SaleRepository) CreateItem(item *entity.SaleItem) error {
	meta, err := json.Marshal(item.Metadata)
	if err != nil {
		return fmt.Errorf("marshal sale item metadata: %w", err)
	}
	res, err := r.q.Exec(`INSERT INTO sale_items
		(sale_id, product_id, qty, price, discount, total, price_includes_tax, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.SaleID, item.ProductID, item.Qty, item.Price, item.Discount,
		item.Total, item.PriceIncludesTax, string(meta))
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	item.ID, _ = res.LastInsertId()
	return nil
}

func (r *SaleRepository) GetByID(id int64) (*entity.Sale, error) {
	row := r.q.QueryRow(`SELECT `+saleColumns+` FROM sales WHERE id = ?`, id)
	return scanSale(row)
}

func (r *SaleRepository) GetItems(saleID int64) ([]*entity.SaleItem, error) {
	rows, err := r.q.Query(`SELECT id, sale_id, product_id, qty, price, discount, total,
		price_includes_tax, metadata
		FROM sale_items WHERE sale_id = ? ORDER BY id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	var out []*entity.SaleItem
	for rows.Next() {
		var (
			it   entity.SaleItem
			meta string
		)
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Qty, &it.Price,
			&it.Discount, &it.Total, &it.PriceIncludesTax, &meta); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		if meta != "" {
			if err := json.Unmarshal([]byte(meta), &it.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal sale item metadata: %w", err)
			}
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

func (r *SaleRepository) ListRecent(limit int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(`SELECT `+saleColumns+` FROM sales ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent sales: %w", err)
	}
	return collectSales(rows)
}

func (r *SaleRepository) ListByTurn(turnID int64) ([]*entity.Sale, error) {
	rows, err := r.q.Query(`SELECT `+saleColumns+` FROM sales WHERE turn_id = ? ORDER BY id`, turnID)
	if err != nil {
		return nil, fmt.Errorf("list sales by turn: %w", err)
	}
	return collectSales(rows)
}

func (r *SaleRepository) ListByCustomer(customerID int64, limit int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(`SELECT `+saleColumns+` FROM sales
		WHERE customer_id = ? ORDER BY id DESC LIMIT ?`, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list sales by customer: %w", err)
	}
	return collectSales(rows)
}

func (r *SaleRepository) Since(since string, limit int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(`SELECT `+saleColumns+` FROM sales
		WHERE timestamp >= ? ORDER BY id LIMIT ?`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("sales since: %w", err)
	}
	return collectSales(rows)
}

func scanSale(row rowScanner) (*entity.Sale, error) {
	var (
		s          entity.Sale
		userID     sql.NullInt64
		customerID sql.NullInt64
		turnID     sql.NullInt64
		ts         string
		method     string
		breakdown  string
	)
	err := row.Scan(&s.ID, &s.BranchID, &userID, &customerID, &ts, &s.Subtotal,
		&s.Discount, &s.Total, &method, &breakdown, &s.Reference, &s.CardFee,
		&s.USDAmount, &s.USDExchange, &s.VoucherAmount, &s.CheckNumber, &turnID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan sale: %w", err)
	}
	s.UserID = nullInt64Ptr(userID)
	s.CustomerID = nullInt64Ptr(customerID)
	s.TurnID = nullInt64Ptr(turnID)
	s.Timestamp = parseTime(ts)
	s.PaymentMethod = payment.Method(method)
	if breakdown != "" {
		if err := json.Unmarshal([]byte(breakdown), &s.Breakdown); err != nil {
			return nil, fmt.Errorf("unmarshal payment_breakdown: %w", err)
		}
	}
	return &s, nil
}

func collectSales(rows *sql.Rows) ([]*entity.Sale, error) {
	defer rows.Close()
	var out []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
