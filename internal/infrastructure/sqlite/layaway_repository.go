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

var _ repository.LayawayRepository = (*LayawayRepository)(nil)

// LayawayRepository apartados sobre SQLite.
type LayawayRepository struct {
	q Querier
}

func NewLayawayRepository(q Querier) *LayawayRepository {
	return &LayawayRepository{q: q}
}

const layawayColumns = `id, branch_id, customer_id, total, deposit, balance, status, created_at, due_date, notes`

func (r *LayawayRepository) Create(l *entity.Layaway) (int64, error) {
	ts := l.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := r.q.Exec(`INSERT INTO layaways
		(branch_id, customer_id, total, deposit, balance, status, created_at, due_date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.BranchID, int64PtrArg(l.CustomerID), l.Total, l.Deposit, l.Balance,
		l.Status, formatTime(ts), timePtrArg(l.DueDate), l.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert layaway: %w", err)
	}
	l.CreatedAt = ts
	return res.LastInsertId()
}

func (r *LayawayRepository) CreateItem(item *entity.LayawayItem) error {
	res, err := r.q.Exec(`INSERT INTO layaway_items
		(layaway_id, product_id, qty, price, discount, total)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.LayawayID, item.ProductID, item.Qty, item.Price, item.Discount, item.Total)
	if err != nil {
		return fmt.Errorf("insert layaway item: %w", err)
	}
	item.ID, _ = res.LastInsertId()
	return nil
}

func (r *LayawayRepository) CreatePayment(p *entity.LayawayPayment) (int64, error) {
	ts := p.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := r.q.Exec(`INSERT INTO layaway_payments
		(layaway_id, amount, timestamp, notes, is_deposit, user_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.LayawayID, p.Amount, formatTime(ts), p.Notes, p.IsDeposit, int64PtrArg(p.UserID))
	if err != nil {
		return 0, fmt.Errorf("insert layaway payment: %w", err)
	}
	p.Timestamp = ts
	return res.LastInsertId()
}

func (r *LayawayRepository) GetByID(id int64) (*entity.Layaway, error) {
	row := r.q.QueryRow(`SELECT `+layawayColumns+` FROM layaways WHERE id = ?`, id)
	return scanLayaway(row)
}

func (r *LayawayRepository) Items(layawayID int64) ([]*entity.LayawayItem, error) {
	rows, err := r.q.Query(`SELECT id, layaway_id, product_id, qty, price, discount, total
		FROM layaway_items WHERE layaway_id = ? ORDER BY id`, layawayID)
	if err != nil {
		return nil, fmt.Errorf("layaway items: %w", err)
	}
	defer rows.Close()
	var out []*entity.LayawayItem
	for rows.Next() {
		var it entity.LayawayItem
		if err := rows.Scan(&it.ID, &it.LayawayID, &it.ProductID, &it.Qty,
			&it.Price, &it.Discount, &it.Total); err != nil {
			return nil, fmt.Errorf("scan layaway item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

func (r *LayawayRepository) Payments(layawayID int64) ([]*entity.LayawayPayment, error) {
	rows, err := r.q.Query(`SELECT id, layaway_id, amount, timestamp, notes, is_deposit, user_id
		FROM layaway_payments WHERE layaway_id = ? ORDER BY id`, layawayID)
	if err != nil {
		return nil, fmt.Errorf("layaway payments: %w", err)
	}
	defer rows.Close()
	var out []*entity.LayawayPayment
	for rows.Next() {
		var (
			p      entity.LayawayPayment
			ts     string
			userID sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.LayawayID, &p.Amount, &ts, &p.Notes, &p.IsDeposit, &userID); err != nil {
			return nil, fmt.Errorf("scan layaway payment: %w", err)
		}
		p.Timestamp = parseTime(ts)
		p.UserID = nullInt64Ptr(userID)
		out = append(out, &p)
	}
	return out, rows.Err()
}

// SumPayments suma los abonos reales; el depósito inicial ya cuenta en
// layaways.deposit, así que se excluye por su bandera.
func (r *LayawayRepository) SumPayments(layawayID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM layaway_payments
		WHERE layaway_id = ? AND is_deposit = 0`, layawayID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum layaway payments: %w", err)
	}
	return total, nil
}

func (r *LayawayRepository) PaymentsInWindow(branchID int64, from, to string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(`SELECT COALESCE(SUM(p.amount), 0)
		FROM layaway_payments p
		JOIN layaways l ON l.id = p.layaway_id
		WHERE l.branch_id = ? AND p.timestamp >= ? AND p.timestamp <= ?`,
		branchID, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("layaway payments in window: %w", err)
	}
	return total, nil
}

func (r *LayawayRepository) UpdateBalanceStatus(id int64, balance decimal.Decimal, status string) error {
	res, err := r.q.Exec(`UPDATE layaways SET balance = ?, status = ? WHERE id = ?`,
		balance, status, id)
	if err != nil {
		return fmt.Errorf("update layaway: %w", err)
	}
	return requireRows(res)
}

func (r *LayawayRepository) List(f repository.LayawayFilter) ([]*entity.Layaway, error) {
	q := `SELECT ` + layawayColumns + ` FROM layaways WHERE 1 = 1`
	var args []any
	if f.BranchID != 0 {
		q += ` AND branch_id = ?`
		args = append(args, f.BranchID)
	}
	if f.CustomerID != 0 {
		q += ` AND customer_id = ?`
		args = append(args, f.CustomerID)
	}
	switch f.Status {
	case "":
	case entity.LayawayOverdue:
		// Vencido es derivado: pendientes con fecha límite rebasada.
		q += ` AND status = ? AND due_date IS NOT NULL AND due_date < ?`
		args = append(args, entity.LayawayPending, formatTime(time.Now()))
	default:
		q += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.DateFrom != "" {
		q += ` AND created_at >= ?`
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		q += ` AND created_at <= ?`
		args = append(args, f.DateTo)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 200
	}
	q += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.q.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list layaways: %w", err)
	}
	defer rows.Close()
	var out []*entity.Layaway
	for rows.Next() {
		l, err := scanLayaway(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanLayaway(row rowScanner) (*entity.Layaway, error) {
	var (
		l          entity.Layaway
		customerID sql.NullInt64
		created    string
		dueDate    sql.NullString
	)
	err := row.Scan(&l.ID, &l.BranchID, &customerID, &l.Total, &l.Deposit,
		&l.Balance, &l.Status, &created, &dueDate, &l.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan layaway: %w", err)
	}
	l.CustomerID = nullInt64Ptr(customerID)
	l.CreatedAt = parseTime(created)
	l.DueDate = nullTimePtr(dueDate)
	return &l, nil
}
