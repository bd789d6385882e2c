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

var _ repository.TurnRepository = (*TurnRepository)(nil)

// TurnRepository turnos de caja sobre SQLite.
type TurnRepository struct {
	q Querier
}

func NewTurnRepository(q Querier) *TurnRepository {
	return &TurnRepository{q: q}
}

const turnColumns = `id, branch_id, user_id, opened_at, closed_at, opening_amount,
	closing_amount, expected_amount, status, notes`

func (r *TurnRepository) Create(t *entity.Turn) (int64, error) {
	ts := t.OpenedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := r.q.Exec(`INSERT INTO turns
		(branch_id, user_id, opened_at, opening_amount, status, notes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.BranchID, t.UserID, formatTime(ts), t.OpeningAmount, entity.TurnOpen, t.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert turn: %w", err)
	}
	t.OpenedAt = ts
	return res.LastInsertId()
}

func (r *TurnRepository) GetByID(id int64) (*entity.Turn, error) {
	row := r.q.QueryRow(`SELECT `+turnColumns+` FROM turns WHERE id = ?`, id)
	t, err := scanTurn(row)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetOpen devuelve el turno abierto de (sucursal, usuario) o nil si no hay.
func (r *TurnRepository) GetOpen(branchID, userID int64) (*entity.Turn, error) {
	row := r.q.QueryRow(`SELECT `+turnColumns+` FROM turns
		WHERE branch_id = ? AND user_id = ? AND status = ?
		ORDER BY id DESC LIMIT 1`, branchID, userID, entity.TurnOpen)
	t, err := scanTurn(row)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return t, err
}

func (r *TurnRepository) Close(id int64, closingAmount, expectedAmount decimal.Decimal, notes string) error {
	res, err := r.q.Exec(`UPDATE turns SET
		closed_at = ?, closing_amount = ?, expected_amount = ?, status = ?,
		notes = CASE WHEN ? = '' THEN notes
		             WHEN notes = '' THEN ?
		             ELSE notes || char(10) || ? END
		WHERE id = ? AND status = ?`,
		formatTime(time.Now()), closingAmount, expectedAmount, entity.TurnClosed,
		notes, notes, notes, id, entity.TurnOpen)
	if err != nil {
		return fmt.Errorf("close turn: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTurnClosed
	}
	return nil
}

func (r *TurnRepository) List(branchID int64, status string, limit int) ([]*entity.Turn, error) {
	q := `SELECT ` + turnColumns + ` FROM turns WHERE branch_id = ?`
	args := []any{branchID}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.q.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()
	var out []*entity.Turn
	for rows.Next() {
		t, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTurn(row rowScanner) (*entity.Turn, error) {
	var (
		t        entity.Turn
		opened   string
		closed   sql.NullString
		closing  sql.NullFloat64
		expected sql.NullFloat64
	)
	err := row.Scan(&t.ID, &t.BranchID, &t.UserID, &opened, &closed,
		&t.OpeningAmount, &closing, &expected, &t.Status, &t.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan turn: %w", err)
	}
	t.OpenedAt = parseTime(opened)
	t.ClosedAt = nullTimePtr(closed)
	if closing.Valid {
		v := decimal.NewFromFloat(closing.Float64)
		t.ClosingAmount = &v
	}
	if expected.Valid {
		v := decimal.NewFromFloat(expected.Float64)
		t.ExpectedAmount = &v
	}
	return &t, nil
}

var _ repository.CashMovementRepository = (*CashMovementRepository)(nil)

// CashMovementRepository entradas/salidas de efectivo sobre SQLite.
type CashMovementRepository struct {
	q Querier
}

func NewCashMovementRepository(q Querier) *CashMovementRepository {
	return &CashMovementRepository{q: q}
}

func (r *CashMovementRepository) Create(m *entity.CashMovement) (int64, error) {
	ts := m.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := r.q.Exec(`INSERT INTO cash_movements
		(branch_id, user_id, type, amount, reason, created_at, turn_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.BranchID, int64PtrArg(m.UserID), m.Type, m.Amount, m.Reason,
		formatTime(ts), m.TurnID)
	if err != nil {
		return 0, fmt.Errorf("insert cash movement: %w", err)
	}
	m.CreatedAt = ts
	return res.LastInsertId()
}

func (r *CashMovementRepository) ListByTurn(turnID int64) ([]*entity.CashMovement, error) {
	rows, err := r.q.Query(`SELECT id, branch_id, user_id, type, amount, reason, created_at, turn_id
		FROM cash_movements WHERE turn_id = ? ORDER BY id`, turnID)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.CashMovement
	for rows.Next() {
		var (
			m       entity.CashMovement
			userID  sql.NullInt64
			created string
		)
		if err := rows.Scan(&m.ID, &m.BranchID, &userID, &m.Type, &m.Amount,
			&m.Reason, &created, &m.TurnID); err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		m.UserID = nullInt64Ptr(userID)
		m.CreatedAt = parseTime(created)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *CashMovementRepository) Delete(id int64) error {
	res, err := r.q.Exec(`DELETE FROM cash_movements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete cash movement: %w", err)
	}
	return requireRows(res)
}

// Sums devuelve (entradas, salidas) del turno.
func (r *CashMovementRepository) Sums(turnID int64) (decimal.Decimal, decimal.Decimal, error) {
	var ins, outs decimal.Decimal
	err := r.q.QueryRow(`SELECT
		COALESCE(SUM(CASE WHEN type = 'in' THEN amount ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN type = 'out' THEN amount ELSE 0 END), 0)
		FROM cash_movements WHERE turn_id = ?`, turnID).Scan(&ins, &outs)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum cash movements: %w", err)
	}
	return ins, outs, nil
}
