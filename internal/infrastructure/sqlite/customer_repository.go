package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/credit"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepository)(nil)

// CustomerRepository clientes sobre SQLite. El límite ilimitado se codifica
// como credit_limit negativo al persistir.
type CustomerRepository struct {
	q Querier
}

func NewCustomerRepository(q Querier) *CustomerRepository {
	return &CustomerRepository{q: q}
}

const customerColumns = `id, first_name, last_name, phone, email, email_fiscal, notes, vip,
	credit_limit, credit_balance, credit_authorized, is_active, created_at,
	rfc, razon_social, domicilio1, domicilio2, colonia, municipio, estado,
	pais, codigo_postal, regimen_fiscal`

func (r *CustomerRepository) Create(c *entity.Customer) (int64, error) {
	res, err := r.q.Exec(`INSERT INTO customers
		(first_name, last_name, phone, email, email_fiscal, notes, vip,
		 credit_limit, credit_balance, credit_authorized, is_active, created_at,
		 rfc, razon_social, domicilio1, domicilio2, colonia, municipio, estado,
		 pais, codigo_postal, regimen_fiscal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.FirstName, c.LastName, c.Phone, c.Email, c.EmailFiscal, c.Notes, c.VIP,
		c.CreditLimit.Stored(), c.CreditBalance, c.CreditAuthorized, c.IsActive,
		formatTime(time.Now()), c.RFC, c.RazonSocial, c.Domicilio1, c.Domicilio2,
		c.Colonia, c.Municipio, c.Estado, c.Pais, c.CodigoPostal, c.RegimenFiscal)
	if err != nil {
		return 0, fmt.Errorf("insert customer: %w", err)
	}
	return res.LastInsertId()
}

func (r *CustomerRepository) Update(c *entity.Customer) error {
	res, err := r.q.Exec(`UPDATE customers SET
		first_name = ?, last_name = ?, phone = ?, email = ?, email_fiscal = ?,
		notes = ?, vip = ?, credit_limit = ?, credit_authorized = ?, is_active = ?,
		rfc = ?, razon_social = ?, domicilio1 = ?, domicilio2 = ?, colonia = ?,
		municipio = ?, estado = ?, pais = ?, codigo_postal = ?, regimen_fiscal = ?
		WHERE id = ?`,
		c.FirstName, c.LastName, c.Phone, c.Email, c.EmailFiscal, c.Notes, c.VIP,
		c.CreditLimit.Stored(), c.CreditAuthorized, c.IsActive, c.RFC, c.RazonSocial,
		c.Domicilio1, c.Domicilio2, c.Colonia, c.Municipio, c.Estado, c.Pais,
		c.CodigoPostal, c.RegimenFiscal, c.ID)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return requireRows(res)
}

func (r *CustomerRepository) Delete(id int64) error {
	res, err := r.q.Exec(`DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return requireRows(res)
}

func (r *CustomerRepository) GetByID(id int64) (*entity.Customer, error) {
	row := r.q.QueryRow(`SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	return scanCustomer(row)
}

func (r *CustomerRepository) Search(query string, limit int) ([]*entity.Customer, error) {
	like := "%" + query + "%"
	rows, err := r.q.Query(`SELECT `+customerColumns+` FROM customers
		WHERE is_active = 1 AND (first_name LIKE ? OR last_name LIKE ? OR phone LIKE ? OR rfc LIKE ?)
		ORDER BY first_name, last_name LIMIT ?`, like, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	return collectCustomers(rows)
}

func (r *CustomerRepository) List(limit int) ([]*entity.Customer, error) {
	rows, err := r.q.Query(`SELECT `+customerColumns+` FROM customers
		ORDER BY first_name, last_name LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return collectCustomers(rows)
}

func (r *CustomerRepository) AddCreditBalance(id int64, delta decimal.Decimal) error {
	res, err := r.q.Exec(`UPDATE customers SET credit_balance = credit_balance + ? WHERE id = ?`,
		delta, id)
	if err != nil {
		return fmt.Errorf("add credit balance: %w", err)
	}
	return requireRows(res)
}

func (r *CustomerRepository) ReduceCreditBalance(id int64, amount decimal.Decimal) error {
	res, err := r.q.Exec(`UPDATE customers SET credit_balance = MAX(credit_balance - ?, 0) WHERE id = ?`,
		amount, id)
	if err != nil {
		return fmt.Errorf("reduce credit balance: %w", err)
	}
	return requireRows(res)
}

func (r *CustomerRepository) ListWithBalance() ([]*entity.Customer, error) {
	rows, err := r.q.Query(`SELECT ` + customerColumns + ` FROM customers
		WHERE credit_balance > 0 ORDER BY first_name, last_name`)
	if err != nil {
		return nil, fmt.Errorf("list customers with balance: %w", err)
	}
	return collectCustomers(rows)
}

func (r *CustomerRepository) Since(since string, limit int) ([]*entity.Customer, error) {
	rows, err := r.q.Query(`SELECT `+customerColumns+` FROM customers
		WHERE created_at >= ? ORDER BY created_at LIMIT ?`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("customers since: %w", err)
	}
	return collectCustomers(rows)
}

func scanCustomer(row rowScanner) (*entity.Customer, error) {
	var (
		c       entity.Customer
		limit   decimal.Decimal
		created string
	)
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Email,
		&c.EmailFiscal, &c.Notes, &c.VIP, &limit, &c.CreditBalance,
		&c.CreditAuthorized, &c.IsActive, &created, &c.RFC, &c.RazonSocial,
		&c.Domicilio1, &c.Domicilio2, &c.Colonia, &c.Municipio, &c.Estado,
		&c.Pais, &c.CodigoPostal, &c.RegimenFiscal)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	c.CreditLimit = credit.FromStored(limit)
	c.CreatedAt = parseTime(created)
	return &c, nil
}

func collectCustomers(rows *sql.Rows) ([]*entity.Customer, error) {
	defer rows.Close()
	var out []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ repository.CreditRepository = (*CreditRepository)(nil)

// CreditRepository abonos a cuenta sobre SQLite.
type CreditRepository struct {
	q Querier
}

func NewCreditRepository(q Querier) *CreditRepository {
	return &CreditRepository{q: q}
}

func (r *CreditRepository) CreatePayment(p *entity.CreditPayment) (int64, error) {
	saleIDs, err := json.Marshal(p.SaleIDs)
	if err != nil {
		return 0, fmt.Errorf("marshal sale_ids: %w", err)
	}
	ts := p.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := r.q.Exec(`INSERT INTO credit_payments
		(customer_id, amount, timestamp, notes, user_id, sale_ids)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.CustomerID, p.Amount, formatTime(ts), p.Notes, int64PtrArg(p.UserID), string(saleIDs))
	if err != nil {
		return 0, fmt.Errorf("insert credit payment: %w", err)
	}
	p.Timestamp = ts
	return res.LastInsertId()
}

const creditPaymentColumns = `id, customer_id, amount, timestamp, notes, user_id, sale_ids`

func (r *CreditRepository) PaymentsByCustomer(customerID int64) ([]*entity.CreditPayment, error) {
	rows, err := r.q.Query(`SELECT `+creditPaymentColumns+` FROM credit_payments
		WHERE customer_id = ? ORDER BY timestamp`, customerID)
	if err != nil {
		return nil, fmt.Errorf("credit payments by customer: %w", err)
	}
	return collectCreditPayments(rows)
}

func (r *CreditRepository) ListAllPayments(limit int) ([]*entity.CreditPayment, error) {
	rows, err := r.q.Query(`SELECT `+creditPaymentColumns+` FROM credit_payments
		ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list credit payments: %w", err)
	}
	return collectCreditPayments(rows)
}

func (r *CreditRepository) PaymentsInWindow(from, to string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM credit_payments
		WHERE timestamp >= ? AND timestamp <= ?`, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("credit payments in window: %w", err)
	}
	return total, nil
}

func (r *CreditRepository) GetPreviousBalance(customerID int64) (*entity.PreviousCreditBalance, error) {
	var (
		b       entity.PreviousCreditBalance
		created string
	)
	err := r.q.QueryRow(`SELECT id, customer_id, balance, description, created_at
		FROM previous_credit_balances WHERE customer_id = ?
		ORDER BY id DESC LIMIT 1`, customerID).
		Scan(&b.ID, &b.CustomerID, &b.Balance, &b.Description, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get previous balance: %w", err)
	}
	b.CreatedAt = parseTime(created)
	return &b, nil
}

func (r *CreditRepository) SetPreviousBalance(customerID int64, balance decimal.Decimal, description string) (int64, error) {
	res, err := r.q.Exec(`INSERT INTO previous_credit_balances
		(customer_id, balance, description, created_at) VALUES (?, ?, ?, ?)`,
		customerID, balance, description, formatTime(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("set previous balance: %w", err)
	}
	return res.LastInsertId()
}

func collectCreditPayments(rows *sql.Rows) ([]*entity.CreditPayment, error) {
	defer rows.Close()
	var out []*entity.CreditPayment
	for rows.Next() {
		var (
			p       entity.CreditPayment
			ts      string
			userID  sql.NullInt64
			saleIDs string
		)
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.Amount, &ts, &p.Notes, &userID, &saleIDs); err != nil {
			return nil, fmt.Errorf("scan credit payment: %w", err)
		}
		p.Timestamp = parseTime(ts)
		p.UserID = nullInt64Ptr(userID)
		if saleIDs != "" {
			if err := json.Unmarshal([]byte(saleIDs), &p.SaleIDs); err != nil {
				return nil, fmt.Errorf("unmarshal sale_ids: %w", err)
			}
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
