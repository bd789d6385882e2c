package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepository)(nil)

// ProductRepository implementación SQLite del catálogo de productos.
type ProductRepository struct {
	q Querier
}

func NewProductRepository(q Querier) *ProductRepository {
	return &ProductRepository{q: q}
}

const productColumns = `id, sku, barcode, name, description, price, price_wholesale, cost,
	unit, allow_decimal, department, provider, is_active, is_favorite,
	sale_type, kit_items, uses_inventory, updated_at`

func (r *ProductRepository) Create(p *entity.Product) (int64, error) {
	kitJSON, err := json.Marshal(p.KitItems)
	if err != nil {
		return 0, fmt.Errorf("marshal kit_items: %w", err)
	}
	var barcode any
	if p.Barcode != "" {
		barcode = p.Barcode
	}
	res, err := r.q.Exec(`INSERT INTO products
		(sku, barcode, name, description, price, price_wholesale, cost, unit,
		 allow_decimal, department, provider, is_active, is_favorite, sale_type,
		 kit_items, uses_inventory, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SKU, barcode, p.Name, p.Description, p.Price, p.PriceWholesale, p.Cost,
		p.Unit, p.AllowDecimal, p.Department, p.Provider, p.IsActive, p.IsFavorite,
		p.SaleType, string(kitJSON), p.UsesInventory, formatTime(time.Now()))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicate
		}
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return res.LastInsertId()
}

func (r *ProductRepository) Update(p *entity.Product) error {
	kitJSON, err := json.Marshal(p.KitItems)
	if err != nil {
		return fmt.Errorf("marshal kit_items: %w", err)
	}
	var barcode any
	if p.Barcode != "" {
		barcode = p.Barcode
	}
	res, err := r.q.Exec(`UPDATE products SET
		sku = ?, barcode = ?, name = ?, description = ?, price = ?,
		price_wholesale = ?, cost = ?, unit = ?, allow_decimal = ?,
		department = ?, provider = ?, is_active = ?, is_favorite = ?,
		sale_type = ?, kit_items = ?, uses_inventory = ?, updated_at = ?
		WHERE id = ?`,
		p.SKU, barcode, p.Name, p.Description, p.Price, p.PriceWholesale, p.Cost,
		p.Unit, p.AllowDecimal, p.Department, p.Provider, p.IsActive, p.IsFavorite,
		p.SaleType, string(kitJSON), p.UsesInventory, formatTime(time.Now()), p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return requireRows(res)
}

func (r *ProductRepository) Delete(id int64) error {
	res, err := r.q.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireRows(res)
}

func (r *ProductRepository) Deactivate(id int64) error {
	res, err := r.q.Exec(`UPDATE products SET is_active = 0, updated_at = ? WHERE id = ?`,
		formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	return requireRows(res)
}

func (r *ProductRepository) ToggleFavorite(id int64) error {
	res, err := r.q.Exec(`UPDATE products SET is_favorite = 1 - is_favorite, updated_at = ? WHERE id = ?`,
		formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("toggle favorite: %w", err)
	}
	return requireRows(res)
}

func (r *ProductRepository) GetByID(id int64) (*entity.Product, error) {
	row := r.q.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

func (r *ProductRepository) GetBySKUOrBarcode(identifier string) (*entity.Product, error) {
	row := r.q.QueryRow(`SELECT `+productColumns+` FROM products
		WHERE sku = ? OR barcode = ? LIMIT 1`, identifier, identifier)
	return scanProduct(row)
}

func (r *ProductRepository) Search(query string, limit int) ([]*entity.Product, error) {
	like := "%" + query + "%"
	rows, err := r.q.Query(`SELECT `+productColumns+` FROM products
		WHERE is_active = 1 AND (name LIKE ? OR sku LIKE ? OR barcode LIKE ?)
		ORDER BY name LIMIT ?`, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return collectProducts(rows)
}

func (r *ProductRepository) List(onlyActive bool, limit int) ([]*entity.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products`
	if onlyActive {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY name LIMIT ?`
	rows, err := r.q.Query(q, limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

func (r *ProductRepository) SalesCount(id int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(`SELECT COUNT(*) FROM sale_items WHERE product_id = ?`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count product sales: %w", err)
	}
	return n, nil
}

func (r *ProductRepository) Since(since string, limit int) ([]*entity.Product, error) {
	rows, err := r.q.Query(`SELECT `+productColumns+` FROM products
		WHERE updated_at >= ? ORDER BY updated_at LIMIT ?`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("products since: %w", err)
	}
	return collectProducts(rows)
}

// EnsureCommon devuelve el id del producto sintético para líneas ad-hoc,
// creándolo si no existe.
func (r *ProductRepository) EnsureCommon() (int64, error) {
	var id int64
	err := r.q.QueryRow(`SELECT id FROM products WHERE sku = ?`, entity.CommonSKU).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup common product: %w", err)
	}
	res, err := r.q.Exec(`INSERT INTO products
		(sku, name, sale_type, uses_inventory, is_active, kit_items, updated_at)
		VALUES (?, 'Venta común', 'unit', 0, 1, '[]', ?)`,
		entity.CommonSKU, formatTime(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("create common product: %w", err)
	}
	return res.LastInsertId()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var (
		p       entity.Product
		barcode sql.NullString
		kitJSON string
		updated string
	)
	err := row.Scan(&p.ID, &p.SKU, &barcode, &p.Name, &p.Description, &p.Price,
		&p.PriceWholesale, &p.Cost, &p.Unit, &p.AllowDecimal, &p.Department,
		&p.Provider, &p.IsActive, &p.IsFavorite, &p.SaleType, &kitJSON,
		&p.UsesInventory, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	p.Barcode = barcode.String
	p.UpdatedAt = parseTime(updated)
	if kitJSON != "" {
		if err := json.Unmarshal([]byte(kitJSON), &p.KitItems); err != nil {
			return nil, fmt.Errorf("unmarshal kit_items: %w", err)
		}
	}
	return &p, nil
}

func collectProducts(rows *sql.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// requireRows convierte "0 filas afectadas" en ErrNotFound.
func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
