package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendamx/pos-mostrador/internal/application/sales"
	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/credit"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/payment"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/internal/domain/session"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. Cada fake embebe la interfaz del repo y solo implementa
// los métodos que CreateSale toca; el resto haría panic si se llamara.
// ──────────────────────────────────────────────────────────────────────────────

type fakeTx struct {
	r *repository.Atomic
}

func (f *fakeTx) Run(_ context.Context, fn func(r *repository.Atomic) error) error {
	return fn(f.r)
}

type fakeProducts struct {
	repository.ProductRepository
	byID map[int64]*entity.Product
}

func (f *fakeProducts) GetByID(id int64) (*entity.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) EnsureCommon() (int64, error) { return 999, nil }

type fakeStocks struct {
	repository.StockRepository
	deltas map[int64]decimal.Decimal
}

func (f *fakeStocks) AdjustStock(productID, _ int64, delta decimal.Decimal) error {
	f.deltas[productID] = f.deltas[productID].Add(delta)
	return nil
}

type fakeInvLogs struct {
	repository.InventoryLogRepository
	entries []*entity.InventoryLog
}

func (f *fakeInvLogs) Create(l *entity.InventoryLog) error {
	f.entries = append(f.entries, l)
	return nil
}

type fakeSales struct {
	repository.SaleRepository
	sale  *entity.Sale
	items []*entity.SaleItem
}

func (f *fakeSales) Create(s *entity.Sale) (int64, error) {
	f.sale = s
	return 1, nil
}

func (f *fakeSales) CreateItem(item *entity.SaleItem) error {
	f.items = append(f.items, item)
	return nil
}

type fakeCustomers struct {
	repository.CustomerRepository
	customer *entity.Customer
	credited decimal.Decimal
}

func (f *fakeCustomers) GetByID(id int64) (*entity.Customer, error) {
	if f.customer == nil || f.customer.ID != id {
		return nil, domain.ErrNotFound
	}
	return f.customer, nil
}

func (f *fakeCustomers) AddCreditBalance(_ int64, delta decimal.Decimal) error {
	f.credited = f.credited.Add(delta)
	return nil
}

type fakeTurns struct {
	repository.TurnRepository
	open *entity.Turn
}

func (f *fakeTurns) GetOpen(_, _ int64) (*entity.Turn, error) { return f.open, nil }

type fakeAudits struct {
	repository.AuditRepository
	actions []string
}

func (f *fakeAudits) Create(l *entity.AuditLog) error {
	f.actions = append(f.actions, l.Action)
	return nil
}

type saleFixture struct {
	uc        *sales.Usecase
	products  *fakeProducts
	stocks    *fakeStocks
	invLogs   *fakeInvLogs
	sales     *fakeSales
	customers *fakeCustomers
	turns     *fakeTurns
	audits    *fakeAudits
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	f := &saleFixture{
		products:  &fakeProducts{byID: map[int64]*entity.Product{}},
		stocks:    &fakeStocks{deltas: map[int64]decimal.Decimal{}},
		invLogs:   &fakeInvLogs{},
		sales:     &fakeSales{},
		customers: &fakeCustomers{},
		turns:     &fakeTurns{},
		audits:    &fakeAudits{},
	}
	tx := &fakeTx{r: &repository.Atomic{
		Products:      f.products,
		Stocks:        f.stocks,
		InventoryLogs: f.invLogs,
		Customers:     f.customers,
		Sales:         f.sales,
		Turns:         f.turns,
		Audits:        f.audits,
	}}
	f.uc = sales.New(tx, f.sales, f.turns, decimal.NewFromFloat(0.16), logger.Nop())
	return f
}

func simpleProduct(id int64) *entity.Product {
	return &entity.Product{
		ID:            id,
		SKU:           "SKU-1",
		Name:          "Producto",
		IsActive:      true,
		SaleType:      entity.SaleTypeUnit,
		UsesInventory: true,
	}
}

func cashFor(amount int64) payment.Breakdown {
	return payment.Breakdown{Method: payment.MethodCash, Amount: decimal.NewFromInt(amount)}
}

var testSession = session.New(7, 1)

// ──────────────────────────────────────────────────────────────────────────────
// Matemática de la venta
// ──────────────────────────────────────────────────────────────────────────────

// TestCreateSale_PrecioConImpuestoIncluido desglosa hacia atrás: una línea de
// 232.00 con IVA incluido al 16% vale 200.00 de base y 32.00 de impuesto.
func TestCreateSale_PrecioConImpuestoIncluido(t *testing.T) {
	f := newSaleFixture(t)
	f.products.byID[10] = simpleProduct(10)

	res, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Session: testSession,
		Items: []sales.LineInput{{
			ProductID:        10,
			Qty:              decimal.NewFromInt(1),
			Price:            decimal.NewFromInt(232),
			PriceIncludesTax: true,
		}},
		Breakdown: cashFor(232),
	})

	require.NoError(t, err)
	assert.True(t, res.Subtotal.Equal(decimal.NewFromInt(200)), "base: %s", res.Subtotal)
	assert.True(t, res.Tax.Equal(decimal.NewFromInt(32)), "impuesto: %s", res.Tax)
	assert.True(t, res.Total.Equal(decimal.NewFromInt(232)), "total: %s", res.Total)
}

// TestCreateSale_PrecioSinImpuesto suma el IVA por encima del precio neto.
func TestCreateSale_PrecioSinImpuesto(t *testing.T) {
	f := newSaleFixture(t)
	f.products.byID[10] = simpleProduct(10)

	res, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Session: testSession,
		Items: []sales.LineInput{{
			ProductID: 10,
			Qty:       decimal.NewFromInt(1),
			Price:     decimal.NewFromInt(200),
		}},
		Breakdown: cashFor(232),
	})

	require.NoError(t, err)
	assert.True(t, res.Tax.Equal(decimal.NewFromInt(32)))
	assert.True(t, res.Total.Equal(decimal.NewFromInt(232)))
}

// TestCreateSale_ComisionTarjetaPorEncima verifica que la comisión de tarjeta
// se suma al total después del descuento general.
func TestCreateSale_ComisionTarjetaPorEncima(t *testing.T) {
	f := newSaleFixture(t)
	f.products.byID[10] = simpleProduct(10)

	res, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Session: testSession,
		Items: []sales.LineInput{{
			ProductID:        10,
			Qty:              decimal.NewFromInt(1),
			Price:            decimal.NewFromInt(100),
			PriceIncludesTax: true,
		}},
		Breakdown: payment.Breakdown{
			Method:  payment.MethodCard,
			Amount:  decimal.NewFromInt(100),
			CardFee: decimal.NewFromInt(3),
		},
	})

	require.NoError(t, err)
	assert.True(t, res.Total.Equal(decimal.NewFromInt(103)))
	assert.True(t, f.sales.sale.CardFee.Equal(decimal.NewFromInt(3)))
}

func TestCreateSale_CarritoVacio(t *testing.T) {
	f := newSaleFixture(t)
	_, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Session:   testSession,
		Breakdown: cashFor(0),
	})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCreateSale_MetodoInvalido(t *testing.T) {
	f := newSaleFixture(t)
	_, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Session:   testSession,
		Items:     []sales.LineInput{{ProductID: 10, Qty: decimal.NewFromInt(1), Price: decimal.NewFromInt(1)}},
		Breakdown: payment.Breakdown{Method: payment.Method("trueque")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Crédito de clientes
// ──────────────────────────────────────────────────────────────────────────────

// TestCreateSale_CreditoSinCliente: fiar sin cliente asignado se rechaza antes
// de tocar inventario.
func TestCreateSale_CreditoSinCliente(t *testing.T) {
	f := newSaleFixture(t)
	f.products.byID[10] = simpleProduct(10)

	_, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Session: testSession,
		Items: []sales.LineInput{{
			ProductID:        10,
			Qty:              decimal.NewFromInt(1),
			Price:            decimal.NewFromInt(50),
			PriceIncludesTax: true,
		}},
		Breakdown: payment.Breakdown{Method: payment.MethodCredit},
	})

	assert.ErrorIs(t, err, domain.ErrCreditNeedsCustomer)
	assert.Empty(t, f.stocks.deltas, "no debe haber movimientos de inventario")
}

// TestCreateSale_CreditoExcedeLimite rechaza la venta cuando el saldo
// proyectado rebasa el tope del cliente.
func TestCreateSale_CreditoExcedeLimite(t *testing.T) {
	f := newSaleFixture(t)
	f.products.byID[10] = simpleProduct(10)
	customerID := int64(3)
	f.customers.customer = &entity.Customer{
		ID:               customerID,
		CreditAuthorized: true,
		CreditLimit:      credit.Capped(decimal.NewFromInt(100)),
		CreditBalance:    decimal.NewFromInt(80),
	}

	_, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Session:    testSession,
		CustomerID: &customerID,
		Items: []sales.LineInput{{
			ProductID:        10,
			Qty:              decimal.NewFromInt(1),
			Price:            decimal.NewFromInt(50),
			PriceIncludesTax: true,
		}},
		Breakdown: payment.Breakdown{Method: payment.MethodCredit},
	})

	assert.ErrorIs(t, err, domain.ErrCreditLimitExceeded,
		"80 de saldo + 50 fiados rebasa el tope de 100")
}

// TestCreateSale_CreditoDentroDelLimite registra la venta y suma el monto
// fiado al saldo deudor del cliente.
func TestCreateSale_CreditoDentroDelLimite(t *testing.T) {
	f := newSaleFixture(t)
	f.products.byID[10] = simpleProduct(10)
	customerID := int64(3)
	f.customers.customer = &entity.Customer{
		ID:               customerID,
		CreditAuthorized: true,
		CreditLimit:      credit.Unlimited(),
	}

	res, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Session:    testSession,
		CustomerID: &customerID,
		Items: []sales.LineInput{{
			ProductID:        10,
			Qty:              decimal.NewFromInt(1),
			Price:            decimal.NewFromInt(50),
			PriceIncludesTax: true,
		}},
		Breakdown: payment.Breakdown{Method: payment.MethodCredit},
	})

	require.NoError(t, err)
	assert.True(t, res.CreditDelta.Equal(decimal.NewFromInt(50)))
	assert.True(t, f.customers.credited.Equal(decimal.NewFromInt(50)),
		"el saldo deudor debe crecer por el monto fiado")
}

// TestCreateSale_ClienteNoAutorizado: tener límite no basta, el cliente debe
// estar autorizado para fiar.
func TestCreateSale_ClienteNoAutorizado(t *testing.T) {
	f := newSaleFixture(t)
	f.products.byID[10] = simpleProduct(10)
	customerID := int64(3)
	f.customers.customer = &entity.Customer{
		ID:          customerID,
		CreditLimit: credit.Unlimited(),
	}

	_, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Session:    testSession,
		CustomerID: &customerID,
		Items: []sales.LineInput{{
			ProductID:        10,
			Qty:              decimal.NewFromInt(1),
			Price:            decimal.NewFromInt(50),
			PriceIncludesTax: true,
		}},
		Breakdown: payment.Breakdown{Method: payment.MethodCredit},
	})

	assert.ErrorIs(t, err, domain.ErrCreditNotAuthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario: kits y venta común
// ──────────────────────────────────────────────────────────────────────────────

// TestCreateSale_KitExplotaComponentes: vender 2 kits (2×A + 1×B cada uno)
// descuenta 4 de A y 2 de B; el kit mismo nunca se stockea.
func TestCreateSale_KitExplotaComponentes(t *testing.T) {
	f := newSaleFixture(t)
	f.products.byID[20] = &entity.Product{
		ID:            20,
		Name:          "Kit desayuno",
		SaleType:      entity.SaleTypeKit,
		UsesInventory: true,
		KitItems: []entity.KitComponent{
			{ProductID: 21, Qty: decimal.NewFromInt(2)},
			{ProductID: 22, Qty: decimal.NewFromInt(1)},
		},
	}

	_, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Session: testSession,
		Items: []sales.LineInput{{
			ProductID:        20,
			Qty:              decimal.NewFromInt(2),
			Price:            decimal.NewFromInt(100),
			PriceIncludesTax: true,
		}},
		Breakdown: cashFor(200),
	})

	require.NoError(t, err)
	assert.True(t, f.stocks.deltas[21].Equal(decimal.NewFromInt(-4)), "componente A")
	assert.True(t, f.stocks.deltas[22].Equal(decimal.NewFromInt(-2)), "componente B")
	_, kitMoved := f.stocks.deltas[20]
	assert.False(t, kitMoved, "el kit no tiene existencias propias")
	assert.Len(t, f.invLogs.entries, 2)
	assert.Equal(t, entity.ReasonSaleKit, f.invLogs.entries[0].Reason)
}

// TestCreateSale_VentaComunSinInventario: una línea ad-hoc (ProductID 0) se
// liga al producto sintético y no mueve inventario.
func TestCreateSale_VentaComunSinInventario(t *testing.T) {
	f := newSaleFixture(t)

	res, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Session: testSession,
		Items: []sales.LineInput{{
			Description:      "Reparación",
			Qty:              decimal.NewFromInt(1),
			Price:            decimal.NewFromInt(150),
			PriceIncludesTax: true,
		}},
		Breakdown: cashFor(150),
	})

	require.NoError(t, err)
	assert.True(t, res.Total.Equal(decimal.NewFromInt(150)))
	require.Len(t, f.sales.items, 1)
	assert.Equal(t, int64(999), f.sales.items[0].ProductID,
		"la línea debe colgarse del producto sintético de venta común")
	assert.Empty(t, f.stocks.deltas)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atribución al turno
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_ConTurnoAbierto(t *testing.T) {
	f := newSaleFixture(t)
	f.products.byID[10] = simpleProduct(10)
	f.turns.open = &entity.Turn{ID: 42}

	res, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Session: testSession,
		Items: []sales.LineInput{{
			ProductID:        10,
			Qty:              decimal.NewFromInt(1),
			Price:            decimal.NewFromInt(10),
			PriceIncludesTax: true,
		}},
		Breakdown: cashFor(10),
	})

	require.NoError(t, err)
	require.NotNil(t, res.TurnID)
	assert.Equal(t, int64(42), *res.TurnID)
}

// TestCreateSale_SinTurnoAbierto: sin turno la venta procede con turn_id nulo.
func TestCreateSale_SinTurnoAbierto(t *testing.T) {
	f := newSaleFixture(t)
	f.products.byID[10] = simpleProduct(10)

	res, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Session: testSession,
		Items: []sales.LineInput{{
			ProductID:        10,
			Qty:              decimal.NewFromInt(1),
			Price:            decimal.NewFromInt(10),
			PriceIncludesTax: true,
		}},
		Breakdown: cashFor(10),
	})

	require.NoError(t, err)
	assert.Nil(t, res.TurnID)
	assert.Contains(t, f.audits.actions, "create_sale")
}
