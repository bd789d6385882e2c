package layaway_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendamx/pos-mostrador/internal/application/layaway"
	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/internal/domain/session"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria, solo los métodos que el ciclo de vida del apartado toca.
// ──────────────────────────────────────────────────────────────────────────────

type fakeTx struct {
	r *repository.Atomic
}

func (f *fakeTx) Run(_ context.Context, fn func(r *repository.Atomic) error) error {
	return fn(f.r)
}

type fakeLayaways struct {
	repository.LayawayRepository
	byID     map[int64]*entity.Layaway
	items    map[int64][]*entity.LayawayItem
	payments map[int64][]*entity.LayawayPayment
	nextID   int64
}

func (f *fakeLayaways) Create(l *entity.Layaway) (int64, error) {
	f.nextID++
	clone := *l
	clone.ID = f.nextID
	f.byID[f.nextID] = &clone
	return f.nextID, nil
}

func (f *fakeLayaways) CreateItem(item *entity.LayawayItem) error {
	f.items[item.LayawayID] = append(f.items[item.LayawayID], item)
	return nil
}

func (f *fakeLayaways) CreatePayment(p *entity.LayawayPayment) (int64, error) {
	f.payments[p.LayawayID] = append(f.payments[p.LayawayID], p)
	return int64(len(f.payments[p.LayawayID])), nil
}

func (f *fakeLayaways) GetByID(id int64) (*entity.Layaway, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *l
	return &clone, nil
}

func (f *fakeLayaways) Items(layawayID int64) ([]*entity.LayawayItem, error) {
	return f.items[layawayID], nil
}

// SumPayments excluye el abono sintético del depósito por su bandera,
// igual que el repo real.
func (f *fakeLayaways) SumPayments(layawayID int64) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range f.payments[layawayID] {
		if p.IsDeposit {
			continue
		}
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

func (f *fakeLayaways) UpdateBalanceStatus(id int64, balance decimal.Decimal, status string) error {
	l, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Balance = balance
	l.Status = status
	return nil
}

type fakeStocks struct {
	repository.StockRepository
	reserved map[int64]decimal.Decimal
	consumed map[int64]decimal.Decimal
	released map[int64]decimal.Decimal
}

func (f *fakeStocks) Reserve(productID, _ int64, qty decimal.Decimal) error {
	f.reserved[productID] = f.reserved[productID].Add(qty)
	return nil
}

func (f *fakeStocks) ConsumeReserved(productID, _ int64, qty decimal.Decimal) error {
	f.consumed[productID] = f.consumed[productID].Add(qty)
	return nil
}

func (f *fakeStocks) ReleaseReserved(productID, _ int64, qty decimal.Decimal) error {
	f.released[productID] = f.released[productID].Add(qty)
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

type fakeAudits struct {
	repository.AuditRepository
	actions []string
}

func (f *fakeAudits) Create(l *entity.AuditLog) error {
	f.actions = append(f.actions, l.Action)
	return nil
}

type layawayFixture struct {
	uc       *layaway.Usecase
	layaways *fakeLayaways
	stocks   *fakeStocks
	invLogs  *fakeInvLogs
	audits   *fakeAudits
}

func newLayawayFixture(t *testing.T) *layawayFixture {
	t.Helper()
	f := &layawayFixture{
		layaways: &fakeLayaways{
			byID:     map[int64]*entity.Layaway{},
			items:    map[int64][]*entity.LayawayItem{},
			payments: map[int64][]*entity.LayawayPayment{},
		},
		stocks:  &fakeStocks{reserved: map[int64]decimal.Decimal{}, consumed: map[int64]decimal.Decimal{}, released: map[int64]decimal.Decimal{}},
		invLogs: &fakeInvLogs{},
		audits:  &fakeAudits{},
	}
	tx := &fakeTx{r: &repository.Atomic{
		Layaways:      f.layaways,
		Stocks:        f.stocks,
		InventoryLogs: f.invLogs,
		Audits:        f.audits,
	}}
	f.uc = layaway.New(tx, f.layaways, logger.Nop())
	return f
}

var testSession = session.New(7, 1)

func createPending(t *testing.T, f *layawayFixture) *entity.Layaway {
	t.Helper()
	lay, err := f.uc.Create(context.Background(), layaway.CreateInput{
		Session: testSession,
		Items: []layaway.ItemInput{{
			ProductID: 10,
			Qty:       decimal.NewFromInt(1),
			Price:     decimal.NewFromInt(500),
		}},
		Deposit: decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	return lay
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida completo: 500 de total, 200 de depósito, abono final de 300.
// ──────────────────────────────────────────────────────────────────────────────

// TestCreate_DepositoParcialReservaStock: el apartado nace pendiente con el
// saldo correcto y la mercancía queda reservada, no vendida.
func TestCreate_DepositoParcialReservaStock(t *testing.T) {
	f := newLayawayFixture(t)

	lay := createPending(t, f)

	assert.Equal(t, entity.LayawayPending, lay.Status)
	assert.True(t, lay.Balance.Equal(decimal.NewFromInt(300)), "saldo: %s", lay.Balance)
	assert.True(t, f.stocks.reserved[10].Equal(decimal.NewFromInt(1)))
	assert.Empty(t, f.stocks.consumed, "reservar no es vender")
	require.Len(t, f.layaways.payments[lay.ID], 1, "el depósito se registra como primer abono")
	assert.True(t, f.layaways.payments[lay.ID][0].Amount.Equal(decimal.NewFromInt(200)))
	assert.True(t, f.layaways.payments[lay.ID][0].IsDeposit, "el depósito lleva su bandera")
}

// TestAddPayment_NotaIgualAlDepositoCuentaAlSaldo: la nota de un abono es
// texto libre; escribir exactamente "Depósito inicial" no lo convierte en
// depósito ni lo excluye del saldo.
func TestAddPayment_NotaIgualAlDepositoCuentaAlSaldo(t *testing.T) {
	f := newLayawayFixture(t)
	lay := createPending(t, f)

	updated, err := f.uc.AddPayment(context.Background(), layaway.PaymentInput{
		Session:   testSession,
		LayawayID: lay.ID,
		Amount:    decimal.NewFromInt(100),
		Notes:     "Depósito inicial",
	})
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(200)), "saldo: %s", updated.Balance)

	abono := f.layaways.payments[lay.ID][1]
	assert.False(t, abono.IsDeposit)

	// El siguiente abono parte del saldo ya abonado, no lo recalcula de cero.
	updated, err = f.uc.AddPayment(context.Background(), layaway.PaymentInput{
		Session:   testSession,
		LayawayID: lay.ID,
		Amount:    decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LayawayLiquidated, updated.Status)
	assert.True(t, updated.Balance.IsZero())
}

// TestAddPayment_AbonoLiquidaYConsumeReserva: el abono que deja el saldo en
// cero liquida el apartado y convierte la reserva en salida real.
func TestAddPayment_AbonoLiquidaYConsumeReserva(t *testing.T) {
	f := newLayawayFixture(t)
	lay := createPending(t, f)

	updated, err := f.uc.AddPayment(context.Background(), layaway.PaymentInput{
		Session:   testSession,
		LayawayID: lay.ID,
		Amount:    decimal.NewFromInt(300),
	})

	require.NoError(t, err)
	assert.Equal(t, entity.LayawayLiquidated, updated.Status)
	assert.True(t, updated.Balance.IsZero())
	assert.True(t, f.stocks.consumed[10].Equal(decimal.NewFromInt(1)),
		"al liquidar la reserva se consume")
}

// TestAddPayment_AbonoParcialSigueVigente: un abono menor al saldo deja el
// apartado pendiente y no toca la reserva.
func TestAddPayment_AbonoParcialSigueVigente(t *testing.T) {
	f := newLayawayFixture(t)
	lay := createPending(t, f)

	updated, err := f.uc.AddPayment(context.Background(), layaway.PaymentInput{
		Session:   testSession,
		LayawayID: lay.ID,
		Amount:    decimal.NewFromInt(100),
	})

	require.NoError(t, err)
	assert.Equal(t, entity.LayawayPending, updated.Status)
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(200)))
	assert.Empty(t, f.stocks.consumed)
}

// TestAddPayment_RechazaAbonoMayorAlSaldo: abonar 301 a un saldo de 300 se
// rechaza en lugar de dejar saldo negativo.
func TestAddPayment_RechazaAbonoMayorAlSaldo(t *testing.T) {
	f := newLayawayFixture(t)
	lay := createPending(t, f)

	_, err := f.uc.AddPayment(context.Background(), layaway.PaymentInput{
		Session:   testSession,
		LayawayID: lay.ID,
		Amount:    decimal.NewFromInt(301),
	})

	assert.ErrorIs(t, err, domain.ErrAmountExceedsBalance)
}

func TestAddPayment_RechazaMontoNoPositivo(t *testing.T) {
	f := newLayawayFixture(t)
	lay := createPending(t, f)

	_, err := f.uc.AddPayment(context.Background(), layaway.PaymentInput{
		Session:   testSession,
		LayawayID: lay.ID,
		Amount:    decimal.Zero,
	})

	assert.ErrorIs(t, err, domain.ErrAmountNotPositive)
}

// TestCreate_DepositoCubreTotal: si el depósito cubre el total, el apartado
// nace liquidado y la reserva se consume en el mismo acto.
func TestCreate_DepositoCubreTotal(t *testing.T) {
	f := newLayawayFixture(t)

	lay, err := f.uc.Create(context.Background(), layaway.CreateInput{
		Session: testSession,
		Items: []layaway.ItemInput{{
			ProductID: 10,
			Qty:       decimal.NewFromInt(2),
			Price:     decimal.NewFromInt(100),
		}},
		Deposit: decimal.NewFromInt(250), // más que el total: se acota a 200
	})

	require.NoError(t, err)
	assert.Equal(t, entity.LayawayLiquidated, lay.Status)
	assert.True(t, lay.Deposit.Equal(decimal.NewFromInt(200)), "el depósito se acota al total")
	assert.True(t, lay.Balance.IsZero())
	assert.True(t, f.stocks.consumed[10].Equal(decimal.NewFromInt(2)))
}

// TestCancel_RegresaReservaAlPiso: cancelar libera la mercancía reservada.
func TestCancel_RegresaReservaAlPiso(t *testing.T) {
	f := newLayawayFixture(t)
	lay := createPending(t, f)

	updated, err := f.uc.Cancel(context.Background(), testSession, lay.ID)

	require.NoError(t, err)
	assert.Equal(t, entity.LayawayCancelled, updated.Status)
	assert.True(t, f.stocks.released[10].Equal(decimal.NewFromInt(1)))
	assert.Empty(t, f.stocks.consumed)
}

// TestCancel_DobleCancelacionEsNoOp: cancelar dos veces no libera doble.
func TestCancel_DobleCancelacionEsNoOp(t *testing.T) {
	f := newLayawayFixture(t)
	lay := createPending(t, f)

	_, err := f.uc.Cancel(context.Background(), testSession, lay.ID)
	require.NoError(t, err)
	_, err = f.uc.Cancel(context.Background(), testSession, lay.ID)
	require.NoError(t, err)

	assert.True(t, f.stocks.released[10].Equal(decimal.NewFromInt(1)),
		"la reserva solo se libera una vez")
}

// TestAddPayment_ApartadoCancelado: un apartado cancelado no acepta abonos.
func TestAddPayment_ApartadoCancelado(t *testing.T) {
	f := newLayawayFixture(t)
	lay := createPending(t, f)
	_, err := f.uc.Cancel(context.Background(), testSession, lay.ID)
	require.NoError(t, err)

	_, err = f.uc.AddPayment(context.Background(), layaway.PaymentInput{
		Session:   testSession,
		LayawayID: lay.ID,
		Amount:    decimal.NewFromInt(50),
	})

	assert.ErrorIs(t, err, domain.ErrLayawayCancelled)
}

// TestLiquidate_ManualConsumeReserva: la liquidación manual fuerza saldo cero
// y consume la reserva aunque falten abonos.
func TestLiquidate_ManualConsumeReserva(t *testing.T) {
	f := newLayawayFixture(t)
	lay := createPending(t, f)

	updated, err := f.uc.Liquidate(context.Background(), testSession, lay.ID)

	require.NoError(t, err)
	assert.Equal(t, entity.LayawayLiquidated, updated.Status)
	assert.True(t, updated.Balance.IsZero())
	assert.True(t, f.stocks.consumed[10].Equal(decimal.NewFromInt(1)))
}
