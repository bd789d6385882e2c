package cashbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendamx/pos-mostrador/internal/application/cashbox"
	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/payment"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/internal/domain/session"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeTx struct {
	r *repository.Atomic
}

func (f *fakeTx) Run(_ context.Context, fn func(r *repository.Atomic) error) error {
	return fn(f.r)
}

type fakeTurns struct {
	repository.TurnRepository
	byID   map[int64]*entity.Turn
	nextID int64
}

func (f *fakeTurns) Create(t *entity.Turn) (int64, error) {
	f.nextID++
	clone := *t
	clone.ID = f.nextID
	clone.OpenedAt = time.Now()
	f.byID[f.nextID] = &clone
	return f.nextID, nil
}

func (f *fakeTurns) GetByID(id int64) (*entity.Turn, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTurns) GetOpen(branchID, userID int64) (*entity.Turn, error) {
	for _, t := range f.byID {
		if t.BranchID == branchID && t.UserID == userID && t.Status == entity.TurnOpen {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeTurns) Close(id int64, closing, expected decimal.Decimal, notes string) error {
	t, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	t.Status = entity.TurnClosed
	t.ClosedAt = &now
	t.ClosingAmount = &closing
	t.ExpectedAmount = &expected
	t.Notes = notes
	return nil
}

type fakeMovements struct {
	repository.CashMovementRepository
	movements []*entity.CashMovement
}

func (f *fakeMovements) Create(m *entity.CashMovement) (int64, error) {
	f.movements = append(f.movements, m)
	return int64(len(f.movements)), nil
}

func (f *fakeMovements) Sums(turnID int64) (decimal.Decimal, decimal.Decimal, error) {
	ins, outs := decimal.Zero, decimal.Zero
	for _, m := range f.movements {
		if m.TurnID != turnID {
			continue
		}
		if m.Type == entity.CashIn {
			ins = ins.Add(m.Amount)
		} else {
			outs = outs.Add(m.Amount)
		}
	}
	return ins, outs, nil
}

type fakeSalesByTurn struct {
	repository.SaleRepository
	sales []*entity.Sale
}

func (f *fakeSalesByTurn) ListByTurn(_ int64) ([]*entity.Sale, error) { return f.sales, nil }

type fakeLayPayments struct {
	repository.LayawayRepository
	total decimal.Decimal
}

func (f *fakeLayPayments) PaymentsInWindow(_ int64, _, _ string) (decimal.Decimal, error) {
	return f.total, nil
}

type fakeCredPayments struct {
	repository.CreditRepository
	total decimal.Decimal
}

func (f *fakeCredPayments) PaymentsInWindow(_, _ string) (decimal.Decimal, error) {
	return f.total, nil
}

type fakeAudits struct {
	repository.AuditRepository
	actions []string
}

func (f *fakeAudits) Create(l *entity.AuditLog) error {
	f.actions = append(f.actions, l.Action)
	return nil
}

type cashboxFixture struct {
	uc    *cashbox.Usecase
	turns *fakeTurns
	moves *fakeMovements
	sales *fakeSalesByTurn
	lays  *fakeLayPayments
	creds *fakeCredPayments
}

func newCashboxFixture(t *testing.T) *cashboxFixture {
	t.Helper()
	f := &cashboxFixture{
		turns: &fakeTurns{byID: map[int64]*entity.Turn{}},
		moves: &fakeMovements{},
		sales: &fakeSalesByTurn{},
		lays:  &fakeLayPayments{total: decimal.Zero},
		creds: &fakeCredPayments{total: decimal.Zero},
	}
	tx := &fakeTx{r: &repository.Atomic{
		Turns:         f.turns,
		CashMovements: f.moves,
		Audits:        &fakeAudits{},
	}}
	f.uc = cashbox.New(tx, f.turns, f.moves, f.sales, f.lays, f.creds, logger.Nop())
	return f
}

var testSession = session.New(7, 1)

func cashSale(amount int64) *entity.Sale {
	return &entity.Sale{
		Total: decimal.NewFromInt(amount),
		Breakdown: payment.Breakdown{
			Method: payment.MethodCash,
			Amount: decimal.NewFromInt(amount),
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Apertura y movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestOpenTurn_SegundoTurnoRechazado(t *testing.T) {
	f := newCashboxFixture(t)

	_, err := f.uc.OpenTurn(context.Background(), testSession, decimal.NewFromInt(500), "")
	require.NoError(t, err)

	_, err = f.uc.OpenTurn(context.Background(), testSession, decimal.NewFromInt(500), "")
	assert.ErrorIs(t, err, domain.ErrTurnAlreadyOpen,
		"a lo más un turno abierto por cajero y sucursal")
}

func TestRegisterMovement_SinTurnoAbierto(t *testing.T) {
	f := newCashboxFixture(t)

	_, err := f.uc.RegisterMovement(context.Background(), testSession,
		entity.CashOut, decimal.NewFromInt(100), "pago proveedor")

	assert.ErrorIs(t, err, domain.ErrNoOpenTurn)
}

func TestRegisterMovement_TipoInvalido(t *testing.T) {
	f := newCashboxFixture(t)

	_, err := f.uc.RegisterMovement(context.Background(), testSession,
		"prestamo", decimal.NewFromInt(100), "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Corte: el efectivo esperado es fondo + ventas en efectivo + abonos de
// apartado y crédito + entradas − salidas.
// ──────────────────────────────────────────────────────────────────────────────

// TestCloseTurn_EfectivoEsperado arma el corte completo:
//
//	fondo 500 + ventas efectivo 600 + abonos apartado 200 + abonos crédito 150
//	+ entrada 100 − salida 100 = 1450 esperado; contados 1400 → faltante de 50.
func TestCloseTurn_EfectivoEsperado(t *testing.T) {
	f := newCashboxFixture(t)

	_, err := f.uc.OpenTurn(context.Background(), testSession, decimal.NewFromInt(500), "")
	require.NoError(t, err)

	f.sales.sales = []*entity.Sale{cashSale(400), cashSale(200)}
	f.lays.total = decimal.NewFromInt(200)
	f.creds.total = decimal.NewFromInt(150)

	_, err = f.uc.RegisterMovement(context.Background(), testSession,
		entity.CashIn, decimal.NewFromInt(100), "cambio de bóveda")
	require.NoError(t, err)
	_, err = f.uc.RegisterMovement(context.Background(), testSession,
		entity.CashOut, decimal.NewFromInt(100), "pago proveedor")
	require.NoError(t, err)

	res, err := f.uc.CloseTurn(context.Background(), testSession, decimal.NewFromInt(1400), "")

	require.NoError(t, err)
	assert.True(t, res.Summary.ExpectedCash.Equal(decimal.NewFromInt(1450)),
		"esperado: %s", res.Summary.ExpectedCash)
	assert.True(t, res.Delta.Equal(decimal.NewFromInt(-50)), "faltante de 50")
	assert.Equal(t, entity.TurnClosed, res.Turn.Status)
	require.NotNil(t, res.Turn.ExpectedAmount)
	assert.True(t, res.Turn.ExpectedAmount.Equal(decimal.NewFromInt(1450)),
		"el esperado se persiste en el turno al cerrar")
}

// TestCloseTurn_VentasNoEfectivoNoSuman: tarjeta y crédito aparecen en el
// resumen por método pero no tocan el efectivo esperado.
func TestCloseTurn_VentasNoEfectivoNoSuman(t *testing.T) {
	f := newCashboxFixture(t)

	_, err := f.uc.OpenTurn(context.Background(), testSession, decimal.NewFromInt(1000), "")
	require.NoError(t, err)

	f.sales.sales = []*entity.Sale{
		{Breakdown: payment.Breakdown{Method: payment.MethodCard, Amount: decimal.NewFromInt(300)}},
		{Breakdown: payment.Breakdown{Method: payment.MethodCredit, Amount: decimal.NewFromInt(250)}},
	}

	res, err := f.uc.CloseTurn(context.Background(), testSession, decimal.NewFromInt(1000), "")

	require.NoError(t, err)
	assert.True(t, res.Summary.ExpectedCash.Equal(decimal.NewFromInt(1000)))
	assert.True(t, res.Summary.SalesByMethod["card"].Equal(decimal.NewFromInt(300)))
	assert.True(t, res.Summary.CreditSales.Equal(decimal.NewFromInt(250)))
	assert.True(t, res.Delta.IsZero())
}

// TestCloseTurn_MixtoSoloSuParteEnEfectivo: de un pago mixto solo la porción
// en efectivo entra al esperado del corte.
func TestCloseTurn_MixtoSoloSuParteEnEfectivo(t *testing.T) {
	f := newCashboxFixture(t)

	_, err := f.uc.OpenTurn(context.Background(), testSession, decimal.Zero, "")
	require.NoError(t, err)

	f.sales.sales = []*entity.Sale{{
		Breakdown: payment.Breakdown{
			Method: payment.MethodMixed,
			Mixed: &payment.Mixed{
				Cash: decimal.NewFromInt(120),
				Card: &payment.CardPart{Amount: decimal.NewFromInt(80)},
			},
		},
	}}

	res, err := f.uc.CloseTurn(context.Background(), testSession, decimal.NewFromInt(120), "")

	require.NoError(t, err)
	assert.True(t, res.Summary.ExpectedCash.Equal(decimal.NewFromInt(120)))
	assert.True(t, res.Delta.IsZero())
}

func TestCloseTurn_SinTurnoAbierto(t *testing.T) {
	f := newCashboxFixture(t)

	_, err := f.uc.CloseTurn(context.Background(), testSession, decimal.NewFromInt(100), "")

	assert.ErrorIs(t, err, domain.ErrNoOpenTurn)
}

// TestCloseTurn_CierreEsIrreversible: tras el cierre no hay turno abierto al
// cual abonar movimientos.
func TestCloseTurn_CierreEsIrreversible(t *testing.T) {
	f := newCashboxFixture(t)

	_, err := f.uc.OpenTurn(context.Background(), testSession, decimal.NewFromInt(100), "")
	require.NoError(t, err)
	_, err = f.uc.CloseTurn(context.Background(), testSession, decimal.NewFromInt(100), "")
	require.NoError(t, err)

	_, err = f.uc.RegisterMovement(context.Background(), testSession,
		entity.CashIn, decimal.NewFromInt(10), "")
	assert.ErrorIs(t, err, domain.ErrNoOpenTurn)

	current, err := f.uc.CurrentTurn(context.Background(), testSession)
	require.NoError(t, err)
	assert.Nil(t, current)
}
