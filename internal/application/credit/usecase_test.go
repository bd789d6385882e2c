package credit_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcredit "github.com/tiendamx/pos-mostrador/internal/application/credit"
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

type fakeCustomers struct {
	repository.CustomerRepository
	customer *entity.Customer
	reduced  decimal.Decimal
}

func (f *fakeCustomers) GetByID(id int64) (*entity.Customer, error) {
	if f.customer == nil || f.customer.ID != id {
		return nil, domain.ErrNotFound
	}
	return f.customer, nil
}

// ReduceCreditBalance imita el piso en cero del repo real.
func (f *fakeCustomers) ReduceCreditBalance(_ int64, amount decimal.Decimal) error {
	f.reduced = f.reduced.Add(amount)
	f.customer.CreditBalance = f.customer.CreditBalance.Sub(amount)
	if f.customer.CreditBalance.IsNegative() {
		f.customer.CreditBalance = decimal.Zero
	}
	return nil
}

type fakeCredits struct {
	repository.CreditRepository
	payments []*entity.CreditPayment
	previous *entity.PreviousCreditBalance
}

func (f *fakeCredits) CreatePayment(p *entity.CreditPayment) (int64, error) {
	f.payments = append(f.payments, p)
	return int64(len(f.payments)), nil
}

func (f *fakeCredits) PaymentsByCustomer(_ int64) ([]*entity.CreditPayment, error) {
	return f.payments, nil
}

func (f *fakeCredits) GetPreviousBalance(_ int64) (*entity.PreviousCreditBalance, error) {
	if f.previous == nil {
		return nil, domain.ErrNotFound
	}
	return f.previous, nil
}

type fakeSales struct {
	repository.SaleRepository
	sales []*entity.Sale
}

func (f *fakeSales) ListByCustomer(_ int64, _ int) ([]*entity.Sale, error) {
	return f.sales, nil
}

type fakeAudits struct {
	repository.AuditRepository
}

func (f *fakeAudits) Create(_ *entity.AuditLog) error { return nil }

type creditFixture struct {
	uc        *appcredit.Usecase
	customers *fakeCustomers
	credits   *fakeCredits
	sales     *fakeSales
}

func newCreditFixture(t *testing.T) *creditFixture {
	t.Helper()
	f := &creditFixture{
		customers: &fakeCustomers{customer: &entity.Customer{ID: 3, FirstName: "Ana"}},
		credits:   &fakeCredits{},
		sales:     &fakeSales{},
	}
	tx := &fakeTx{r: &repository.Atomic{
		Customers: f.customers,
		Credits:   f.credits,
		Sales:     f.sales,
		Audits:    &fakeAudits{},
	}}
	f.uc = appcredit.New(tx, f.customers, f.credits, f.sales, logger.Nop())
	return f
}

var testSession = session.New(7, 1)

// ──────────────────────────────────────────────────────────────────────────────
// Abonos
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterPayment_ReduceSaldo(t *testing.T) {
	f := newCreditFixture(t)
	f.customers.customer.CreditBalance = decimal.NewFromInt(300)

	id, err := f.uc.RegisterPayment(context.Background(), appcredit.PaymentInput{
		Session:    testSession,
		CustomerID: 3,
		Amount:     decimal.NewFromInt(120),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.True(t, f.customers.customer.CreditBalance.Equal(decimal.NewFromInt(180)))
}

// TestRegisterPayment_PisoEnCero: abonar más que el saldo deja el saldo en
// cero, nunca negativo (el excedente es cambio, no saldo a favor).
func TestRegisterPayment_PisoEnCero(t *testing.T) {
	f := newCreditFixture(t)
	f.customers.customer.CreditBalance = decimal.NewFromInt(80)

	_, err := f.uc.RegisterPayment(context.Background(), appcredit.PaymentInput{
		Session:    testSession,
		CustomerID: 3,
		Amount:     decimal.NewFromInt(100),
	})

	require.NoError(t, err)
	assert.True(t, f.customers.customer.CreditBalance.IsZero())
}

func TestRegisterPayment_MontoNoPositivo(t *testing.T) {
	f := newCreditFixture(t)

	_, err := f.uc.RegisterPayment(context.Background(), appcredit.PaymentInput{
		Session:    testSession,
		CustomerID: 3,
		Amount:     decimal.Zero,
	})

	assert.ErrorIs(t, err, domain.ErrAmountNotPositive)
}

func TestRegisterPayment_ClienteInexistente(t *testing.T) {
	f := newCreditFixture(t)

	_, err := f.uc.RegisterPayment(context.Background(), appcredit.PaymentInput{
		Session:    testSession,
		CustomerID: 404,
		Amount:     decimal.NewFromInt(50),
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado de cuenta: saldo corrido cronológico
// ──────────────────────────────────────────────────────────────────────────────

// TestGetStatement_SaldoCorrido arma un estado de cuenta con saldo anterior,
// una venta a crédito y un abono; el saldo corrido de cada renglón debe
// avanzar en orden cronológico.
func TestGetStatement_SaldoCorrido(t *testing.T) {
	f := newCreditFixture(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	f.credits.previous = &entity.PreviousCreditBalance{
		ID:        1,
		Balance:   decimal.NewFromInt(100),
		CreatedAt: base,
	}
	f.sales.sales = []*entity.Sale{{
		ID:        5,
		Timestamp: base.Add(24 * time.Hour),
		Total:     decimal.NewFromInt(200),
		Breakdown: payment.Breakdown{Method: payment.MethodCredit},
	}}
	f.credits.payments = []*entity.CreditPayment{{
		ID:        9,
		Amount:    decimal.NewFromInt(150),
		Timestamp: base.Add(48 * time.Hour),
	}}

	st, err := f.uc.GetStatement(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, st.Entries, 3)
	assert.Equal(t, appcredit.EntryPreviousBalance, st.Entries[0].Type)
	assert.True(t, st.Entries[0].Balance.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, appcredit.EntrySale, st.Entries[1].Type)
	assert.True(t, st.Entries[1].Balance.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, appcredit.EntryPayment, st.Entries[2].Type)
	assert.True(t, st.Entries[2].Balance.Equal(decimal.NewFromInt(150)))
	assert.True(t, st.Balance.Equal(decimal.NewFromInt(150)))
}

// TestGetStatement_VentaMixtaSoloPorcionCredito: de una venta mixta solo el
// sub-monto fiado aparece como cargo.
func TestGetStatement_VentaMixtaSoloPorcionCredito(t *testing.T) {
	f := newCreditFixture(t)

	f.sales.sales = []*entity.Sale{{
		ID:        5,
		Timestamp: time.Now(),
		Total:     decimal.NewFromInt(232),
		Breakdown: payment.Breakdown{
			Method: payment.MethodMixed,
			Mixed: &payment.Mixed{
				Cash:   decimal.NewFromInt(100),
				Credit: decimal.NewFromInt(132),
			},
		},
	}}

	st, err := f.uc.GetStatement(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, st.Entries, 1)
	assert.True(t, st.Entries[0].Charge.Equal(decimal.NewFromInt(132)))
	assert.True(t, st.Balance.Equal(decimal.NewFromInt(132)))
}

// TestGetStatement_VentaDeContadoNoAparece: las ventas sin porción a crédito
// no generan renglón.
func TestGetStatement_VentaDeContadoNoAparece(t *testing.T) {
	f := newCreditFixture(t)

	f.sales.sales = []*entity.Sale{{
		ID:        5,
		Timestamp: time.Now(),
		Total:     decimal.NewFromInt(99),
		Breakdown: payment.Breakdown{Method: payment.MethodCash, Amount: decimal.NewFromInt(99)},
	}}

	st, err := f.uc.GetStatement(context.Background(), 3)

	require.NoError(t, err)
	assert.Empty(t, st.Entries)
	assert.True(t, st.Balance.IsZero())
}
