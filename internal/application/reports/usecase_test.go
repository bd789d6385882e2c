package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendamx/pos-mostrador/internal/application/reports"
	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
)

// fakeReports captura el rango con el que se consulta para inspeccionar la
// expansión del período.
type fakeReports struct {
	repository.ReportRepository
	from, to string
	limit    int
}

func (f *fakeReports) SalesSummary(_ int64, from, to string) (int, decimal.Decimal, error) {
	f.from, f.to = from, to
	return 2, decimal.NewFromInt(464), nil
}

func (f *fakeReports) SalesByMethod(_ int64, _, _ string) ([]repository.MethodTotal, error) {
	return []repository.MethodTotal{{Method: "cash", Count: 2, Total: decimal.NewFromInt(464)}}, nil
}

func (f *fakeReports) SalesByDay(_ int64, _, _ string) ([]repository.DailyTotal, error) {
	return nil, nil
}

func (f *fakeReports) TopProducts(_ int64, from, to string, limit int) ([]repository.TopProductResult, error) {
	f.from, f.to, f.limit = from, to, limit
	return nil, nil
}

// TestSales_PeriodoExpandeADiaCompleto: las fechas naturales se expanden a
// [00:00:00, 23:59:59] para que el día final sea inclusivo.
func TestSales_PeriodoExpandeADiaCompleto(t *testing.T) {
	repo := &fakeReports{}
	uc := reports.New(repo)

	rep, err := uc.Sales(context.Background(), 1, reports.Period{From: "2026-03-01", To: "2026-03-15"})

	require.NoError(t, err)
	assert.Equal(t, "2026-03-01 00:00:00", repo.from)
	assert.Equal(t, "2026-03-15 23:59:59", repo.to)
	assert.Equal(t, 2, rep.Count)
	assert.True(t, rep.Total.Equal(decimal.NewFromInt(464)))
}

// TestSales_SinFechasUsaHoy: sin período el reporte es del día actual.
func TestSales_SinFechasUsaHoy(t *testing.T) {
	repo := &fakeReports{}
	uc := reports.New(repo)

	_, err := uc.Sales(context.Background(), 1, reports.Period{})

	require.NoError(t, err)
	today := time.Now().Format("2006-01-02")
	assert.Equal(t, today+" 00:00:00", repo.from)
	assert.Equal(t, today+" 23:59:59", repo.to)
}

// TestSales_UnaSolaFechaCubreElDia: con solo "from", el rango es ese día.
func TestSales_UnaSolaFechaCubreElDia(t *testing.T) {
	repo := &fakeReports{}
	uc := reports.New(repo)

	_, err := uc.Sales(context.Background(), 1, reports.Period{From: "2026-03-01"})

	require.NoError(t, err)
	assert.Equal(t, "2026-03-01 00:00:00", repo.from)
	assert.Equal(t, "2026-03-01 23:59:59", repo.to)
}

func TestSales_FechaInvalida(t *testing.T) {
	uc := reports.New(&fakeReports{})

	_, err := uc.Sales(context.Background(), 1, reports.Period{From: "01/03/2026"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestTopProducts_LimiteAcotado: límites fuera de rango caen al default.
func TestTopProducts_LimiteAcotado(t *testing.T) {
	repo := &fakeReports{}
	uc := reports.New(repo)

	_, err := uc.TopProducts(context.Background(), 1, reports.Period{From: "2026-03-01"}, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.limit)

	_, err = uc.TopProducts(context.Background(), 1, reports.Period{From: "2026-03-01"}, 5000)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.limit)
}
