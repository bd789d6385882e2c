package multicaja_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendamx/pos-mostrador/internal/multicaja"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// OfflineQueue
// ──────────────────────────────────────────────────────────────────────────────

func newQueue(t *testing.T) *multicaja.OfflineQueue {
	t.Helper()
	return multicaja.NewOfflineQueue(filepath.Join(t.TempDir(), "queue.json"))
}

// TestOfflineQueue_FIFO: las operaciones salen en el orden en que entraron.
func TestOfflineQueue_FIFO(t *testing.T) {
	q := newQueue(t)

	require.NoError(t, q.Append(map[string]int{"op": 1}))
	require.NoError(t, q.Append(map[string]int{"op": 2}))
	require.NoError(t, q.Append(map[string]int{"op": 3}))

	items, err := q.ReadAll()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.JSONEq(t, `{"op":1}`, string(items[0]))
	assert.JSONEq(t, `{"op":3}`, string(items[2]))
	assert.Equal(t, 3, q.Len())
}

// TestOfflineQueue_SobreviveReinicio: una cola nueva sobre el mismo archivo
// ve las operaciones encoladas antes.
func TestOfflineQueue_SobreviveReinicio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.json")

	q1 := multicaja.NewOfflineQueue(path)
	require.NoError(t, q1.Append(map[string]string{"k": "v"}))

	q2 := multicaja.NewOfflineQueue(path)
	assert.Equal(t, 1, q2.Len())
}

func TestOfflineQueue_ArchivoInexistenteEsVacia(t *testing.T) {
	q := newQueue(t)

	items, err := q.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, q.Len())
}

func TestOfflineQueue_ClearVacia(t *testing.T) {
	q := newQueue(t)
	require.NoError(t, q.Append("x"))

	require.NoError(t, q.Clear())

	assert.Equal(t, 0, q.Len())
}

// ──────────────────────────────────────────────────────────────────────────────
// MultiCaja contra un servidor de prueba
// ──────────────────────────────────────────────────────────────────────────────

type testServer struct {
	srv       *httptest.Server
	applied   atomic.Int32
	failPosts atomic.Bool
}

// newTestServer levanta un servidor que acepta ping y apply_sale; los POST se
// pueden poner en modo fallo para simular caída de red parcial.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/api/inventory/apply_sale", func(w http.ResponseWriter, _ *http.Request) {
		if ts.failPosts.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		ts.applied.Add(1)
		_, _ = w.Write([]byte(`{"applied":true}`))
	})
	ts.srv = httptest.NewServer(mux)
	t.Cleanup(ts.srv.Close)
	return ts
}

func newMultiCaja(t *testing.T, baseURL string) (*multicaja.MultiCaja, *multicaja.OfflineQueue) {
	t.Helper()
	dir := t.TempDir()
	client := multicaja.NewClient(baseURL, "token-de-prueba", dir, 2*time.Second)
	salesQ := multicaja.NewOfflineQueue(filepath.Join(dir, "sales_queue.json"))
	invQ := multicaja.NewOfflineQueue(filepath.Join(dir, "inventory_queue.json"))
	return multicaja.New(client, salesQ, invQ, logger.Nop()), salesQ
}

func saleLines() []multicaja.SaleLine {
	return []multicaja.SaleLine{{ProductID: 10, Qty: decimal.NewFromInt(2)}}
}

// TestPostSale_ConRedNoEncola: con el servidor arriba la venta se aplica
// directo y la cola queda vacía.
func TestPostSale_ConRedNoEncola(t *testing.T) {
	ts := newTestServer(t)
	mc, salesQ := newMultiCaja(t, ts.srv.URL)

	queued, err := mc.PostSale(context.Background(), saleLines())

	require.NoError(t, err)
	assert.False(t, queued)
	assert.Equal(t, int32(1), ts.applied.Load())
	assert.Equal(t, 0, salesQ.Len())
}

// TestPostSale_SinRedEncola: si el POST falla la venta se encola y la caja
// sigue operando.
func TestPostSale_SinRedEncola(t *testing.T) {
	ts := newTestServer(t)
	ts.failPosts.Store(true)
	mc, salesQ := newMultiCaja(t, ts.srv.URL)

	queued, err := mc.PostSale(context.Background(), saleLines())

	require.NoError(t, err)
	assert.True(t, queued)
	assert.Equal(t, 1, salesQ.Len())
}

// TestFlushQueues_ReplayTrasRecuperarRed: las ventas encoladas durante la
// caída se reproducen en orden y la cola se limpia.
func TestFlushQueues_ReplayTrasRecuperarRed(t *testing.T) {
	ts := newTestServer(t)
	ts.failPosts.Store(true)
	mc, salesQ := newMultiCaja(t, ts.srv.URL)

	for i := 0; i < 3; i++ {
		_, err := mc.PostSale(context.Background(), saleLines())
		require.NoError(t, err)
	}
	require.Equal(t, 3, salesQ.Len())

	ts.failPosts.Store(false)
	require.NoError(t, mc.FlushQueues(context.Background()))

	assert.Equal(t, int32(3), ts.applied.Load())
	assert.Equal(t, 0, salesQ.Len(), "la cola se limpia solo tras replay completo")
}

// TestFlushQueues_FalloConservaCola: si el replay falla a la mitad, la cola
// se conserva completa para el siguiente intento (duplicados aceptados).
func TestFlushQueues_FalloConservaCola(t *testing.T) {
	ts := newTestServer(t)
	ts.failPosts.Store(true)
	mc, salesQ := newMultiCaja(t, ts.srv.URL)

	_, err := mc.PostSale(context.Background(), saleLines())
	require.NoError(t, err)
	_, err = mc.PostSale(context.Background(), saleLines())
	require.NoError(t, err)

	// El ping responde pero los POST siguen fallando.
	err = mc.FlushQueues(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, salesQ.Len(), "nada se descarta ante un replay fallido")
}

// TestFlushQueues_ColaVaciaEsNoOp: sin operaciones encoladas el flush no toca
// la red más allá de nada (ni siquiera hace ping).
func TestFlushQueues_ColaVaciaEsNoOp(t *testing.T) {
	ts := newTestServer(t)
	mc, _ := newMultiCaja(t, ts.srv.URL)

	require.NoError(t, mc.FlushQueues(context.Background()))
	assert.Equal(t, int32(0), ts.applied.Load())
}

// TestPing_ActualizaBanderaOffline: un servidor caído marca la caja offline;
// al volver la red la bandera se limpia.
func TestPing_ActualizaBanderaOffline(t *testing.T) {
	ts := newTestServer(t)
	dir := t.TempDir()
	client := multicaja.NewClient(ts.srv.URL, "tok", dir, 2*time.Second)

	assert.True(t, client.Ping(context.Background()))
	assert.False(t, client.Offline())

	ts.srv.Close()
	assert.False(t, client.Ping(context.Background()))
	assert.True(t, client.Offline())
}
