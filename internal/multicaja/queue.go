package multicaja

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// OfflineQueue es una cola FIFO persistida como arreglo JSON en disco. Cada
// clase de operación (ventas, inventario) lleva su propio archivo; la cola
// sobrevive reinicios de la caja.
type OfflineQueue struct {
	mu   sync.Mutex
	path string
}

// NewOfflineQueue construye la cola sobre el archivo dado.
func NewOfflineQueue(path string) *OfflineQueue {
	return &OfflineQueue{path: path}
}

// Append agrega una operación al final de la cola.
func (q *OfflineQueue) Append(v any) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.readLocked()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serializar operación: %w", err)
	}
	items = append(items, raw)
	return q.writeLocked(items)
}

// ReadAll devuelve las operaciones encoladas en orden FIFO.
func (q *OfflineQueue) ReadAll() ([]json.RawMessage, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.readLocked()
}

// Len devuelve cuántas operaciones hay encoladas.
func (q *OfflineQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	items, err := q.readLocked()
	if err != nil {
		return 0
	}
	return len(items)
}

// Clear vacía la cola. Se llama solo tras replay exitoso de TODAS las
// operaciones.
func (q *OfflineQueue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.writeLocked(nil)
}

func (q *OfflineQueue) readLocked() ([]json.RawMessage, error) {
	data, err := os.ReadFile(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer cola %s: %w", q.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		// Cola corrupta: se descarta antes que bloquear la caja.
		return nil, nil
	}
	return items, nil
}

func (q *OfflineQueue) writeLocked(items []json.RawMessage) error {
	if items == nil {
		items = []json.RawMessage{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(q.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(q.path, data, 0o644)
}
