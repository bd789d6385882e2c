package multicaja

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

// Client es el cliente HTTP de una caja hacia el servidor MultiCaja. Mantiene
// la bandera offline y el caché JSON local con el que la caja sigue operando
// sin red.
type Client struct {
	baseURL  string
	token    string
	cacheDir string
	http     *http.Client
	pingHTTP *http.Client
	offline  atomic.Bool
}

// NewClient construye el cliente. timeout aplica a las peticiones de datos;
// el ping usa un timeout más corto para detectar caídas rápido.
func NewClient(baseURL, token, cacheDir string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		cacheDir: cacheDir,
		http:     &http.Client{Timeout: timeout},
		pingHTTP: &http.Client{Timeout: 3 * time.Second},
	}
}

// Offline indica si la última operación de red falló.
func (c *Client) Offline() bool {
	return c.offline.Load()
}

// Ping verifica que el servidor responda y actualiza la bandera offline.
func (c *Client) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/ping", nil)
	if err != nil {
		return false
	}
	resp, err := c.pingHTTP.Do(req)
	if err != nil {
		c.offline.Store(true)
		return false
	}
	defer resp.Body.Close()
	ok := resp.StatusCode == http.StatusOK
	c.offline.Store(!ok)
	return ok
}

// Get hace GET a un path de la API y decodifica la respuesta en out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// Post hace POST con cuerpo JSON y decodifica la respuesta en out (nil para
// descartarla).
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("X-Token", c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		c.offline.Store(true)
		return err
	}
	defer resp.Body.Close()
	c.offline.Store(false)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ReadCache lee un documento JSON del caché local; sin archivo deja out en su
// valor cero y no es error.
func (c *Client) ReadCache(name string, out any) error {
	data, err := os.ReadFile(c.cachePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, out)
}

// WriteCache persiste un documento JSON en el caché local.
func (c *Client) WriteCache(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.cachePath(name), data, 0o644)
}

func (c *Client) cachePath(name string) string {
	return filepath.Join(c.cacheDir, name+".json")
}
