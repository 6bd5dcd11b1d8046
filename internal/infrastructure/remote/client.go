// Package remote es el cliente REST del backend de pedidos y pagos.
//
// Las escrituras (POST/PUT) no son idempotentes en el servidor y se envían una
// sola vez; sólo las lecturas usan reintentos.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-retryablehttp"

	appbilling "github.com/jhoicas/textil-api/internal/application/billing"
	"github.com/jhoicas/textil-api/internal/domain/entity"
	"github.com/jhoicas/textil-api/pkg/logger"
)

var _ appbilling.RemoteBilling = (*Client)(nil)

// Config conexión al backend.
type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	ReadRetries int
}

// Client implementa RemoteBilling sobre HTTP/JSON.
type Client struct {
	base   string
	apiKey string
	reads  *retryablehttp.Client
	writes *retryablehttp.Client
	log    *logger.Logger
}

// NewClient construye el cliente. Timeout <= 0 usa 15s.
func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, errors.Wrapf(err, "REMOTE_BASE_URL %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("remote")

	return &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey: cfg.APIKey,
		reads:  newHTTPClient(cfg.Timeout, cfg.ReadRetries, log),
		writes: newHTTPClient(cfg.Timeout, 0, log),
		log:    log,
	}, nil
}

func newHTTPClient(timeout time.Duration, retries int, log *logger.Logger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = retries
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.HTTPClient.Timeout = timeout
	c.Logger = leveled{log}
	// devolver la respuesta no-2xx en vez de "giving up after N attempts"
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return c
}

// ── RemoteBilling ─────────────────────────────────────────────────────────────

// CreateInvoice POST /invoices. Devuelve el id asignado por el servidor.
func (c *Client) CreateInvoice(ctx context.Context, inv entity.Invoice) (string, error) {
	var out createdResponse
	if err := c.do(ctx, c.writes, http.MethodPost, "/invoices", toInvoicePayload(inv), &out); err != nil {
		return "", errors.Wrapf(err, "crear factura %s", inv.Identifier)
	}
	return out.ID, nil
}

// UpdateInvoice PUT /invoices/{id}.
func (c *Client) UpdateInvoice(ctx context.Context, inv entity.Invoice) error {
	path := "/invoices/" + url.PathEscape(inv.RemoteID)
	if err := c.do(ctx, c.writes, http.MethodPut, path, toInvoicePayload(inv), nil); err != nil {
		return errors.Wrapf(err, "actualizar factura %s", inv.Identifier)
	}
	return nil
}

// CreatePayment POST /invoices/{id}/payments.
func (c *Client) CreatePayment(ctx context.Context, invoiceRemoteID string, p entity.PaymentRecord) (string, error) {
	var out createdResponse
	path := "/invoices/" + url.PathEscape(invoiceRemoteID) + "/payments"
	if err := c.do(ctx, c.writes, http.MethodPost, path, toPaymentPayload(p), &out); err != nil {
		return "", errors.Wrapf(err, "crear pago %s", p.ID)
	}
	return out.ID, nil
}

// GetInvoiceBalance GET /invoices/{id}, con reintentos.
func (c *Client) GetInvoiceBalance(ctx context.Context, invoiceRemoteID string) (appbilling.RemoteBalance, error) {
	var out balanceResponse
	path := "/invoices/" + url.PathEscape(invoiceRemoteID)
	if err := c.do(ctx, c.reads, http.MethodGet, path, nil, &out); err != nil {
		return appbilling.RemoteBalance{}, errors.Wrapf(err, "consultar factura %s", invoiceRemoteID)
	}
	return appbilling.RemoteBalance{GrandTotal: out.GrandTotal, AmountPaid: out.AmountPaid}, nil
}

// Ping GET /health, con reintentos.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, c.reads, http.MethodGet, "/health", nil, nil)
}

// ── transporte ────────────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, hc *retryablehttp.Client, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "serializar body")
		}
		body = b
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return errors.Wrap(err, "construir request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errors.Wrap(err, "leer respuesta")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "decodificar respuesta")
	}
	return nil
}

// StatusError respuesta no-2xx del backend.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// leveled adapta el logger de la app a retryablehttp.LeveledLogger.
type leveled struct{ log *logger.Logger }

func (l leveled) Error(msg string, kv ...interface{}) { l.log.Error().Fields(kv).Msg(msg) }
func (l leveled) Info(msg string, kv ...interface{})  { l.log.Debug().Fields(kv).Msg(msg) }
func (l leveled) Debug(msg string, kv ...interface{}) { l.log.Trace().Fields(kv).Msg(msg) }
func (l leveled) Warn(msg string, kv ...interface{})  { l.log.Warn().Fields(kv).Msg(msg) }
