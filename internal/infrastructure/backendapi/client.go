// Package backendapi implements the client for the backend that owns financial
// accounts. The backend is the system of record: this client never validates
// domain rules locally, it forwards the caller's intent and surfaces the
// backend's verdict.
package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/amparo/backoffice/internal/domain/financeiro"
	"github.com/amparo/backoffice/internal/domain/shared"
)

// Config holds the backend connection settings
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Validate checks that the backend endpoint is configured
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: backend base URL", shared.ErrMissingCredentials)
	}
	return nil
}

// Client issues requests against the financial backend
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientOption is a functional option for configuring the Client
type ClientOption func(*Client)

// WithLogger sets the logger for the client
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a backend client, validating configuration up front
func NewClient(config Config, opts ...ClientOption) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListContasParams are the optional filters for ListContas
type ListContasParams struct {
	Tipo     financeiro.TipoConta
	Status   string
	Busca    string
	Page     int
	PageSize int
}

func (p ListContasParams) query() url.Values {
	q := url.Values{}
	if p.Tipo != "" {
		q.Set("tipo", p.Tipo.Slug())
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Busca != "" {
		q.Set("busca", p.Busca)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	return q
}

// CriarContaRequest carries the fields for opening a new account. Fornecedor
// applies to payables, ClienteID to receivables; the backend rejects a
// mismatched combination.
type CriarContaRequest struct {
	Descricao     string `json:"descricao"`
	Valor         string `json:"valor"`
	Vencimento    string `json:"vencimento"`
	Fornecedor    string `json:"fornecedor,omitempty"`
	ClienteID     string `json:"clienteId,omitempty"`
	IntegrarAsaas bool   `json:"integrarAsaas,omitempty"`
	BillingType   string `json:"billingType,omitempty"`
}

// BaixarContaRequest carries the settlement fields. The settled amount is
// always the account's full original amount, so no amount is sent.
type BaixarContaRequest struct {
	ContaBancariaID string `json:"contaBancariaId"`
	Observacao      string `json:"observacao,omitempty"`
}

// AtualizarPagamentoRequest carries the mutable payment fields
type AtualizarPagamentoRequest struct {
	Status        string `json:"status,omitempty"`
	DataPagamento string `json:"dataPagamento,omitempty"`
}

// ListContas lists financial accounts, mapped into the canonical read model
func (c *Client) ListContas(ctx context.Context, params ListContasParams) ([]financeiro.ContaFinanceira, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/financeiro/contas", params.query(), nil)
	if err != nil {
		return nil, err
	}
	return mapContas(body), nil
}

// CriarConta opens a new account of the given kind, returning the backend's
// view of the created record
func (c *Client) CriarConta(ctx context.Context, tipo financeiro.TipoConta, req CriarContaRequest) (financeiro.ContaFinanceira, error) {
	if !tipo.IsValid() {
		return financeiro.ContaFinanceira{}, fmt.Errorf("%w: tipo de conta %q", shared.ErrInvalidInput, string(tipo))
	}
	body, err := c.doRequest(ctx, http.MethodPost, "/financeiro/contas/"+tipo.Slug(), nil, req)
	if err != nil {
		return financeiro.ContaFinanceira{}, err
	}
	return mapConta(body), nil
}

// BaixarConta settles an account in full
func (c *Client) BaixarConta(ctx context.Context, tipo financeiro.TipoConta, id string, req BaixarContaRequest) (financeiro.ContaFinanceira, error) {
	if !tipo.IsValid() {
		return financeiro.ContaFinanceira{}, fmt.Errorf("%w: tipo de conta %q", shared.ErrInvalidInput, string(tipo))
	}
	path := fmt.Sprintf("/financeiro/contas/%s/%s/baixa", tipo.Slug(), url.PathEscape(id))
	body, err := c.doRequest(ctx, http.MethodPost, path, nil, req)
	if err != nil {
		return financeiro.ContaFinanceira{}, err
	}
	return mapConta(body), nil
}

// EstornarConta reverses a settled account back to open
func (c *Client) EstornarConta(ctx context.Context, tipo financeiro.TipoConta, id string, motivo string) (financeiro.ContaFinanceira, error) {
	if !tipo.IsValid() {
		return financeiro.ContaFinanceira{}, fmt.Errorf("%w: tipo de conta %q", shared.ErrInvalidInput, string(tipo))
	}
	path := fmt.Sprintf("/financeiro/contas/%s/%s/estorno", tipo.Slug(), url.PathEscape(id))
	body, err := c.doRequest(ctx, http.MethodPost, path, nil, map[string]string{"motivo": motivo})
	if err != nil {
		return financeiro.ContaFinanceira{}, err
	}
	return mapConta(body), nil
}

// ReconsultarContaReceber asks the backend to refresh a receivable's gateway
// linkage and returns the refreshed record. Only receivables can be requeried.
func (c *Client) ReconsultarContaReceber(ctx context.Context, id string) (financeiro.ContaFinanceira, error) {
	path := fmt.Sprintf("/financeiro/contas/receber/%s/reconsulta", url.PathEscape(id))
	body, err := c.doRequest(ctx, http.MethodPost, path, nil, nil)
	if err != nil {
		return financeiro.ContaFinanceira{}, err
	}
	return mapConta(body), nil
}

// ListPagamentos lists plan payments mapped into the canonical read model
func (c *Client) ListPagamentos(ctx context.Context) ([]financeiro.Pagamento, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/pagamento", nil, nil)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Warn("Backend returned non-JSON payment payload", zap.Error(err))
		return []financeiro.Pagamento{}, nil
	}

	items := financeiro.ExtractItems(payload)
	pagamentos := make([]financeiro.Pagamento, 0, len(items))
	for _, item := range items {
		pagamentos = append(pagamentos, financeiro.MapPagamento(item))
	}
	return pagamentos, nil
}

// AtualizarPagamento updates a payment's status or payment date
func (c *Client) AtualizarPagamento(ctx context.Context, id int64, req AtualizarPagamentoRequest) (financeiro.Pagamento, error) {
	path := fmt.Sprintf("/pagamento/%d", id)
	body, err := c.doRequest(ctx, http.MethodPut, path, nil, req)
	if err != nil {
		return financeiro.Pagamento{}, err
	}

	raw, ok := decodeObject(body)
	if !ok {
		return financeiro.Pagamento{}, nil
	}
	return financeiro.MapPagamento(raw), nil
}

// doRequest performs an authenticated request and returns the response body
// for 2xx statuses
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	reqURL := c.config.BaseURL + path
	if query != nil {
		if encoded := query.Encode(); encoded != "" {
			reqURL += "?" + encoded
		}
	}

	var bodyReader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("backendapi: failed to encode request: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("backendapi: failed to create request: %w", err)
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("backendapi: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", shared.ErrBackendRejected, errorMessage(body, resp.StatusCode))
	}

	return body, nil
}

// mapContas decodes a list payload into mapped accounts, tolerating the
// backend's envelope variants
func mapContas(body []byte) []financeiro.ContaFinanceira {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return []financeiro.ContaFinanceira{}
	}

	items := financeiro.ExtractItems(payload)
	contas := make([]financeiro.ContaFinanceira, 0, len(items))
	for _, item := range items {
		contas = append(contas, financeiro.MapContaFinanceira(item))
	}
	return contas
}

// mapConta decodes a single-record payload, unwrapping a data envelope when
// present
func mapConta(body []byte) financeiro.ContaFinanceira {
	raw, ok := decodeObject(body)
	if !ok {
		return financeiro.ContaFinanceira{}
	}
	return financeiro.MapContaFinanceira(raw)
}

func decodeObject(body []byte) (map[string]any, bool) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, false
	}
	if inner, ok := raw["data"].(map[string]any); ok {
		return inner, true
	}
	return raw, true
}

// errorMessage extracts a human-readable message from an error body, falling
// back to the HTTP status text
func errorMessage(body []byte, statusCode int) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error.Message != "" {
			return payload.Error.Message
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return http.StatusText(statusCode)
}
