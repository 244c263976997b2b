// Package asaas implements the client for the Asaas payment-gateway proxy.
// The proxy is read-only from this service's point of view: receivable-side
// charges are provisioned by the backend, and this client only lists the
// gateway's view of them for reconciliation.
package asaas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/amparo/backoffice/internal/domain/financeiro"
	"github.com/amparo/backoffice/internal/domain/shared"
)

// StatusAll is the sentinel filter value meaning "no status filter"; it is
// omitted from the query string rather than sent literally.
const StatusAll = "all"

// Config holds the proxy credentials. All fields except the tunables are
// required; Validate runs at construction so a misconfigured deployment fails
// before the first request, not under load.
type Config struct {
	BaseURL  string
	ClientID string
	Token    string
	Tenant   string

	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

// Validate checks that every required credential is present
func (c *Config) Validate() error {
	missing := ""
	switch {
	case c.BaseURL == "":
		missing = "base URL"
	case c.ClientID == "":
		missing = "client id"
	case c.Token == "":
		missing = "token"
	case c.Tenant == "":
		missing = "tenant"
	}
	if missing != "" {
		return fmt.Errorf("%w: asaas %s", shared.ErrMissingCredentials, missing)
	}
	return nil
}

// Client issues authenticated requests against the gateway proxy
type Client struct {
	config     Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
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

// NewClient creates a gateway client, validating credentials up front
func NewClient(config Config, opts ...ClientOption) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 10
	}
	if config.Burst == 0 {
		config.Burst = 20
	}

	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(config.RateLimit), config.Burst),
		logger:     zap.NewNop(),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "asaas-proxy",
			MaxRequests: 3,
			Interval:    30 * time.Second,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 5 && failureRatio >= 0.6
			},
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListParams are the optional filters for ListPayments
type ListParams struct {
	Status            string
	CustomerID        string
	ExternalReference string
	Page              int
	PageSize          int
}

// ListPayments lists the gateway's payments, mapped into the canonical view.
// A payload whose shape carries no record list yields an empty slice, not an
// error; transport failures are recovered into a single error type with a
// human-readable message.
func (c *Client) ListPayments(ctx context.Context, params ListParams) ([]financeiro.AsaasPayment, error) {
	body, err := c.doGet(ctx, "/providers/asaas/payments", params.query())
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Warn("Gateway returned non-JSON payload", zap.Error(err))
		return []financeiro.AsaasPayment{}, nil
	}

	items := financeiro.ExtractItems(payload)
	payments := make([]financeiro.AsaasPayment, 0, len(items))
	for _, item := range items {
		payments = append(payments, financeiro.MapAsaasPayment(item))
	}
	return payments, nil
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.Status != "" && p.Status != StatusAll {
		q.Set("status", p.Status)
	}
	if p.CustomerID != "" {
		q.Set("customerId", p.CustomerID)
	}
	if p.ExternalReference != "" {
		q.Set("externalReference", p.ExternalReference)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	return q
}

// doGet performs a rate-limited GET through the circuit breaker and returns
// the response body for 2xx statuses
func (c *Client) doGet(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrGatewayUnavailable, err)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		reqURL := c.config.BaseURL + path
		if encoded := query.Encode(); encoded != "" {
			reqURL += "?" + encoded
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("asaas: failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
		req.Header.Set("x-client-id", c.config.ClientID)
		req.Header.Set("x-tenant", c.config.Tenant)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrGatewayUnavailable, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("asaas: failed to read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %s", shared.ErrGatewayRejected, errorMessage(body, resp.StatusCode))
		}

		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// errorMessage extracts a human-readable message from an error body, falling
// back to the HTTP status text. Callers never see raw status codes.
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
