package asaas

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amparo/backoffice/internal/domain/financeiro"
	"github.com/amparo/backoffice/internal/domain/shared"
)

func validConfig(baseURL string) Config {
	return Config{
		BaseURL:  baseURL,
		ClientID: "client-1",
		Token:    "secret",
		Tenant:   "amparo-dev",
		Timeout:  2 * time.Second,
	}
}

// ============================================================================
// Configuration
// ============================================================================

func TestNewClient_MissingCredentials(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base URL", func(c *Config) { c.BaseURL = "" }},
		{"missing client id", func(c *Config) { c.ClientID = "" }},
		{"missing token", func(c *Config) { c.Token = "" }},
		{"missing tenant", func(c *Config) { c.Tenant = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig("http://gateway.local")
			tt.mutate(&cfg)

			_, err := NewClient(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrMissingCredentials))
		})
	}
}

func TestNewClient_ValidConfig(t *testing.T) {
	client, err := NewClient(validConfig("http://gateway.local"))
	require.NoError(t, err)
	assert.NotNil(t, client)
}

// ============================================================================
// ListPayments
// ============================================================================

func TestListPayments_SendsAuthHeaders(t *testing.T) {
	var gotAuth, gotClientID, gotTenant string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotClientID = r.Header.Get("x-client-id")
		gotTenant = r.Header.Get("x-tenant")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client, err := NewClient(validConfig(server.URL))
	require.NoError(t, err)

	_, err = client.ListPayments(context.Background(), ListParams{})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "client-1", gotClientID)
	assert.Equal(t, "amparo-dev", gotTenant)
}

func TestListPayments_StatusFilterOmission(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		wantInURL  bool
		wantStatus string
	}{
		{"empty status omitted", "", false, ""},
		{"all sentinel omitted", "all", false, ""},
		{"concrete status sent", "RECEIVED", true, "RECEIVED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery map[string][]string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query()
				w.Write([]byte(`[]`))
			}))
			defer server.Close()

			client, err := NewClient(validConfig(server.URL))
			require.NoError(t, err)

			_, err = client.ListPayments(context.Background(), ListParams{Status: tt.status})
			require.NoError(t, err)

			_, present := gotQuery["status"]
			assert.Equal(t, tt.wantInURL, present)
			if tt.wantInURL {
				assert.Equal(t, tt.wantStatus, gotQuery["status"][0])
			}
		})
	}
}

func TestListPayments_EnvelopeShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[{"id":"pay_1","status":"RECEIVED"},{"id":"pay_2"}]`, 2},
		{"data envelope", `{"data":[{"id":"pay_1"}],"totalCount":1}`, 1},
		{"items envelope", `{"items":[{"id":"pay_1"}]}`, 1},
		{"results envelope", `{"results":[{"id":"pay_1"}]}`, 1},
		{"unknown shape", `{"object":"list"}`, 0},
		{"scalar payload", `42`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(validConfig(server.URL))
			require.NoError(t, err)

			payments, err := client.ListPayments(context.Background(), ListParams{})
			require.NoError(t, err)
			assert.Len(t, payments, tt.want)
		})
	}
}

func TestListPayments_MapsRecords(t *testing.T) {
	body := `{"data":[{
		"id": "pay_123",
		"value": 150.5,
		"netValue": 148.2,
		"status": "received",
		"billingType": "PIX",
		"dueDate": "2026-08-20",
		"customer": {"id": "cus_9", "name": "Maria Souza"},
		"externalReference": "PG-0042"
	}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	client, err := NewClient(validConfig(server.URL))
	require.NoError(t, err)

	payments, err := client.ListPayments(context.Background(), ListParams{})
	require.NoError(t, err)
	require.Len(t, payments, 1)

	p := payments[0]
	assert.Equal(t, "pay_123", p.ID)
	assert.Equal(t, "150.5", p.Value.String())
	assert.Equal(t, financeiro.AsaasStatusReceived, p.Status)
	assert.Equal(t, financeiro.AsaasBillingPix, p.BillingType)
	assert.Equal(t, "Maria Souza", p.CustomerName)
	assert.Equal(t, "cus_9", p.CustomerID)
	assert.Equal(t, "PG-0042", p.ExternalReference)
}

// ============================================================================
// Error handling
// ============================================================================

func TestListPayments_RejectionParsesErrorBody(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"nested error message", 422, `{"error":{"message":"invalid filter"}}`, "invalid filter"},
		{"flat message", 400, `{"message":"bad request body"}`, "bad request body"},
		{"unparsable body", 503, `<html>down</html>`, http.StatusText(503)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(validConfig(server.URL))
			require.NoError(t, err)

			_, err = client.ListPayments(context.Background(), ListParams{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrGatewayRejected))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestListPayments_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client, err := NewClient(validConfig(server.URL))
	require.NoError(t, err)

	_, err = client.ListPayments(context.Background(), ListParams{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrGatewayUnavailable))
}

func TestListPayments_NonJSONSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client, err := NewClient(validConfig(server.URL))
	require.NoError(t, err)

	payments, err := client.ListPayments(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Empty(t, payments)
}
