package backendapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amparo/backoffice/internal/domain/financeiro"
	"github.com/amparo/backoffice/internal/domain/shared"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, Token: "backend-token"})
	require.NoError(t, err)
	return client, server
}

// ============================================================================
// Configuration
// ============================================================================

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrMissingCredentials))
}

// ============================================================================
// ListContas
// ============================================================================

func TestListContas_MapsRecords(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/financeiro/contas", r.URL.Path)
		assert.Equal(t, "receber", r.URL.Query().Get("tipo"))
		assert.Equal(t, "Bearer backend-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[{
			"id": "c-1",
			"tipo": "receber",
			"descricao": "Mensalidade plano família",
			"valorOriginal": 89.9,
			"dataVencimento": "2026-09-10",
			"status": "pendente",
			"clienteId": "cli-7",
			"clienteNome": "João Pereira"
		}]}`))
	})

	contas, err := client.ListContas(context.Background(), ListContasParams{Tipo: financeiro.TipoReceber})
	require.NoError(t, err)
	require.Len(t, contas, 1)

	conta := contas[0]
	assert.Equal(t, "c-1", conta.ID)
	assert.Equal(t, financeiro.TipoReceber, conta.Tipo)
	assert.Equal(t, financeiro.StatusFinanceiroPendente, conta.Status)
	assert.Equal(t, "89.9", conta.ValorOriginal.String())
	require.NotNil(t, conta.Cliente)
	assert.Equal(t, "João Pereira", conta.Cliente.Nome)
}

func TestListContas_EmptyOnUnknownShape(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 0}`))
	})

	contas, err := client.ListContas(context.Background(), ListContasParams{})
	require.NoError(t, err)
	assert.Empty(t, contas)
}

// ============================================================================
// Mutations
// ============================================================================

func TestCriarConta_PostsToTipoPath(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/financeiro/contas/pagar", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"c-9","tipo":"pagar","descricao":"Aluguel","valorOriginal":1200,"status":"pendente","fornecedor":"Imobiliária Central"}}`))
	})

	conta, err := client.CriarConta(context.Background(), financeiro.TipoPagar, CriarContaRequest{
		Descricao:  "Aluguel",
		Valor:      "1200.00",
		Vencimento: "2026-09-05",
		Fornecedor: "Imobiliária Central",
	})
	require.NoError(t, err)

	assert.Equal(t, "Aluguel", gotBody["descricao"])
	assert.Equal(t, "1200.00", gotBody["valor"])
	assert.Equal(t, "c-9", conta.ID)
	require.NotNil(t, conta.Fornecedor)
	assert.Equal(t, "Imobiliária Central", *conta.Fornecedor)
}

func TestCriarConta_RejectsInvalidTipo(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://backend.local"})
	require.NoError(t, err)

	_, err = client.CriarConta(context.Background(), financeiro.TipoConta("transferir"), CriarContaRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestBaixarConta_PostsSettlement(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/financeiro/contas/receber/c-1/baixa", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"data":{
			"id": "c-1",
			"tipo": "receber",
			"valorOriginal": 100,
			"status": "recebido",
			"baixa": {"dataBaixa": "2026-09-01T12:00:00Z", "valorBaixado": 100, "contaBancariaId": "cb-1"}
		}}`))
	})

	conta, err := client.BaixarConta(context.Background(), financeiro.TipoReceber, "c-1", BaixarContaRequest{
		ContaBancariaID: "cb-1",
		Observacao:      "recebido em conta",
	})
	require.NoError(t, err)

	assert.Equal(t, "cb-1", gotBody["contaBancariaId"])
	assert.Equal(t, financeiro.StatusFinanceiroRecebido, conta.Status)
	require.NotNil(t, conta.Baixa)
	assert.True(t, conta.Baixa.ValorBaixado.Equal(conta.ValorOriginal))
}

func TestEstornarConta_ReopensAccount(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/financeiro/contas/pagar/c-2/estorno", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"data":{
			"id": "c-2",
			"tipo": "pagar",
			"valorOriginal": 250,
			"status": "pendente",
			"baixa": {"dataBaixa": "2026-08-30T09:00:00Z", "valorBaixado": 250},
			"estorno": {"dataEstorno": "2026-09-01T10:00:00Z", "motivo": "lançamento duplicado", "valorEstornado": 250}
		}}`))
	})

	conta, err := client.EstornarConta(context.Background(), financeiro.TipoPagar, "c-2", "lançamento duplicado")
	require.NoError(t, err)

	assert.Equal(t, "lançamento duplicado", gotBody["motivo"])
	assert.Equal(t, financeiro.StatusFinanceiroPendente, conta.Status)
	require.NotNil(t, conta.Baixa, "historical settlement survives the reversal")
	require.NotNil(t, conta.Estorno)
	assert.Equal(t, "lançamento duplicado", conta.Estorno.Motivo)
}

func TestReconsultarContaReceber_RefreshesLinkage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/financeiro/contas/receber/c-3/reconsulta", r.URL.Path)
		w.Write([]byte(`{"data":{"id":"c-3","tipo":"receber","status":"pendente","asaasPaymentId":"pay_55","paymentUrl":"https://asaas.example/i/pay_55"}}`))
	})

	conta, err := client.ReconsultarContaReceber(context.Background(), "c-3")
	require.NoError(t, err)
	assert.Equal(t, "pay_55", conta.AsaasPaymentID)
	assert.True(t, conta.TemIntegracaoAsaas())
}

// ============================================================================
// Pagamentos
// ============================================================================

func TestListPagamentos_MapsRecords(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pagamento", r.URL.Path)
		w.Write([]byte(`[{"id": 7, "valor": 89.9, "status": "pago", "dataPagamento": "2026-08-15", "metodoPagamento": "pix"}]`))
	})

	pagamentos, err := client.ListPagamentos(context.Background())
	require.NoError(t, err)
	require.Len(t, pagamentos, 1)

	p := pagamentos[0]
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "PG-0007", p.Referencia)
	assert.Equal(t, financeiro.StatusPagamentoPago, p.Status)
	assert.Equal(t, financeiro.MetodoPIX, p.MetodoPagamento)
	assert.Equal(t, "2026-08-15", p.DataPagamento)
}

func TestAtualizarPagamento_PutsToIDPath(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/pagamento/7", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id": 7, "valor": 89.9, "status": "pago", "dataPagamento": "2026-09-01"}`))
	})

	p, err := client.AtualizarPagamento(context.Background(), 7, AtualizarPagamentoRequest{
		Status:        "pago",
		DataPagamento: "2026-09-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "pago", gotBody["status"])
	assert.Equal(t, financeiro.StatusPagamentoPago, p.Status)
	assert.Equal(t, "2026-09-01", p.DataPagamento)
}

// ============================================================================
// Error handling
// ============================================================================

func TestBaixarConta_DomainRejectionSurfacesBackendMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":{"message":"conta já liquidada"}}`))
	})

	_, err := client.BaixarConta(context.Background(), financeiro.TipoReceber, "c-1", BaixarContaRequest{ContaBancariaID: "cb-1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrBackendRejected))
	assert.Contains(t, err.Error(), "conta já liquidada")
}

func TestListContas_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.ListContas(context.Background(), ListContasParams{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrBackendUnavailable))
}

func TestErrorMessage_FallsBackToStatusText(t *testing.T) {
	assert.Equal(t, "Bad Gateway", errorMessage([]byte("upstream exploded"), http.StatusBadGateway))
	assert.Equal(t, "esqueleto inválido", errorMessage([]byte(`{"message":"esqueleto inválido"}`), 400))
}
