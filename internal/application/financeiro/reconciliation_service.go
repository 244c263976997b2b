package financeiro

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/amparo/backoffice/internal/domain/financeiro"
	"github.com/amparo/backoffice/internal/infrastructure/asaas"
	"github.com/amparo/backoffice/internal/infrastructure/backendapi"
)

// GatewayClient is the subset of the Asaas client the reconciliation uses
type GatewayClient interface {
	ListPayments(ctx context.Context, params asaas.ListParams) ([]financeiro.AsaasPayment, error)
}

// ContaReconciliada pairs a local receivable with the gateway's view of its
// charge. Gateway is nil for receivables without a linked charge.
type ContaReconciliada struct {
	Conta            financeiro.ContaFinanceira `json:"conta"`
	Gateway          *financeiro.AsaasPayment   `json:"gateway,omitempty"`
	StatusDivergente bool                       `json:"status_divergente"`
}

// FiltroReconciliacao narrows a reconciliation view in memory
type FiltroReconciliacao struct {
	StatusGateway string
	Busca         string
}

// ReconciliationService joins local receivables with the gateway's payment
// list. It only annotates: a detected divergence is flagged for an operator,
// never written back to either side.
type ReconciliationService struct {
	backend ContaBackend
	gateway GatewayClient
	logger  *zap.Logger
}

// ReconciliationOption is a functional option for configuring the service
type ReconciliationOption func(*ReconciliationService)

// WithReconciliationLogger sets the logger for the service
func WithReconciliationLogger(logger *zap.Logger) ReconciliationOption {
	return func(s *ReconciliationService) {
		s.logger = logger
	}
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(backend ContaBackend, gateway GatewayClient, opts ...ReconciliationOption) *ReconciliationService {
	s := &ReconciliationService{
		backend: backend,
		gateway: gateway,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reconciliar fetches receivables and gateway payments and joins them by the
// linked gateway payment id. Every receivable appears in the result, linked
// or not; gateway payments without a local counterpart are not surfaced.
func (s *ReconciliationService) Reconciliar(ctx context.Context) ([]ContaReconciliada, error) {
	contas, err := s.backend.ListContas(ctx, backendapi.ListContasParams{Tipo: financeiro.TipoReceber})
	if err != nil {
		return nil, err
	}

	payments, err := s.gateway.ListPayments(ctx, asaas.ListParams{})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]financeiro.AsaasPayment, len(payments))
	for _, p := range payments {
		byID[p.ID] = p
	}

	result := make([]ContaReconciliada, 0, len(contas))
	divergentes := 0
	for _, conta := range contas {
		rec := ContaReconciliada{Conta: conta}
		if conta.AsaasPaymentID != "" {
			if p, ok := byID[conta.AsaasPaymentID]; ok {
				payment := p
				rec.Gateway = &payment
				rec.StatusDivergente = statusBucket(conta.Status) != gatewayBucket(p.Status)
				if rec.StatusDivergente {
					divergentes++
				}
			}
		}
		result = append(result, rec)
	}

	if divergentes > 0 {
		s.logger.Warn("Divergências de status entre backend e gateway",
			zap.Int("contas", len(result)),
			zap.Int("divergentes", divergentes))
	}
	return result, nil
}

// semantic settlement buckets shared by both status vocabularies
const (
	bucketAberto = iota
	bucketLiquidado
	bucketCancelado
)

func statusBucket(s financeiro.StatusFinanceiro) int {
	switch s {
	case financeiro.StatusFinanceiroPago, financeiro.StatusFinanceiroRecebido:
		return bucketLiquidado
	case financeiro.StatusFinanceiroCancelado:
		return bucketCancelado
	default:
		return bucketAberto
	}
}

func gatewayBucket(s financeiro.AsaasPaymentStatus) int {
	switch s {
	case financeiro.AsaasStatusReceived, financeiro.AsaasStatusConfirmed:
		return bucketLiquidado
	case financeiro.AsaasStatusCancelled, financeiro.AsaasStatusRefunded, financeiro.AsaasStatusFailed:
		return bucketCancelado
	default:
		return bucketAberto
	}
}

// FiltrarReconciliadas filters a reconciliation view in memory. The gateway
// status filter matches exactly ("all" or empty disables it); the free-text
// search is a case-insensitive substring match across the customer display
// name, the account description, the external reference and the gateway
// payment id.
func FiltrarReconciliadas(items []ContaReconciliada, filtro FiltroReconciliacao) []ContaReconciliada {
	status := strings.TrimSpace(filtro.StatusGateway)
	busca := strings.ToLower(strings.TrimSpace(filtro.Busca))

	filtered := make([]ContaReconciliada, 0, len(items))
	for _, item := range items {
		if status != "" && status != asaas.StatusAll {
			if item.Gateway == nil || string(item.Gateway.Status) != strings.ToUpper(status) {
				continue
			}
		}
		if busca != "" && !matchesBusca(item, busca) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func matchesBusca(item ContaReconciliada, busca string) bool {
	fields := []string{
		item.Conta.Parceiro,
		item.Conta.Descricao,
		item.Conta.AsaasPaymentID,
	}
	if item.Gateway != nil {
		fields = append(fields,
			item.Gateway.CustomerName,
			item.Gateway.ExternalReference,
			item.Gateway.ID,
		)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), busca) {
			return true
		}
	}
	return false
}
