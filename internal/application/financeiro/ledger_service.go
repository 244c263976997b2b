// Package financeiro provides application-level operations over the financial
// backend: the account ledger lifecycle and the gateway reconciliation views.
package financeiro

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/amparo/backoffice/internal/domain/financeiro"
	"github.com/amparo/backoffice/internal/domain/shared"
	"github.com/amparo/backoffice/internal/infrastructure/backendapi"
	"github.com/amparo/backoffice/internal/infrastructure/cache"
)

// ContaBackend is the subset of the backend client the ledger depends on
type ContaBackend interface {
	ListContas(ctx context.Context, params backendapi.ListContasParams) ([]financeiro.ContaFinanceira, error)
	CriarConta(ctx context.Context, tipo financeiro.TipoConta, req backendapi.CriarContaRequest) (financeiro.ContaFinanceira, error)
	BaixarConta(ctx context.Context, tipo financeiro.TipoConta, id string, req backendapi.BaixarContaRequest) (financeiro.ContaFinanceira, error)
	EstornarConta(ctx context.Context, tipo financeiro.TipoConta, id string, motivo string) (financeiro.ContaFinanceira, error)
	ReconsultarContaReceber(ctx context.Context, id string) (financeiro.ContaFinanceira, error)
	ListPagamentos(ctx context.Context) ([]financeiro.Pagamento, error)
	AtualizarPagamento(ctx context.Context, id int64, req backendapi.AtualizarPagamentoRequest) (financeiro.Pagamento, error)
}

// LedgerService drives the account lifecycle against the backend. The backend
// is authoritative for every state transition; this service adds read-model
// caching and serializes mutations per account id so concurrent operators
// cannot interleave baixa and estorno on the same account.
type LedgerService struct {
	backend ContaBackend
	cache   cache.ReadModelCache
	ttl     time.Duration
	logger  *zap.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// LedgerOption is a functional option for configuring the LedgerService
type LedgerOption func(*LedgerService)

// WithLogger sets the logger for the service
func WithLogger(logger *zap.Logger) LedgerOption {
	return func(s *LedgerService) {
		s.logger = logger
	}
}

// WithCacheTTL sets the read-model cache TTL
func WithCacheTTL(ttl time.Duration) LedgerOption {
	return func(s *LedgerService) {
		s.ttl = ttl
	}
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(backend ContaBackend, rm cache.ReadModelCache, opts ...LedgerOption) *LedgerService {
	s := &LedgerService{
		backend: backend,
		cache:   rm,
		ttl:     30 * time.Second,
		logger:  zap.NewNop(),
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lockFor returns the mutex serializing mutations for one account id. Locks
// are kept for the life of the process; the working set is bounded by the
// number of accounts an operator touches.
func (s *LedgerService) lockFor(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	mu, ok := s.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[id] = mu
	}
	return mu
}

func contaKey(tipo financeiro.TipoConta, id string) string {
	return "conta:" + tipo.Slug() + ":" + id
}

func listKey(params backendapi.ListContasParams) string {
	// Slug() maps the empty Tipo to receivables, which would alias the
	// untyped list onto the receivables list; the raw value keeps the keys
	// distinct.
	tipo := string(params.Tipo)
	if tipo == "" {
		tipo = "all"
	}
	return "contas:" + tipo + ":" + params.Status + ":" + params.Busca +
		":" + strconv.Itoa(params.Page) + ":" + strconv.Itoa(params.PageSize)
}

const pagamentosKey = "pagamentos"

// ListContas lists accounts through the read-model cache
func (s *LedgerService) ListContas(ctx context.Context, params backendapi.ListContasParams) ([]financeiro.ContaFinanceira, error) {
	key := listKey(params)

	if payload, found, err := s.cache.Get(ctx, key); err == nil && found {
		var contas []financeiro.ContaFinanceira
		if err := json.Unmarshal(payload, &contas); err == nil {
			return contas, nil
		}
		// A corrupt entry is dropped and refetched
		_ = s.cache.Invalidate(ctx, key)
	}

	contas, err := s.backend.ListContas(ctx, params)
	if err != nil {
		return nil, err
	}

	s.storeReadModel(ctx, key, contas)
	return contas, nil
}

// ObterConta returns a single account, serving the read model refreshed by
// the last confirmed mutation when still warm and falling back to a backend
// list fetch otherwise
func (s *LedgerService) ObterConta(ctx context.Context, tipo financeiro.TipoConta, id string) (financeiro.ContaFinanceira, error) {
	key := contaKey(tipo, id)

	if payload, found, err := s.cache.Get(ctx, key); err == nil && found {
		var conta financeiro.ContaFinanceira
		if err := json.Unmarshal(payload, &conta); err == nil {
			return conta, nil
		}
		_ = s.cache.Invalidate(ctx, key)
	}

	contas, err := s.backend.ListContas(ctx, backendapi.ListContasParams{Tipo: tipo})
	if err != nil {
		return financeiro.ContaFinanceira{}, err
	}
	for _, conta := range contas {
		if conta.ID == id {
			s.storeReadModel(ctx, key, conta)
			return conta, nil
		}
	}
	return financeiro.ContaFinanceira{}, fmt.Errorf("%w: conta %s", shared.ErrNotFound, id)
}

// CriarConta opens a new account. The backend assigns the id and the initial
// PENDENTE status; list read models are invalidated once it confirms.
func (s *LedgerService) CriarConta(ctx context.Context, tipo financeiro.TipoConta, req backendapi.CriarContaRequest) (financeiro.ContaFinanceira, error) {
	conta, err := s.backend.CriarConta(ctx, tipo, req)
	if err != nil {
		return financeiro.ContaFinanceira{}, err
	}

	s.logger.Info("Conta criada",
		zap.String("conta_id", conta.ID),
		zap.String("tipo", string(conta.Tipo)),
		zap.String("valor", conta.ValorOriginal.String()))

	s.confirmConta(ctx, conta)
	return conta, nil
}

// BaixarConta settles an account in full. Concurrent mutations on the same
// account are serialized; the cache is touched only after the backend
// confirms the transition.
func (s *LedgerService) BaixarConta(ctx context.Context, tipo financeiro.TipoConta, id string, req backendapi.BaixarContaRequest) (financeiro.ContaFinanceira, error) {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	conta, err := s.backend.BaixarConta(ctx, tipo, id, req)
	if err != nil {
		return financeiro.ContaFinanceira{}, err
	}

	s.logger.Info("Conta baixada",
		zap.String("conta_id", conta.ID),
		zap.String("tipo", string(conta.Tipo)),
		zap.String("status", string(conta.Status)))

	s.confirmConta(ctx, conta)
	return conta, nil
}

// EstornarConta reverses a settled account back to PENDENTE. The historical
// baixa record is preserved by the backend alongside the new estorno record.
func (s *LedgerService) EstornarConta(ctx context.Context, tipo financeiro.TipoConta, id string, motivo string) (financeiro.ContaFinanceira, error) {
	if motivo == "" {
		return financeiro.ContaFinanceira{}, fmt.Errorf("%w: motivo do estorno", shared.ErrInvalidInput)
	}

	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	conta, err := s.backend.EstornarConta(ctx, tipo, id, motivo)
	if err != nil {
		return financeiro.ContaFinanceira{}, err
	}

	s.logger.Info("Conta estornada",
		zap.String("conta_id", conta.ID),
		zap.String("tipo", string(conta.Tipo)),
		zap.String("motivo", motivo))

	s.confirmConta(ctx, conta)
	return conta, nil
}

// ReconsultarConta refreshes a receivable's gateway linkage from the backend.
// Only receivables carry gateway charges, so any other kind is rejected
// locally before reaching the wire.
func (s *LedgerService) ReconsultarConta(ctx context.Context, tipo financeiro.TipoConta, id string) (financeiro.ContaFinanceira, error) {
	if tipo != financeiro.TipoReceber {
		return financeiro.ContaFinanceira{}, fmt.Errorf("%w: reconsulta disponível apenas para contas a receber", shared.ErrInvalidInput)
	}

	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	conta, err := s.backend.ReconsultarContaReceber(ctx, id)
	if err != nil {
		return financeiro.ContaFinanceira{}, err
	}

	s.confirmConta(ctx, conta)
	return conta, nil
}

// ListPagamentos lists plan payments through the read-model cache
func (s *LedgerService) ListPagamentos(ctx context.Context) ([]financeiro.Pagamento, error) {
	if payload, found, err := s.cache.Get(ctx, pagamentosKey); err == nil && found {
		var pagamentos []financeiro.Pagamento
		if err := json.Unmarshal(payload, &pagamentos); err == nil {
			return pagamentos, nil
		}
		_ = s.cache.Invalidate(ctx, pagamentosKey)
	}

	pagamentos, err := s.backend.ListPagamentos(ctx)
	if err != nil {
		return nil, err
	}

	s.storeReadModel(ctx, pagamentosKey, pagamentos)
	return pagamentos, nil
}

// AtualizarPagamento updates a payment's status or payment date
func (s *LedgerService) AtualizarPagamento(ctx context.Context, id int64, req backendapi.AtualizarPagamentoRequest) (financeiro.Pagamento, error) {
	pagamento, err := s.backend.AtualizarPagamento(ctx, id, req)
	if err != nil {
		return financeiro.Pagamento{}, err
	}

	s.logger.Info("Pagamento atualizado",
		zap.Int64("pagamento_id", id),
		zap.String("status", string(pagamento.Status)))

	if err := s.cache.Invalidate(ctx, pagamentosKey); err != nil {
		s.logger.Warn("Falha ao invalidar cache de pagamentos", zap.Error(err))
	}
	return pagamento, nil
}

// storeReadModel caches a read model, tolerating cache failures
func (s *LedgerService) storeReadModel(ctx context.Context, key string, model any) {
	payload, err := json.Marshal(model)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		s.logger.Warn("Falha ao gravar read model no cache",
			zap.String("key", key), zap.Error(err))
	}
}

// confirmConta refreshes the account's read model and drops every list that
// could contain it. Runs only after the backend confirmed the mutation, so a
// failed request never evicts state that is still correct.
func (s *LedgerService) confirmConta(ctx context.Context, conta financeiro.ContaFinanceira) {
	s.storeReadModel(ctx, contaKey(conta.Tipo, conta.ID), conta)
	if err := s.cache.InvalidatePrefix(ctx, "contas:"); err != nil {
		s.logger.Warn("Falha ao invalidar listas de contas", zap.Error(err))
	}
}
