package handler

import (
	"github.com/gin-gonic/gin"

	app "github.com/amparo/backoffice/internal/application/financeiro"
	"github.com/amparo/backoffice/internal/domain/financeiro"
	"github.com/amparo/backoffice/internal/infrastructure/backendapi"
)

// FinanceiroHandler exposes the account ledger and reconciliation operations
type FinanceiroHandler struct {
	BaseHandler
	ledger         *app.LedgerService
	reconciliation *app.ReconciliationService
}

// NewFinanceiroHandler creates a new FinanceiroHandler
func NewFinanceiroHandler(ledger *app.LedgerService, reconciliation *app.ReconciliationService) *FinanceiroHandler {
	return &FinanceiroHandler{
		ledger:         ledger,
		reconciliation: reconciliation,
	}
}

// RegisterRoutes registers the financeiro routes
func (h *FinanceiroHandler) RegisterRoutes(rg *gin.RouterGroup) {
	fin := rg.Group("/financeiro")
	{
		fin.GET("/contas", h.ListContas)
		fin.POST("/contas/:tipo", h.CriarConta)
		fin.GET("/contas/:tipo/:id", h.ObterConta)
		fin.POST("/contas/:tipo/:id/baixa", h.BaixarConta)
		fin.POST("/contas/:tipo/:id/estorno", h.EstornarConta)
		fin.POST("/contas/:tipo/:id/reconsulta", h.ReconsultarConta)
		fin.GET("/reconciliacao", h.Reconciliacao)
	}

	pag := rg.Group("/pagamentos")
	{
		pag.GET("", h.ListPagamentos)
		pag.PUT("/:id", h.AtualizarPagamento)
	}
}

type listContasQuery struct {
	Tipo     string `form:"tipo" binding:"omitempty,oneof=pagar receber"`
	Status   string `form:"status"`
	Busca    string `form:"busca"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

type criarContaRequest struct {
	Descricao     string `json:"descricao" binding:"required"`
	Valor         string `json:"valor" binding:"required"`
	Vencimento    string `json:"vencimento" binding:"required,dateiso"`
	Fornecedor    string `json:"fornecedor"`
	ClienteID     string `json:"clienteId"`
	IntegrarAsaas bool   `json:"integrarAsaas"`
	BillingType   string `json:"billingType" binding:"omitempty,oneof=BOLETO PIX CREDIT_CARD UNDEFINED"`
}

type baixarContaRequest struct {
	ContaBancariaID string `json:"contaBancariaId" binding:"required"`
	Observacao      string `json:"observacao"`
}

type estornarContaRequest struct {
	Motivo string `json:"motivo" binding:"required"`
}

type atualizarPagamentoRequest struct {
	Status        string `json:"status"`
	DataPagamento string `json:"dataPagamento" binding:"omitempty,dateiso"`
}

type reconciliacaoQuery struct {
	Status string `form:"status"`
	Busca  string `form:"busca"`
}

// tipoFromParam resolves the :tipo path segment. Only the two account kinds
// exist as URL segments.
func tipoFromParam(raw string) (financeiro.TipoConta, bool) {
	switch raw {
	case "pagar":
		return financeiro.TipoPagar, true
	case "receber":
		return financeiro.TipoReceber, true
	}
	return "", false
}

// ListContas handles GET /financeiro/contas
func (h *FinanceiroHandler) ListContas(c *gin.Context) {
	var query listContasQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Parâmetros de consulta inválidos: "+err.Error())
		return
	}

	var tipo financeiro.TipoConta
	if query.Tipo != "" {
		tipo, _ = tipoFromParam(query.Tipo)
	}

	contas, err := h.ledger.ListContas(c.Request.Context(), backendapi.ListContasParams{
		Tipo:     tipo,
		Status:   query.Status,
		Busca:    query.Busca,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	// The backend does not report a collection total, so a paged response
	// carries no meta rather than a total that only counts the current page.
	h.Success(c, contas)
}

// ObterConta handles GET /financeiro/contas/:tipo/:id
func (h *FinanceiroHandler) ObterConta(c *gin.Context) {
	tipo, ok := tipoFromParam(c.Param("tipo"))
	if !ok {
		h.BadRequest(c, "Tipo de conta inválido")
		return
	}

	conta, err := h.ledger.ObterConta(c.Request.Context(), tipo, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, conta)
}

// CriarConta handles POST /financeiro/contas/:tipo
func (h *FinanceiroHandler) CriarConta(c *gin.Context) {
	tipo, ok := tipoFromParam(c.Param("tipo"))
	if !ok {
		h.BadRequest(c, "Tipo de conta inválido")
		return
	}

	var req criarContaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Corpo da requisição inválido: "+err.Error())
		return
	}

	conta, err := h.ledger.CriarConta(c.Request.Context(), tipo, backendapi.CriarContaRequest{
		Descricao:     req.Descricao,
		Valor:         req.Valor,
		Vencimento:    req.Vencimento,
		Fornecedor:    req.Fornecedor,
		ClienteID:     req.ClienteID,
		IntegrarAsaas: req.IntegrarAsaas,
		BillingType:   req.BillingType,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, conta)
}

// BaixarConta handles POST /financeiro/contas/:tipo/:id/baixa
func (h *FinanceiroHandler) BaixarConta(c *gin.Context) {
	tipo, ok := tipoFromParam(c.Param("tipo"))
	if !ok {
		h.BadRequest(c, "Tipo de conta inválido")
		return
	}

	var req baixarContaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Corpo da requisição inválido: "+err.Error())
		return
	}

	conta, err := h.ledger.BaixarConta(c.Request.Context(), tipo, c.Param("id"), backendapi.BaixarContaRequest{
		ContaBancariaID: req.ContaBancariaID,
		Observacao:      req.Observacao,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, conta)
}

// EstornarConta handles POST /financeiro/contas/:tipo/:id/estorno
func (h *FinanceiroHandler) EstornarConta(c *gin.Context) {
	tipo, ok := tipoFromParam(c.Param("tipo"))
	if !ok {
		h.BadRequest(c, "Tipo de conta inválido")
		return
	}

	var req estornarContaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Motivo do estorno é obrigatório")
		return
	}

	conta, err := h.ledger.EstornarConta(c.Request.Context(), tipo, c.Param("id"), req.Motivo)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, conta)
}

// ReconsultarConta handles POST /financeiro/contas/:tipo/:id/reconsulta.
// The route accepts both kinds to keep the contas tree uniform; the service
// rejects anything but receivables.
func (h *FinanceiroHandler) ReconsultarConta(c *gin.Context) {
	tipo, ok := tipoFromParam(c.Param("tipo"))
	if !ok {
		h.BadRequest(c, "Tipo de conta inválido")
		return
	}

	conta, err := h.ledger.ReconsultarConta(c.Request.Context(), tipo, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, conta)
}

// Reconciliacao handles GET /financeiro/reconciliacao
func (h *FinanceiroHandler) Reconciliacao(c *gin.Context) {
	var query reconciliacaoQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Parâmetros de consulta inválidos: "+err.Error())
		return
	}

	items, err := h.reconciliation.Reconciliar(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filtered := app.FiltrarReconciliadas(items, app.FiltroReconciliacao{
		StatusGateway: query.Status,
		Busca:         query.Busca,
	})
	h.SuccessWithMeta(c, filtered, len(filtered), 0, 0)
}

// ListPagamentos handles GET /pagamentos
func (h *FinanceiroHandler) ListPagamentos(c *gin.Context) {
	pagamentos, err := h.ledger.ListPagamentos(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, pagamentos, len(pagamentos), 0, 0)
}

// AtualizarPagamento handles PUT /pagamentos/:id
func (h *FinanceiroHandler) AtualizarPagamento(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		h.BadRequest(c, "Identificador de pagamento inválido")
		return
	}

	var req atualizarPagamentoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Corpo da requisição inválido: "+err.Error())
		return
	}
	if req.Status == "" && req.DataPagamento == "" {
		h.BadRequest(c, "Nenhum campo para atualizar")
		return
	}

	pagamento, err := h.ledger.AtualizarPagamento(c.Request.Context(), id, backendapi.AtualizarPagamentoRequest{
		Status:        req.Status,
		DataPagamento: req.DataPagamento,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pagamento)
}
