package financeiro

import (
	"time"

	"github.com/shopspring/decimal"
)

// TipoConta discriminates payables from receivables. It determines which
// counterpart identity (Fornecedor or Cliente) is populated.
type TipoConta string

const (
	TipoPagar   TipoConta = "Pagar"
	TipoReceber TipoConta = "Receber"
)

// IsValid checks if the account type is valid
func (t TipoConta) IsValid() bool {
	return t == TipoPagar || t == TipoReceber
}

// Slug returns the URL path segment used by the backend API for this type
func (t TipoConta) Slug() string {
	if t == TipoPagar {
		return "pagar"
	}
	return "receber"
}

// StatusLiquidacao returns the settled terminal status for this account type
func (t TipoConta) StatusLiquidacao() StatusFinanceiro {
	if t == TipoPagar {
		return StatusFinanceiroPago
	}
	return StatusFinanceiroRecebido
}

// Cliente identifies the counterpart of a receivable
type Cliente struct {
	ID       string `json:"id"`
	Nome     string `json:"nome"`
	Email    string `json:"email,omitempty"`
	Telefone string `json:"telefone,omitempty"`
	CPF      string `json:"cpf,omitempty"`
}

// Baixa is the settlement record attached to a settled account. Settlement is
// always for the full original amount; partial settlement is not supported by
// the backend contract.
type Baixa struct {
	DataBaixa       time.Time       `json:"data_baixa"`
	UsuarioID       string          `json:"usuario_id"`
	ContaBancariaID string          `json:"conta_bancaria_id"`
	ValorBaixado    decimal.Decimal `json:"valor_baixado"`
	Observacao      string          `json:"observacao,omitempty"`
}

// Estorno is the reversal record attached to an account whose settlement was
// undone. ValorEstornado equals the amount previously settled.
type Estorno struct {
	DataEstorno    time.Time       `json:"data_estorno"`
	UsuarioID      string          `json:"usuario_id"`
	Motivo         string          `json:"motivo"`
	ValorEstornado decimal.Decimal `json:"valor_estornado"`
}

// ContaFinanceira represents one financial obligation, payable or receivable.
// The remote backend API is the system of record; instances here are read
// models mapped from its payloads. Calendar dates are ISO YYYY-MM-DD strings
// as delivered by the backend.
type ContaFinanceira struct {
	ID             string           `json:"id"`
	Tipo           TipoConta        `json:"tipo"`
	Descricao      string           `json:"descricao"`
	ValorOriginal  decimal.Decimal  `json:"valor_original"`
	DataEmissao    string           `json:"data_emissao"`
	DataVencimento string           `json:"data_vencimento"`
	Status         StatusFinanceiro `json:"status"`
	Baixa          *Baixa           `json:"baixa,omitempty"`
	Estorno        *Estorno         `json:"estorno,omitempty"`

	// Exactly one of Fornecedor/Cliente is set, determined by Tipo.
	Fornecedor *string  `json:"fornecedor,omitempty"`
	Cliente    *Cliente `json:"cliente,omitempty"`
	// Parceiro is the derived display name of whichever counterpart applies.
	Parceiro string `json:"parceiro"`

	// Gateway linkage, populated only for receivables created with Asaas
	// integration enabled. Empty means not linked.
	AsaasPaymentID      string `json:"asaas_payment_id,omitempty"`
	AsaasSubscriptionID string `json:"asaas_subscription_id,omitempty"`
	PaymentURL          string `json:"payment_url,omitempty"`
	PixQrCode           string `json:"pix_qr_code,omitempty"`
	PixExpiration       string `json:"pix_expiration,omitempty"`
}

// EstaLiquidada returns true if the account is settled (PAGO/RECEBIDO)
func (c *ContaFinanceira) EstaLiquidada() bool {
	return c.Status.IsLiquidado()
}

// PodeBaixar reports whether settlement makes sense in the current state.
// This is informational only; the backend is the authority and rejects
// invalid transitions itself.
func (c *ContaFinanceira) PodeBaixar() bool {
	return c.Status.IsAberto()
}

// PodeEstornar reports whether a reversal makes sense in the current state.
// Informational only, same as PodeBaixar.
func (c *ContaFinanceira) PodeEstornar() bool {
	return c.EstaLiquidada()
}

// TemIntegracaoAsaas returns true when the receivable is linked to a gateway
// payment
func (c *ContaFinanceira) TemIntegracaoAsaas() bool {
	return c.Tipo == TipoReceber && c.AsaasPaymentID != ""
}

// DiasAtraso returns whole days past the due date as of now. Settled and
// cancelled accounts are never late.
func (c *ContaFinanceira) DiasAtraso(now time.Time) int {
	if !c.Status.IsAberto() {
		return 0
	}
	return DiasDeAtraso(c.DataVencimento, now)
}
