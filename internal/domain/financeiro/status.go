package financeiro

import "strings"

// StatusFinanceiro represents the lifecycle status of a financial account.
// VENCIDO is a legacy alias of ATRASADO kept because older backend records
// still carry it.
type StatusFinanceiro string

const (
	StatusFinanceiroPendente  StatusFinanceiro = "PENDENTE"
	StatusFinanceiroPago      StatusFinanceiro = "PAGO"
	StatusFinanceiroRecebido  StatusFinanceiro = "RECEBIDO"
	StatusFinanceiroAtrasado  StatusFinanceiro = "ATRASADO"
	StatusFinanceiroVencido   StatusFinanceiro = "VENCIDO"
	StatusFinanceiroCancelado StatusFinanceiro = "CANCELADO"
)

// IsValid checks if the status is a valid StatusFinanceiro
func (s StatusFinanceiro) IsValid() bool {
	switch s {
	case StatusFinanceiroPendente, StatusFinanceiroPago, StatusFinanceiroRecebido,
		StatusFinanceiroAtrasado, StatusFinanceiroVencido, StatusFinanceiroCancelado:
		return true
	}
	return false
}

// String returns the string representation of StatusFinanceiro
func (s StatusFinanceiro) String() string {
	return string(s)
}

// IsLiquidado returns true if the account is in a settled terminal state
func (s StatusFinanceiro) IsLiquidado() bool {
	return s == StatusFinanceiroPago || s == StatusFinanceiroRecebido
}

// IsAberto returns true while the account still awaits settlement
func (s StatusFinanceiro) IsAberto() bool {
	return s == StatusFinanceiroPendente || s == StatusFinanceiroAtrasado || s == StatusFinanceiroVencido
}

// StatusPagamento represents the status of a payment history entry
type StatusPagamento string

const (
	StatusPagamentoPendente  StatusPagamento = "PENDENTE"
	StatusPagamentoPago      StatusPagamento = "PAGO"
	StatusPagamentoRecebido  StatusPagamento = "RECEBIDO"
	StatusPagamentoVencido   StatusPagamento = "VENCIDO"
	StatusPagamentoCancelado StatusPagamento = "CANCELADO"
)

// IsValid checks if the status is a valid StatusPagamento
func (s StatusPagamento) IsValid() bool {
	switch s {
	case StatusPagamentoPendente, StatusPagamentoPago, StatusPagamentoRecebido,
		StatusPagamentoVencido, StatusPagamentoCancelado:
		return true
	}
	return false
}

// IsLiquidado returns true if the payment reached a settled terminal state
func (s StatusPagamento) IsLiquidado() bool {
	return s == StatusPagamentoPago || s == StatusPagamentoRecebido
}

// MetodoPagamento is the payment method offered to clients
type MetodoPagamento string

const (
	MetodoBoleto        MetodoPagamento = "Boleto"
	MetodoPIX           MetodoPagamento = "PIX"
	MetodoCartaoCredito MetodoPagamento = "Cartão de Crédito"
)

// NormalizeStatusFinanceiro maps a raw status string onto the closed
// StatusFinanceiro set. It is total: unrecognized input (including the empty
// string) degrades to PENDENTE so a malformed record still renders instead of
// breaking the read path. The backend's legacy OVERDUE token maps to VENCIDO.
func NormalizeStatusFinanceiro(raw string) StatusFinanceiro {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if upper == "OVERDUE" {
		return StatusFinanceiroVencido
	}
	if s := StatusFinanceiro(upper); s.IsValid() {
		return s
	}
	return StatusFinanceiroPendente
}

// NormalizeStatusPagamento maps a raw status string onto the closed
// StatusPagamento set, defaulting to PENDENTE. Same OVERDUE alias handling as
// NormalizeStatusFinanceiro.
func NormalizeStatusPagamento(raw string) StatusPagamento {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if upper == "OVERDUE" {
		return StatusPagamentoVencido
	}
	if s := StatusPagamento(upper); s.IsValid() {
		return s
	}
	return StatusPagamentoPendente
}

// NormalizeMetodoPagamento maps free-form method strings ("pix",
// "Pagamento via PIX", "cartao de credito", ...) onto the closed method set.
// Matching is a case-insensitive substring check; anything unrecognized,
// including the empty string, defaults to Boleto.
func NormalizeMetodoPagamento(raw string) MetodoPagamento {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "pix"):
		return MetodoPIX
	case strings.Contains(lower, "cart"):
		return MetodoCartaoCredito
	default:
		return MetodoBoleto
	}
}
