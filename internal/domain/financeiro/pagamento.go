package financeiro

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const isoDateLayout = "2006-01-02"

// Pagamento is the derived read view of a receivable's payment history entry.
type Pagamento struct {
	ID                  int64           `json:"id"`
	Valor               decimal.Decimal `json:"valor"`
	DataVencimento      string          `json:"data_vencimento"`
	DataPagamento       string          `json:"data_pagamento,omitempty"`
	Status              StatusPagamento `json:"status"`
	MetodoPagamento     MetodoPagamento `json:"metodo_pagamento"`
	Referencia          string          `json:"referencia"`
	DiasAtraso          int             `json:"dias_atraso"`
	Observacoes         string          `json:"observacoes,omitempty"`
	AsaasPaymentID      string          `json:"asaas_payment_id,omitempty"`
	AsaasSubscriptionID string          `json:"asaas_subscription_id,omitempty"`
}

// FormatarReferencia derives the display reference code for a payment.
// Non-positive or absent ids collapse to the fixed literal PG-0000.
func FormatarReferencia(id int64) string {
	if id <= 0 {
		return "PG-0000"
	}
	return fmt.Sprintf("PG-%04d", id)
}

// DiasDeAtraso returns whole days elapsed since the given ISO date, floored
// at zero. Total: an unparsable or empty date yields 0 rather than an error,
// so a record with a garbled due date still renders as simply not late.
// Timestamps with a time component are truncated to their date part.
func DiasDeAtraso(dataVencimento string, now time.Time) int {
	if len(dataVencimento) < len(isoDateLayout) {
		return 0
	}
	due, err := time.Parse(isoDateLayout, dataVencimento[:len(isoDateLayout)])
	if err != nil {
		return 0
	}
	days := int(now.Sub(due).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
