package financeiro

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func isoDaysAgo(n int) string {
	return time.Now().UTC().AddDate(0, 0, -n).Format("2006-01-02")
}

func TestFormatarReferencia(t *testing.T) {
	tests := []struct {
		id       int64
		expected string
	}{
		{7, "PG-0007"},
		{42, "PG-0042"},
		{1234, "PG-1234"},
		{99999, "PG-99999"},
		{0, "PG-0000"},
		{-3, "PG-0000"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatarReferencia(tt.id))
		})
	}
}

func TestDiasDeAtraso(t *testing.T) {
	now := time.Now().UTC()

	// N days in the past yields exactly N
	for _, n := range []int{0, 1, 10, 365} {
		t.Run(fmt.Sprintf("%d days late", n), func(t *testing.T) {
			assert.Equal(t, n, DiasDeAtraso(isoDaysAgo(n), now))
		})
	}

	// Future due dates are never negative
	future := now.AddDate(0, 0, 5).Format("2006-01-02")
	assert.Equal(t, 0, DiasDeAtraso(future, now))

	// Unparsable input degrades to zero
	assert.Equal(t, 0, DiasDeAtraso("", now))
	assert.Equal(t, 0, DiasDeAtraso("not-a-date", now))
	assert.Equal(t, 0, DiasDeAtraso("31/12/2020", now))

	// Timestamps are truncated to their date part
	assert.Equal(t, 10, DiasDeAtraso(now.AddDate(0, 0, -10).Format(time.RFC3339), now))
}

func TestMapPagamento_DiasAtraso(t *testing.T) {
	// Open payment 10 days past due
	p := MapPagamento(map[string]any{
		"id":            float64(1),
		"status":        "PENDENTE",
		"dataPagamento": isoDaysAgo(10),
	})
	assert.Equal(t, 10, p.DiasAtraso)

	// Settled and cancelled statuses suppress lateness entirely
	for _, status := range []string{"PAGO", "RECEBIDO", "CANCELADO"} {
		p := MapPagamento(map[string]any{
			"id":            float64(1),
			"status":        status,
			"dataPagamento": isoDaysAgo(30),
		})
		assert.Equal(t, 0, p.DiasAtraso, "status %s", status)
	}
}

func TestMapPagamento_PaymentDateGating(t *testing.T) {
	// A recorded payment date must not surface while the status is still open
	p := MapPagamento(map[string]any{
		"id":            float64(5),
		"status":        "PENDENTE",
		"dataPagamento": "2026-08-01",
	})
	assert.Empty(t, p.DataPagamento)
	assert.Equal(t, "2026-08-01", p.DataVencimento)

	p = MapPagamento(map[string]any{
		"id":            float64(5),
		"status":        "RECEBIDO",
		"dataPagamento": "2026-08-01",
	})
	assert.Equal(t, "2026-08-01", p.DataPagamento)
}

func TestMapPagamento_Defaults(t *testing.T) {
	p := MapPagamento(map[string]any{})

	assert.Equal(t, StatusPagamentoPendente, p.Status)
	assert.Equal(t, MetodoBoleto, p.MetodoPagamento)
	assert.Equal(t, "PG-0000", p.Referencia)
	assert.True(t, p.Valor.IsZero())
	assert.Equal(t, SemValor, p.Observacoes)
	// Missing payment date falls back to today
	assert.Equal(t, time.Now().Format("2006-01-02"), p.DataVencimento)
}

func TestMapPagamento_Referencia(t *testing.T) {
	p := MapPagamento(map[string]any{"id": float64(7)})
	assert.Equal(t, "PG-0007", p.Referencia)

	p = MapPagamento(map[string]any{"id": float64(0)})
	assert.Equal(t, "PG-0000", p.Referencia)
}

func TestMapPagamento_MetodoEValor(t *testing.T) {
	p := MapPagamento(map[string]any{
		"id":              float64(3),
		"status":          "pago",
		"metodoPagamento": "Pagamento via PIX",
		"valor":           149.9,
		"dataPagamento":   "2026-07-15",
	})

	assert.Equal(t, MetodoPIX, p.MetodoPagamento)
	assert.Equal(t, "149.9", p.Valor.String())
	assert.Equal(t, StatusPagamentoPago, p.Status)
}
