package financeiro

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Display sentinels. Mapped records never carry absent strings; presentation
// layers must not have to branch on missing data.
const (
	SemValor               = "—"
	FornecedorNaoInformado = "Fornecedor não informado"
	ClienteNaoInformado    = "Cliente não informado"
	ClienteNaoIdentificado = "Cliente não identificado"
)

// The backend and the gateway proxy have shipped several payload shapes over
// the years (valor|value|amount, customerName|customer.name|payerName, ...).
// All of that instability is isolated here: each logical field resolves
// against an ordered candidate-key list, first match wins, and every mapping
// function is total. Missing numbers become zero, missing strings become
// sentinels, and nothing in this file returns an error.

// ExtractItems locates the record list inside a heterogeneous payload. It
// tries, in order: the payload itself as an array, then the data, items and
// results envelope keys. A payload with no array anywhere yields an empty
// list, never an error.
func ExtractItems(payload any) []map[string]any {
	if items := asItemSlice(payload); items != nil {
		return items
	}
	if env, ok := payload.(map[string]any); ok {
		for _, key := range []string{"data", "items", "results"} {
			if items := asItemSlice(env[key]); items != nil {
				return items
			}
		}
	}
	return []map[string]any{}
}

func asItemSlice(v any) []map[string]any {
	switch arr := v.(type) {
	case []map[string]any:
		return arr
	case []any:
		items := make([]map[string]any, 0, len(arr))
		for _, it := range arr {
			if m, ok := it.(map[string]any); ok {
				items = append(items, m)
			}
		}
		return items
	}
	return nil
}

// MapPagamento converts a raw backend payment record into a Pagamento.
//
// The backend does not track a separate due date for payment history rows, so
// the confirmation date doubles as the due date, falling back to today. A
// recorded payment date only surfaces once the status confirms settlement,
// and lateness is only computed while the row is still open.
func MapPagamento(raw map[string]any) Pagamento {
	status := NormalizeStatusPagamento(pickString(raw, "status"))
	metodo := NormalizeMetodoPagamento(pickString(raw, "metodoPagamento", "metodo_pagamento", "metodo"))

	vencimento := pickString(raw, "dataPagamento", "data_pagamento")
	if vencimento == "" {
		vencimento = time.Now().Format(isoDateLayout)
	}

	dataPagamento := ""
	if status.IsLiquidado() {
		dataPagamento = pickString(raw, "dataPagamento", "data_pagamento")
	}

	diasAtraso := 0
	if status == StatusPagamentoPendente || status == StatusPagamentoVencido {
		diasAtraso = DiasDeAtraso(vencimento, time.Now())
	}

	observacoes := pickString(raw, "observacoes", "observacao", "obs")
	if observacoes == "" {
		observacoes = SemValor
	}

	id := pickInt64(raw, "id")
	return Pagamento{
		ID:                  id,
		Valor:               pickDecimal(raw, "valor", "value", "amount"),
		DataVencimento:      vencimento,
		DataPagamento:       dataPagamento,
		Status:              status,
		MetodoPagamento:     metodo,
		Referencia:          FormatarReferencia(id),
		DiasAtraso:          diasAtraso,
		Observacoes:         observacoes,
		AsaasPaymentID:      pickString(raw, "asaasPaymentId", "asaas_payment_id"),
		AsaasSubscriptionID: pickString(raw, "asaasSubscriptionId", "asaas_subscription_id"),
	}
}

// MapContaFinanceira converts a raw backend account record into a
// ContaFinanceira, populating exactly one counterpart identity according to
// the account type and deriving the Parceiro display name.
func MapContaFinanceira(raw map[string]any) ContaFinanceira {
	conta := ContaFinanceira{
		ID:             pickString(raw, "id", "_id", "contaId"),
		Tipo:           mapTipoConta(pickString(raw, "tipo", "type")),
		Descricao:      pickString(raw, "descricao", "description"),
		ValorOriginal:  pickDecimal(raw, "valorOriginal", "valor_original", "valor", "value", "amount"),
		DataEmissao:    pickString(raw, "dataEmissao", "data_emissao", "emissao"),
		DataVencimento: pickString(raw, "dataVencimento", "data_vencimento", "vencimento", "dueDate"),
		Status:         NormalizeStatusFinanceiro(pickString(raw, "status")),

		AsaasPaymentID:      pickString(raw, "asaasPaymentId", "asaas_payment_id"),
		AsaasSubscriptionID: pickString(raw, "asaasSubscriptionId", "asaas_subscription_id"),
		PaymentURL:          pickString(raw, "paymentUrl", "payment_url"),
		PixQrCode:           pickString(raw, "pixQrCode", "pix_qr_code"),
		PixExpiration:       pickString(raw, "pixExpiration", "pix_expiration"),
	}
	if conta.Descricao == "" {
		conta.Descricao = SemValor
	}

	if conta.Tipo == TipoPagar {
		nome := pickString(raw, "fornecedor", "supplier")
		if nome == "" {
			nome = FornecedorNaoInformado
		}
		conta.Fornecedor = &nome
		conta.Parceiro = nome
	} else {
		cliente := mapCliente(raw)
		conta.Cliente = cliente
		conta.Parceiro = cliente.Nome
		if conta.Parceiro == "" {
			conta.Parceiro = ClienteNaoInformado
		}
	}

	if b := pickMap(raw, "baixa"); b != nil {
		conta.Baixa = &Baixa{
			DataBaixa:       parseTimestamp(pickString(b, "dataBaixa", "data_baixa")),
			UsuarioID:       pickString(b, "usuarioId", "usuario_id"),
			ContaBancariaID: pickString(b, "contaBancariaId", "conta_bancaria_id"),
			ValorBaixado:    pickDecimal(b, "valorBaixado", "valor_baixado", "valor"),
			Observacao:      pickString(b, "observacao"),
		}
	}
	if e := pickMap(raw, "estorno"); e != nil {
		conta.Estorno = &Estorno{
			DataEstorno:    parseTimestamp(pickString(e, "dataEstorno", "data_estorno")),
			UsuarioID:      pickString(e, "usuarioId", "usuario_id"),
			Motivo:         pickString(e, "motivo", "reason"),
			ValorEstornado: pickDecimal(e, "valorEstornado", "valor_estornado", "valor"),
		}
	}

	return conta
}

// MapAsaasPayment converts a raw gateway record into an AsaasPayment. The
// gateway omits ids on some integration versions; rendering never blocks on
// that, so a fresh opaque id is generated instead.
func MapAsaasPayment(raw map[string]any) AsaasPayment {
	id := pickString(raw, "id", "paymentId", "payment_id")
	if id == "" {
		id = uuid.NewString()
	}

	customerName := pickString(raw, "customerName", "customer.name", "payerName")
	if customerName == "" {
		customerName = ClienteNaoIdentificado
	}

	return AsaasPayment{
		ID:                    id,
		Value:                 pickDecimal(raw, "value", "amount", "valor"),
		NetValue:              pickDecimal(raw, "netValue", "net_value"),
		Status:                NormalizeAsaasStatus(pickString(raw, "status")),
		BillingType:           NormalizeAsaasBillingType(pickString(raw, "billingType", "billing_type")),
		DueDate:               pickString(raw, "dueDate", "due_date", "paymentDate"),
		CreatedAt:             pickString(raw, "createdAt", "created_at", "dateCreated"),
		CustomerName:          customerName,
		CustomerID:            pickString(raw, "customerId", "customer.id", "customer"),
		ExternalReference:     pickString(raw, "externalReference", "external_reference"),
		InvoiceURL:            pickString(raw, "invoiceUrl", "invoice_url"),
		TransactionReceiptURL: pickString(raw, "transactionReceiptUrl", "transaction_receipt_url"),
		PixQrCodeID:           pickString(raw, "pixQrCodeId", "pix_qr_code_id"),
	}
}

func mapTipoConta(raw string) TipoConta {
	if strings.Contains(strings.ToLower(raw), "pagar") {
		return TipoPagar
	}
	return TipoReceber
}

func mapCliente(raw map[string]any) *Cliente {
	if m := pickMap(raw, "cliente", "customer"); m != nil {
		return &Cliente{
			ID:       pickString(m, "id", "clienteId"),
			Nome:     pickString(m, "nome", "name"),
			Email:    pickString(m, "email"),
			Telefone: pickString(m, "telefone", "phone"),
			CPF:      pickString(m, "cpf"),
		}
	}
	return &Cliente{
		ID:   pickString(raw, "clienteId", "cliente_id"),
		Nome: pickString(raw, "clienteNome", "cliente_nome"),
	}
}

// parseTimestamp parses backend timestamps, accepting RFC3339 or a bare ISO
// date. Unparsable input yields the zero time; record mapping never fails.
func parseTimestamp(raw string) time.Time {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if len(raw) >= len(isoDateLayout) {
		if t, err := time.Parse(isoDateLayout, raw[:len(isoDateLayout)]); err == nil {
			return t
		}
	}
	return time.Time{}
}

// resolve walks the candidate keys in order and returns the first value
// present. A key containing a dot descends into a nested object
// ("customer.name").
func resolve(raw map[string]any, keys ...string) any {
	for _, key := range keys {
		if head, tail, nested := strings.Cut(key, "."); nested {
			if m, ok := raw[head].(map[string]any); ok {
				if v, exists := m[tail]; exists && v != nil {
					return v
				}
			}
			continue
		}
		if v, exists := raw[key]; exists && v != nil {
			return v
		}
	}
	return nil
}

func pickString(raw map[string]any, keys ...string) string {
	switch v := resolve(raw, keys...).(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func pickDecimal(raw map[string]any, keys ...string) decimal.Decimal {
	switch v := resolve(raw, keys...).(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil {
			return d
		}
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d
		}
	case int64:
		return decimal.NewFromInt(v)
	case int:
		return decimal.NewFromInt(int64(v))
	}
	return decimal.Zero
}

func pickInt64(raw map[string]any, keys ...string) int64 {
	switch v := resolve(raw, keys...).(type) {
	case float64:
		return int64(v)
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

func pickMap(raw map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if m, ok := raw[key].(map[string]any); ok {
			return m
		}
	}
	return nil
}
