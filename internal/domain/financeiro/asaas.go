package financeiro

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AsaasPaymentStatus is the gateway's own status vocabulary. It is a separate
// status space from StatusFinanceiro and the two are never merged silently;
// read models that combine them carry both.
type AsaasPaymentStatus string

const (
	AsaasStatusPending   AsaasPaymentStatus = "PENDING"
	AsaasStatusReceived  AsaasPaymentStatus = "RECEIVED"
	AsaasStatusConfirmed AsaasPaymentStatus = "CONFIRMED"
	AsaasStatusOverdue   AsaasPaymentStatus = "OVERDUE"
	AsaasStatusRefunded  AsaasPaymentStatus = "REFUNDED"
	AsaasStatusCancelled AsaasPaymentStatus = "CANCELLED"
	AsaasStatusFailed    AsaasPaymentStatus = "FAILED"
)

// IsValid checks if the status belongs to the gateway's closed set
func (s AsaasPaymentStatus) IsValid() bool {
	switch s {
	case AsaasStatusPending, AsaasStatusReceived, AsaasStatusConfirmed,
		AsaasStatusOverdue, AsaasStatusRefunded, AsaasStatusCancelled, AsaasStatusFailed:
		return true
	}
	return false
}

// IsSettled returns true when the gateway considers the payment collected
func (s AsaasPaymentStatus) IsSettled() bool {
	return s == AsaasStatusReceived || s == AsaasStatusConfirmed
}

// AsaasBillingType is the gateway-side billing channel
type AsaasBillingType string

const (
	AsaasBillingBoleto     AsaasBillingType = "BOLETO"
	AsaasBillingPix        AsaasBillingType = "PIX"
	AsaasBillingCreditCard AsaasBillingType = "CREDIT_CARD"
	AsaasBillingUndefined  AsaasBillingType = "UNDEFINED"
)

// IsValid checks if the billing type is known
func (b AsaasBillingType) IsValid() bool {
	switch b {
	case AsaasBillingBoleto, AsaasBillingPix, AsaasBillingCreditCard, AsaasBillingUndefined:
		return true
	}
	return false
}

// NormalizeAsaasStatus maps a raw gateway status onto the closed
// AsaasPaymentStatus set, defaulting to PENDING. Total over its domain.
func NormalizeAsaasStatus(raw string) AsaasPaymentStatus {
	if s := AsaasPaymentStatus(strings.ToUpper(strings.TrimSpace(raw))); s.IsValid() {
		return s
	}
	return AsaasStatusPending
}

// NormalizeAsaasBillingType maps a raw billing type onto the closed
// AsaasBillingType set, defaulting to UNDEFINED.
func NormalizeAsaasBillingType(raw string) AsaasBillingType {
	if b := AsaasBillingType(strings.ToUpper(strings.TrimSpace(raw))); b.IsValid() {
		return b
	}
	return AsaasBillingUndefined
}

// AsaasPayment is the gateway's view of a charge, as reported through the
// payment proxy. Calendar fields stay ISO date strings because the proxy has
// shipped several date layouts over time; parsing is centralized where a
// numeric value is actually needed.
type AsaasPayment struct {
	ID                    string             `json:"id"`
	Value                 decimal.Decimal    `json:"value"`
	NetValue              decimal.Decimal    `json:"net_value"`
	Status                AsaasPaymentStatus `json:"status"`
	BillingType           AsaasBillingType   `json:"billing_type"`
	DueDate               string             `json:"due_date,omitempty"`
	CreatedAt             string             `json:"created_at,omitempty"`
	CustomerName          string             `json:"customer_name"`
	CustomerID            string             `json:"customer_id,omitempty"`
	ExternalReference     string             `json:"external_reference,omitempty"`
	InvoiceURL            string             `json:"invoice_url,omitempty"`
	TransactionReceiptURL string             `json:"transaction_receipt_url,omitempty"`
	PixQrCodeID           string             `json:"pix_qr_code_id,omitempty"`
}

// IsOverdue reports whether the charge is past due as of now, from the
// gateway's point of view.
func (p *AsaasPayment) IsOverdue(now time.Time) bool {
	if p.Status != AsaasStatusPending && p.Status != AsaasStatusOverdue {
		return false
	}
	return DiasDeAtraso(p.DueDate, now) > 0
}
