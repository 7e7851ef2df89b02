package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingsRequest alta/edición de una configuración. Las tasas llegan en porcentaje ("14" o "14,5%").
type SettingsRequest struct {
	Name              string       `json:"name"`
	Marketplace       string       `json:"marketplace"`
	CommissionPct     NumericInput `json:"commission_pct"`
	PerItemFee        NumericInput `json:"per_item_fee"`
	InboundInvoicePct NumericInput `json:"inbound_invoice_pct"`
	AdSpend           NumericInput `json:"ad_spend"`
	OutboundTaxPct    NumericInput `json:"outbound_tax_pct"`
	IsDefault         bool         `json:"is_default"`
}

// SettingsResponse configuración con tasas expresadas en porcentaje.
type SettingsResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Marketplace       string          `json:"marketplace"`
	CommissionPct     decimal.Decimal `json:"commission_pct"`
	PerItemFee        decimal.Decimal `json:"per_item_fee"`
	InboundInvoicePct decimal.Decimal `json:"inbound_invoice_pct"`
	AdSpend           decimal.Decimal `json:"ad_spend"`
	OutboundTaxPct    decimal.Decimal `json:"outbound_tax_pct"`
	IsDefault         bool            `json:"is_default"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
