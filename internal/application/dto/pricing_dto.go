package dto

// PricingRequest parámetros de la calculadora de precio. Los campos vacíos se completan con la
// configuración por defecto del marketplace y con los costos fijos del usuario.
type PricingRequest struct {
	Marketplace       string       `json:"marketplace"`
	UnitCost          NumericInput `json:"unit_cost"`
	TargetMarginPct   NumericInput `json:"target_margin_pct"`
	CommissionPct     NumericInput `json:"commission_pct"`
	PerItemFee        NumericInput `json:"per_item_fee"`
	TaxPct            NumericInput `json:"tax_pct"`
	InboundInvoicePct NumericInput `json:"inbound_invoice_pct"`
	FixedCostPerUnit  NumericInput `json:"fixed_cost_per_unit"`
	IncludeFixedCosts bool         `json:"include_fixed_costs"`
	Price             NumericInput `json:"price"`
}
