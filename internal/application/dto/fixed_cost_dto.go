package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// FixedCostRequest alta/edición de costo fijo.
type FixedCostRequest struct {
	Category  string       `json:"category"`
	Name      string       `json:"name"`
	Amount    NumericInput `json:"amount"`
	Recurring *bool        `json:"recurring"`
}

// FixedCostResponse costo fijo.
type FixedCostResponse struct {
	ID        string          `json:"id"`
	Category  string          `json:"category"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Recurring bool            `json:"recurring"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FixedCostListResponse listado con total mensual y costo fijo por unidad.
type FixedCostListResponse struct {
	Items        []FixedCostResponse `json:"items"`
	MonthlyTotal decimal.Decimal     `json:"monthly_total"`
	PerOrder     decimal.Decimal     `json:"per_order"`
	PerProduct   decimal.Decimal     `json:"per_product"`
}

// FixedCostSettingsRequest estimaciones mensuales.
type FixedCostSettingsRequest struct {
	MonthlyOrders   NumericInput `json:"monthly_orders"`
	MonthlyProducts NumericInput `json:"monthly_products"`
	MonthlyRevenue  NumericInput `json:"monthly_revenue"`
}

// FixedCostSettingsResponse estimaciones mensuales vigentes.
type FixedCostSettingsResponse struct {
	MonthlyOrders   int             `json:"monthly_orders"`
	MonthlyProducts int             `json:"monthly_products"`
	MonthlyRevenue  decimal.Decimal `json:"monthly_revenue"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
