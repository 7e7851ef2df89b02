package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodQuery selección de período: preset o from/to (YYYY-MM-DD).
type PeriodQuery struct {
	Preset string `query:"preset"`
	From   string `query:"from"`
	To     string `query:"to"`
}

// OrderListQuery filtros del listado de pedidos.
type OrderListQuery struct {
	PeriodQuery
	PageRequest
	Marketplace string `query:"marketplace"`
}

// OrderResponse línea de pedido.
type OrderResponse struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"order_id"`
	SKU            string          `json:"sku"`
	ProductName    string          `json:"product_name"`
	VariationName  string          `json:"variation_name,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	GrossRevenue   decimal.Decimal `json:"gross_revenue"`
	PlatformRebate decimal.Decimal `json:"platform_rebate"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	OrderedAt      time.Time       `json:"ordered_at"`
	Marketplace    string          `json:"marketplace"`
}

// OrderListResponse página de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// DeleteOrdersResponse resultado de un borrado por período.
type DeleteOrdersResponse struct {
	Deleted int64 `json:"deleted"`
}

// CalculationQuery parámetros del cálculo agrupado.
type CalculationQuery struct {
	PeriodQuery
	GroupBy    string `query:"group_by"`
	Sort       string `query:"sort"`
	Desc       bool   `query:"desc"`
	SettingsID string `query:"settings_id"`
}
