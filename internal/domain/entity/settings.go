package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings parámetros de tarifas e impuestos de un marketplace. Las tasas son fracciones (0.14 = 14%).
// Como máximo una configuración por usuario y marketplace tiene IsDefault=true (índice único parcial).
type Settings struct {
	ID                string
	UserID            string
	Name              string
	Marketplace       string
	CommissionRate    decimal.Decimal
	PerItemFee        decimal.Decimal
	InboundInvoicePct decimal.Decimal // NF de entrada sobre el costo de productos
	AdSpend           decimal.Decimal // gasto en anuncios del período, no atribuible por SKU
	OutboundTaxRate   decimal.Decimal // imposto sobre faturamento
	IsDefault         bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
