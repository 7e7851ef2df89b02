package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TikTokSettlement liquidación de un pedido de TikTok Shop con el desglose de tarifas.
type TikTokSettlement struct {
	ID                  string
	UserID              string
	OrderID             string
	SKU                 string
	ProductName         string
	Quantity            decimal.Decimal
	SettledAt           time.Time
	GrossRevenue        decimal.Decimal
	PlatformDiscount    decimal.Decimal
	SellerDiscount      decimal.Decimal
	PlatformCommission  decimal.Decimal
	AffiliateCommission decimal.Decimal
	ShippingBalance     decimal.Decimal // positivo: la plataforma devuelve; negativo: el vendedor paga
	Refunds             decimal.Decimal
	OtherFees           decimal.Decimal
	NetPayout           decimal.Decimal
	UnitCost            decimal.Decimal
	CreatedAt           time.Time
}

// TikTokStatement lote de pago que agrupa varias liquidaciones.
type TikTokStatement struct {
	ID              string
	UserID          string
	StatementID     string
	PaidAt          time.Time
	SettlementCount int
	GrossRevenue    decimal.Decimal
	TotalFees       decimal.Decimal
	Adjustments     decimal.Decimal
	NetPayout       decimal.Decimal
	CreatedAt       time.Time
}
