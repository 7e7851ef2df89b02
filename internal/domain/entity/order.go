package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Marketplaces soportados.
const (
	MarketplaceShopee = "shopee"
	MarketplaceTikTok = "tiktok"
)

// ValidMarketplace indica si m es un marketplace conocido.
func ValidMarketplace(m string) bool {
	return m == MarketplaceShopee || m == MarketplaceTikTok
}

// Order representa una línea vendida importada desde la planilla del marketplace.
// SKU vacío significa que la planilla no lo traía; la agrupación cae al nombre del producto.
type Order struct {
	ID             string
	UserID         string
	OrderID        string // número de pedido en el marketplace
	SKU            string
	ProductName    string
	VariationName  string
	Quantity       decimal.Decimal
	GrossRevenue   decimal.Decimal // faturamento bruto de la línea
	PlatformRebate decimal.Decimal // rebate/cupom financiado por la plataforma
	UnitCost       decimal.Decimal // se edita después de importar
	OrderedAt      time.Time
	Marketplace    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProductCost último costo unitario conocido de un SKU (o nombre, si no hay SKU).
type ProductCost struct {
	SKU         string
	ProductName string
	UnitCost    decimal.Decimal
}
