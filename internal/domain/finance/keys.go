// Package finance contiene el motor de cálculo: agrupación de pedidos, descomposición de tarifas
// e impuestos, DRE, períodos, precio sugerido y flujo de caja. Todas las funciones son puras.
package finance

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CostKey identifica el producto al que se asigna un costo: por SKU cuando existe, si no por nombre.
// Un SKU y un nombre iguales nunca se confunden porque viven en campos distintos.
type CostKey struct {
	SKU         string `json:"sku,omitempty"`
	ProductName string `json:"nome_produto,omitempty"`
}

// NormalizeSKU limpia el SKU; "-" y blancos valen como ausencia de SKU.
func NormalizeSKU(sku string) string {
	s := strings.TrimSpace(sku)
	if s == "-" {
		return ""
	}
	return s
}

// KeyOf construye la clave de un pedido.
func KeyOf(sku, productName string) CostKey {
	if s := NormalizeSKU(sku); s != "" {
		return CostKey{SKU: s}
	}
	return CostKey{ProductName: strings.TrimSpace(productName)}
}

// IsSKU indica si la clave es por SKU.
func (k CostKey) IsSKU() bool { return k.SKU != "" }

// IsZero indica una clave sin SKU ni nombre.
func (k CostKey) IsZero() bool { return k.SKU == "" && k.ProductName == "" }

// String etiqueta para mostrar.
func (k CostKey) String() string {
	if k.SKU != "" {
		return k.SKU
	}
	return k.ProductName
}

// percentOf part/whole*100; 0 cuando whole es 0.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
