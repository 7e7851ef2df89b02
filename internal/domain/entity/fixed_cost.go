package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FixedCost gasto operativo mensual (o puntual) usado por la DRE y la calculadora de costo por unidad.
type FixedCost struct {
	ID        string
	UserID    string
	Category  string
	Name      string
	Amount    decimal.Decimal
	Recurring bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Valores iniciales de FixedCostSettings cuando el usuario aún no tiene registro.
const (
	DefaultMonthlyOrders   = 100
	DefaultMonthlyProducts = 100
)

// FixedCostSettings estimaciones mensuales del usuario (fila única por usuario).
type FixedCostSettings struct {
	UserID          string
	MonthlyOrders   int
	MonthlyProducts int
	MonthlyRevenue  decimal.Decimal
	UpdatedAt       time.Time
}

// NewDefaultFixedCostSettings construye el registro con los valores iniciales.
func NewDefaultFixedCostSettings(userID string, now time.Time) *FixedCostSettings {
	return &FixedCostSettings{
		UserID:          userID,
		MonthlyOrders:   DefaultMonthlyOrders,
		MonthlyProducts: DefaultMonthlyProducts,
		MonthlyRevenue:  decimal.Zero,
		UpdatedAt:       now,
	}
}
