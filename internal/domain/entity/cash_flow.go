package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de caja.
const (
	CashFlowIn  = "in"
	CashFlowOut = "out"
)

// CashFlowEntry movimiento de caja registrado por el vendedor. Amount siempre positivo; Kind da el signo.
type CashFlowEntry struct {
	ID          string
	UserID      string
	Date        time.Time
	Kind        string
	Category    string
	Description string
	Amount      decimal.Decimal
	CreatedAt   time.Time
}

// Signed devuelve el monto con signo según Kind.
func (e CashFlowEntry) Signed() decimal.Decimal {
	if e.Kind == CashFlowOut {
		return e.Amount.Neg()
	}
	return e.Amount
}
