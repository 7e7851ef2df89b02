package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashFlowRequest alta de movimiento de caja.
type CashFlowRequest struct {
	Date        string       `json:"date"` // YYYY-MM-DD
	Kind        string       `json:"kind"` // in | out
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Amount      NumericInput `json:"amount"`
}

// CashFlowResponse movimiento de caja.
type CashFlowResponse struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Kind        string          `json:"kind"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}
