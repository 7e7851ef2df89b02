package repository

import (
	"context"
	"time"

	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CashFlowRepository persistencia de movimientos de caja.
type CashFlowRepository interface {
	Create(ctx context.Context, e *entity.CashFlowEntry) error
	Delete(ctx context.Context, userID, id string) error
	ListPage(ctx context.Context, userID string, r DateRange, limit, offset int) ([]entity.CashFlowEntry, error)
	// BalanceBefore suma con signo de todos los movimientos anteriores a day.
	BalanceBefore(ctx context.Context, userID string, day time.Time) (decimal.Decimal, error)
}
