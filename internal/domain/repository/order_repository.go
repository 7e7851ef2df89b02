package repository

import (
	"context"
	"time"

	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OrderFilter filtro de consulta. From es inclusivo y Until exclusivo; nil significa sin límite.
type OrderFilter struct {
	From        *time.Time
	Until       *time.Time
	Marketplace string
}

// OrderRepository define el puerto de persistencia para Order (DIP).
// Todas las operaciones se limitan al usuario indicado.
type OrderRepository interface {
	// ListPage devuelve una ventana ordenada por ordered_at DESC, id (clave estable para paginar).
	ListPage(ctx context.Context, userID string, f OrderFilter, limit, offset int) ([]entity.Order, error)
	InsertBatch(ctx context.Context, orders []entity.Order) error
	DeleteByFilter(ctx context.Context, userID string, f OrderFilter) (int64, error)
	UpdateCostBySKU(ctx context.Context, userID string, skus []string, cost decimal.Decimal) (int64, error)
	// UpdateCostByName solo toca líneas sin SKU.
	UpdateCostByName(ctx context.Context, userID string, names []string, cost decimal.Decimal) (int64, error)
	// KnownCosts último costo > 0 por SKU (o nombre cuando no hay SKU).
	KnownCosts(ctx context.Context, userID string) ([]entity.ProductCost, error)
}
