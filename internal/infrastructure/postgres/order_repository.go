package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, user_id, order_id, sku, product_name, variation_name, quantity, gross_revenue,
	platform_rebate, unit_cost, ordered_at, marketplace, created_at, updated_at`

// Un SKU en blanco o "-" equivale a ausencia de SKU.
const noSKU = `btrim(sku) IN ('', '-')`

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de persistencia para pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// orderWhere arma el WHERE de OrderFilter a partir del placeholder $1 = user_id.
func orderWhere(userID string, f repository.OrderFilter) (string, []any) {
	w := newWhere(userID)
	w.timeRange("ordered_at", repository.DateRange{From: f.From, Until: f.Until})
	if f.Marketplace != "" {
		w.add("marketplace = %s", f.Marketplace)
	}
	return w.sql(), w.args
}

// ListPage devuelve una ventana ordenada por ordered_at DESC, id.
func (r *OrderRepo) ListPage(ctx context.Context, userID string, f repository.OrderFilter, limit, offset int) ([]entity.Order, error) {
	where, args := orderWhere(userID, f)
	query := fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY ordered_at DESC, id LIMIT %d OFFSET %d`,
		orderColumns, where, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	list := make([]entity.Order, 0, limit)
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.OrderID, &o.SKU, &o.ProductName, &o.VariationName, &o.Quantity, &o.GrossRevenue,
			&o.PlatformRebate, &o.UnitCost, &o.OrderedAt, &o.Marketplace, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// InsertBatch inserta todas las líneas en un solo viaje (pgx.Batch).
func (r *OrderRepo) InsertBatch(ctx context.Context, orders []entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	query := `INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	b := &pgx.Batch{}
	for _, o := range orders {
		b.Queue(query,
			o.ID, o.UserID, o.OrderID, strings.TrimSpace(o.SKU), o.ProductName, o.VariationName, o.Quantity, o.GrossRevenue,
			o.PlatformRebate, o.UnitCost, o.OrderedAt, o.Marketplace, o.CreatedAt, o.UpdatedAt,
		)
	}
	if err := r.q.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("insert orders: %w", err)
	}
	return nil
}

// DeleteByFilter borra las líneas del usuario que cumplen el filtro.
func (r *OrderRepo) DeleteByFilter(ctx context.Context, userID string, f repository.OrderFilter) (int64, error) {
	where, args := orderWhere(userID, f)
	tag, err := r.q.Exec(ctx, `DELETE FROM orders `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete orders: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateCostBySKU fija unit_cost en todas las líneas del usuario con alguno de los SKUs.
func (r *OrderRepo) UpdateCostBySKU(ctx context.Context, userID string, skus []string, cost decimal.Decimal) (int64, error) {
	if len(skus) == 0 {
		return 0, nil
	}
	query := `
		UPDATE orders SET unit_cost = $3, updated_at = $4
		WHERE user_id = $1 AND btrim(sku) = ANY($2) AND NOT ` + noSKU
	tag, err := r.q.Exec(ctx, query, userID, trimAll(skus), cost, time.Now())
	if err != nil {
		return 0, fmt.Errorf("update cost by sku: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateCostByName fija unit_cost en las líneas sin SKU cuyo nombre coincide.
func (r *OrderRepo) UpdateCostByName(ctx context.Context, userID string, names []string, cost decimal.Decimal) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}
	query := `
		UPDATE orders SET unit_cost = $3, updated_at = $4
		WHERE user_id = $1 AND btrim(product_name) = ANY($2) AND ` + noSKU
	tag, err := r.q.Exec(ctx, query, userID, trimAll(names), cost, time.Now())
	if err != nil {
		return 0, fmt.Errorf("update cost by name: %w", err)
	}
	return tag.RowsAffected(), nil
}

// KnownCosts último costo > 0 por clave (SKU, o nombre cuando no hay SKU), según updated_at.
func (r *OrderRepo) KnownCosts(ctx context.Context, userID string) ([]entity.ProductCost, error) {
	query := `
		SELECT DISTINCT ON (k_sku, k_name) k_sku, k_name, unit_cost
		FROM (
			SELECT
				CASE WHEN ` + noSKU + ` THEN '' ELSE btrim(sku) END AS k_sku,
				CASE WHEN ` + noSKU + ` THEN btrim(product_name) ELSE '' END AS k_name,
				unit_cost, updated_at
			FROM orders
			WHERE user_id = $1 AND unit_cost > 0
		) t
		ORDER BY k_sku, k_name, updated_at DESC`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("known costs: %w", err)
	}
	defer rows.Close()
	var list []entity.ProductCost
	for rows.Next() {
		var c entity.ProductCost
		if err := rows.Scan(&c.SKU, &c.ProductName, &c.UnitCost); err != nil {
			return nil, fmt.Errorf("scan known cost: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
