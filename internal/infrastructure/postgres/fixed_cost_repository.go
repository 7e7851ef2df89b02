package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
)

var (
	_ repository.FixedCostRepository         = (*FixedCostRepo)(nil)
	_ repository.FixedCostSettingsRepository = (*FixedCostSettingsRepo)(nil)
)

const fixedCostColumns = `id, user_id, category, name, amount, recurring, created_at, updated_at`

// FixedCostRepo costos fijos sobre PostgreSQL.
type FixedCostRepo struct {
	q Querier
}

func NewFixedCostRepository(q Querier) *FixedCostRepo {
	return &FixedCostRepo{q: q}
}

func (r *FixedCostRepo) Create(ctx context.Context, c *entity.FixedCost) error {
	query := `INSERT INTO fixed_costs (` + fixedCostColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, c.ID, c.UserID, c.Category, c.Name, c.Amount, c.Recurring, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert fixed cost: %w", err)
	}
	return nil
}

func (r *FixedCostRepo) Update(ctx context.Context, c *entity.FixedCost) error {
	query := `
		UPDATE fixed_costs SET category = $3, name = $4, amount = $5, recurring = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2`
	tag, err := r.q.Exec(ctx, query, c.ID, c.UserID, c.Category, c.Name, c.Amount, c.Recurring, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update fixed cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FixedCostRepo) GetByID(ctx context.Context, userID, id string) (*entity.FixedCost, error) {
	query := `SELECT ` + fixedCostColumns + ` FROM fixed_costs WHERE user_id = $1 AND id = $2`
	var c entity.FixedCost
	err := r.q.QueryRow(ctx, query, userID, id).Scan(
		&c.ID, &c.UserID, &c.Category, &c.Name, &c.Amount, &c.Recurring, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fixed cost: %w", err)
	}
	return &c, nil
}

func (r *FixedCostRepo) ListByUser(ctx context.Context, userID string) ([]entity.FixedCost, error) {
	query := `SELECT ` + fixedCostColumns + ` FROM fixed_costs WHERE user_id = $1 ORDER BY category, name`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list fixed costs: %w", err)
	}
	defer rows.Close()
	list := make([]entity.FixedCost, 0)
	for rows.Next() {
		var c entity.FixedCost
		if err := rows.Scan(&c.ID, &c.UserID, &c.Category, &c.Name, &c.Amount, &c.Recurring, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan fixed cost: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *FixedCostRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM fixed_costs WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete fixed cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FixedCostSettingsRepo fila única de estimaciones por usuario.
type FixedCostSettingsRepo struct {
	q Querier
}

func NewFixedCostSettingsRepository(q Querier) *FixedCostSettingsRepo {
	return &FixedCostSettingsRepo{q: q}
}

func (r *FixedCostSettingsRepo) Get(ctx context.Context, userID string) (*entity.FixedCostSettings, error) {
	query := `
		SELECT user_id, monthly_orders, monthly_products, monthly_revenue, updated_at
		FROM fixed_cost_settings WHERE user_id = $1`
	var s entity.FixedCostSettings
	err := r.q.QueryRow(ctx, query, userID).Scan(&s.UserID, &s.MonthlyOrders, &s.MonthlyProducts, &s.MonthlyRevenue, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fixed cost settings: %w", err)
	}
	return &s, nil
}

func (r *FixedCostSettingsRepo) Upsert(ctx context.Context, s *entity.FixedCostSettings) error {
	query := `
		INSERT INTO fixed_cost_settings (user_id, monthly_orders, monthly_products, monthly_revenue, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			monthly_orders = EXCLUDED.monthly_orders,
			monthly_products = EXCLUDED.monthly_products,
			monthly_revenue = EXCLUDED.monthly_revenue,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, s.UserID, s.MonthlyOrders, s.MonthlyProducts, s.MonthlyRevenue, s.UpdatedAt); err != nil {
		return fmt.Errorf("upsert fixed cost settings: %w", err)
	}
	return nil
}
