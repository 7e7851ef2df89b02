package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.CashFlowRepository = (*CashFlowRepo)(nil)

const cashFlowColumns = `id, user_id, entry_date, kind, category, description, amount, created_at`

// CashFlowRepo movimientos de caja sobre PostgreSQL.
type CashFlowRepo struct {
	q Querier
}

func NewCashFlowRepository(q Querier) *CashFlowRepo {
	return &CashFlowRepo{q: q}
}

func (r *CashFlowRepo) Create(ctx context.Context, e *entity.CashFlowEntry) error {
	query := `INSERT INTO cash_flow_entries (` + cashFlowColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, e.ID, e.UserID, e.Date, e.Kind, e.Category, e.Description, e.Amount, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert cash flow entry: %w", err)
	}
	return nil
}

func (r *CashFlowRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM cash_flow_entries WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete cash flow entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CashFlowRepo) ListPage(ctx context.Context, userID string, dr repository.DateRange, limit, offset int) ([]entity.CashFlowEntry, error) {
	w := newWhere(userID)
	w.timeRange("entry_date", dr)
	query := fmt.Sprintf(`SELECT %s FROM cash_flow_entries %s ORDER BY entry_date DESC, id LIMIT %d OFFSET %d`,
		cashFlowColumns, w.sql(), limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list cash flow: %w", err)
	}
	defer rows.Close()
	list := make([]entity.CashFlowEntry, 0, limit)
	for rows.Next() {
		var e entity.CashFlowEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.Kind, &e.Category, &e.Description, &e.Amount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cash flow entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// BalanceBefore saldo acumulado (entradas menos salidas) anterior a day.
func (r *CashFlowRepo) BalanceBefore(ctx context.Context, userID string, day time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN kind = 'out' THEN -amount ELSE amount END), 0)
		FROM cash_flow_entries WHERE user_id = $1 AND entry_date < $2`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, userID, day).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("cash flow balance: %w", err)
	}
	return total, nil
}
