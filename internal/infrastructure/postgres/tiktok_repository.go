package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
)

var (
	_ repository.TikTokSettlementRepository = (*SettlementRepo)(nil)
	_ repository.TikTokStatementRepository  = (*StatementRepo)(nil)
)

const settlementColumns = `id, user_id, order_id, sku, product_name, quantity, settled_at, gross_revenue,
	platform_discount, seller_discount, platform_commission, affiliate_commission, shipping_balance,
	refunds, other_fees, net_payout, unit_cost, created_at`

// SettlementRepo liquidaciones de TikTok Shop.
type SettlementRepo struct {
	q Querier
}

func NewSettlementRepository(q Querier) *SettlementRepo {
	return &SettlementRepo{q: q}
}

func (r *SettlementRepo) ListPage(ctx context.Context, userID string, dr repository.DateRange, limit, offset int) ([]entity.TikTokSettlement, error) {
	w := newWhere(userID)
	w.timeRange("settled_at", dr)
	query := fmt.Sprintf(`SELECT %s FROM tiktok_settlements %s ORDER BY settled_at DESC, id LIMIT %d OFFSET %d`,
		settlementColumns, w.sql(), limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	defer rows.Close()
	list := make([]entity.TikTokSettlement, 0, limit)
	for rows.Next() {
		var s entity.TikTokSettlement
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.OrderID, &s.SKU, &s.ProductName, &s.Quantity, &s.SettledAt, &s.GrossRevenue,
			&s.PlatformDiscount, &s.SellerDiscount, &s.PlatformCommission, &s.AffiliateCommission, &s.ShippingBalance,
			&s.Refunds, &s.OtherFees, &s.NetPayout, &s.UnitCost, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SettlementRepo) InsertBatch(ctx context.Context, items []entity.TikTokSettlement) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO tiktok_settlements (` + settlementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	b := &pgx.Batch{}
	for _, s := range items {
		b.Queue(query,
			s.ID, s.UserID, s.OrderID, strings.TrimSpace(s.SKU), s.ProductName, s.Quantity, s.SettledAt, s.GrossRevenue,
			s.PlatformDiscount, s.SellerDiscount, s.PlatformCommission, s.AffiliateCommission, s.ShippingBalance,
			s.Refunds, s.OtherFees, s.NetPayout, s.UnitCost, s.CreatedAt,
		)
	}
	if err := r.q.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("insert settlements: %w", err)
	}
	return nil
}

const statementColumns = `id, user_id, statement_id, paid_at, settlement_count, gross_revenue, total_fees,
	adjustments, net_payout, created_at`

// StatementRepo lotes de pago de TikTok Shop.
type StatementRepo struct {
	q Querier
}

func NewStatementRepository(q Querier) *StatementRepo {
	return &StatementRepo{q: q}
}

func (r *StatementRepo) ListPage(ctx context.Context, userID string, dr repository.DateRange, limit, offset int) ([]entity.TikTokStatement, error) {
	w := newWhere(userID)
	w.timeRange("paid_at", dr)
	query := fmt.Sprintf(`SELECT %s FROM tiktok_statements %s ORDER BY paid_at DESC, id LIMIT %d OFFSET %d`,
		statementColumns, w.sql(), limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list statements: %w", err)
	}
	defer rows.Close()
	list := make([]entity.TikTokStatement, 0, limit)
	for rows.Next() {
		var s entity.TikTokStatement
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.StatementID, &s.PaidAt, &s.SettlementCount, &s.GrossRevenue, &s.TotalFees,
			&s.Adjustments, &s.NetPayout, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *StatementRepo) InsertBatch(ctx context.Context, items []entity.TikTokStatement) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO tiktok_statements (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	b := &pgx.Batch{}
	for _, s := range items {
		b.Queue(query,
			s.ID, s.UserID, s.StatementID, s.PaidAt, s.SettlementCount, s.GrossRevenue, s.TotalFees,
			s.Adjustments, s.NetPayout, s.CreatedAt,
		)
	}
	if err := r.q.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("insert statements: %w", err)
	}
	return nil
}
