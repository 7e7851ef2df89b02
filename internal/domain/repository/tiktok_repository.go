package repository

import (
	"context"
	"time"

	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
)

// DateRange intervalo [From, Until); nil significa sin límite.
type DateRange struct {
	From  *time.Time
	Until *time.Time
}

// TikTokSettlementRepository persistencia de liquidaciones (orden estable: settled_at DESC, id).
type TikTokSettlementRepository interface {
	ListPage(ctx context.Context, userID string, r DateRange, limit, offset int) ([]entity.TikTokSettlement, error)
	InsertBatch(ctx context.Context, items []entity.TikTokSettlement) error
}

// TikTokStatementRepository persistencia de lotes de pago (orden estable: paid_at DESC, id).
type TikTokStatementRepository interface {
	ListPage(ctx context.Context, userID string, r DateRange, limit, offset int) ([]entity.TikTokStatement, error)
	InsertBatch(ctx context.Context, items []entity.TikTokStatement) error
}
