package repository

import (
	"context"

	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
)

// FixedCostRepository define el puerto de persistencia para FixedCost.
type FixedCostRepository interface {
	Create(ctx context.Context, c *entity.FixedCost) error
	Update(ctx context.Context, c *entity.FixedCost) error
	GetByID(ctx context.Context, userID, id string) (*entity.FixedCost, error)
	ListByUser(ctx context.Context, userID string) ([]entity.FixedCost, error)
	Delete(ctx context.Context, userID, id string) error
}

// FixedCostSettingsRepository fila única de estimaciones mensuales por usuario.
// Get devuelve (nil, nil) si el usuario aún no tiene registro.
type FixedCostSettingsRepository interface {
	Get(ctx context.Context, userID string) (*entity.FixedCostSettings, error)
	Upsert(ctx context.Context, s *entity.FixedCostSettings) error
}
