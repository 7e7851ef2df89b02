package repository

import (
	"context"

	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
)

// SettingsRepository define el puerto de persistencia para Settings.
// GetByID y GetDefault devuelven (nil, nil) cuando no hay fila.
type SettingsRepository interface {
	Create(ctx context.Context, s *entity.Settings) error
	Update(ctx context.Context, s *entity.Settings) error
	GetByID(ctx context.Context, userID, id string) (*entity.Settings, error)
	GetDefault(ctx context.Context, userID, marketplace string) (*entity.Settings, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Settings, error)
	ClearDefault(ctx context.Context, userID, marketplace string) error
	Delete(ctx context.Context, userID, id string) error
}
