package ports

import (
	"context"

	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
)

// SyncVersionStore contador monótono por usuario que sube en cada escritura de costos confirmada.
// Los campos editables lo comparan para decidir si resincronizan.
type SyncVersionStore interface {
	Current(ctx context.Context, userID string) (int64, error)
	Bump(ctx context.Context, userID string) (int64, error)
}

// SettingsCache caché de la configuración por defecto de cada usuario y marketplace.
// Un fallo de caché nunca es error: el caller consulta el repositorio.
type SettingsCache interface {
	GetDefault(ctx context.Context, userID, marketplace string) (*entity.Settings, bool)
	SetDefault(ctx context.Context, userID, marketplace string, s *entity.Settings)
	Invalidate(ctx context.Context, userID string)
}
