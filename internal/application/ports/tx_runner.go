package ports

import (
	"context"

	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
)

// TxRepos repositorios atados a la misma transacción.
type TxRepos struct {
	Orders      repository.OrderRepository
	Settings    repository.SettingsRepository
	Settlements repository.TikTokSettlementRepository
	Statements  repository.TikTokStatementRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD. Si fn devuelve error se hace rollback.
// Garantiza atomicidad para la importación de planillas y el cambio de configuración por defecto.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
