// Package orders consulta y elimina los pedidos importados.
package orders

import (
	"context"
	"fmt"

	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
	"github.com/jhoicas/seller-finance-api/pkg/pagination"
)

// UseCase lectura y borrado de pedidos.
type UseCase struct {
	repo     repository.OrderRepository
	pageSize int
}

// New construye el caso de uso.
func New(repo repository.OrderRepository, pageSize int) *UseCase {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &UseCase{repo: repo, pageSize: pageSize}
}

// Filter construye el filtro de repositorio a partir de un período y un marketplace opcional.
func Filter(p finance.Period, marketplace string) (repository.OrderFilter, error) {
	if marketplace != "" && !entity.ValidMarketplace(marketplace) {
		return repository.OrderFilter{}, fmt.Errorf("%w: marketplace desconocido %q", domain.ErrInvalidInput, marketplace)
	}
	from, until := p.Range()
	return repository.OrderFilter{From: &from, Until: &until, Marketplace: marketplace}, nil
}

// List devuelve una página de pedidos del período.
func (uc *UseCase) List(ctx context.Context, userID string, p finance.Period, marketplace string, page dto.PageRequest) (*dto.OrderListResponse, error) {
	f, err := Filter(p, marketplace)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	rows, err := uc.repo.ListPage(ctx, userID, f, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("orders: listar: %w", err)
	}
	out := &dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(rows)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for i := range rows {
		out.Items = append(out.Items, ToResponse(&rows[i]))
	}
	return out, nil
}

// All devuelve todos los pedidos del período recorriendo las páginas del almacén.
func (uc *UseCase) All(ctx context.Context, userID string, p finance.Period, marketplace string) ([]entity.Order, error) {
	f, err := Filter(p, marketplace)
	if err != nil {
		return nil, err
	}
	rows, err := pagination.FetchAll(ctx, uc.pageSize, func(ctx context.Context, limit, offset int) ([]entity.Order, error) {
		return uc.repo.ListPage(ctx, userID, f, limit, offset)
	})
	if err != nil {
		return nil, fmt.Errorf("orders: listar todo: %w", err)
	}
	return rows, nil
}

// DeleteByPeriod elimina los pedidos del período.
func (uc *UseCase) DeleteByPeriod(ctx context.Context, userID string, p finance.Period, marketplace string) (int64, error) {
	f, err := Filter(p, marketplace)
	if err != nil {
		return 0, err
	}
	n, err := uc.repo.DeleteByFilter(ctx, userID, f)
	if err != nil {
		return 0, fmt.Errorf("orders: eliminar: %w", err)
	}
	return n, nil
}

// ToResponse mapea un pedido a DTO.
func ToResponse(o *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:             o.ID,
		OrderID:        o.OrderID,
		SKU:            o.SKU,
		ProductName:    o.ProductName,
		VariationName:  o.VariationName,
		Quantity:       o.Quantity,
		GrossRevenue:   o.GrossRevenue,
		PlatformRebate: o.PlatformRebate,
		UnitCost:       o.UnitCost,
		OrderedAt:      o.OrderedAt,
		Marketplace:    o.Marketplace,
	}
}
