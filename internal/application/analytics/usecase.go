// Package analytics contiene los casos de uso de reportes: cálculo agrupado de rentabilidad,
// DRE del período y calculadora de precio.
package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
	"github.com/jhoicas/seller-finance-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// SettingsProvider acceso a configuraciones (implementado por settings.UseCase, con caché).
type SettingsProvider interface {
	Default(ctx context.Context, userID, marketplace string) (*entity.Settings, error)
	Get(ctx context.Context, userID, id string) (*entity.Settings, error)
}

// PendingCostSource costos aceptados cuya escritura diferida aún no llegó al almacén
// (implementado por costs.UseCase).
type PendingCostSource interface {
	PendingCosts(userID string) map[finance.CostKey]decimal.Decimal
}

// Deps repositorios de lectura del reporte.
type Deps struct {
	Orders            repository.OrderRepository
	Settlements       repository.TikTokSettlementRepository
	Statements        repository.TikTokStatementRepository
	FixedCosts        repository.FixedCostRepository
	FixedCostSettings repository.FixedCostSettingsRepository
	Settings          SettingsProvider
	PendingCosts      PendingCostSource // opcional
	PageSize          int
}

// UseCase reportes financieros. Todas las cifras se recalculan en cada llamada.
type UseCase struct {
	d Deps
}

// New construye el caso de uso.
func New(d Deps) *UseCase {
	if d.PageSize <= 0 {
		d.PageSize = pagination.DefaultPageSize
	}
	return &UseCase{d: d}
}

// CalcOptions opciones del cálculo agrupado.
type CalcOptions struct {
	GroupBy    finance.GroupBy
	Sort       finance.SortColumn
	Desc       bool
	SettingsID string
}

// Calculate agrupa los pedidos de Shopee del período con la configuración elegida (o la por defecto).
func (uc *UseCase) Calculate(ctx context.Context, userID string, p finance.Period, opt CalcOptions) (*finance.CalculationResult, error) {
	var (
		orders   []entity.Order
		settings *entity.Settings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = uc.shopeeOrders(gctx, userID, p)
		return err
	})
	g.Go(func() error {
		var err error
		if opt.SettingsID != "" {
			settings, err = uc.d.Settings.Get(gctx, userID, opt.SettingsID)
		} else {
			settings, err = uc.d.Settings.Default(gctx, userID, entity.MarketplaceShopee)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analytics: cálculo: %w", err)
	}
	if settings == nil {
		return nil, domain.ErrNoDefaultSettings
	}

	by := opt.GroupBy
	if by == "" {
		by = finance.GroupByProduct
	}
	res := finance.Calculate(orders, *settings, by)
	if opt.Sort != "" {
		finance.SortGroups(res.Groups, opt.Sort, opt.Desc)
	}
	return &res, nil
}

// DRE compone el estado de resultados del período. Las seis lecturas son independientes y se
// hacen en paralelo; el mismo rango de fechas se aplica a todas.
func (uc *UseCase) DRE(ctx context.Context, userID string, p finance.Period) (*finance.DREData, error) {
	in := finance.DREInput{Period: p}
	from, until := p.Range()
	dr := repository.DateRange{From: &from, Until: &until}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.ShopeeOrders, err = uc.shopeeOrders(gctx, userID, p)
		return err
	})
	g.Go(func() error {
		var err error
		in.TikTokSettlements, err = pagination.FetchAll(gctx, uc.d.PageSize, func(ctx context.Context, limit, offset int) ([]entity.TikTokSettlement, error) {
			return uc.d.Settlements.ListPage(ctx, userID, dr, limit, offset)
		})
		if err != nil {
			return fmt.Errorf("liquidaciones: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.TikTokStatements, err = pagination.FetchAll(gctx, uc.d.PageSize, func(ctx context.Context, limit, offset int) ([]entity.TikTokStatement, error) {
			return uc.d.Statements.ListPage(ctx, userID, dr, limit, offset)
		})
		if err != nil {
			return fmt.Errorf("extractos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.FixedCosts, err = uc.d.FixedCosts.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("costos fijos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.ShopeeSettings, err = uc.d.Settings.Default(gctx, userID, entity.MarketplaceShopee)
		return err
	})
	g.Go(func() error {
		var err error
		in.TikTokSettings, err = uc.d.Settings.Default(gctx, userID, entity.MarketplaceTikTok)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analytics: dre: %w", err)
	}

	dre := finance.ComposeDRE(in)
	return &dre, nil
}

func (uc *UseCase) shopeeOrders(ctx context.Context, userID string, p finance.Period) ([]entity.Order, error) {
	from, until := p.Range()
	f := repository.OrderFilter{From: &from, Until: &until, Marketplace: entity.MarketplaceShopee}
	rows, err := pagination.FetchAll(ctx, uc.d.PageSize, func(ctx context.Context, limit, offset int) ([]entity.Order, error) {
		return uc.d.Orders.ListPage(ctx, userID, f, limit, offset)
	})
	if err != nil {
		return nil, fmt.Errorf("pedidos: %w", err)
	}
	return uc.withPendingCosts(userID, rows), nil
}

// withPendingCosts superpone los costos con escritura diferida en curso, de modo que el reporte
// refleja una edición apenas aceptada.
func (uc *UseCase) withPendingCosts(userID string, orders []entity.Order) []entity.Order {
	if uc.d.PendingCosts == nil {
		return orders
	}
	byCost := make(map[string][]finance.CostKey)
	values := make(map[string]decimal.Decimal)
	for k, c := range uc.d.PendingCosts.PendingCosts(userID) {
		s := c.String()
		byCost[s] = append(byCost[s], k)
		values[s] = c
	}
	for s, keys := range byCost {
		orders = finance.ApplyCost(orders, keys, values[s])
	}
	return orders
}

// ParseCalcOptions valida group_by y sort tal como llegan en la query.
func ParseCalcOptions(groupBy, sort string, desc bool, settingsID string) (CalcOptions, error) {
	by, ok := finance.ParseGroupBy(groupBy)
	if !ok {
		return CalcOptions{}, fmt.Errorf("%w: group_by debe ser product o variation", domain.ErrInvalidInput)
	}
	opt := CalcOptions{GroupBy: by, Desc: desc, SettingsID: strings.TrimSpace(settingsID)}
	if sort != "" {
		col, ok := finance.ParseSortColumn(sort)
		if !ok {
			return CalcOptions{}, fmt.Errorf("%w: columna de ordenación desconocida %q", domain.ErrInvalidInput, sort)
		}
		opt.Sort = col
	}
	return opt, nil
}
