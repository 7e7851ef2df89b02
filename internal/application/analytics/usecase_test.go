package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-finance-api/internal/application/analytics"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/application/settings"
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/cache"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/memory"
)

const userID = "user-1"

type fixture struct {
	store    *memory.Store
	settings *settings.UseCase
	uc       *analytics.UseCase
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	st := settings.New(store.Settings(), store.TxRunner(), cache.NewMemoryStore(time.Minute))
	uc := analytics.New(analytics.Deps{
		Orders:            store.Orders(),
		Settlements:       store.Settlements(),
		Statements:        store.Statements(),
		FixedCosts:        store.FixedCosts(),
		FixedCostSettings: store.FixedCostSettings(),
		Settings:          st,
		PageSize:          2,
	})
	return fixture{store: store, settings: st, uc: uc}
}

func (f fixture) withShopeeSettings(t *testing.T) {
	t.Helper()
	_, err := f.settings.Create(context.Background(), userID, dto.SettingsRequest{
		Name:          "Padrão",
		Marketplace:   entity.MarketplaceShopee,
		CommissionPct: "10",
		PerItemFee:    "1",
	})
	require.NoError(t, err)
}

func (f fixture) seedOrders(t *testing.T) {
	t.Helper()
	mk := func(id, sku, marketplace string, day, month int, qty, revenue, cost int64) entity.Order {
		return entity.Order{
			ID:             id,
			UserID:         userID,
			OrderID:        "P" + id,
			SKU:            sku,
			ProductName:    "Produto " + sku,
			Quantity:       decimal.NewFromInt(qty),
			GrossRevenue:   decimal.NewFromInt(revenue),
			PlatformRebate: decimal.Zero,
			UnitCost:       decimal.NewFromInt(cost),
			OrderedAt:      time.Date(2024, time.Month(month), day, 12, 0, 0, 0, time.UTC),
			Marketplace:    marketplace,
		}
	}
	err := f.store.Orders().InsertBatch(context.Background(), []entity.Order{
		mk("1", "A", entity.MarketplaceShopee, 3, 3, 2, 100, 10),
		mk("2", "A", entity.MarketplaceShopee, 10, 3, 1, 50, 10),
		mk("3", "B", entity.MarketplaceShopee, 20, 3, 1, 40, 0),
		mk("4", "A", entity.MarketplaceTikTok, 20, 3, 5, 500, 10),
		mk("5", "A", entity.MarketplaceShopee, 2, 4, 9, 900, 10),
	})
	require.NoError(t, err)
}

func march(t *testing.T) finance.Period {
	t.Helper()
	p, err := finance.NewPeriod(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return p
}

func TestCalculate_SinConfiguracionPorDefecto(t *testing.T) {
	f := newFixture(t)
	f.seedOrders(t)

	_, err := f.uc.Calculate(context.Background(), userID, march(t), analytics.CalcOptions{})
	assert.ErrorIs(t, err, domain.ErrNoDefaultSettings)
}

func TestCalculate_SoloShopeeDelPeriodoEnVariasPaginas(t *testing.T) {
	f := newFixture(t)
	f.withShopeeSettings(t)
	f.seedOrders(t)

	res, err := f.uc.Calculate(context.Background(), userID, march(t), analytics.CalcOptions{})
	require.NoError(t, err)

	assert.Equal(t, finance.GroupByProduct, res.GroupBy)
	assert.Equal(t, 2, res.Totals.Groups)
	assert.Equal(t, "4", res.Totals.ItemsSold.String())
	assert.Equal(t, "190", res.Totals.Revenue.String())
	assert.Equal(t, "19", res.Totals.Commission.String())
	assert.Equal(t, "4", res.Totals.PerItemFees.String())
	assert.Equal(t, "167", res.Totals.Receivable.String())
	assert.Equal(t, "30", res.Totals.ProductCost.String())
	assert.Equal(t, "137", res.Totals.NetProfit.String())

	var missing int
	for _, g := range res.Groups {
		if g.MissingCost {
			missing++
			assert.Equal(t, "B", g.SKU)
		}
	}
	assert.Equal(t, 1, missing)
}

func TestCalculate_ConfiguracionExplicita(t *testing.T) {
	f := newFixture(t)
	f.withShopeeSettings(t)
	f.seedOrders(t)
	alt, err := f.settings.Create(context.Background(), userID, dto.SettingsRequest{
		Name:          "Sem taxas",
		Marketplace:   entity.MarketplaceShopee,
		CommissionPct: "0",
	})
	require.NoError(t, err)

	res, err := f.uc.Calculate(context.Background(), userID, march(t), analytics.CalcOptions{SettingsID: alt.ID})
	require.NoError(t, err)
	assert.True(t, res.Totals.Commission.IsZero())
	assert.Equal(t, "160", res.Totals.NetProfit.String())
}

func TestParseCalcOptions(t *testing.T) {
	opt, err := analytics.ParseCalcOptions("variation", "", true, " s1 ")
	require.NoError(t, err)
	assert.Equal(t, finance.GroupByVariation, opt.GroupBy)
	assert.Equal(t, "s1", opt.SettingsID)

	_, err = analytics.ParseCalcOptions("marca", "", false, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = analytics.ParseCalcOptions("product", "columna_x", false, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDRE_UsaLosMismosTotalesQueElCalculo(t *testing.T) {
	f := newFixture(t)
	f.withShopeeSettings(t)
	f.seedOrders(t)

	dre, err := f.uc.DRE(context.Background(), userID, march(t))
	require.NoError(t, err)
	assert.Equal(t, "190", dre.GrossRevenue.Value.String())
	assert.Equal(t, "137", dre.ContributionMargin.Value.String())
	assert.Equal(t, "137", dre.OperatingResult.Value.String())

	codes := map[string]bool{}
	for _, a := range dre.Alerts {
		codes[a.Code] = true
	}
	assert.True(t, codes[finance.AlertMissingUnitCost])
	assert.False(t, codes[finance.AlertMissingSettings])
}

func TestDRE_SinDatos(t *testing.T) {
	f := newFixture(t)

	dre, err := f.uc.DRE(context.Background(), userID, march(t))
	require.NoError(t, err)
	assert.True(t, dre.GrossRevenue.Value.IsZero())
	require.NotEmpty(t, dre.Alerts)

	codes := map[string]bool{}
	for _, a := range dre.Alerts {
		codes[a.Code] = true
	}
	assert.True(t, codes[finance.AlertNoData])
}

func TestPrice_TasasPorDefectoDelMarketplace(t *testing.T) {
	f := newFixture(t)
	f.withShopeeSettings(t)

	r, err := f.uc.Price(context.Background(), userID, dto.PricingRequest{
		UnitCost:        "50",
		TargetMarginPct: "20",
	})
	require.NoError(t, err)
	// (50 + 1) / (1 - 0,10 - 0,20) = 72,857... redondeado hacia arriba
	assert.Equal(t, "72.86", r.Price.String())
	assert.True(t, r.Profit.GreaterThanOrEqual(r.Price.Mul(decimal.RequireFromString("0.2")).Sub(decimal.RequireFromString("0.01"))))
}

func TestPrice_DesglosaPrecioInformado(t *testing.T) {
	f := newFixture(t)
	f.withShopeeSettings(t)

	r, err := f.uc.Price(context.Background(), userID, dto.PricingRequest{
		UnitCost: "50",
		Price:    "100",
	})
	require.NoError(t, err)
	assert.Equal(t, "100", r.Price.String())
	assert.Equal(t, "39", r.Profit.String())
}

func TestPrice_IncluyeCostosFijos(t *testing.T) {
	f := newFixture(t)
	f.withShopeeSettings(t)
	require.NoError(t, f.store.FixedCosts().Create(context.Background(), &entity.FixedCost{
		ID:        "fc1",
		UserID:    userID,
		Category:  "Estrutura",
		Name:      "Aluguel",
		Amount:    decimal.NewFromInt(1000),
		Recurring: true,
	}))

	r, err := f.uc.Price(context.Background(), userID, dto.PricingRequest{
		UnitCost:          "50",
		Price:             "100",
		IncludeFixedCosts: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "10", r.FixedCost.String())
	assert.Equal(t, "29", r.Profit.String())
}

func TestPrice_Inviable(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Price(context.Background(), userID, dto.PricingRequest{
		UnitCost:        "50",
		CommissionPct:   "60",
		TargetMarginPct: "50",
	})
	assert.ErrorIs(t, err, domain.ErrInfeasiblePrice)
}

type pendingCosts map[finance.CostKey]decimal.Decimal

func (p pendingCosts) PendingCosts(string) map[finance.CostKey]decimal.Decimal { return p }

func TestCalculate_SuperponeCostosPendientes(t *testing.T) {
	f := newFixture(t)
	f.withShopeeSettings(t)
	f.seedOrders(t)
	uc := analytics.New(analytics.Deps{
		Orders:            f.store.Orders(),
		Settlements:       f.store.Settlements(),
		Statements:        f.store.Statements(),
		FixedCosts:        f.store.FixedCosts(),
		FixedCostSettings: f.store.FixedCostSettings(),
		Settings:          f.settings,
		PendingCosts:      pendingCosts{finance.KeyOf("B", ""): decimal.NewFromInt(4)},
		PageSize:          2,
	})

	res, err := uc.Calculate(context.Background(), userID, march(t), analytics.CalcOptions{})
	require.NoError(t, err)
	assert.Equal(t, "34", res.Totals.ProductCost.String())
	for _, g := range res.Groups {
		if g.SKU == "B" {
			assert.False(t, g.MissingCost)
			assert.Equal(t, "4", g.AvgUnitCost.String())
		}
	}
}
