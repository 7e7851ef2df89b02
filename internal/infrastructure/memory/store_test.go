package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-finance-api/internal/application/ports"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
)

func order(id, sku, name string, at time.Time) entity.Order {
	return entity.Order{ID: id, UserID: "u", SKU: sku, ProductName: name, Quantity: decimal.NewFromInt(1), OrderedAt: at, Marketplace: entity.MarketplaceShopee}
}

func TestTxRunner_RestauraSiFalla(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Orders().InsertBatch(ctx, []entity.Order{order("1", "A", "Camiseta", at)}))

	boom := errors.New("falla")
	err := s.TxRunner().Run(ctx, func(r ports.TxRepos) error {
		if _, err := r.Orders.DeleteByFilter(ctx, "u", repository.OrderFilter{}); err != nil {
			return err
		}
		require.NoError(t, r.Orders.InsertBatch(ctx, []entity.Order{order("2", "B", "Caneca", at)}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := s.Orders().ListPage(ctx, "u", repository.OrderFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].ID)
}

func TestOrders_CostoPorSKUIgnoraGuion(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Orders().InsertBatch(ctx, []entity.Order{
		order("1", " A ", "Camiseta", at),
		order("2", "-", "A", at),
		order("3", "", "Chaveiro", at),
	}))

	n, err := s.Orders().UpdateCostBySKU(ctx, "u", []string{"A"}, decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.Orders().UpdateCostByName(ctx, "u", []string{"Chaveiro", "A"}, decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "sin SKU o con '-' se identifica por nombre")

	known, err := s.Orders().KnownCosts(ctx, "u")
	require.NoError(t, err)
	got := map[string]string{}
	for _, c := range known {
		got[c.SKU+"|"+c.ProductName] = c.UnitCost.String()
	}
	assert.Equal(t, map[string]string{"A|": "5", "|A": "2", "|Chaveiro": "2"}, got)
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, window(items, 2, 2))
	assert.Equal(t, []int{5}, window(items, 10, 4))
	assert.Empty(t, window(items, 2, 5))
}
