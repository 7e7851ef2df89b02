package orders_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/application/orders"
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/memory"
)

const userID = "user-1"

func march(t *testing.T) finance.Period {
	t.Helper()
	p, err := finance.NewPeriod(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return p
}

func seed(t *testing.T, store *memory.Store, n int) {
	t.Helper()
	list := make([]entity.Order, 0, n+2)
	for i := 0; i < n; i++ {
		list = append(list, entity.Order{
			ID: fmt.Sprintf("o-%03d", i), UserID: userID, OrderID: fmt.Sprint(1000 + i), ProductName: "Caneca",
			Quantity: decimal.NewFromInt(1), GrossRevenue: decimal.NewFromInt(10),
			OrderedAt:   time.Date(2024, 3, 1+i%28, 12, 0, 0, 0, time.UTC),
			Marketplace: entity.MarketplaceShopee,
		})
	}
	// fuera del período: 31/03 23:59 entra, 01/04 00:00 no
	list = append(list,
		entity.Order{ID: "borde", UserID: userID, ProductName: "X", OrderedAt: time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC), Marketplace: entity.MarketplaceTikTok},
		entity.Order{ID: "abril", UserID: userID, ProductName: "X", OrderedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Marketplace: entity.MarketplaceShopee},
	)
	require.NoError(t, store.Orders().InsertBatch(context.Background(), list))
}

func TestAll_RecorrePaginasCompletas(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, 25)
	uc := orders.New(store.Orders(), 10)

	all, err := uc.All(context.Background(), userID, march(t), "")
	require.NoError(t, err)
	assert.Len(t, all, 26, "25 del mes más el borde del 31/03")
}

func TestList_PaginaYMarketplace(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, 5)
	uc := orders.New(store.Orders(), 10)

	out, err := uc.List(context.Background(), userID, march(t), "", dto.PageRequest{Limit: 2, Offset: 0})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "borde", out.Items[0].ID, "orden por fecha descendente")
	assert.Equal(t, 2, out.Page.Limit)

	out, err = uc.List(context.Background(), userID, march(t), entity.MarketplaceTikTok, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, 100, out.Page.Limit, "límite por defecto")

	_, err = uc.List(context.Background(), userID, march(t), "mercadolivre", dto.PageRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestDeleteByPeriod_SoloElPeriodo(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, 3)
	uc := orders.New(store.Orders(), 0)

	n, err := uc.DeleteByPeriod(context.Background(), userID, march(t), entity.MarketplaceShopee)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	rest, err := store.Orders().ListPage(context.Background(), userID, repository.OrderFilter{}, 100, 0)
	require.NoError(t, err)
	assert.Len(t, rest, 2)
}
