package settings_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/application/settings"
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/cache"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/memory"
	"github.com/jhoicas/seller-finance-api/pkg/numeric"
)

const userID = "user-1"

func newUC() (*settings.UseCase, *memory.Store) {
	store := memory.NewStore()
	return settings.New(store.Settings(), store.TxRunner(), cache.NewMemoryStore(time.Minute)), store
}

func req(name string) dto.SettingsRequest {
	return dto.SettingsRequest{
		Name:           name,
		Marketplace:    "shopee",
		CommissionPct:  "14",
		PerItemFee:     "4,00",
		OutboundTaxPct: "6%",
	}
}

func TestCreate_PrimeraQuedaPorDefecto(t *testing.T) {
	uc, _ := newUC()
	ctx := context.Background()

	first, err := uc.Create(ctx, userID, req("Padrão"))
	require.NoError(t, err)
	assert.True(t, first.IsDefault)
	assert.Equal(t, "14", first.CommissionPct.String())

	second, err := uc.Create(ctx, userID, req("Promo"))
	require.NoError(t, err)
	assert.False(t, second.IsDefault)

	def, err := uc.Default(ctx, userID, "shopee")
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, first.ID, def.ID)
	assert.Equal(t, "0.14", def.CommissionRate.String())
}

func TestSetDefault_UnicoPorMarketplace(t *testing.T) {
	uc, _ := newUC()
	ctx := context.Background()

	a, err := uc.Create(ctx, userID, req("A"))
	require.NoError(t, err)
	b, err := uc.Create(ctx, userID, req("B"))
	require.NoError(t, err)

	// calienta la caché con A
	def, _ := uc.Default(ctx, userID, "shopee")
	require.Equal(t, a.ID, def.ID)

	_, err = uc.SetDefault(ctx, userID, b.ID)
	require.NoError(t, err)

	def, err = uc.Default(ctx, userID, "shopee")
	require.NoError(t, err)
	assert.Equal(t, b.ID, def.ID, "la caché se invalida al cambiar el default")

	list, err := uc.List(ctx, userID)
	require.NoError(t, err)
	defaults := 0
	for _, s := range list {
		if s.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestCreate_DefaultsIndependientesPorMarketplace(t *testing.T) {
	uc, _ := newUC()
	ctx := context.Background()
	shopee, err := uc.Create(ctx, userID, req("Shopee"))
	require.NoError(t, err)
	tk := req("TikTok")
	tk.Marketplace = "tiktok"
	tiktok, err := uc.Create(ctx, userID, tk)
	require.NoError(t, err)

	assert.True(t, shopee.IsDefault)
	assert.True(t, tiktok.IsDefault)
}

func TestDelete_NoPermiteBorrarDefault(t *testing.T) {
	uc, _ := newUC()
	ctx := context.Background()
	a, err := uc.Create(ctx, userID, req("A"))
	require.NoError(t, err)
	b, err := uc.Create(ctx, userID, req("B"))
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, userID, a.ID), domain.ErrConflict)
	assert.NoError(t, uc.Delete(ctx, userID, b.ID))
	assert.ErrorIs(t, uc.Delete(ctx, userID, b.ID), domain.ErrNotFound)
}

func TestCreate_ValidaPorcentajes(t *testing.T) {
	uc, _ := newUC()
	in := req("X")
	in.CommissionPct = "140"
	_, err := uc.Create(context.Background(), userID, in)

	var verr *numeric.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "commission_pct", verr.Field)
}

func TestGet_OtroUsuarioNoVe(t *testing.T) {
	uc, _ := newUC()
	a, err := uc.Create(context.Background(), userID, req("A"))
	require.NoError(t, err)
	_, err = uc.Get(context.Background(), "intruso", a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
