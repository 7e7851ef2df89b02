package cashflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-finance-api/internal/application/cashflow"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/memory"
	"github.com/jhoicas/seller-finance-api/pkg/numeric"
)

const userID = "user-1"

func TestSummary_SaldoInicialConMovimientosAnteriores(t *testing.T) {
	store := memory.NewStore()
	uc := cashflow.New(store.CashFlow(), 2, time.UTC)
	ctx := context.Background()

	for _, in := range []dto.CashFlowRequest{
		{Date: "2024-02-20", Kind: "in", Category: "Repasse", Amount: "300"},
		{Date: "2024-02-25", Kind: "out", Category: "Fornecedor", Amount: "100"},
		{Date: "2024-03-02", Kind: "in", Category: "Repasse", Amount: "50"},
		{Date: "2024-03-05", Kind: "out", Category: "Aluguel", Amount: "80"},
		{Date: "2024-03-05", Kind: "in", Category: "Repasse", Amount: "10"},
	} {
		_, err := uc.Create(ctx, userID, in)
		require.NoError(t, err)
	}

	p, err := finance.NewPeriod(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	sum, err := uc.Summary(ctx, userID, p)
	require.NoError(t, err)

	assert.Equal(t, "200", sum.Opening.String())
	assert.Equal(t, "60", sum.Inflow.String())
	assert.Equal(t, "80", sum.Outflow.String())
	assert.Equal(t, "180", sum.Closing.String())
	require.Len(t, sum.Days, 2)
	assert.Equal(t, "250", sum.Days[0].Balance.String())

	list, err := uc.List(ctx, userID, p)
	require.NoError(t, err)
	assert.Len(t, list, 3, "recorre varias páginas de tamaño 2")
}

func TestCreate_Validaciones(t *testing.T) {
	uc := cashflow.New(memory.NewStore().CashFlow(), 10, time.UTC)
	ctx := context.Background()

	cases := []dto.CashFlowRequest{
		{Date: "2024-03-01", Kind: "x", Amount: "1"},
		{Date: "01/03/2024", Kind: "in", Amount: "1"},
		{Date: "2024-03-01", Kind: "in", Amount: ""},
		{Date: "2024-03-01", Kind: "out", Amount: "-5"},
	}
	for _, in := range cases {
		_, err := uc.Create(ctx, userID, in)
		assert.True(t, numeric.IsValidationError(err), "%+v", in)
	}
}
