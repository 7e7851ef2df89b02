package finance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
)

func TestSuggestPrice_AlcanzaMargen(t *testing.T) {
	in := finance.PricingInput{
		UnitCost:         dec("50"),
		FixedCostPerUnit: dec("10"),
		CommissionRate:   dec("0.2"),
		TaxRate:          dec("0.1"),
		TargetMarginPct:  dec("0.2"),
	}
	r, err := finance.SuggestPrice(in)
	require.NoError(t, err)
	assertDec(t, "120", r.Price)
	assertDec(t, "24", r.Commission)
	assertDec(t, "12", r.Tax)
	assertDec(t, "24", r.Profit)
	assertDec(t, "20", r.MarginPct)
}

func TestSuggestPrice_RedondeaHaciaArriba(t *testing.T) {
	r, err := finance.SuggestPrice(finance.PricingInput{
		UnitCost:          dec("10"),
		InboundInvoicePct: dec("0.05"),
		PerItemFee:        dec("3"),
		CommissionRate:    dec("0.14"),
		TargetMarginPct:   dec("0.15"),
	})
	require.NoError(t, err)
	// (10 + 0.5 + 3) / 0.71 = 19.0140...
	assertDec(t, "19.02", r.Price)
	assert.True(t, r.MarginPct.GreaterThanOrEqual(dec("15")))
}

func TestSuggestPrice_Inviable(t *testing.T) {
	_, err := finance.SuggestPrice(finance.PricingInput{
		UnitCost:        dec("10"),
		CommissionRate:  dec("0.5"),
		TaxRate:         dec("0.3"),
		TargetMarginPct: dec("0.2"),
	})
	assert.ErrorIs(t, err, domain.ErrInfeasiblePrice)
}

func TestFixedCostPerUnit(t *testing.T) {
	costs := []entity.FixedCost{{Amount: dec("700"), Recurring: true}, {Amount: dec("300"), Recurring: true}}
	assertDec(t, "10", finance.FixedCostPerUnit(costs, 100))
	assert.True(t, finance.FixedCostPerUnit(costs, 0).IsZero())
}

func TestFixedCostPerUnit_IgnoraPuntuales(t *testing.T) {
	costs := []entity.FixedCost{{Amount: dec("500"), Recurring: true}, {Amount: dec("1200")}}
	assertDec(t, "500", finance.MonthlyFixedCosts(costs))
	assertDec(t, "5", finance.FixedCostPerUnit(costs, 100))
}
