package finance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
)

func TestSummarizeCashFlow_SaldoAcumulado(t *testing.T) {
	p := march(t)
	entries := []entity.CashFlowEntry{
		{Date: date(2024, 3, 3), Kind: entity.CashFlowOut, Category: "Fornecedor", Amount: dec("40")},
		{Date: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), Kind: entity.CashFlowIn, Category: "Repasse", Amount: dec("50")},
		{Date: time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC), Kind: entity.CashFlowOut, Category: "Fornecedor", Amount: dec("20")},
		{Date: date(2024, 4, 1), Kind: entity.CashFlowIn, Category: "Repasse", Amount: dec("999")},
	}
	s := finance.SummarizeCashFlow(entries, p, dec("100"))

	assertDec(t, "50", s.Inflow)
	assertDec(t, "60", s.Outflow)
	assertDec(t, "-10", s.Net)
	assertDec(t, "90", s.Closing)

	require.Len(t, s.Days, 2)
	assert.Equal(t, date(2024, 3, 1), s.Days[0].Date)
	assertDec(t, "130", s.Days[0].Balance)
	assertDec(t, "90", s.Days[1].Balance)

	require.Len(t, s.Categories, 2)
	assert.Equal(t, entity.CashFlowIn, s.Categories[0].Kind)
	assertDec(t, "60", s.Categories[1].Amount)
}

func TestSummarizeCashFlow_SinMovimientos(t *testing.T) {
	s := finance.SummarizeCashFlow(nil, march(t), dec("25"))
	assert.Empty(t, s.Days)
	assertDec(t, "25", s.Closing)
}
