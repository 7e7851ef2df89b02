package finance

import (
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CashFlowDay movimiento de un día con saldo acumulado al cierre.
type CashFlowDay struct {
	Date    time.Time       `json:"data"`
	Inflow  decimal.Decimal `json:"entradas"`
	Outflow decimal.Decimal `json:"saidas"`
	Balance decimal.Decimal `json:"saldo"`
}

// CategoryTotal total por categoría y sentido.
type CategoryTotal struct {
	Kind     string          `json:"tipo"`
	Category string          `json:"categoria"`
	Amount   decimal.Decimal `json:"valor"`
}

// CashFlowSummary resumen del período.
type CashFlowSummary struct {
	Period     Period          `json:"periodo"`
	Opening    decimal.Decimal `json:"saldo_inicial"`
	Inflow     decimal.Decimal `json:"entradas"`
	Outflow    decimal.Decimal `json:"saidas"`
	Net        decimal.Decimal `json:"resultado"`
	Closing    decimal.Decimal `json:"saldo_final"`
	Days       []CashFlowDay   `json:"dias"`
	Categories []CategoryTotal `json:"categorias"`
}

// SummarizeCashFlow agrega los lanzamientos del período partiendo de opening. Solo aparecen
// los días con movimiento, en orden ascendente.
func SummarizeCashFlow(entries []entity.CashFlowEntry, p Period, opening decimal.Decimal) CashFlowSummary {
	sum := CashFlowSummary{
		Period:     p,
		Opening:    opening,
		Inflow:     decimal.Zero,
		Outflow:    decimal.Zero,
		Days:       []CashFlowDay{},
		Categories: []CategoryTotal{},
	}
	loc := p.Start.Location()
	days := make(map[time.Time]*CashFlowDay)
	type catKey struct{ kind, category string }
	cats := make(map[catKey]decimal.Decimal)

	for _, e := range entries {
		if !p.Contains(e.Date) {
			continue
		}
		d := dateOf(e.Date.In(loc), loc)
		day, ok := days[d]
		if !ok {
			day = &CashFlowDay{Date: d, Inflow: decimal.Zero, Outflow: decimal.Zero}
			days[d] = day
		}
		amount := e.Amount.Abs()
		if e.Kind == entity.CashFlowIn {
			day.Inflow = day.Inflow.Add(amount)
			sum.Inflow = sum.Inflow.Add(amount)
		} else {
			day.Outflow = day.Outflow.Add(amount)
			sum.Outflow = sum.Outflow.Add(amount)
		}
		k := catKey{kind: e.Kind, category: strings.TrimSpace(e.Category)}
		cats[k] = cats[k].Add(amount)
	}

	for _, d := range days {
		sum.Days = append(sum.Days, *d)
	}
	sort.Slice(sum.Days, func(i, j int) bool { return sum.Days[i].Date.Before(sum.Days[j].Date) })
	balance := opening
	for i := range sum.Days {
		balance = balance.Add(sum.Days[i].Inflow).Sub(sum.Days[i].Outflow)
		sum.Days[i].Balance = balance
	}

	for k, v := range cats {
		sum.Categories = append(sum.Categories, CategoryTotal{Kind: k.kind, Category: k.category, Amount: v})
	}
	sort.Slice(sum.Categories, func(i, j int) bool {
		a, b := sum.Categories[i], sum.Categories[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Category < b.Category
	})

	sum.Net = sum.Inflow.Sub(sum.Outflow)
	sum.Closing = opening.Add(sum.Net)
	return sum
}
