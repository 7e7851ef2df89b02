package finance

import (
	"sort"
	"strings"

	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// GroupBy nivel de agrupación del cálculo.
type GroupBy string

const (
	GroupByProduct   GroupBy = "product"
	GroupByVariation GroupBy = "variation"
)

// ParseGroupBy acepta "product" (default si vacío) o "variation".
func ParseGroupBy(s string) (GroupBy, bool) {
	switch GroupBy(strings.ToLower(strings.TrimSpace(s))) {
	case "", GroupByProduct:
		return GroupByProduct, true
	case GroupByVariation:
		return GroupByVariation, true
	}
	return "", false
}

// GroupedResult agregado derivado (no persistido) de un producto o producto+variación.
type GroupedResult struct {
	Key            CostKey         `json:"chave"`
	Label          string          `json:"rotulo"`
	SKU            string          `json:"sku"`
	ProductName    string          `json:"nome_produto"`
	Variation      string          `json:"variacao,omitempty"`
	ItemsSold      decimal.Decimal `json:"itens_vendidos"`
	Revenue        decimal.Decimal `json:"total_faturado"`
	Rebates        decimal.Decimal `json:"rebates_shopee"`
	Commission     decimal.Decimal `json:"taxa_shopee_reais"`
	PerItemFees    decimal.Decimal `json:"taxa_adicional_itens"`
	Receivable     decimal.Decimal `json:"total_a_receber"`
	ProductCost    decimal.Decimal `json:"total_gasto_produtos"`
	AvgUnitCost    decimal.Decimal `json:"custo_unitario_medio"`
	InboundInvoice decimal.Decimal `json:"nf_entrada"`
	Tax            decimal.Decimal `json:"imposto"`
	Profit         decimal.Decimal `json:"lucro_reais"`
	ProfitPct      decimal.Decimal `json:"lucro_percentual"`
	MissingCost    bool            `json:"sem_custo"`
}

// Totals fila de totales. GrossProfit es la suma de los grupos; NetProfit descuenta el gasto en
// anuncios, que solo existe a nivel total.
type Totals struct {
	ItemsSold      decimal.Decimal `json:"itens_vendidos"`
	Revenue        decimal.Decimal `json:"total_faturado"`
	Rebates        decimal.Decimal `json:"rebates_shopee"`
	Commission     decimal.Decimal `json:"taxa_shopee_reais"`
	PerItemFees    decimal.Decimal `json:"taxa_adicional_itens"`
	Receivable     decimal.Decimal `json:"total_a_receber"`
	ProductCost    decimal.Decimal `json:"total_gasto_produtos"`
	AvgUnitCost    decimal.Decimal `json:"custo_unitario_medio"`
	InboundInvoice decimal.Decimal `json:"nf_entrada"`
	Tax            decimal.Decimal `json:"imposto"`
	GrossProfit    decimal.Decimal `json:"lucro_bruto"`
	AdSpend        decimal.Decimal `json:"gasto_ads"`
	NetProfit      decimal.Decimal `json:"lucro_reais"`
	AvgProfitPct   decimal.Decimal `json:"lucro_percentual_medio"`
	Groups         int             `json:"grupos"`
}

// CalculationResult salida del cálculo. Groups conserva el orden de primera aparición.
type CalculationResult struct {
	GroupBy GroupBy         `json:"agrupamento"`
	Groups  []GroupedResult `json:"grupos"`
	Totals  Totals          `json:"totais"`
}

type groupKey struct {
	cost      CostKey
	variation string
}

// Calculate agrupa los pedidos y aplica tarifas, NF de entrada e impuestos de s.
// Es determinista y no guarda estado: se puede invocar en cada cambio de datos o configuración.
// Líneas mal formadas (cantidad o costo negativos) cuentan como cero en vez de abortar.
func Calculate(orders []entity.Order, s entity.Settings, by GroupBy) CalculationResult {
	index := make(map[groupKey]int)
	groups := make([]GroupedResult, 0)

	for _, o := range orders {
		k := groupKey{cost: KeyOf(o.SKU, o.ProductName)}
		if by == GroupByVariation {
			k.variation = strings.TrimSpace(o.VariationName)
		}
		i, ok := index[k]
		if !ok {
			groups = append(groups, newGroup(k, o))
			i = len(groups) - 1
			index[k] = i
		}
		g := &groups[i]
		qty := nonNegative(o.Quantity)
		unitCost := nonNegative(o.UnitCost)
		g.ItemsSold = g.ItemsSold.Add(qty)
		g.Revenue = g.Revenue.Add(o.GrossRevenue)
		g.Rebates = g.Rebates.Add(o.PlatformRebate)
		g.ProductCost = g.ProductCost.Add(qty.Mul(unitCost))
		if unitCost.IsZero() && qty.IsPositive() {
			g.MissingCost = true
		}
	}

	for i := range groups {
		decompose(&groups[i], s)
	}

	return CalculationResult{
		GroupBy: by,
		Groups:  groups,
		Totals:  sumTotals(groups, s),
	}
}

func newGroup(k groupKey, o entity.Order) GroupedResult {
	return GroupedResult{
		Key:            k.cost,
		Label:          k.cost.String(),
		SKU:            k.cost.SKU,
		ProductName:    strings.TrimSpace(o.ProductName),
		Variation:      k.variation,
		ItemsSold:      decimal.Zero,
		Revenue:        decimal.Zero,
		Rebates:        decimal.Zero,
		ProductCost:    decimal.Zero,
		Commission:     decimal.Zero,
		PerItemFees:    decimal.Zero,
		Receivable:     decimal.Zero,
		AvgUnitCost:    decimal.Zero,
		InboundInvoice: decimal.Zero,
		Tax:            decimal.Zero,
		Profit:         decimal.Zero,
		ProfitPct:      decimal.Zero,
	}
}

// decompose completa los campos derivados de un grupo a partir de los sumados.
func decompose(g *GroupedResult, s entity.Settings) {
	g.Commission = g.Revenue.Mul(s.CommissionRate)
	g.PerItemFees = g.ItemsSold.Mul(s.PerItemFee)
	g.Receivable = g.Revenue.Sub(g.Rebates).Sub(g.Commission).Sub(g.PerItemFees)
	if g.ItemsSold.IsPositive() {
		g.AvgUnitCost = g.ProductCost.Div(g.ItemsSold)
	}
	g.InboundInvoice = g.ProductCost.Mul(s.InboundInvoicePct)
	g.Tax = g.Revenue.Mul(s.OutboundTaxRate)
	g.Profit = g.Receivable.Sub(g.ProductCost).Sub(g.InboundInvoice).Sub(g.Tax)
	g.ProfitPct = percentOf(g.Profit, g.Revenue)
}

func sumTotals(groups []GroupedResult, s entity.Settings) Totals {
	t := Totals{
		ItemsSold:      decimal.Zero,
		Revenue:        decimal.Zero,
		Rebates:        decimal.Zero,
		Commission:     decimal.Zero,
		PerItemFees:    decimal.Zero,
		Receivable:     decimal.Zero,
		ProductCost:    decimal.Zero,
		AvgUnitCost:    decimal.Zero,
		InboundInvoice: decimal.Zero,
		Tax:            decimal.Zero,
		GrossProfit:    decimal.Zero,
		Groups:         len(groups),
	}
	for _, g := range groups {
		t.ItemsSold = t.ItemsSold.Add(g.ItemsSold)
		t.Revenue = t.Revenue.Add(g.Revenue)
		t.Rebates = t.Rebates.Add(g.Rebates)
		t.Commission = t.Commission.Add(g.Commission)
		t.PerItemFees = t.PerItemFees.Add(g.PerItemFees)
		t.Receivable = t.Receivable.Add(g.Receivable)
		t.ProductCost = t.ProductCost.Add(g.ProductCost)
		t.InboundInvoice = t.InboundInvoice.Add(g.InboundInvoice)
		t.Tax = t.Tax.Add(g.Tax)
		t.GrossProfit = t.GrossProfit.Add(g.Profit)
	}
	if t.ItemsSold.IsPositive() {
		t.AvgUnitCost = t.ProductCost.Div(t.ItemsSold)
	}
	t.AvgProfitPct = percentOf(t.GrossProfit, t.Revenue)
	t.AdSpend = nonNegative(s.AdSpend)
	t.NetProfit = t.GrossProfit.Sub(t.AdSpend)
	return t
}

// SortColumn columna de ordenación para consumidores del cálculo.
type SortColumn string

const (
	SortByRevenue   SortColumn = "total_faturado"
	SortByProfit    SortColumn = "lucro_reais"
	SortByProfitPct SortColumn = "lucro_percentual"
	SortByItems     SortColumn = "itens_vendidos"
	SortByCost      SortColumn = "total_gasto_produtos"
	SortByLabel     SortColumn = "rotulo"
)

// ParseSortColumn valida el nombre de columna.
func ParseSortColumn(s string) (SortColumn, bool) {
	switch c := SortColumn(s); c {
	case SortByRevenue, SortByProfit, SortByProfitPct, SortByItems, SortByCost, SortByLabel:
		return c, true
	}
	return "", false
}

// SortGroups ordena in-place por la columna pedida; empates se resuelven por etiqueta y variación.
func SortGroups(groups []GroupedResult, col SortColumn, desc bool) {
	value := func(g GroupedResult) decimal.Decimal {
		switch col {
		case SortByProfit:
			return g.Profit
		case SortByProfitPct:
			return g.ProfitPct
		case SortByItems:
			return g.ItemsSold
		case SortByCost:
			return g.ProductCost
		default:
			return g.Revenue
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if col != SortByLabel {
			if c := value(a).Cmp(value(b)); c != 0 {
				if desc {
					return c > 0
				}
				return c < 0
			}
		}
		if a.Label != b.Label {
			if desc && col == SortByLabel {
				return a.Label > b.Label
			}
			return a.Label < b.Label
		}
		return a.Variation < b.Variation
	})
}

// ApplyCost devuelve una copia de orders con UnitCost=cost en las líneas cuya clave está en keys.
// Permite recalcular inmediatamente después de una edición confirmada.
func ApplyCost(orders []entity.Order, keys []CostKey, cost decimal.Decimal) []entity.Order {
	set := make(map[CostKey]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	out := make([]entity.Order, len(orders))
	copy(out, orders)
	for i := range out {
		if _, ok := set[KeyOf(out[i].SKU, out[i].ProductName)]; ok {
			out[i].UnitCost = cost
		}
	}
	return out
}
