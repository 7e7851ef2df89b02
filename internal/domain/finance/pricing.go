package finance

import (
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PricingInput datos para el precio sugerido. Las tasas son fracciones (0.12 = 12%).
type PricingInput struct {
	UnitCost          decimal.Decimal `json:"custo_unitario"`
	FixedCostPerUnit  decimal.Decimal `json:"custo_fixo_unitario"`
	CommissionRate    decimal.Decimal `json:"comissao"`
	PerItemFee        decimal.Decimal `json:"taxa_por_item"`
	TaxRate           decimal.Decimal `json:"imposto"`
	InboundInvoicePct decimal.Decimal `json:"nf_entrada"`
	TargetMarginPct   decimal.Decimal `json:"margem_alvo"`
}

// PricingResult desglose de un precio.
type PricingResult struct {
	Price          decimal.Decimal `json:"preco"`
	Commission     decimal.Decimal `json:"comissao"`
	PerItemFee     decimal.Decimal `json:"taxa_por_item"`
	Tax            decimal.Decimal `json:"imposto"`
	UnitCost       decimal.Decimal `json:"custo_unitario"`
	InboundInvoice decimal.Decimal `json:"nf_entrada"`
	FixedCost      decimal.Decimal `json:"custo_fixo"`
	Profit         decimal.Decimal `json:"lucro"`
	MarginPct      decimal.Decimal `json:"margem_percentual"`
}

// SuggestPrice precio mínimo (redondeado hacia arriba al centavo) cuyo margen sobre el precio
// alcanza TargetMarginPct.
func SuggestPrice(in PricingInput) (PricingResult, error) {
	denom := decimal.NewFromInt(1).Sub(in.CommissionRate).Sub(in.TaxRate).Sub(in.TargetMarginPct)
	if !denom.IsPositive() {
		return PricingResult{}, domain.ErrInfeasiblePrice
	}
	base := in.UnitCost.Add(in.UnitCost.Mul(in.InboundInvoicePct)).Add(in.FixedCostPerUnit).Add(in.PerItemFee)
	price := base.Div(denom).RoundCeil(2)
	return EvaluatePrice(price, in), nil
}

// EvaluatePrice desglosa un precio dado con las mismas tasas.
func EvaluatePrice(price decimal.Decimal, in PricingInput) PricingResult {
	r := PricingResult{
		Price:          price,
		Commission:     price.Mul(in.CommissionRate),
		PerItemFee:     in.PerItemFee,
		Tax:            price.Mul(in.TaxRate),
		UnitCost:       in.UnitCost,
		InboundInvoice: in.UnitCost.Mul(in.InboundInvoicePct),
		FixedCost:      in.FixedCostPerUnit,
	}
	r.Profit = price.Sub(r.Commission).Sub(r.PerItemFee).Sub(r.Tax).Sub(r.UnitCost).Sub(r.InboundInvoice).Sub(r.FixedCost)
	r.MarginPct = percentOf(r.Profit, price)
	return r
}

// MonthlyFixedCosts suma de los costos fijos recurrentes; los puntuales no se repiten cada mes.
func MonthlyFixedCosts(costs []entity.FixedCost) decimal.Decimal {
	total := decimal.Zero
	for _, c := range costs {
		if c.Recurring {
			total = total.Add(c.Amount)
		}
	}
	return total
}

// FixedCostPerUnit reparte los costos fijos mensuales entre los productos vendidos por mes.
func FixedCostPerUnit(costs []entity.FixedCost, monthlyProducts int) decimal.Decimal {
	if monthlyProducts <= 0 {
		return decimal.Zero
	}
	return MonthlyFixedCosts(costs).Div(decimal.NewFromInt(int64(monthlyProducts)))
}
