package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/jhoicas/seller-finance-api/pkg/numeric"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Price calcula el precio sugerido o, si in.Price viene informado, desglosa ese precio.
// Las tasas vacías se toman de la configuración por defecto del marketplace.
func (uc *UseCase) Price(ctx context.Context, userID string, in dto.PricingRequest) (*finance.PricingResult, error) {
	marketplace := strings.ToLower(strings.TrimSpace(in.Marketplace))
	if marketplace == "" {
		marketplace = entity.MarketplaceShopee
	}
	if !entity.ValidMarketplace(marketplace) {
		return nil, &numeric.ValidationError{Field: "marketplace", Message: "marketplace desconocido"}
	}
	defaults, err := uc.d.Settings.Default(ctx, userID, marketplace)
	if err != nil {
		return nil, fmt.Errorf("analytics: precio: %w", err)
	}
	if defaults == nil {
		defaults = &entity.Settings{}
	}

	var pin finance.PricingInput
	if pin.UnitCost, err = numeric.Parse(in.UnitCost.String(), numeric.Currency().WithField("unit_cost")); err != nil {
		return nil, err
	}
	if pin.TargetMarginPct, err = pct("target_margin_pct", in.TargetMarginPct, decimal.Zero); err != nil {
		return nil, err
	}
	if pin.CommissionRate, err = pct("commission_pct", in.CommissionPct, defaults.CommissionRate); err != nil {
		return nil, err
	}
	if pin.TaxRate, err = pct("tax_pct", in.TaxPct, defaults.OutboundTaxRate); err != nil {
		return nil, err
	}
	if pin.InboundInvoicePct, err = pct("inbound_invoice_pct", in.InboundInvoicePct, defaults.InboundInvoicePct); err != nil {
		return nil, err
	}
	if pin.PerItemFee, err = money("per_item_fee", in.PerItemFee, defaults.PerItemFee); err != nil {
		return nil, err
	}
	if pin.FixedCostPerUnit, err = money("fixed_cost_per_unit", in.FixedCostPerUnit, decimal.Zero); err != nil {
		return nil, err
	}
	if in.IncludeFixedCosts && blank(in.FixedCostPerUnit) {
		if pin.FixedCostPerUnit, err = uc.fixedCostPerUnit(ctx, userID); err != nil {
			return nil, err
		}
	}

	if !blank(in.Price) {
		price, err := numeric.Parse(in.Price.String(), numeric.Currency().WithField("price"))
		if err != nil {
			return nil, err
		}
		r := finance.EvaluatePrice(price, pin)
		return &r, nil
	}
	r, err := finance.SuggestPrice(pin)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (uc *UseCase) fixedCostPerUnit(ctx context.Context, userID string) (decimal.Decimal, error) {
	costs, err := uc.d.FixedCosts.ListByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("analytics: costos fijos: %w", err)
	}
	products := entity.DefaultMonthlyProducts
	fs, err := uc.d.FixedCostSettings.Get(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("analytics: estimaciones: %w", err)
	}
	if fs != nil {
		products = fs.MonthlyProducts
	}
	return finance.FixedCostPerUnit(costs, products), nil
}

func blank(in dto.NumericInput) bool { return strings.TrimSpace(in.String()) == "" }

func pct(field string, in dto.NumericInput, def decimal.Decimal) (decimal.Decimal, error) {
	if blank(in) {
		return def, nil
	}
	v, err := numeric.Parse(in.String(), numeric.Percentage().WithField(field))
	if err != nil {
		return decimal.Zero, err
	}
	return v.Div(hundred), nil
}

func money(field string, in dto.NumericInput, def decimal.Decimal) (decimal.Decimal, error) {
	if blank(in) {
		return def, nil
	}
	return numeric.Parse(in.String(), numeric.Currency().WithField(field))
}
