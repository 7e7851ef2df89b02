package finance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/pkg/textfold"
	"github.com/shopspring/decimal"
)

// Severity nivel de una alerta del DRE.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Códigos de alerta.
const (
	AlertMissingSettings     = "missing_settings"
	AlertNegativeMargin      = "negative_margin"
	AlertNegativeResult      = "negative_result"
	AlertFixedCostsNoRevenue = "fixed_costs_without_revenue"
	AlertMissingUnitCost     = "missing_unit_cost"
	AlertPayoutMismatch      = "payout_mismatch"
	AlertNoData              = "no_data"
)

// Claves de sección.
const (
	KeyGrossRevenue       = "receita_bruta"
	KeyDeductions         = "deducoes"
	KeyNetRevenue         = "receita_liquida"
	KeyCostOfGoods        = "custo_mercadorias"
	KeyContributionMargin = "margem_contribuicao"
	KeyFixedCosts         = "custos_fixos"
	KeyOperatingResult    = "resultado_operacional"
)

const fixedCostUncategorized = "Sem categoria"

var payoutMismatchTolerance = decimal.New(1, -2)

// Alert aviso consultivo; nunca bloquea la composición.
type Alert struct {
	Severity    Severity `json:"severidade"`
	Code        string   `json:"codigo"`
	Marketplace string   `json:"marketplace,omitempty"`
	Message     string   `json:"mensagem"`
}

// DRELine línea del estado de resultados. Percentage es sobre la receita bruta total.
type DRELine struct {
	Key        string          `json:"chave"`
	Label      string          `json:"descricao"`
	Value      decimal.Decimal `json:"valor"`
	Percentage decimal.Decimal `json:"percentual"`
	Lines      []DRELine       `json:"itens,omitempty"`
}

// Payouts totales de repasse para conciliación.
type Payouts struct {
	SettlementNet decimal.Decimal `json:"liquidacoes"`
	StatementNet  decimal.Decimal `json:"extratos"`
	Difference    decimal.Decimal `json:"diferenca"`
}

// DREData estado de resultados del período.
type DREData struct {
	Period             Period  `json:"periodo"`
	GrossRevenue       DRELine `json:"receita_bruta"`
	Deductions         DRELine `json:"deducoes"`
	NetRevenue         DRELine `json:"receita_liquida"`
	CostOfGoods        DRELine `json:"custo_mercadorias"`
	ContributionMargin DRELine `json:"margem_contribuicao"`
	FixedCosts         DRELine `json:"custos_fixos"`
	OperatingResult    DRELine `json:"resultado_operacional"`
	Payouts            Payouts `json:"repasses"`
	Alerts             []Alert `json:"alertas"`
}

// Sections devuelve las secciones en orden de presentación (para exportar).
func (d DREData) Sections() []DRELine {
	return []DRELine{
		d.GrossRevenue, d.Deductions, d.NetRevenue, d.CostOfGoods,
		d.ContributionMargin, d.FixedCosts, d.OperatingResult,
	}
}

// DREInput fuentes del DRE. Las filas fuera de Period se descartan aquí mismo, de modo que
// el mismo filtro vale para todas las fuentes.
type DREInput struct {
	Period            Period
	ShopeeOrders      []entity.Order
	TikTokSettlements []entity.TikTokSettlement
	TikTokStatements  []entity.TikTokStatement
	FixedCosts        []entity.FixedCost
	ShopeeSettings    *entity.Settings
	TikTokSettings    *entity.Settings
}

// ComposeDRE compone el estado de resultados. Función pura.
func ComposeDRE(in DREInput) DREData {
	var alerts []Alert

	shopee := make([]entity.Order, 0, len(in.ShopeeOrders))
	for _, o := range in.ShopeeOrders {
		if in.Period.Contains(o.OrderedAt) {
			shopee = append(shopee, o)
		}
	}
	settlements := make([]entity.TikTokSettlement, 0, len(in.TikTokSettlements))
	for _, s := range in.TikTokSettlements {
		if in.Period.Contains(s.SettledAt) {
			settlements = append(settlements, s)
		}
	}
	statements := make([]entity.TikTokStatement, 0, len(in.TikTokStatements))
	for _, s := range in.TikTokStatements {
		if in.Period.Contains(s.PaidAt) {
			statements = append(statements, s)
		}
	}

	// Shopee: se reutiliza el cálculo agrupado para que DRE y tabla coincidan.
	shopeeSettings := entity.Settings{}
	if in.ShopeeSettings != nil {
		shopeeSettings = *in.ShopeeSettings
	} else if len(shopee) > 0 {
		alerts = append(alerts, missingSettings(entity.MarketplaceShopee, SeverityError))
	}
	sp := Calculate(shopee, shopeeSettings, GroupByProduct).Totals

	tiktokSettings := entity.Settings{}
	if in.TikTokSettings != nil {
		tiktokSettings = *in.TikTokSettings
	} else if len(settlements) > 0 {
		alerts = append(alerts, missingSettings(entity.MarketplaceTikTok, SeverityWarning))
	}
	tt := sumSettlements(settlements)

	missingCost := 0
	for _, o := range shopee {
		if o.Quantity.IsPositive() && !o.UnitCost.IsPositive() {
			missingCost++
		}
	}
	for _, s := range settlements {
		if s.Quantity.IsPositive() && !s.UnitCost.IsPositive() {
			missingCost++
		}
	}

	// Receita bruta
	revenue := sp.Revenue.Add(tt.gross)
	gross := section(KeyGrossRevenue, "Receita bruta",
		line("receita_shopee", "Shopee", sp.Revenue),
		line("receita_tiktok", "TikTok Shop", tt.gross),
	)

	// Deduções
	shopeeDeductions := section("deducoes_shopee", "Shopee",
		line("shopee_comissao", "Comissão", sp.Commission),
		line("shopee_taxa_item", "Taxa por item", sp.PerItemFees),
		line("shopee_rebates", "Rebates", sp.Rebates),
		line("shopee_ads", "Gasto com anúncios", sp.AdSpend),
	)
	tiktokDeductions := section("deducoes_tiktok", "TikTok Shop",
		line("tiktok_comissao", "Comissão da plataforma", tt.platformCommission),
		line("tiktok_afiliados", "Comissão de afiliados", tt.affiliateCommission),
		line("tiktok_desconto_plataforma", "Descontos da plataforma", tt.platformDiscount),
		line("tiktok_desconto_vendedor", "Descontos do vendedor", tt.sellerDiscount),
		line("tiktok_reembolsos", "Reembolsos", tt.refunds),
		line("tiktok_frete", "Saldo de frete", tt.shippingBalance.Neg()),
		line("tiktok_outras", "Outras taxas", tt.otherFees),
		line("tiktok_ads", "Gasto com anúncios", nonNegative(tiktokSettings.AdSpend)),
	)
	taxes := section("impostos", "Impostos sobre vendas",
		line("imposto_shopee", "Shopee", sp.Tax),
		line("imposto_tiktok", "TikTok Shop", tt.gross.Mul(tiktokSettings.OutboundTaxRate)),
	)
	deductions := section(KeyDeductions, "Deduções", shopeeDeductions, tiktokDeductions, taxes)

	netRevenue := line(KeyNetRevenue, "Receita líquida", revenue.Sub(deductions.Value))

	// CMV
	tiktokNF := tt.productCost.Mul(tiktokSettings.InboundInvoicePct)
	cogs := section(KeyCostOfGoods, "Custo das mercadorias",
		line("cmv_shopee", "Produtos Shopee", sp.ProductCost),
		line("cmv_tiktok", "Produtos TikTok Shop", tt.productCost),
		line("nf_entrada", "NF de entrada", sp.InboundInvoice.Add(tiktokNF)),
	)

	margin := line(KeyContributionMargin, "Margem de contribuição", netRevenue.Value.Sub(cogs.Value))

	fixed := fixedCostSection(in.FixedCosts, in.Period)
	result := line(KeyOperatingResult, "Resultado operacional", margin.Value.Sub(fixed.Value))

	// Alertas
	if margin.Value.IsNegative() {
		alerts = append(alerts, Alert{Severity: SeverityWarning, Code: AlertNegativeMargin,
			Message: "La margen de contribución del período es negativa"})
	}
	if result.Value.IsNegative() {
		alerts = append(alerts, Alert{Severity: SeverityWarning, Code: AlertNegativeResult,
			Message: "El resultado operacional del período es negativo"})
	}
	if revenue.IsZero() && fixed.Value.IsPositive() {
		alerts = append(alerts, Alert{Severity: SeverityWarning, Code: AlertFixedCostsNoRevenue,
			Message: "Hay costos fijos en un período sin ingresos"})
	}
	if missingCost > 0 {
		alerts = append(alerts, Alert{Severity: SeverityWarning, Code: AlertMissingUnitCost,
			Message: fmt.Sprintf("%d línea(s) de venta sin costo unitario", missingCost)})
	}
	payouts := Payouts{SettlementNet: tt.netPayout, StatementNet: decimal.Zero}
	for _, s := range statements {
		payouts.StatementNet = payouts.StatementNet.Add(s.NetPayout)
	}
	payouts.Difference = payouts.StatementNet.Sub(payouts.SettlementNet)
	if len(statements) > 0 && payouts.Difference.Abs().GreaterThan(payoutMismatchTolerance) {
		alerts = append(alerts, Alert{Severity: SeverityInfo, Code: AlertPayoutMismatch, Marketplace: entity.MarketplaceTikTok,
			Message: fmt.Sprintf("Los extractos y las liquidaciones de TikTok difieren en %s", payouts.Difference.StringFixed(2))})
	}
	if len(shopee) == 0 && len(settlements) == 0 {
		alerts = append(alerts, Alert{Severity: SeverityInfo, Code: AlertNoData,
			Message: "No hay ventas en el período seleccionado"})
	}

	d := DREData{
		Period:             in.Period,
		GrossRevenue:       gross,
		Deductions:         deductions,
		NetRevenue:         netRevenue,
		CostOfGoods:        cogs,
		ContributionMargin: margin,
		FixedCosts:         fixed,
		OperatingResult:    result,
		Payouts:            payouts,
		Alerts:             alerts,
	}
	if d.Alerts == nil {
		d.Alerts = []Alert{}
	}
	for _, l := range []*DRELine{&d.GrossRevenue, &d.Deductions, &d.NetRevenue, &d.CostOfGoods,
		&d.ContributionMargin, &d.FixedCosts, &d.OperatingResult} {
		setPercentages(l, revenue)
	}
	return d
}

func missingSettings(marketplace string, sev Severity) Alert {
	return Alert{
		Severity:    sev,
		Code:        AlertMissingSettings,
		Marketplace: marketplace,
		Message:     fmt.Sprintf("Sin configuración por defecto para %s; tarifas e impuestos quedan en cero", marketplace),
	}
}

func line(key, label string, v decimal.Decimal) DRELine {
	return DRELine{Key: key, Label: label, Value: v, Percentage: decimal.Zero}
}

// section crea una línea cuyo valor es la suma de sus hijas.
func section(key, label string, children ...DRELine) DRELine {
	total := decimal.Zero
	for _, c := range children {
		total = total.Add(c.Value)
	}
	return DRELine{Key: key, Label: label, Value: total, Percentage: decimal.Zero, Lines: children}
}

func setPercentages(l *DRELine, revenue decimal.Decimal) {
	l.Percentage = percentOf(l.Value, revenue)
	for i := range l.Lines {
		setPercentages(&l.Lines[i], revenue)
	}
}

// fixedCostSection agrupa por categoría. Los recurrentes se multiplican por el factor del período;
// los puntuales cuentan una sola vez y solo en el período que contiene su fecha.
func fixedCostSection(costs []entity.FixedCost, p Period) DRELine {
	factor := p.FixedCostFactor()
	type group struct {
		label string
		total decimal.Decimal
	}
	byKey := make(map[string]*group)
	for _, c := range costs {
		amount := c.Amount.Mul(factor)
		if !c.Recurring {
			if !p.Contains(c.CreatedAt) {
				continue
			}
			amount = c.Amount
		}
		label := strings.TrimSpace(c.Category)
		key := textfold.Slug(label)
		if key == "" {
			label, key = fixedCostUncategorized, textfold.Slug(fixedCostUncategorized)
		}
		g, ok := byKey[key]
		if !ok {
			// la primera grafía de la categoría da la etiqueta
			g = &group{label: label, total: decimal.Zero}
			byKey[key] = g
		}
		g.total = g.total.Add(amount)
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	children := make([]DRELine, 0, len(keys))
	for _, k := range keys {
		children = append(children, line("fixo_"+k, byKey[k].label, byKey[k].total))
	}
	return section(KeyFixedCosts, "Custos fixos", children...)
}

type settlementTotals struct {
	gross, platformDiscount, sellerDiscount, platformCommission, affiliateCommission decimal.Decimal
	shippingBalance, refunds, otherFees, netPayout, productCost                      decimal.Decimal
}

func sumSettlements(rows []entity.TikTokSettlement) settlementTotals {
	var t settlementTotals
	for _, r := range rows {
		t.gross = t.gross.Add(r.GrossRevenue)
		t.platformDiscount = t.platformDiscount.Add(r.PlatformDiscount)
		t.sellerDiscount = t.sellerDiscount.Add(r.SellerDiscount)
		t.platformCommission = t.platformCommission.Add(r.PlatformCommission)
		t.affiliateCommission = t.affiliateCommission.Add(r.AffiliateCommission)
		t.shippingBalance = t.shippingBalance.Add(r.ShippingBalance)
		t.refunds = t.refunds.Add(r.Refunds)
		t.otherFees = t.otherFees.Add(r.OtherFees)
		t.netPayout = t.netPayout.Add(r.NetPayout)
		t.productCost = t.productCost.Add(nonNegative(r.Quantity).Mul(nonNegative(r.UnitCost)))
	}
	return t
}
