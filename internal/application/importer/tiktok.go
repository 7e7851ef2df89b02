package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/application/ports"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/jhoicas/seller-finance-api/pkg/numeric"
)

// Campos de la planilla de liquidaciones de TikTok Shop.
const (
	FieldSettledAt           Field = "settled_at"
	FieldGrossRevenue        Field = "gross_revenue"
	FieldPlatformDiscount    Field = "platform_discount"
	FieldSellerDiscount      Field = "seller_discount"
	FieldPlatformCommission  Field = "platform_commission"
	FieldAffiliateCommission Field = "affiliate_commission"
	FieldShippingBalance     Field = "shipping_balance"
	FieldRefunds             Field = "refunds"
	FieldOtherFees           Field = "other_fees"
	FieldNetPayout           Field = "net_payout"
)

// Campos de la planilla de extractos.
const (
	FieldStatementID     Field = "statement_id"
	FieldPaidAt          Field = "paid_at"
	FieldSettlementCount Field = "settlement_count"
	FieldTotalFees       Field = "total_fees"
	FieldAdjustments     Field = "adjustments"
)

var settlementAliases = []fieldAliases{
	{FieldSettledAt, []string{"order settled time", "settled time", "settlement time", "data de liquidacao"}},
	{FieldNetPayout, []string{"total settlement amount", "settlement amount", "valor liquido", "net payout"}},
	{FieldAffiliateCommission, []string{"affiliate commission", "comissao de afiliado"}},
	{FieldPlatformCommission, []string{"platform commission", "commission fee", "comissao da plataforma", "comissao"}},
	{FieldPlatformDiscount, []string{"platform discount", "desconto da plataforma"}},
	{FieldSellerDiscount, []string{"seller discount", "desconto do vendedor"}},
	{FieldShippingBalance, []string{"shipping", "frete"}},
	{FieldRefunds, []string{"refund", "reembolso"}},
	{FieldOtherFees, []string{"other fees", "transaction fee", "outras taxas"}},
	{FieldGrossRevenue, []string{"subtotal before discounts", "gross revenue", "total revenue", "receita bruta", "receita"}},
	{FieldUnitCost, []string{"custo unitario", "unit cost"}},
	{FieldSKU, []string{"seller sku", "sku"}},
	{FieldOrderID, []string{"order adjustment id", "order id", "id do pedido", "pedido"}},
	{FieldProductName, []string{"product name", "nome do produto", "produto"}},
	{FieldQuantity, []string{"quantity", "quantidade", "qtd"}},
}

var settlementRequired = []Field{FieldOrderID, FieldSettledAt, FieldGrossRevenue, FieldNetPayout}

var statementAliases = []fieldAliases{
	{FieldPaidAt, []string{"payment time", "paid time", "statement date", "data de pagamento"}},
	{FieldStatementID, []string{"statement id", "id do extrato", "statement"}},
	{FieldSettlementCount, []string{"settlement count", "number of orders", "pedidos"}},
	{FieldTotalFees, []string{"total fees", "taxas", "fees"}},
	{FieldAdjustments, []string{"adjustment", "ajuste"}},
	{FieldNetPayout, []string{"net payout", "payout amount", "settlement amount", "valor liquido"}},
	{FieldGrossRevenue, []string{"total revenue", "gross revenue", "receita"}},
}

var statementRequired = []Field{FieldStatementID, FieldPaidAt, FieldNetPayout}

// ImportSettlements carga liquidaciones de TikTok Shop. Las columnas se reconocen por nombre;
// tarifas y descuentos se guardan en valor absoluto y el saldo de frete conserva su signo.
func (uc *UseCase) ImportSettlements(ctx context.Context, userID, filename string, r io.Reader) (*dto.TikTokImportResponse, error) {
	table, m, err := uc.readFixed(filename, r, settlementAliases, settlementRequired)
	if err != nil {
		return nil, err
	}
	known, err := uc.knownCosts(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	items := make([]entity.TikTokSettlement, 0, len(table.Rows))
	skipped := 0
	for _, row := range table.Rows {
		get := cell(row, m)
		settledAt, ok := parseTime(get(FieldSettledAt), uc.d.Location)
		if get(FieldOrderID) == "" || !ok {
			skipped++
			continue
		}
		s := entity.TikTokSettlement{
			ID:                  uuid.New().String(),
			UserID:              userID,
			OrderID:             get(FieldOrderID),
			SKU:                 finance.NormalizeSKU(get(FieldSKU)),
			ProductName:         get(FieldProductName),
			Quantity:            numeric.Safe(get(FieldQuantity), numeric.Quantity()),
			SettledAt:           settledAt,
			GrossRevenue:        numeric.SafeLoose(get(FieldGrossRevenue)),
			PlatformDiscount:    numeric.SafeLoose(get(FieldPlatformDiscount)).Abs(),
			SellerDiscount:      numeric.SafeLoose(get(FieldSellerDiscount)).Abs(),
			PlatformCommission:  numeric.SafeLoose(get(FieldPlatformCommission)).Abs(),
			AffiliateCommission: numeric.SafeLoose(get(FieldAffiliateCommission)).Abs(),
			ShippingBalance:     numeric.SafeLoose(get(FieldShippingBalance)),
			Refunds:             numeric.SafeLoose(get(FieldRefunds)).Abs(),
			OtherFees:           numeric.SafeLoose(get(FieldOtherFees)).Abs(),
			NetPayout:           numeric.SafeLoose(get(FieldNetPayout)),
			UnitCost:            numeric.Safe(get(FieldUnitCost), numeric.Currency()),
			CreatedAt:           now,
		}
		if !s.UnitCost.IsPositive() {
			if c, ok := known[finance.KeyOf(s.SKU, s.ProductName)]; ok {
				s.UnitCost = c
			}
		}
		items = append(items, s)
	}

	if err := uc.d.Tx.Run(ctx, func(r ports.TxRepos) error {
		return r.Settlements.InsertBatch(ctx, items)
	}); err != nil {
		return nil, fmt.Errorf("importer: guardar liquidaciones: %w", err)
	}
	uc.log.Info().Str("user_id", userID).Int("inserted", len(items)).Int("skipped", skipped).Msg("liquidaciones importadas")
	return &dto.TikTokImportResponse{Inserted: len(items), Skipped: skipped}, nil
}

// ImportStatements carga extractos (lotes de pago) de TikTok Shop.
func (uc *UseCase) ImportStatements(ctx context.Context, userID, filename string, r io.Reader) (*dto.TikTokImportResponse, error) {
	table, m, err := uc.readFixed(filename, r, statementAliases, statementRequired)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	items := make([]entity.TikTokStatement, 0, len(table.Rows))
	skipped := 0
	for _, row := range table.Rows {
		get := cell(row, m)
		paidAt, ok := parseTime(get(FieldPaidAt), uc.d.Location)
		if get(FieldStatementID) == "" || !ok {
			skipped++
			continue
		}
		count, _ := strconv.Atoi(strings.TrimSpace(get(FieldSettlementCount)))
		items = append(items, entity.TikTokStatement{
			ID:              uuid.New().String(),
			UserID:          userID,
			StatementID:     get(FieldStatementID),
			PaidAt:          paidAt,
			SettlementCount: count,
			GrossRevenue:    numeric.SafeLoose(get(FieldGrossRevenue)),
			TotalFees:       numeric.SafeLoose(get(FieldTotalFees)).Abs(),
			Adjustments:     numeric.SafeLoose(get(FieldAdjustments)),
			NetPayout:       numeric.SafeLoose(get(FieldNetPayout)),
			CreatedAt:       now,
		})
	}

	if err := uc.d.Tx.Run(ctx, func(r ports.TxRepos) error {
		return r.Statements.InsertBatch(ctx, items)
	}); err != nil {
		return nil, fmt.Errorf("importer: guardar extractos: %w", err)
	}
	uc.log.Info().Str("user_id", userID).Int("inserted", len(items)).Int("skipped", skipped).Msg("extractos importados")
	return &dto.TikTokImportResponse{Inserted: len(items), Skipped: skipped}, nil
}

func (uc *UseCase) readFixed(filename string, r io.Reader, table []fieldAliases, required []Field) (*ports.Table, map[Field]string, error) {
	t, err := uc.d.Parser.Parse(filename, r)
	if err != nil {
		return nil, nil, fmt.Errorf("importer: leer planilla: %w", err)
	}
	suggested := suggest(t.Headers, table)
	raw := make(map[string]string, len(suggested))
	for f, h := range suggested {
		raw[string(f)] = h
	}
	m, err := ValidateMapping(raw, t.Headers, required, fieldsOf(table))
	if err != nil {
		return nil, nil, err
	}
	return t, m, nil
}
