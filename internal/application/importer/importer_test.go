package importer_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/application/importer"
	"github.com/jhoicas/seller-finance-api/internal/application/ports"
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/memory"
)

const userID = "user-1"

// stubParser devuelve siempre la misma tabla.
type stubParser struct{ table *ports.Table }

func (p stubParser) Parse(string, io.Reader) (*ports.Table, error) { return p.table, nil }

func tableOf(headers []string, rows ...[]string) *ports.Table {
	t := &ports.Table{Headers: headers}
	for _, r := range rows {
		m := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(r) {
				m[h] = r[i]
			}
		}
		t.Rows = append(t.Rows, m)
	}
	return t
}

var shopeeHeaders = []string{
	"ID do pedido", "Data de criação do pedido", "Nº de referência do SKU principal", "Nome do Produto",
	"Nome da variação", "Quantidade", "Subtotal do produto", "Rebate Shopee",
}

func shopeeTable() *ports.Table {
	return tableOf(shopeeHeaders,
		[]string{"1001", "2024-03-05 10:00", "A", "Camiseta", "P", "2", "100,00", "-5"},
		[]string{"1002", "2024-03-06 11:30", "B", "Caneca", "", "1", "40", ""},
		[]string{"", "2024-03-06 12:00", "C", "Sem pedido", "", "1", "10", ""},
		[]string{"1003", "2024-03-07", "-", "Chaveiro", "", "3", "15,00", ""},
	)
}

func newUseCase(store *memory.Store, t *ports.Table) *importer.UseCase {
	return importer.New(importer.Deps{
		Orders:   store.Orders(),
		Tx:       store.TxRunner(),
		Parser:   stubParser{table: t},
		Sessions: importer.NewSessionStore(time.Minute),
		Location: time.UTC,
	})
}

func TestSuggestMapping_EncabezadosShopee(t *testing.T) {
	m := importer.SuggestMapping(shopeeHeaders)

	assert.Equal(t, "ID do pedido", m[importer.FieldOrderID])
	assert.Equal(t, "Data de criação do pedido", m[importer.FieldOrderedAt])
	assert.Equal(t, "Nº de referência do SKU principal", m[importer.FieldSKU])
	assert.Equal(t, "Nome do Produto", m[importer.FieldProductName])
	assert.Equal(t, "Nome da variação", m[importer.FieldVariation])
	assert.Equal(t, "Quantidade", m[importer.FieldQuantity])
	assert.Equal(t, "Subtotal do produto", m[importer.FieldRevenue])
	assert.Equal(t, "Rebate Shopee", m[importer.FieldRebate])
	_, ok := m[importer.FieldUnitCost]
	assert.False(t, ok)
}

func TestSuggestMapping_IgnoraMayusculasYAcentos(t *testing.T) {
	m := importer.SuggestMapping([]string{"QUANTIDADE VENDIDA", "nome do produto", "Receita (R$)", "Número do pedido"})
	assert.Equal(t, "QUANTIDADE VENDIDA", m[importer.FieldQuantity])
	assert.Equal(t, "nome do produto", m[importer.FieldProductName])
	assert.Equal(t, "Receita (R$)", m[importer.FieldRevenue])
	assert.Equal(t, "Número do pedido", m[importer.FieldOrderID])
}

func TestValidateMapping(t *testing.T) {
	known := []importer.Field{importer.FieldOrderID, importer.FieldProductName, importer.FieldQuantity, importer.FieldRevenue, importer.FieldSKU}

	_, err := importer.ValidateMapping(map[string]string{"order_id": "ID", "product_name": "Nome"}, []string{"ID", "Nome"}, importer.RequiredFields, known)
	require.ErrorIs(t, err, domain.ErrRequiredFieldsMissing)
	var rf *importer.RequiredFieldsError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, []importer.Field{importer.FieldQuantity, importer.FieldRevenue}, rf.Missing)

	_, err = importer.ValidateMapping(map[string]string{"order_id": "Nao existe"}, []string{"ID"}, nil, known)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = importer.ValidateMapping(map[string]string{"marca": "ID"}, []string{"ID"}, nil, known)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFlujoCompleto_ReemplazaPedidosDelRango(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, store.Orders().InsertBatch(ctx, []entity.Order{
		{ID: "old-1", UserID: userID, OrderID: "900", SKU: "A", ProductName: "Camiseta", Quantity: decimal.NewFromInt(1),
			GrossRevenue: decimal.NewFromInt(50), UnitCost: decimal.NewFromInt(12), Marketplace: entity.MarketplaceShopee,
			OrderedAt: time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), UpdatedAt: now},
		{ID: "old-2", UserID: userID, OrderID: "901", SKU: "A", ProductName: "Camiseta", Quantity: decimal.NewFromInt(1),
			GrossRevenue: decimal.NewFromInt(50), UnitCost: decimal.NewFromInt(12), Marketplace: entity.MarketplaceTikTok,
			OrderedAt: time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), UpdatedAt: now},
	}))
	uc := newUseCase(store, shopeeTable())

	sess, err := uc.Upload(ctx, userID, "pedidos.xlsx", "", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, string(importer.StateUpload), sess.State)
	assert.Equal(t, 4, sess.RowCount)

	_, err = uc.Preview(ctx, userID, sess.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "sin mapeo no hay vista previa")

	_, err = uc.ApplyMapping(ctx, userID, sess.ID, map[string]string{"order_id": "ID do pedido"})
	assert.ErrorIs(t, err, domain.ErrRequiredFieldsMissing)

	mapped, err := uc.ApplyMapping(ctx, userID, sess.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, string(importer.StateMapping), mapped.State)

	_, err = uc.Preview(ctx, userID, sess.ID)
	var mc *importer.MissingCostsError
	require.ErrorAs(t, err, &mc)
	assert.True(t, errors.Is(err, domain.ErrMissingCosts))
	assert.Equal(t, []finance.CostKey{{ProductName: "Chaveiro"}, {SKU: "B"}}, mc.Keys)

	_, err = uc.Commit(ctx, userID, sess.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "no se confirma con costos pendientes")

	_, err = uc.ResolveCosts(ctx, userID, sess.ID, []dto.CostUpdateRequest{
		{CostKeyRequest: dto.CostKeyRequest{SKU: "B"}, UnitCost: "8,50"},
		{CostKeyRequest: dto.CostKeyRequest{ProductName: "Chaveiro"}, UnitCost: "0"},
	})
	require.Error(t, err, "costo cero no resuelve")

	view, err := uc.ResolveCosts(ctx, userID, sess.ID, []dto.CostUpdateRequest{
		{CostKeyRequest: dto.CostKeyRequest{SKU: "B"}, UnitCost: "8,50"},
		{CostKeyRequest: dto.CostKeyRequest{SKU: "-", ProductName: "Chaveiro"}, UnitCost: "2"},
	})
	require.NoError(t, err)
	assert.Empty(t, view.MissingCosts)

	prev, err := uc.Preview(ctx, userID, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, string(importer.StatePreview), prev.Session.State)
	assert.Equal(t, 3, prev.Orders)
	assert.Equal(t, 1, prev.Session.Skipped)
	assert.Equal(t, "6", prev.TotalQuantity.String())
	assert.Equal(t, "155", prev.TotalRevenue.String())
	require.Len(t, prev.Sample, 3)
	for _, o := range prev.Sample {
		switch o.ProductName {
		case "Camiseta":
			assert.Equal(t, "12", o.UnitCost.String(), "costo conocido")
			assert.Equal(t, "5", o.PlatformRebate.String())
		case "Caneca":
			assert.Equal(t, "8.5", o.UnitCost.String())
		case "Chaveiro":
			assert.Equal(t, "", o.SKU)
			assert.Equal(t, "2", o.UnitCost.String())
		}
	}

	res, err := uc.Commit(ctx, userID, sess.ID, importer.ModeReplace)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, int64(1), res.Deleted)

	all, err := store.Orders().ListPage(ctx, userID, repository.OrderFilter{}, 100, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4, "3 nuevos + el de TikTok")

	_, err = uc.Commit(ctx, userID, sess.ID, importer.ModeAppend)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = uc.ApplyMapping(ctx, userID, sess.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	done, err := uc.Get(ctx, userID, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, string(importer.StateSuccess), done.State)
	require.NotNil(t, done.Result)
}

func TestCommit_ModoInvalido(t *testing.T) {
	uc := newUseCase(memory.NewStore(), shopeeTable())
	_, err := uc.Commit(context.Background(), userID, "x", "merge")
	require.Error(t, err)
}

func TestSesion_OtroUsuario(t *testing.T) {
	uc := newUseCase(memory.NewStore(), shopeeTable())
	sess, err := uc.Upload(context.Background(), userID, "p.csv", "shopee", strings.NewReader(""))
	require.NoError(t, err)
	_, err = uc.Get(context.Background(), "intruso", sess.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpload_PlanillaVacia(t *testing.T) {
	uc := newUseCase(memory.NewStore(), tableOf(shopeeHeaders))
	_, err := uc.Upload(context.Background(), userID, "p.csv", "", strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, importer.CanTransition(importer.StateUpload, importer.StateMapping))
	assert.False(t, importer.CanTransition(importer.StateUpload, importer.StatePreview))
	assert.False(t, importer.CanTransition(importer.StateMapping, importer.StateSuccess))
	assert.True(t, importer.CanTransition(importer.StatePreview, importer.StateSuccess))
	assert.False(t, importer.CanTransition(importer.StateSuccess, importer.StateMapping))
}

func TestImportSettlements_TarifasEnValorAbsoluto(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	table := tableOf(
		[]string{"Order ID", "Seller SKU", "Product Name", "Quantity", "Order settled time", "Total Revenue",
			"Platform commission fee", "Affiliate commission", "Shipping", "Refund", "Total settlement amount"},
		[]string{"T1", "A", "Camiseta", "1", "2024/03/10", "100", "-8", "-2,50", "-6", "0", "83,50"},
		[]string{"T2", "", "Boné", "1", "", "50", "-4", "0", "0", "0", "46"},
	)
	uc := newUseCase(store, table)

	res, err := uc.ImportSettlements(ctx, userID, "income.xlsx", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Skipped, "fila sin fecha de liquidación")

	items, err := store.Settlements().ListPage(ctx, userID, repository.DateRange{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	s := items[0]
	assert.Equal(t, "8", s.PlatformCommission.String())
	assert.Equal(t, "2.5", s.AffiliateCommission.String())
	assert.Equal(t, "-6", s.ShippingBalance.String())
	assert.Equal(t, "83.5", s.NetPayout.String())
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), s.SettledAt)
}

func TestImportSettlements_FaltanColumnas(t *testing.T) {
	uc := newUseCase(memory.NewStore(), tableOf([]string{"Order ID", "Product Name"}, []string{"T1", "X"}))
	_, err := uc.ImportSettlements(context.Background(), userID, "income.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrRequiredFieldsMissing)
}

func TestImportStatements(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	table := tableOf(
		[]string{"Statement date", "Statement ID", "Settlement count", "Total revenue", "Total fees", "Adjustment", "Net payout"},
		[]string{"2024-03-15", "S-1", "12", "1.200,00", "-180", "0", "1.020,00"},
	)
	uc := newUseCase(store, table)

	res, err := uc.ImportStatements(ctx, userID, "statements.csv", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)

	items, err := store.Statements().ListPage(ctx, userID, repository.DateRange{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "S-1", items[0].StatementID)
	assert.Equal(t, 12, items[0].SettlementCount)
	assert.Equal(t, "180", items[0].TotalFees.String())
	assert.Equal(t, "1020", items[0].NetPayout.String())
}

func TestSessionStore_Vencimiento(t *testing.T) {
	st := importer.NewSessionStore(time.Minute)
	st.Put(&importer.Session{ID: "s1", UserID: userID})
	_, err := st.Get(userID, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, st.Sweep())
	assert.Equal(t, 1, st.Len())
}
