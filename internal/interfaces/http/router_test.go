package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-finance-api/internal/application/analytics"
	"github.com/jhoicas/seller-finance-api/internal/application/auth"
	"github.com/jhoicas/seller-finance-api/internal/application/cashflow"
	"github.com/jhoicas/seller-finance-api/internal/application/costs"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/application/fixedcosts"
	"github.com/jhoicas/seller-finance-api/internal/application/importer"
	"github.com/jhoicas/seller-finance-api/internal/application/orders"
	"github.com/jhoicas/seller-finance-api/internal/application/settings"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/cache"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/memory"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/pdf"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/spreadsheet"
	apphttp "github.com/jhoicas/seller-finance-api/internal/interfaces/http"
)

func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	kv := cache.NewMemoryStore(time.Minute)
	st := settings.New(store.Settings(), store.TxRunner(), kv)
	fixed := fixedcosts.New(store.FixedCosts(), store.FixedCostSettings())
	costUC := costs.New(store.Orders(), kv, 10*time.Millisecond, nil)
	t.Cleanup(costUC.Flush)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		SettingsUC: st,
		OrdersUC:   orders.New(store.Orders(), 2),
		CostsUC:    costUC,
		AnalyticsUC: analytics.New(analytics.Deps{
			Orders:            store.Orders(),
			Settlements:       store.Settlements(),
			Statements:        store.Statements(),
			FixedCosts:        store.FixedCosts(),
			FixedCostSettings: store.FixedCostSettings(),
			Settings:          st,
			PendingCosts:      costUC,
			PageSize:          2,
		}),
		FixedCosts: fixed,
		CashFlowUC: cashflow.New(store.CashFlow(), 2, time.UTC),
		ImporterUC: importer.New(importer.Deps{
			Orders:   store.Orders(),
			Tx:       store.TxRunner(),
			Parser:   spreadsheet.NewParser(),
			Sessions: importer.NewSessionStore(time.Minute),
			Location: time.UTC,
		}),
		DREPDF:    pdf.NewDREGenerator(),
		Location:  time.UTC,
		JWTSecret: testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", bearer(t))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func upload(t *testing.T, app *fiber.App, path, filename, content string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", bearer(t))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuth_RegistroYLogin(t *testing.T) {
	app := newAPI(t)

	body, _ := json.Marshal(dto.RegisterRequest{Email: "Loja@Example.com", Password: "segredo123"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	req =httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	login, _ := json.Marshal(dto.LoginRequest{Email: "loja@example.com", Password: "segredo123"})
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(login))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "loja@example.com", out.User.Email)

	bad, _ := json.Marshal(dto.LoginRequest{Email: "loja@example.com", Password: "errada"})
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(bad))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRutasProtegidas_SinToken(t *testing.T) {
	app := newAPI(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/settings", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSettings_ValidacionDevuelveCampo(t *testing.T) {
	app := newAPI(t)

	resp := call(t, app, http.MethodPost, "/api/settings", map[string]any{
		"name": "Shopee", "marketplace": "shopee", "commission_pct": "140",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "commission_pct", e.Field)

	resp = call(t, app, http.MethodPost, "/api/settings", map[string]any{
		"name": "Shopee", "marketplace": "shopee", "commission_pct": "14,5%", "per_item_fee": 4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.SettingsResponse](t, resp)
	assert.True(t, created.IsDefault)
	assert.Equal(t, "14.5", created.CommissionPct.String())

	resp = call(t, app, http.MethodDelete, "/api/settings/"+created.ID, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "la configuración por defecto no se borra")
}

func TestCalculations_SinConfiguracion_422(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/calculations?preset=current_month", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	e := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "NO_DEFAULT_SETTINGS", e.Code)
}

func TestPeriodo_Invalido_400(t *testing.T) {
	app := newAPI(t)
	for _, q := range []string{"?preset=semana", "?from=2024-03-01", "?from=01/03/2024&to=2024-03-31", "?from=2024-03-31&to=2024-03-01"} {
		resp := call(t, app, http.MethodGet, "/api/dre"+q, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

const pedidosCSV = "ID do pedido;Data do pedido;SKU;Nome do Produto;Quantidade;Subtotal do produto\n" +
	"1001;2024-03-05 10:00;A;Camiseta;2;100,00\n" +
	"1002;2024-03-06;B;Caneca;1;40\n"

func TestImportacion_FlujoCompleto(t *testing.T) {
	app := newAPI(t)

	resp := upload(t, app, "/api/imports", "pedidos.csv", pedidosCSV)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sess := decode[dto.ImportSessionResponse](t, resp)
	assert.Equal(t, "upload", sess.State)
	assert.Equal(t, 2, sess.RowCount)
	assert.Equal(t, "ID do pedido", sess.Suggested["order_id"])

	resp = call(t, app, http.MethodPost, "/api/imports/"+sess.ID+"/mapping", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "mapping", decode[dto.ImportSessionResponse](t, resp).State)

	resp = call(t, app, http.MethodPost, "/api/imports/"+sess.ID+"/commit", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "no se confirma sin vista previa")

	resp = call(t, app, http.MethodPost, "/api/imports/"+sess.ID+"/preview", nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	e := decode[map[string]any](t, resp)
	assert.Equal(t, "MISSING_COSTS", e["code"])
	assert.Len(t, e["details"], 2)

	resp = call(t, app, http.MethodPost, "/api/imports/"+sess.ID+"/costs", map[string]any{
		"costs": []map[string]any{{"sku": "A", "unit_cost": "10"}, {"sku": "B", "unit_cost": "5,50"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/imports/"+sess.ID+"/preview", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	preview := decode[dto.ImportPreviewResponse](t, resp)
	assert.Equal(t, 2, preview.Orders)
	assert.Equal(t, "140", preview.TotalRevenue.String())

	resp = call(t, app, http.MethodPost, "/api/imports/"+sess.ID+"/commit", map[string]string{"mode": "append"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decode[dto.ImportCommitResponse](t, resp).Inserted)

	resp = call(t, app, http.MethodGet, "/api/orders?from=2024-03-01&to=2024-03-31&limit=10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.OrderListResponse](t, resp)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "1002", list.Items[0].OrderID, "orden por fecha descendente")
	assert.Equal(t, "5.5", list.Items[0].UnitCost.String())
}

func TestImportacion_ArchivoNoSoportado(t *testing.T) {
	app := newAPI(t)
	resp := upload(t, app, "/api/imports", "pedidos.pdf", "%PDF")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCostos_EdicionIndividualYLote(t *testing.T) {
	app := newAPI(t)

	resp := call(t, app, http.MethodPut, "/api/costs", map[string]any{"sku": "A", "unit_cost": "12,30"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decode[dto.CostUpdateResponse](t, resp)
	assert.Equal(t, int64(1), first.SyncVersion)

	resp = call(t, app, http.MethodPut, "/api/costs?debounce=true", map[string]any{"sku": "A", "unit_cost": "13"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.True(t, decode[dto.CostUpdateResponse](t, resp).Scheduled)

	resp = call(t, app, http.MethodPost, "/api/costs/batch", map[string]any{
		"keys": []map[string]string{{"sku": "A"}, {"product_name": "Chaveiro"}}, "unit_cost": "0",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "el lote exige costo positivo")

	resp = call(t, app, http.MethodPost, "/api/costs/batch", map[string]any{
		"keys": []map[string]string{{"sku": "A"}, {"product_name": "Chaveiro"}}, "unit_cost": "7",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[costs.BatchResult](t, resp)
	assert.Equal(t, 1, res.SKUGroup)
	assert.Equal(t, 1, res.NameGroup)
	assert.False(t, res.Partial)

	resp = call(t, app, http.MethodGet, "/api/costs/sync-version", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.GreaterOrEqual(t, decode[dto.SyncVersionResponse](t, resp).SyncVersion, int64(2))
}

func TestDRE_Exportaciones(t *testing.T) {
	app := newAPI(t)

	resp := call(t, app, http.MethodGet, "/api/dre/export.csv?from=2024-03-01&to=2024-03-31", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, spreadsheet.ContentTypeCSV, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "dre.csv")

	resp = call(t, app, http.MethodGet, "/api/dre/export.pdf?from=2024-03-01&to=2024-03-31", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}

func TestCostosFijos_RutaSettingsAntesQueID(t *testing.T) {
	app := newAPI(t)

	resp := call(t, app, http.MethodGet, "/api/fixed-costs/settings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fs := decode[dto.FixedCostSettingsResponse](t, resp)
	assert.Equal(t, 100, fs.MonthlyOrders)

	resp = call(t, app, http.MethodPost, "/api/fixed-costs", map[string]any{"category": "Aluguel", "name": "Sala", "amount": "1.500,00"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/fixed-costs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.FixedCostListResponse](t, resp)
	assert.Equal(t, "1500", list.MonthlyTotal.String())
	assert.Equal(t, "15", list.PerOrder.String())
}

func TestFlujoDeCaja_AltaYResumen(t *testing.T) {
	app := newAPI(t)

	resp := call(t, app, http.MethodPost, "/api/cash-flow", map[string]any{"date": "2024-03-10", "kind": "in", "amount": "1.000,00"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = call(t, app, http.MethodPost, "/api/cash-flow", map[string]any{"date": "2024-03-12", "kind": "out", "amount": 250})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = call(t, app, http.MethodPost, "/api/cash-flow", map[string]any{"date": "2024-03-12", "kind": "talvez", "amount": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/cash-flow/summary?from=2024-03-01&to=2024-03-31", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[map[string]any](t, resp)
	assert.Equal(t, "750", sum["saldo_final"])
	assert.Len(t, sum["dias"], 2)
}
