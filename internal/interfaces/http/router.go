package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/seller-finance-api/internal/application/analytics"
	"github.com/jhoicas/seller-finance-api/internal/application/auth"
	"github.com/jhoicas/seller-finance-api/internal/application/cashflow"
	"github.com/jhoicas/seller-finance-api/internal/application/costs"
	"github.com/jhoicas/seller-finance-api/internal/application/fixedcosts"
	"github.com/jhoicas/seller-finance-api/internal/application/importer"
	"github.com/jhoicas/seller-finance-api/internal/application/orders"
	"github.com/jhoicas/seller-finance-api/internal/application/settings"
	"github.com/jhoicas/seller-finance-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	SettingsUC  *settings.UseCase
	OrdersUC    *orders.UseCase
	CostsUC     *costs.UseCase
	AnalyticsUC *analytics.UseCase
	FixedCosts  *fixedcosts.UseCase
	CashFlowUC  *cashflow.UseCase
	ImporterUC  *importer.UseCase
	DREPDF      DREPDFGenerator
	Location    *time.Location
	Log         *logger.Logger
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	periods := newPeriodResolver(deps.Location)

	api := app.Group("/api", RequestLogger(log))

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	st := protected.Group("/settings")
	st.Get("/", settingsHandler.List)
	st.Post("/", settingsHandler.Create)
	st.Put("/:id", settingsHandler.Update)
	st.Post("/:id/default", settingsHandler.SetDefault)
	st.Delete("/:id", settingsHandler.Delete)

	orderHandler := NewOrderHandler(deps.OrdersUC, periods)
	protected.Get("/orders", orderHandler.List)
	protected.Delete("/orders", orderHandler.Delete)

	reports := NewReportHandler(deps.AnalyticsUC, deps.DREPDF, periods)
	protected.Get("/calculations", reports.Calculate)
	protected.Get("/calculations/export.csv", reports.ExportCalculationCSV)
	protected.Get("/calculations/export.xlsx", reports.ExportCalculationXLSX)
	protected.Get("/dre", reports.DRE)
	protected.Get("/dre/export.csv", reports.ExportDRECSV)
	protected.Get("/dre/export.xlsx", reports.ExportDREXLSX)
	protected.Get("/dre/export.pdf", reports.ExportDREPDF)

	costHandler := NewCostHandler(deps.CostsUC)
	protected.Put("/costs", costHandler.Update)
	protected.Post("/costs/batch", costHandler.Batch)
	protected.Get("/costs/sync-version", costHandler.SyncVersion)

	// /settings antes de /:id
	fixedHandler := NewFixedCostHandler(deps.FixedCosts)
	fc := protected.Group("/fixed-costs")
	fc.Get("/settings", fixedHandler.GetSettings)
	fc.Put("/settings", fixedHandler.UpdateSettings)
	fc.Get("/", fixedHandler.List)
	fc.Post("/", fixedHandler.Create)
	fc.Put("/:id", fixedHandler.Update)
	fc.Delete("/:id", fixedHandler.Delete)

	protected.Post("/pricing/suggest", NewPricingHandler(deps.AnalyticsUC).Suggest)

	cashHandler := NewCashFlowHandler(deps.CashFlowUC, periods)
	cf := protected.Group("/cash-flow")
	cf.Get("/summary", cashHandler.Summary)
	cf.Get("/", cashHandler.List)
	cf.Post("/", cashHandler.Create)
	cf.Delete("/:id", cashHandler.Delete)

	importHandler := NewImportHandler(deps.ImporterUC)
	imp := protected.Group("/imports")
	imp.Post("/", importHandler.Upload)
	imp.Get("/:id", importHandler.Get)
	imp.Post("/:id/mapping", importHandler.Mapping)
	imp.Post("/:id/costs", importHandler.Costs)
	imp.Post("/:id/preview", importHandler.Preview)
	imp.Post("/:id/commit", importHandler.Commit)
	protected.Post("/tiktok/settlements/import", importHandler.ImportSettlements)
	protected.Post("/tiktok/statements/import", importHandler.ImportStatements)
}
