package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/seller-finance-api/internal/application/analytics"
	"github.com/jhoicas/seller-finance-api/internal/application/auth"
	"github.com/jhoicas/seller-finance-api/internal/application/cashflow"
	"github.com/jhoicas/seller-finance-api/internal/application/costs"
	"github.com/jhoicas/seller-finance-api/internal/application/fixedcosts"
	"github.com/jhoicas/seller-finance-api/internal/application/importer"
	"github.com/jhoicas/seller-finance-api/internal/application/orders"
	"github.com/jhoicas/seller-finance-api/internal/application/ports"
	"github.com/jhoicas/seller-finance-api/internal/application/settings"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/cache"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/seller-finance-api/internal/infrastructure/pdf"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/postgres"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/spreadsheet"
	httpRouter "github.com/jhoicas/seller-finance-api/internal/interfaces/http"
	"github.com/jhoicas/seller-finance-api/pkg/config"
	"github.com/jhoicas/seller-finance-api/pkg/logger"
)

// storage repositorios de la aplicación, sobre PostgreSQL o en memoria.
type storage struct {
	users             repository.UserRepository
	orders            repository.OrderRepository
	settings          repository.SettingsRepository
	fixedCosts        repository.FixedCostRepository
	fixedCostSettings repository.FixedCostSettingsRepository
	settlements       repository.TikTokSettlementRepository
	statements        repository.TikTokStatementRepository
	cashFlow          repository.CashFlowRepository
	tx                ports.TxRunner
	close             func()
}

// kvStore contador de sincronización de costos y caché de configuraciones.
type kvStore interface {
	ports.SyncVersionStore
	ports.SettingsCache
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.close()

	var kv kvStore
	if cfg.Redis.Enabled {
		rs := cache.NewRedisStore(cfg.Redis, cfg.Finance.SettingsTTL, log)
		defer rs.Close()
		kv = rs
	} else {
		kv = cache.NewMemoryStore(cfg.Finance.SettingsTTL)
	}

	loc := cfg.App.Location()
	settingsUC := settings.New(store.settings, store.tx, kv)
	costsUC := costs.New(store.orders, kv, cfg.Finance.CostDebounce, log)
	importerUC := importer.New(importer.Deps{
		Orders:   store.orders,
		Tx:       store.tx,
		Parser:   spreadsheet.NewParser(),
		Sessions: importer.NewSessionStore(cfg.Import.SessionTTL),
		Location: loc,
		Log:      log,
	})
	go importerUC.Janitor(ctx, time.Minute)

	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.Import.MaxUploadMB * 1024 * 1024,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Seller Finance API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.Storage})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		SettingsUC: settingsUC,
		OrdersUC:   orders.New(store.orders, cfg.Finance.PageSize),
		CostsUC:    costsUC,
		AnalyticsUC: analytics.New(analytics.Deps{
			Orders:            store.orders,
			Settlements:       store.settlements,
			Statements:        store.statements,
			FixedCosts:        store.fixedCosts,
			FixedCostSettings: store.fixedCostSettings,
			Settings:          settingsUC,
			PendingCosts:      costsUC,
			PageSize:          cfg.Finance.PageSize,
		}),
		FixedCosts: fixedcosts.New(store.fixedCosts, store.fixedCostSettings),
		CashFlowUC: cashflow.New(store.cashFlow, cfg.Finance.PageSize, loc),
		ImporterUC: importerUC,
		DREPDF:     infrapdf.NewDREGenerator(),
		Location:   loc,
		Log:        log,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// escrituras de costo agendadas que aún no vencieron
	if n := costsUC.Pending(); n > 0 {
		log.Info().Int("pending", n).Msg("confirmando costos pendientes")
	}
	costsUC.Flush()

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.Storage == "memory" {
		m := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			users:             m.Users(),
			orders:            m.Orders(),
			settings:          m.Settings(),
			fixedCosts:        m.FixedCosts(),
			fixedCostSettings: m.FixedCostSettings(),
			settlements:       m.Settlements(),
			statements:        m.Statements(),
			cashFlow:          m.CashFlow(),
			tx:                m.TxRunner(),
			close:             func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool, log); err != nil {
		pool.Close()
		return nil, err
	}
	return &storage{
		users:             postgres.NewUserRepository(pool),
		orders:            postgres.NewOrderRepository(pool),
		settings:          postgres.NewSettingsRepository(pool),
		fixedCosts:        postgres.NewFixedCostRepository(pool),
		fixedCostSettings: postgres.NewFixedCostSettingsRepository(pool),
		settlements:       postgres.NewSettlementRepository(pool),
		statements:        postgres.NewStatementRepository(pool),
		cashFlow:          postgres.NewCashFlowRepository(pool),
		tx:                postgres.NewTxRunner(pool),
		close:             pool.Close,
	}, nil
}
