package routes

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
	"github.com/venkateshn67/warranty-verification/internal/config"
	"github.com/venkateshn67/warranty-verification/internal/keystore"
	"github.com/venkateshn67/warranty-verification/internal/localstore"
	"github.com/venkateshn67/warranty-verification/internal/metrics"
	"github.com/venkateshn67/warranty-verification/internal/middleware"
	"github.com/venkateshn67/warranty-verification/internal/notification"
	"github.com/venkateshn67/warranty-verification/internal/portal"
	"github.com/venkateshn67/warranty-verification/internal/portal/admin"
	"github.com/venkateshn67/warranty-verification/internal/portal/company"
	"github.com/venkateshn67/warranty-verification/internal/portal/customer"
	"github.com/venkateshn67/warranty-verification/internal/portal/seller"
	"github.com/venkateshn67/warranty-verification/internal/portal/servicecenter"
	"github.com/venkateshn67/warranty-verification/internal/store"
	"github.com/venkateshn67/warranty-verification/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg     config.Config
	DB      *pgxpool.Pool
	Cache   *redis.Client
	SQLite  *sql.DB
	Logger  *slog.Logger
	Metrics *metrics.Registry
	// Chain is the data source behind the blockchain service.
	Chain blockchain.Source
	// Keystore is the wallet extension; nil when no keys are configured.
	Keystore *keystore.Keystore
}

// Setup configures middlewares and all application routes, then restores
// the wallet session persisted by a previous run.
func Setup(app *fiber.App, d Deps) error {
	if d.Chain == nil {
		return fmt.Errorf("chain source is required")
	}
	// Enforce Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDev() && d.Cache == nil {
		return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	backend, err := portalBackend(ctx, d)
	if err != nil {
		return err
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	app.Use(middleware.Metrics(d.Metrics))

	// Health and metrics
	RegisterHealthRoutes(app, d)

	// Services and handlers
	chainSvc := blockchain.NewService(d.Chain, d.Logger, d.Metrics)

	var sessionStore localstore.Store = localstore.NewMemory()
	if d.Cache != nil {
		sessionStore = localstore.NewRedis(d.Cache, d.Cfg.AppName)
	}
	var ext wallet.Extension
	var controls wallet.ExtensionControls
	if d.Keystore != nil {
		ext = d.Keystore
		controls = d.Keystore
	}
	conn := wallet.NewConnection(ext, chainSvc, sessionStore, wallet.Options{
		RestoreTimeout:  d.Cfg.WalletRestoreTimeout,
		FallbackBalance: &d.Cfg.WalletFallbackBalance,
		Logger:          d.Logger,
		Metrics:         d.Metrics,
	})

	notifier := notification.NewLoggerNotifier(d.Logger)
	companySvc := company.NewService(backend, chainSvc, notifier, d.Logger, d.Metrics)
	sellerSvc := seller.NewService(backend, notifier, d.Logger, d.Metrics)
	customerSvc := customer.NewService(backend, chainSvc, notifier, d.Logger, d.Metrics)
	centerSvc := servicecenter.NewService(backend, chainSvc, notifier, d.Logger, d.Metrics)
	adminSvc := admin.NewService(backend, chainSvc, notifier, d.Logger, d.Metrics)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	connectLimiter := middleware.ConnectRateLimit(d.Cache, d.Cfg.ConnectRateLimit, d.Logger)
	RegisterWalletRoutes(api, wallet.NewHandler(conn, controls), connectLimiter, d.Cfg.IsDev())
	RegisterNetworkRoutes(api, blockchain.NewHandler(chainSvc))

	idem := middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	RegisterPortalRoutes(api, PortalHandlers{
		Directory:     portal.NewHandler(conn),
		Company:       company.NewHandler(companySvc, conn),
		Seller:        seller.NewHandler(sellerSvc),
		Customer:      customer.NewHandler(customerSvc, conn),
		ServiceCenter: servicecenter.NewHandler(centerSvc, conn),
		Admin:         admin.NewHandler(adminSvc),
	}, idem)

	snap := conn.Restore(ctx)
	d.Logger.Info("wallet session restored",
		slog.String("status", string(snap.Status)),
		slog.String("address", snap.DisplayAddress),
	)
	return nil
}

// portalBackend selects where portal records live.
func portalBackend(ctx context.Context, d Deps) (store.Backend, error) {
	switch d.Cfg.StoreDriver {
	case config.StorePostgres:
		if d.DB == nil {
			return nil, fmt.Errorf("database is required when STORE_DRIVER=%s", config.StorePostgres)
		}
		pg := store.NewPostgres(d.DB)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return pg, nil
	case config.StoreSQLite:
		if d.SQLite == nil {
			return nil, fmt.Errorf("sqlite database is required when STORE_DRIVER=%s", config.StoreSQLite)
		}
		return store.NewSQLite(ctx, d.SQLite)
	default:
		return store.NewMemory(), nil
	}
}
