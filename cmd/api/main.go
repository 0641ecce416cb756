package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/naturalmede-api/docs"
	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/auth"
	"github.com/jhoicas/naturalmede-api/internal/application/catalog"
	"github.com/jhoicas/naturalmede-api/internal/application/customers"
	"github.com/jhoicas/naturalmede-api/internal/application/inventory"
	"github.com/jhoicas/naturalmede-api/internal/application/orders"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/application/pos"
	"github.com/jhoicas/naturalmede-api/internal/application/purchases"
	"github.com/jhoicas/naturalmede-api/internal/application/reports"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/cache"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/excel"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/messaging"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/pdf"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/naturalmede-api/internal/interfaces/http"
	"github.com/jhoicas/naturalmede-api/pkg/config"
	"github.com/jhoicas/naturalmede-api/pkg/logger"
)

const lockWait = 5 * time.Second

// @title                       Naturalmede API
// @version                     1.0
// @description                 API de back-office Naturalmede: catálogo, inventario, compras, POS, órdenes web con Wompi, auditoría y reportes.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Token JWT con prefijo "Bearer ".
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	if cfg.App.AutoMigrate {
		migrateOnStart(cfg, log)
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	store := postgres.NewStore(pool)

	// Locks e idempotencia: Redis si está configurado; si no, en memoria del proceso.
	var (
		locker      ports.Locker
		idempotency ports.IdempotencyStore
	)
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = cache.NewRedisLocker(rdb, lockWait)
		idempotency = cache.NewRedisIdempotencyStore(rdb, cfg.App.Name+":idempotency:")
		log.Info().Str("addr", cfg.Redis.Addr).Msg("locks e idempotencia en Redis")
	} else {
		locker = cache.NewLocalLocker(lockWait)
		idempotency = cache.NewMemoryIdempotencyStore()
		log.Warn().Msg("REDIS_ADDR vacío: locks e idempotencia en memoria (una sola instancia)")
	}

	var publisher ports.EventPublisher = messaging.NoopPublisher{}
	if cfg.RabbitMQ.Enabled() {
		p, err := messaging.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.App.Name, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer p.Close()
		publisher = p
	}

	recorder := audit.NewRecorder(store, publisher, log, cfg.Audit.Workers, cfg.Audit.Buffer)
	renderer := pdf.NewRenderer()
	exporter := excel.NewExporter()

	authUC := auth.NewAuthUseCase(store.Users(), recorder, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	orderUC := orders.NewUseCase(store, locker, idempotency, recorder, publisher, orders.Options{
		RequireSignature: cfg.Wompi.RequireSignature,
		CheckoutURL:      cfg.Wompi.CheckoutURL,
		Currency:         cfg.Wompi.Currency,
		PublicBaseURL:    cfg.App.PublicBaseURL,
	}, log)

	app := newApp(cfg.App, os.Stdout)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Naturalmede API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CatalogUC:   catalog.NewUseCase(store, recorder),
		CartUC:      catalog.NewCartUseCase(store),
		CustomerUC:  customers.NewUseCase(store, recorder),
		InventoryUC: inventory.NewUseCase(store, recorder, publisher, log),
		PurchaseUC:  purchases.NewUseCase(store, recorder, publisher, renderer, cfg.App.Name, log),
		POSUC:       pos.NewUseCase(store, locker, recorder, publisher, renderer, cfg.App.Name, log),
		OrderUC:     orderUC,
		AuditUC:     audit.NewUseCase(store, recorder, log),
		ReportUC:    reports.NewUseCase(store, exporter, recorder, log),
		JWTSecret:   cfg.JWT.Secret,
		ServiceName: cfg.App.Name,
		Ping:        store.Ping,
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
	recorder.Close()
	if n := recorder.Dropped(); n > 0 {
		log.Warn().Int64("dropped", n).Msg("registros de auditoría descartados")
	}

	log.Info().Msg("aplicación detenida")
}

// newApp crea la app fiber con recover y request id. En development además registra cada
// request en accessLog.
func newApp(cfg config.AppConfig, accessLog io.Writer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	if cfg.IsDevelopment() {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
			Output: accessLog,
		}))
	}
	return app
}

func migrateOnStart(cfg *config.Config, log *logger.Logger) {
	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
}
