package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-pos-core/internal/config"
	"go-pos-core/internal/event"
	"go-pos-core/internal/handler"
	"go-pos-core/internal/kafka"
	"go-pos-core/internal/middleware"
	"go-pos-core/internal/model"
	"go-pos-core/internal/redisx"
	"go-pos-core/internal/repository"
	"go-pos-core/internal/service"
	"go-pos-core/internal/ws"
	"go-pos-core/pkg/credential"
	"go-pos-core/pkg/database"
	"go-pos-core/pkg/jwt"
	applog "go-pos-core/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	zl, err := applog.New(cfg.Logger.Level, cfg.Logger.Encoding, cfg.Server.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database)
	if err != nil {
		zl.Fatal("database connect failed", zap.Error(err))
	}
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	if err := database.Migrate(db); err != nil {
		zl.Fatal("migrate failed", zap.Error(err))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Event sinks: WebSocket hub always, Kafka when brokers are configured
	wsHub := ws.NewHub(zl.Named("ws"))
	go wsHub.Run(ctx)
	publishers := event.Multi{wsHub}

	var producer *kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, 256, zl.Named("kafka"))
		producer.Start(ctx)
		publishers = append(publishers, producer)
		zl.Info("kafka publishing enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	saleOpts := []service.SaleOption{service.WithOversellGuard(cfg.Sales.RejectOversell)}
	if cfg.Redis.Addr != "" {
		rdb := redisx.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisx.Ping(ctx, rdb); err != nil {
			zl.Warn("redis unavailable, sale idempotency disabled", zap.Error(err))
		} else {
			saleOpts = append(saleOpts, service.WithIdempotency(redisx.NewIdempotencyStore(rdb)))
		}
		defer rdb.Close()
	}

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	accountRepo := repository.NewAccountRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	adjustmentRepo := repository.NewAdjustmentRepo(db)

	hasher := credential.NewBcrypt(0)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)

	seedAdmin(accountRepo, hasher, cfg.JWT.AdminPwd, zl)

	catalogService := service.NewCatalogService(productRepo, publishers, zl.Named("catalog"))
	saleService := service.NewSaleService(db, productRepo, saleRepo, accountRepo, publishers, zl.Named("sales"), saleOpts...)
	adjustmentService := service.NewAdjustmentService(db, productRepo, adjustmentRepo, accountRepo, publishers, zl.Named("stock"))
	reportService := service.NewReportService(saleRepo, productRepo)
	accountService := service.NewAccountService(accountRepo, hasher, zl.Named("accounts"))
	authService := service.NewAuthService(accountRepo, hasher, tokens, zl.Named("auth"))

	dayLoc := cfg.Sales.Location()
	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Products:    handler.NewProductHandler(catalogService),
		Sales:       handler.NewSaleHandler(saleService, dayLoc),
		Adjustments: handler.NewAdjustmentHandler(adjustmentService),
		Reports:     handler.NewReportHandler(reportService, dayLoc),
		Accounts:    handler.NewAccountHandler(accountService),
	}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.Server.AppName,
		ErrorHandler: handler.ErrorHandler(zl.Named("http")),
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	requireAuth := middleware.RequireAuth(authService)
	handler.Register(app, handlers, requireAuth)

	// WebSocket Route, authenticated with ?token=<jwt>
	app.Use("/ws", middleware.RequireSocketAuth(authService), middleware.RequirePrivilege(model.PrivSaleView))
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			zl.Panic("listen failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}
	stop()
	if producer != nil {
		producer.WaitClosed()
	}

	zl.Info("server exited")
}

// seedAdmin creates the default admin account if it doesn't exist
func seedAdmin(accounts repository.AccountRepository, hasher credential.Hasher, password string, zl *zap.Logger) {
	_, err := accounts.FindByUsername("admin")
	if err == nil {
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		zl.Warn("admin lookup failed", zap.Error(err))
		return
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		zl.Warn("failed to hash admin password", zap.Error(err))
		return
	}

	admin := &model.Account{
		Username:     "admin",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		FirstName:    "System",
		LastName:     "Administrator",
	}
	if err := accounts.Create(admin); err != nil {
		zl.Warn("failed to create admin account", zap.Error(err))
		return
	}
	zl.Info("admin account created", zap.String("username", admin.Username))
}
