package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/billing/backend/internal/application/billing"
	identityapp "github.com/billing/backend/internal/application/identity"
	reportapp "github.com/billing/backend/internal/application/report"
	"github.com/billing/backend/internal/infrastructure/auth"
	"github.com/billing/backend/internal/infrastructure/config"
	"github.com/billing/backend/internal/infrastructure/logger"
	"github.com/billing/backend/internal/infrastructure/pdf"
	"github.com/billing/backend/internal/infrastructure/persistence"
	"github.com/billing/backend/internal/interfaces/http/handler"
	"github.com/billing/backend/internal/interfaces/http/middleware"
	"github.com/billing/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting billing backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Token blacklist: Redis when enabled, otherwise in-process
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		blacklist = redisBlacklist
		log.Info("Redis token blacklist enabled", zap.String("addr", cfg.Redis.Addr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Using in-memory token blacklist, revocations are lost on restart")
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	dashboardRepo := persistence.NewGormDashboardRepository(db.DB)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	customerService := billingapp.NewCustomerService(customerRepo, invoiceRepo, log)
	invoiceRenderer := pdf.NewInvoiceRenderer(cfg.Company)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, customerRepo, invoiceRenderer, cfg.Billing, log)
	paymentService := billingapp.NewPaymentService(paymentRepo, invoiceRepo, cfg.Billing, log)
	dashboardService := reportapp.NewDashboardService(dashboardRepo, invoiceRepo, paymentRepo, log)

	// Auth middleware shared by all protected route groups
	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	})

	// Credential endpoints get a brute-force limiter
	authRateLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, "/api/v1/system/health"))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))

	// Register route groups
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewAuthHandler(authService, authRateLimiter, jwtAuth)).
		Register(handler.NewUserHandler(userService, jwtAuth)).
		Register(handler.NewCustomerHandler(customerService, invoiceService, jwtAuth)).
		Register(handler.NewInvoiceHandler(invoiceService, paymentService, jwtAuth)).
		Register(handler.NewPaymentHandler(paymentService, jwtAuth)).
		Register(handler.NewDashboardHandler(dashboardService, jwtAuth)).
		Register(handler.NewSystemHandler(cfg, db.DB))
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
