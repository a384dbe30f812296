package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	acqapp "github.com/ils/backend/internal/application/acquisition"
	"github.com/ils/backend/internal/infrastructure/config"
	"github.com/ils/backend/internal/infrastructure/event"
	"github.com/ils/backend/internal/infrastructure/logger"
	"github.com/ils/backend/internal/infrastructure/notification"
	"github.com/ils/backend/internal/infrastructure/persistence"
	"github.com/ils/backend/internal/interfaces/http/handler"
	"github.com/ils/backend/internal/interfaces/http/middleware"
	"github.com/ils/backend/internal/interfaces/http/router"
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

	log.Info("Starting ILS Acquisition Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	orderLineRepo := persistence.NewGormOrderLineRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	receiptLineRepo := persistence.NewGormReceiptLineRepository(db.DB)
	budgetRepo := persistence.NewGormBudgetRepository(db.DB)
	metricsRepo := persistence.NewGormAccountMetricsRepository(db.DB)

	// Vendor order notifications go out over SMTP when mail is configured;
	// otherwise dispatches are logged and reported as sent.
	var notifier acqapp.OrderNotifier
	if cfg.Mail.Enabled {
		notifier = notification.NewSMTPNotifier(cfg.Mail, log)
		log.Info("SMTP notifier enabled",
			zap.String("host", cfg.Mail.Host),
			zap.Int("port", cfg.Mail.Port),
		)
	} else {
		notifier = notification.NewLogNotifier(log)
	}

	// Initialize application services
	expenditure := acqapp.NewReceiptExpenditureSource(receiptLineRepo, receiptRepo)
	accountService := acqapp.NewAccountService(accountRepo, orderLineRepo, receiptRepo, budgetRepo, metricsRepo, expenditure)
	orderService := acqapp.NewOrderService(orderRepo, orderLineRepo, accountRepo, receiptRepo, notifier)
	receiptService := acqapp.NewReceiptService(receiptRepo, receiptLineRepo, orderRepo, orderLineRepo, accountRepo)
	budgetService := acqapp.NewBudgetService(budgetRepo)

	// Initialize event bus and subscribe handlers
	eventBus := event.NewBus(log, cfg.Event.BufferSize, cfg.Event.Workers)

	reindexHandler := acqapp.NewAccountReindexHandler(accountService, accountRepo, metricsRepo, log)
	eventBus.Subscribe(reindexHandler)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	accountService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	receiptService.SetEventPublisher(eventBus)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountService)
	orderHandler := handler.NewOrderHandler(orderService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	budgetHandler := handler.NewBudgetHandler(budgetService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. Organisation - Resolve the owning organisation from headers
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit())
	engine.Use(middleware.OrganisationWithConfig(middleware.OrganisationConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/api/v1/ping"},
		Logger:    log,
	}))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Register acquisition routes
	r := router.NewRouter(engine)
	r.Register(router.NewAcquisitionRoutes(accountHandler, orderHandler, receiptHandler, budgetHandler))
	r.Setup()

	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
