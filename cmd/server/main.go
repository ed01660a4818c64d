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

	settlementapp "github.com/marketplace/settlement/internal/application/settlement"
	"github.com/marketplace/settlement/internal/infrastructure/config"
	"github.com/marketplace/settlement/internal/infrastructure/logger"
	"github.com/marketplace/settlement/internal/infrastructure/persistence"
	"github.com/marketplace/settlement/internal/infrastructure/scheduler"
	"github.com/marketplace/settlement/internal/interfaces/http/handler"
	"github.com/marketplace/settlement/internal/interfaces/http/middleware"
	"github.com/marketplace/settlement/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting settlement engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("timezone", cfg.Settlement.Timezone),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Settlement batch wiring
	location := cfg.Settlement.Location()
	settlementRepo := persistence.NewGormSettlementRepository(db.DB)
	settlementService := settlementapp.NewDailySettlementService(settlementRepo, location, log)

	// Scheduler and daily trigger (if enabled)
	var cronTrigger *scheduler.CronTrigger
	if cfg.Scheduler.Enabled {
		schedulerConfig := scheduler.Config{
			WorkerCount: cfg.Scheduler.WorkerCount,
			QueueSize:   cfg.Scheduler.QueueSize,
			JobTimeout:  cfg.Scheduler.JobTimeout,
		}
		executor := scheduler.NewSettlementExecutor(settlementService, log)
		batchScheduler := scheduler.NewScheduler(schedulerConfig, executor, log)
		if err := batchScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start settlement scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := batchScheduler.Stop(stopCtx); err != nil {
				log.Error("Error stopping settlement scheduler", zap.Error(err))
			}
		}()

		triggerConfig := scheduler.CronTriggerConfig{
			DailyRunHour:   cfg.Scheduler.DailyRunHour,
			DailyRunMinute: cfg.Scheduler.DailyRunMinute,
			CheckInterval:  time.Minute,
			Location:       location,
		}
		cronTrigger = scheduler.NewCronTrigger(triggerConfig, batchScheduler, log)
		if err := cronTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start settlement cron trigger", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := cronTrigger.Stop(stopCtx); err != nil {
				log.Error("Error stopping settlement cron trigger", zap.Error(err))
			}
		}()

		log.Info("Settlement scheduler started",
			zap.Int("daily_run_hour", cfg.Scheduler.DailyRunHour),
			zap.Int("daily_run_minute", cfg.Scheduler.DailyRunMinute),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
		)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS())

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewSettlementHandler(settlementService, location, log))
	r.Register(handler.NewSystemHandler(db))
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

// healthHandler returns a handler for the root health check endpoint
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
