package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	settlementapp "github.com/marketplace/settlement/internal/application/settlement"
	"github.com/marketplace/settlement/internal/infrastructure/config"
	"github.com/marketplace/settlement/internal/infrastructure/logger"
	"github.com/marketplace/settlement/internal/infrastructure/persistence"
)

// settle runs the daily settlement batch once for a single day and exits.
// Intended for operational reruns and backfills.
func main() {
	var (
		dateFlag string
		logLevel string
		timeout  time.Duration
	)

	flag.StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD format (default: yesterday)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.DurationVar(&timeout, "timeout", 30*time.Minute, "Maximum run duration")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	location := cfg.Settlement.Location()

	targetDate := time.Now().In(location).AddDate(0, 0, -1)
	if dateFlag != "" {
		targetDate, err = time.ParseInLocation("2006-01-02", dateFlag, location)
		if err != nil {
			log.Fatal("Invalid -date value, expected YYYY-MM-DD", zap.String("date", dateFlag))
		}
	}

	gormLogLevel := logger.MapGormLogLevel(logLevel)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	settlementRepo := persistence.NewGormSettlementRepository(db.DB)
	settlementService := settlementapp.NewDailySettlementService(settlementRepo, location, log)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Info("Running settlement batch",
		zap.String("target_date", targetDate.Format("2006-01-02")),
		zap.String("timezone", location.String()),
	)

	processed, err := settlementService.RunDailySettlement(ctx, targetDate)
	if err != nil {
		log.Fatal("Settlement run failed",
			zap.String("target_date", targetDate.Format("2006-01-02")),
			zap.Int("processed", processed),
			zap.Error(err),
		)
	}

	log.Info("Settlement run finished",
		zap.String("target_date", targetDate.Format("2006-01-02")),
		zap.Int("processed", processed),
	)
}
