package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/satriojati/loan-ledger/internal/config"
	"github.com/satriojati/loan-ledger/internal/repository"
)

// The scheduler binary only observes the ledger: it flags loans with overdue
// installments in Redis for downstream consumers. It never mutates loan or
// installment state.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	installmentRepo := repository.NewInstallmentRepository(db)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Fatal("Invalid scheduler timezone", zap.Error(err))
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	_, err = c.AddFunc(cfg.Scheduler.OverdueCron, func() {
		scanOverdueInstallments(installmentRepo, redisClient, logger)
	})
	if err != nil {
		logger.Fatal("Failed to schedule overdue scan job", zap.Error(err))
	}

	c.Start()
	logger.Info("Scheduler started", zap.String("overdue_cron", cfg.Scheduler.OverdueCron))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down scheduler...")
	c.Stop()
	logger.Info("Scheduler stopped")
}

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func scanOverdueInstallments(installmentRepo repository.InstallmentRepository, redisClient *redis.Client, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	overdue, err := installmentRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		logger.Error("Overdue scan failed", zap.Error(err))
		return
	}

	flagged := make(map[string]int)
	for _, installment := range overdue {
		flagged[installment.LoanID.String()]++
	}

	for loanID, count := range flagged {
		key := "loan:overdue:" + loanID
		if err := redisClient.Set(ctx, key, count, 48*time.Hour).Err(); err != nil {
			logger.Error("Failed to flag overdue loan",
				zap.String("loan_id", loanID),
				zap.Error(err),
			)
			continue
		}
		logger.Info("Flagged overdue loan",
			zap.String("loan_id", loanID),
			zap.Int("overdue_installments", count),
		)
	}

	logger.Info("Overdue scan finished",
		zap.Int("overdue_installments", len(overdue)),
		zap.Int("loans_flagged", len(flagged)),
	)
}
