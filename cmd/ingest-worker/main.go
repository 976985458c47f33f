package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/attunehealth/office-scheduler/cmd/mainconfig"
	"github.com/attunehealth/office-scheduler/internal/appointments"
	appconfig "github.com/attunehealth/office-scheduler/internal/config"
	"github.com/attunehealth/office-scheduler/internal/office"
	"github.com/attunehealth/office-scheduler/internal/worker/ingest"
	"github.com/attunehealth/office-scheduler/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting appointment ingest worker", "env", cfg.Env)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.IngestQueueURL == "" {
		logger.Error("INGEST_QUEUE_URL is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	norm := office.NewNormalizer(office.ID(cfg.DefaultOfficeID))
	worker := ingest.New(ingest.Config{
		Queue:       ingest.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.IngestQueueURL),
		Store:       appointments.NewStore(pool, norm),
		Normalizer:  norm,
		Logger:      logger,
		MaxMessages: cfg.IngestBatchSize,
		WaitSeconds: cfg.IngestWaitSecs,
	})

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("ingest worker exited", "error", err)
		os.Exit(1)
	}
	logger.Info("ingest worker stopped")
}
