package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/attunehealth/office-scheduler/cmd/mainconfig"
	"github.com/attunehealth/office-scheduler/internal/app/bootstrap"
	"github.com/attunehealth/office-scheduler/internal/appointments"
	appconfig "github.com/attunehealth/office-scheduler/internal/config"
	"github.com/attunehealth/office-scheduler/internal/notify"
	summaryworker "github.com/attunehealth/office-scheduler/internal/worker/summary"
	"github.com/attunehealth/office-scheduler/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting daily summary worker", "env", cfg.Env)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
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

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, false)
	if redisClient != nil {
		defer redisClient.Close()
	}

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	eng := bootstrap.BuildEngine(cfg, pool, redisClient, nil, logger)
	summaries := bootstrap.BuildSummaryService(cfg, eng, logger)
	notifier := notify.NewService(bootstrap.BuildEmailSender(cfg, awsCfg, logger), logger)

	workerCfg := summaryworker.Config{
		PracticeID: cfg.PracticeID,
		Configs:    eng.Practice,
		Summaries:  summaries,
		Notifier:   notifier,
		Interval:   24 * time.Hour,
		Logger:     logger,
	}
	if cfg.AppointmentAPIBaseURL != "" {
		workerCfg.Fetcher = appointments.NewSource(appointments.SourceConfig{
			BaseURL:    cfg.AppointmentAPIBaseURL,
			APIKey:     cfg.AppointmentAPIKey,
			RetryCount: cfg.AppointmentAPIRetries,
		}, eng.Normalizer, logger)
		workerCfg.Sink = eng.Appointments
	}
	worker := summaryworker.New(workerCfg)

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("summary worker exited", "error", err)
		os.Exit(1)
	}
	logger.Info("summary worker stopped")
}
