package bootstrap

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/attunehealth/office-scheduler/internal/appointments"
	"github.com/attunehealth/office-scheduler/internal/clinicians"
	appconfig "github.com/attunehealth/office-scheduler/internal/config"
	"github.com/attunehealth/office-scheduler/internal/observability/metrics"
	"github.com/attunehealth/office-scheduler/internal/office"
	"github.com/attunehealth/office-scheduler/internal/practice"
	"github.com/attunehealth/office-scheduler/internal/preferences"
	"github.com/attunehealth/office-scheduler/internal/rules"
	"github.com/attunehealth/office-scheduler/internal/schedule"
	"github.com/attunehealth/office-scheduler/internal/summary"
	"github.com/attunehealth/office-scheduler/pkg/logging"
)

// Engine bundles the assignment engine with the stores it reads from.
type Engine struct {
	Normalizer   office.Normalizer
	Offices      *office.Store
	Clinicians   *clinicians.Store
	Rules        *rules.Store
	Preferences  *preferences.Store
	Practice     *practice.Store
	Appointments *appointments.Store
	Loader       *schedule.Loader
	Resolver     *schedule.Resolver
	Assigner     *schedule.Assigner
	Metrics      *metrics.SchedulingMetrics
}

// BuildEngine assembles the stores and the assignment engine. The redis
// client may be nil; preference reads then default-on-miss and snapshot
// caching is disabled.
func BuildEngine(cfg *appconfig.Config, pool *pgxpool.Pool, redisClient *redis.Client, m *metrics.SchedulingMetrics, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	norm := office.NewNormalizer(office.ID(cfg.DefaultOfficeID))

	officeStore := office.NewStore(pool, norm)
	clinicianStore := clinicians.NewStore(pool, norm)
	ruleStore := rules.NewStore(pool, norm)
	prefStore := preferences.NewStore(redisClient, norm)
	practiceStore := practice.NewStore(redisClient)
	apptStore := appointments.NewStore(pool, norm)

	loader := schedule.NewLoader(schedule.LoaderConfig{
		Offices:     officeStore,
		Rules:       ruleStore,
		Clinicians:  clinicianStore,
		Preferences: prefStore,
		Bookings:    apptStore,
		Cache:       redisClient,
		CacheTTL:    cfg.SnapshotCacheTTL,
		Logger:      logger,
	})
	loc, err := time.LoadLocation(cfg.PracticeTimezone)
	if err != nil {
		logger.Warn("unknown practice timezone, falling back to UTC", "timezone", cfg.PracticeTimezone)
		loc = time.UTC
	}

	resolver := schedule.NewResolver(logger, m)
	assigner := schedule.NewAssigner(loader, resolver, office.ID(cfg.VirtualOfficeID), loc, logger, m)

	return &Engine{
		Normalizer:   norm,
		Offices:      officeStore,
		Clinicians:   clinicianStore,
		Rules:        ruleStore,
		Preferences:  prefStore,
		Practice:     practiceStore,
		Appointments: apptStore,
		Loader:       loader,
		Resolver:     resolver,
		Assigner:     assigner,
		Metrics:      m,
	}
}

// BuildSummaryService wires the daily summary generator on top of an
// assembled engine.
func BuildSummaryService(cfg *appconfig.Config, eng *Engine, logger *logging.Logger) *summary.Service {
	return summary.NewService(summary.ServiceConfig{
		PracticeID: cfg.PracticeID,
		Configs:    eng.Practice,
		Records:    eng.Appointments,
		Loader:     eng.Loader,
		Assigner:   eng.Assigner,
		Resolver:   eng.Resolver,
		Logger:     logger,
		Metrics:    eng.Metrics,
	})
}
