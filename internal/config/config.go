package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Office assignment defaults
	PracticeID        string
	DefaultOfficeID   string
	VirtualOfficeID   string
	SnapshotCacheTTL  time.Duration
	UtilizationAlert  float64
	BusinessDayStart  string
	BusinessDayEnd    string
	SlotMinutes       int
	PracticeTimezone  string

	// External practice-management API (appointment source)
	AppointmentAPIBaseURL string
	AppointmentAPIKey     string
	AppointmentAPIRetries int

	// Appointment change event ingestion
	IngestQueueURL  string
	IngestWaitSecs  int
	IngestBatchSize int
	WorkerCount     int

	// Daily summary worker
	SummaryHour         int
	SummaryPollInterval time.Duration

	// Notifications
	EmailProvider     string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	SESFromName       string
	SummaryRecipients []string

	// AWS
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// HTTP
	AdminJWTSecret     string
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		PracticeID:       getEnv("PRACTICE_ID", "default"),
		DefaultOfficeID:  getEnv("DEFAULT_OFFICE_ID", "B-1"),
		VirtualOfficeID:  getEnv("VIRTUAL_OFFICE_ID", "VIRTUAL"),
		SnapshotCacheTTL: getEnvAsDuration("SNAPSHOT_CACHE_TTL", 60*time.Second),
		UtilizationAlert: getEnvAsFloat("UTILIZATION_ALERT_THRESHOLD", 0.9),
		BusinessDayStart: getEnv("BUSINESS_DAY_START", "08:00"),
		BusinessDayEnd:   getEnv("BUSINESS_DAY_END", "18:00"),
		SlotMinutes:      getEnvAsInt("SLOT_MINUTES", 60),
		PracticeTimezone: getEnv("PRACTICE_TIMEZONE", "America/New_York"),

		AppointmentAPIBaseURL: getEnv("APPOINTMENT_API_BASE_URL", ""),
		AppointmentAPIKey:     getEnv("APPOINTMENT_API_KEY", ""),
		AppointmentAPIRetries: getEnvAsInt("APPOINTMENT_API_RETRIES", 3),

		IngestQueueURL:  getEnv("INGEST_QUEUE_URL", ""),
		IngestWaitSecs:  getEnvAsInt("INGEST_WAIT_SECONDS", 10),
		IngestBatchSize: getEnvAsInt("INGEST_BATCH_SIZE", 5),
		WorkerCount:     getEnvAsInt("WORKER_COUNT", 2),

		SummaryHour:         getEnvAsInt("SUMMARY_HOUR", 18),
		SummaryPollInterval: getEnvAsDuration("SUMMARY_POLL_INTERVAL", 5*time.Minute),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "ses"))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Attune Scheduling"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "Attune Scheduling"),
		SummaryRecipients: getEnvAsSlice("SUMMARY_RECIPIENTS", nil),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
