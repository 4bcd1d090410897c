package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	LogLevel string

	// Pipeline directories.
	StatementsDir string
	OutputDir     string
	DatabasePath  string

	// Reference-data services.
	RefDataBaseURL      string
	RefDataAPIKey       string
	FxIndicatorURL      string
	RefDataRateInterval time.Duration
	RefDataCacheTTL     time.Duration
	FxCacheTTL          time.Duration
	RefDataBatchSize    int

	// Empirically tuned matching/filtering constants. Exposed as config so
	// they can be recalibrated against a statement corpus without a rebuild.
	NameMatchThreshold    float64
	DisclaimerEmptyRatio  float64
	DisclaimerMinTextLen  int

	TransformTimeout time.Duration

	// Optional failure-notification settings.
	EmailServiceProvider string // "mailgun", "smtp" or "" (disabled)
	SMTPServer           string
	SMTPPort             int
	SMTPUser             string
	SMTPPassword         string
	MailgunDomain        string
	MailgunPrivateAPIKey string
	SenderEmail          string
	SenderName           string
	NotifyEmail          string
}

var Cfg *AppConfig

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", err)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	Cfg = &AppConfig{
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		StatementsDir: getEnv("STATEMENTS_DIR", "./statements"),
		OutputDir:     getEnv("OUTPUT_DIR", "./output"),
		DatabasePath:  getEnv("DATABASE_PATH", "./aurum.db"),

		RefDataBaseURL:      getEnv("REFDATA_BASE_URL", "https://api.openfigi.com/v3"),
		RefDataAPIKey:       getEnv("REFDATA_API_KEY", ""),
		FxIndicatorURL:      getEnv("FX_INDICATOR_URL", "https://mindicador.cl/api"),
		RefDataRateInterval: getEnvAsDuration("REFDATA_RATE_INTERVAL", 350*time.Millisecond),
		RefDataCacheTTL:     getEnvAsDuration("REFDATA_CACHE_TTL", 24*time.Hour),
		FxCacheTTL:          getEnvAsDuration("FX_CACHE_TTL", 6*time.Hour),
		RefDataBatchSize:    getEnvAsInt("REFDATA_BATCH_SIZE", 100),

		NameMatchThreshold:   getEnvAsFloat("NAME_MATCH_THRESHOLD", 0.6),
		DisclaimerEmptyRatio: getEnvAsFloat("DISCLAIMER_EMPTY_RATIO", 0.9),
		DisclaimerMinTextLen: getEnvAsInt("DISCLAIMER_MIN_TEXT_LEN", 100),

		TransformTimeout: getEnvAsDuration("TRANSFORM_TIMEOUT", 10*time.Minute),

		EmailServiceProvider: getEnv("EMAIL_SERVICE_PROVIDER", ""),
		SMTPServer:           getEnv("SMTP_SERVER", ""),
		SMTPPort:             getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:             getEnv("SMTP_USER", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		MailgunDomain:        getEnv("MAILGUN_DOMAIN", ""),
		MailgunPrivateAPIKey: getEnv("MAILGUN_PRIVATE_API_KEY", ""),
		SenderEmail:          getEnv("SENDER_EMAIL", "noreply@example.com"),
		SenderName:           getEnv("SENDER_NAME", "Statement Pipeline"),
		NotifyEmail:          getEnv("NOTIFY_EMAIL", ""),
	}

	if Cfg.EmailServiceProvider == "mailgun" {
		if Cfg.MailgunDomain == "" || Cfg.MailgunPrivateAPIKey == "" {
			log.Println("WARNING: EMAIL_SERVICE_PROVIDER is 'mailgun' but MAILGUN_DOMAIN/MAILGUN_PRIVATE_API_KEY are not set. Notifications disabled.")
			Cfg.EmailServiceProvider = ""
		}
	}
	if Cfg.RefDataAPIKey == "" {
		log.Println("WARNING: REFDATA_API_KEY not set. Reference lookups will degrade to static keyword classification.")
	}

	log.Printf("Configuration loaded: LogLevel=%s, StatementsDir=%s, OutputDir=%s, DBPath=%s",
		Cfg.LogLevel, Cfg.StatementsDir, Cfg.OutputDir, Cfg.DatabasePath)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid float value for %s ('%s'), using default: %g", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
