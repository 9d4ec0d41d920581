package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port         string
	DatabasePath string
	LogLevel     string

	// Indexer client settings.
	IndexerBaseURL        string
	IndexerTimeout        time.Duration
	IndexerRequestsPerSec float64
	PageSize              int

	// The observed account and the history window to analyze.
	AccountAddress string
	AfterDate      string // RFC3339, optional
	BeforeDate     string // RFC3339, optional

	// Classification heuristics, see the classifier for what they mean.
	PaymentThresholdMicroAlgos uint64
	SkipNotedPayments          bool

	// Output sink paths.
	ResultsPath string
	ReportPath  string

	// Cache TTLs for analysis results served over HTTP.
	ResultCacheExpiration time.Duration
	ResultCacheCleanup    time.Duration
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	indexerTimeoutStr := getEnv("INDEXER_TIMEOUT", "20s")
	indexerTimeout, err := time.ParseDuration(indexerTimeoutStr)
	if err != nil {
		log.Printf("WARNING: Invalid INDEXER_TIMEOUT format '%s'. Using default 20s. Error: %v", indexerTimeoutStr, err)
		indexerTimeout = 20 * time.Second
	}

	resultCacheExpiryStr := getEnv("RESULT_CACHE_EXPIRATION", "15m")
	resultCacheExpiry, err := time.ParseDuration(resultCacheExpiryStr)
	if err != nil {
		log.Printf("WARNING: Invalid RESULT_CACHE_EXPIRATION format '%s'. Using default 15m. Error: %v", resultCacheExpiryStr, err)
		resultCacheExpiry = 15 * time.Minute
	}

	Cfg = &AppConfig{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./algotax.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		IndexerBaseURL:        getEnv("INDEXER_BASE_URL", "https://algoindexer.algoexplorerapi.io"),
		IndexerTimeout:        indexerTimeout,
		IndexerRequestsPerSec: getEnvAsFloat("INDEXER_REQUESTS_PER_SEC", 4.0),
		PageSize:              getEnvAsInt("INDEXER_PAGE_SIZE", 50),

		AccountAddress: getEnv("ACCOUNT_ADDRESS", ""),
		AfterDate:      getEnv("AFTER_DATE", ""),
		BeforeDate:     getEnv("BEFORE_DATE", ""),

		PaymentThresholdMicroAlgos: getEnvAsUint64("PAYMENT_THRESHOLD_MICROALGOS", 2000),
		SkipNotedPayments:          getEnvAsBool("SKIP_NOTED_PAYMENTS", true),

		ResultsPath: getEnv("RESULTS_PATH", "results.csv"),
		ReportPath:  getEnv("REPORT_PATH", "report.json"),

		ResultCacheExpiration: resultCacheExpiry,
		ResultCacheCleanup:    2 * resultCacheExpiry,
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, Indexer=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.IndexerBaseURL)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
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

func getEnvAsUint64(key string, fallback uint64) uint64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseUint(valueStr, 10, 64); err == nil {
		return value
	}
	log.Printf("Invalid unsigned integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
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
	log.Printf("Invalid float value for %s ('%s'), using default: %f", key, valueStr, fallback)
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid boolean value for %s ('%s'), using default: %t", key, valueStr, fallback)
	return fallback
}
