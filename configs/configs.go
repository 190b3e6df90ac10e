// Package configs provides application configuration loaded from environment variables.
// All configuration is externalized via environment variables for 12-factor app compliance.
package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all application configuration.
// Load it once at startup using Load().
type AppConfig struct {
	// DBDSN is the Postgres connection string.
	DBDSN string

	// ServerPort is the port the HTTP API listens on.
	ServerPort string

	// Sources contains the upstream price source endpoints.
	Sources SourcesConfig

	// Aggregation contains price aggregation settings.
	Aggregation AggregationConfig

	// Resilience contains retry and circuit breaker tuning for upstream fetches.
	Resilience ResilienceConfig

	// Settlement contains trade settlement tuning.
	Settlement SettlementConfig

	// Kafka contains the optional trade event stream settings.
	// Publishing is disabled when Broker is empty.
	Kafka KafkaConfig
}

// SourcesConfig holds upstream price source endpoints.
type SourcesConfig struct {
	// BinanceURL is the Binance book ticker endpoint.
	BinanceURL string

	// HuobiURL is the Huobi market tickers endpoint.
	HuobiURL string

	// FetchTimeout is the per-request timeout for upstream calls.
	FetchTimeout time.Duration

	// RequestsPerSecond limits outbound calls per source.
	RequestsPerSecond float64
}

// AggregationConfig holds price aggregation settings.
type AggregationConfig struct {
	// SupportedSymbols is the set of symbols the aggregator tracks
	// (comma-separated in env).
	SupportedSymbols []string

	// QuoteCurrency is the settlement currency shared by all symbols,
	// e.g. "USDT" in "BTCUSDT".
	QuoteCurrency string

	// Interval is the aggregation cycle period.
	Interval time.Duration
}

// ResilienceConfig holds retry and circuit breaker tuning.
type ResilienceConfig struct {
	// RetryMaxAttempts is the number of attempts per upstream fetch.
	RetryMaxAttempts int

	// RetryBaseDelay is the base delay for exponential backoff.
	RetryBaseDelay time.Duration

	// BreakerMaxFailures is the consecutive failure count that opens a breaker.
	BreakerMaxFailures int

	// BreakerCooldown is how long an open breaker waits before probing half-open.
	BreakerCooldown time.Duration
}

// SettlementConfig holds trade settlement tuning.
type SettlementConfig struct {
	// MaxAttempts bounds the optimistic-lock retry loop per settlement.
	MaxAttempts int

	// RetryBaseDelay is the base delay between settlement retries.
	RetryBaseDelay time.Duration
}

// KafkaConfig holds Kafka connection settings for the trade event stream.
type KafkaConfig struct {
	// Broker is the Kafka broker address (e.g., "localhost:9092").
	Broker string

	// Topic is the Kafka topic executed trades are published to.
	Topic string
}

// getDatabaseDSN constructs the Postgres DSN from environment variables.
func getDatabaseDSN() string {
	dbUser := getEnv("POSTGRES_USER", "pricehub")
	dbPassword := getEnv("POSTGRES_PASSWORD", "pricehub")
	dbHost := getEnv("POSTGRES_HOST", "localhost")
	dbPort := getEnv("POSTGRES_PORT", "5432")
	dbName := getEnv("POSTGRES_DB", "pricehub")
	sslMode := getEnv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbHost, dbUser, dbPassword, dbName, dbPort, sslMode,
	)
}

// Load reads configuration from the environment, falling back to defaults.
// A .env file is honored when present.
func Load() *AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &AppConfig{
		DBDSN:      getDatabaseDSN(),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Sources: SourcesConfig{
			BinanceURL:        getEnv("BINANCE_URL", "https://api.binance.com/api/v3/ticker/bookTicker"),
			HuobiURL:          getEnv("HUOBI_URL", "https://api.huobi.pro/market/tickers"),
			FetchTimeout:      getEnvDuration("SOURCE_FETCH_TIMEOUT", 5*time.Second),
			RequestsPerSecond: getEnvFloat("SOURCE_REQUESTS_PER_SECOND", 5.0),
		},
		Aggregation: AggregationConfig{
			SupportedSymbols: getEnvList("SUPPORTED_SYMBOLS", []string{"BTCUSDT", "ETHUSDT"}),
			QuoteCurrency:    getEnv("QUOTE_CURRENCY", "USDT"),
			Interval:         getEnvDuration("AGGREGATION_INTERVAL", 10*time.Second),
		},
		Resilience: ResilienceConfig{
			RetryMaxAttempts:   getEnvInt("FETCH_RETRY_MAX_ATTEMPTS", 3),
			RetryBaseDelay:     getEnvDuration("FETCH_RETRY_BASE_DELAY", 500*time.Millisecond),
			BreakerMaxFailures: getEnvInt("BREAKER_MAX_FAILURES", 5),
			BreakerCooldown:    getEnvDuration("BREAKER_COOLDOWN", 30*time.Second),
		},
		Settlement: SettlementConfig{
			MaxAttempts:    getEnvInt("SETTLEMENT_MAX_ATTEMPTS", 3),
			RetryBaseDelay: getEnvDuration("SETTLEMENT_RETRY_BASE_DELAY", 50*time.Millisecond),
		},
		Kafka: KafkaConfig{
			Broker: getEnv("KAFKA_BROKER", ""),
			Topic:  getEnv("KAFKA_TRADE_TOPIC", "pricehub.trades"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("Invalid integer for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
		log.Printf("Invalid float for %s, using default %f", key, defaultValue)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		log.Printf("Invalid duration for %s, using default %s", key, defaultValue)
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, strings.ToUpper(trimmed))
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
