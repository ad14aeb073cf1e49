package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"townbank/database"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string `envconfig:"DATABASE_URL"`
	DatabaseName string `envconfig:"DATABASE_NAME"`

	// HTTP API
	HTTPAddr  string        `envconfig:"HTTP_ADDR" default:":8080"`
	JWTSecret string        `envconfig:"JWT_SECRET"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// Accounts
	StartingBalance int64 `envconfig:"STARTING_BALANCE" default:"1000"`

	// Credit engine
	CreditDailyRate  float64 `envconfig:"CREDIT_DAILY_RATE" default:"0.03"`
	MaxLoanPrincipal int64   `envconfig:"MAX_LOAN_PRINCIPAL" default:"1000000"`

	// Transfer engine
	TransferMin          int64   `envconfig:"TRANSFER_MIN" default:"1"`
	TransferMax          int64   `envconfig:"TRANSFER_MAX" default:"100000"`
	TransferFeeThreshold int64   `envconfig:"TRANSFER_FEE_THRESHOLD" default:"1000"`
	TransferFeeRate      float64 `envconfig:"TRANSFER_FEE_RATE" default:"0.005"`

	// Depalka
	WagerMaxMultiplier float64 `envconfig:"WAGER_MAX_MULTIPLIER" default:"10"`

	// NATS configuration, empty disables publishing
	NATSServers string `envconfig:"NATS_SERVERS"`

	// Redis backed rate limiting, empty disables it
	RedisURL          string        `envconfig:"REDIS_URL"`
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"30"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// Discord audit channel for privileged actions
	DiscordToken   string `envconfig:"DISCORD_TOKEN"`
	AuditChannelID string `envconfig:"AUDIT_CHANNEL_ID"`

	// Scheduled day/night transitions (cron specs), empty disables them
	CycleEndDayCron   string `envconfig:"CYCLE_END_DAY_CRON"`
	CycleEndNightCron string `envconfig:"CYCLE_END_NIGHT_CRON"`
	CycleTimezone     string `envconfig:"CYCLE_TIMEZONE" default:"UTC"`

	// Metrics, exported for Prometheus scraping on /metrics
	MetricsEnabled  bool   `envconfig:"METRICS_ENABLED" default:"true"`
	MetricsExporter string `envconfig:"METRICS_EXPORTER" default:"prometheus"` // "prometheus", "console" or "none"

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// Environment
	Environment string `envconfig:"ENVIRONMENT" default:"development"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// load loads configuration from the environment, reading a .env file first when present
func load() (*Config, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if config.Environment != "test" {
		if err := config.Validate(); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// Validate checks required settings and value ranges
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
		return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.StartingBalance < 0 {
		return fmt.Errorf("STARTING_BALANCE must not be negative")
	}
	if c.CreditDailyRate <= 0 {
		return fmt.Errorf("CREDIT_DAILY_RATE must be positive")
	}
	if c.TransferMin < 1 || c.TransferMax < c.TransferMin {
		return fmt.Errorf("invalid TRANSFER_MIN/TRANSFER_MAX")
	}
	if c.TransferFeeRate < 0 {
		return fmt.Errorf("TRANSFER_FEE_RATE must not be negative")
	}
	if c.WagerMaxMultiplier < 1 {
		return fmt.Errorf("WAGER_MAX_MULTIPLIER must be at least 1")
	}
	if c.AuditChannelID != "" && c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required when AUDIT_CHANNEL_ID is set")
	}
	return nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:          "test",
		HTTPAddr:             ":0",
		JWTSecret:            "test-secret-key",
		JWTTTL:               time.Hour,
		StartingBalance:      1000,
		CreditDailyRate:      0.03,
		MaxLoanPrincipal:     1000000,
		TransferMin:          1,
		TransferMax:          100000,
		TransferFeeThreshold: 1000,
		TransferFeeRate:      0.005,
		WagerMaxMultiplier:   10,
		RateLimitRequests:    30,
		RateLimitWindow:      time.Minute,
		CycleTimezone:        "UTC",
		MetricsEnabled:       false,
		MetricsExporter:      "none",
		LogLevel:             "debug",
		LogFormat:            "text",
	}
}
