package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Payroll calculation settings. Injected into the generator, calculator
	// and executor constructors; never read from ambient globals.
	PlatformFeeRate    decimal.Decimal // percentage of gross charged as platform fee
	DefaultTaxRate     decimal.Decimal // fallback when the jurisdiction lookup is unresolved
	OvertimeMultiplier decimal.Decimal // overtime hours are costed at rate * multiplier
	MinimumPayout      decimal.Decimal // items with net below this are skipped, not failed
	AllowSelfApproval  bool            // separation of duties is enforced unless set
	CurrencyCode       string
	PaymentConcurrency int // parallel worker groups during payment execution

	// Payment provider endpoint used by the HTTP transfer client.
	PaymentAPIBaseURL string
	PaymentAPIKey     string

	// Optional JSON file of per-worker withholding rates. Workers absent
	// from it fall back to DefaultTaxRate.
	TaxTablePath string

	// Rate limit applied to the processing endpoints, in ulule/limiter
	// notation (e.g. "30-M" for 30 requests per minute).
	ProcessRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("PLATFORM_FEE_RATE", "10")
	viper.SetDefault("DEFAULT_TAX_RATE", "0")
	viper.SetDefault("OVERTIME_MULTIPLIER", "1.5")
	viper.SetDefault("MINIMUM_PAYOUT", "1.00")
	viper.SetDefault("ALLOW_SELF_APPROVAL", false)
	viper.SetDefault("CURRENCY_CODE", "USD")
	viper.SetDefault("PAYMENT_CONCURRENCY", 4)
	viper.SetDefault("PAYMENT_API_BASE_URL", "")
	viper.SetDefault("PAYMENT_API_KEY", "")
	viper.SetDefault("TAX_TABLE_PATH", "")
	viper.SetDefault("PROCESS_RATE_LIMIT", "30-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	var err error
	if cfg.PlatformFeeRate, err = parseRate("PLATFORM_FEE_RATE"); err != nil {
		return nil, err
	}
	if cfg.DefaultTaxRate, err = parseRate("DEFAULT_TAX_RATE"); err != nil {
		return nil, err
	}
	if cfg.OvertimeMultiplier, err = parseRate("OVERTIME_MULTIPLIER"); err != nil {
		return nil, err
	}
	if cfg.MinimumPayout, err = parseRate("MINIMUM_PAYOUT"); err != nil {
		return nil, err
	}

	cfg.AllowSelfApproval = viper.GetBool("ALLOW_SELF_APPROVAL")
	cfg.CurrencyCode = viper.GetString("CURRENCY_CODE")

	cfg.PaymentConcurrency = viper.GetInt("PAYMENT_CONCURRENCY")
	if cfg.PaymentConcurrency < 1 {
		cfg.PaymentConcurrency = 1
	}

	cfg.PaymentAPIBaseURL = viper.GetString("PAYMENT_API_BASE_URL")
	if cfg.PaymentAPIBaseURL == "" {
		log.Println("Warning: PAYMENT_API_BASE_URL not set. Payment transfers will not function.")
	}
	cfg.PaymentAPIKey = viper.GetString("PAYMENT_API_KEY")
	cfg.TaxTablePath = viper.GetString("TAX_TABLE_PATH")

	cfg.ProcessRateLimit = viper.GetString("PROCESS_RATE_LIMIT")

	return cfg, nil
}

func parseRate(key string) (decimal.Decimal, error) {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	return d, nil
}
