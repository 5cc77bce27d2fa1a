package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	HTTPPort    string `envconfig:"HTTP_PORT"    default:":8080"`
	GrpcPort    string `envconfig:"GRPC_PORT"    default:":50051"` // health service
	LogLevel    string `envconfig:"LOG_LEVEL"    default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT"   default:"json"`
	LogFile     string `envconfig:"LOG_FILE"`

	// SiteURL is the public origin used to build payment redirect targets.
	SiteURL string `envconfig:"SITE_URL" default:"http://localhost:3000"`

	AuthJWTSecret   string          `envconfig:"AUTH_JWT_SECRET"   required:"true"`
	StripeSecretKey string          `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	Currency        string          `envconfig:"PAYMENT_CURRENCY"  default:"usd"`
	TaxRate         decimal.Decimal `envconfig:"TAX_RATE"          default:"0.10"`

	KafkaBrokers        []string `envconfig:"KAFKA_BROKERS"`
	OrderPlacedTopic    string   `envconfig:"KAFKA_TOPIC_ORDER_PLACED"    default:"orders.placed"`
	OrderCompletedTopic string   `envconfig:"KAFKA_TOPIC_ORDER_COMPLETED" default:"orders.completed"`

	StaleOrderAfter time.Duration `envconfig:"STALE_ORDER_AFTER" default:"24h"`
	ReaperSchedule  string        `envconfig:"REAPER_SCHEDULE"   default:"@every 1h"`

	RelatedProductsLimit int `envconfig:"RELATED_PRODUCTS_LIMIT" default:"3"`
}

// Load reads an optional .env file and then the process environment.
// Missing required settings are reported as an error so startup can abort.
func Load(logger *logrus.Logger) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration from environment variables: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Infof("Configuration loaded: HTTP Port=%s, GRPC Port=%s, LogLevel=%s, SiteURL=%s", cfg.HTTPPort, cfg.GrpcPort, cfg.LogLevel, cfg.SiteURL)
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("Configuration loaded: KAFKA_BROKERS not set, order events will only be logged")
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	for name, value := range map[string]string{
		"DATABASE_URL":      c.DatabaseURL,
		"AUTH_JWT_SECRET":   c.AuthJWTSecret,
		"STRIPE_SECRET_KEY": c.StripeSecretKey,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("required key %s is empty", name)
		}
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("TAX_RATE must be in [0, 1), got %s", c.TaxRate.String())
	}
	if c.StaleOrderAfter <= 0 {
		return fmt.Errorf("STALE_ORDER_AFTER must be positive, got %s", c.StaleOrderAfter)
	}
	if c.RelatedProductsLimit <= 0 {
		return fmt.Errorf("RELATED_PRODUCTS_LIMIT must be positive, got %d", c.RelatedProductsLimit)
	}
	c.SiteURL = strings.TrimRight(c.SiteURL, "/")
	return nil
}
