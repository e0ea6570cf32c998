// Package config loads process settings. Values come from an optional YAML file
// first and are then overridden by environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storefront configures the terminal storefront.
type Storefront struct {
	APIURL          string        `yaml:"api_url"`
	LogLevel        string        `yaml:"log_level"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`   // catalog load only; orders never time out
	CheckoutLogPath string        `yaml:"checkout_log_path"` // empty disables the journal
	OTLPEndpoint    string        `yaml:"otlp_endpoint"`
	OTelEnabled     bool          `yaml:"otel_enabled"`
}

// OrderService configures the reference order and catalog service.
type OrderService struct {
	Port         string  `yaml:"port"`
	RedisAddr    string  `yaml:"redis_addr"`   // empty selects the in-memory cache
	DatabaseURL  string  `yaml:"database_url"` // empty selects the in-memory store
	PromoPercent float64 `yaml:"promo_percent"`
	ProductsFile string  `yaml:"products_file"`
	LogLevel     string  `yaml:"log_level"`
	ServiceName  string  `yaml:"service_name"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	OTelEnabled  bool    `yaml:"otel_enabled"`
}

func defaultStorefront() Storefront {
	return Storefront{
		APIURL:         "http://localhost:8080",
		LogLevel:       "info",
		RequestTimeout: 10 * time.Second,
		OTLPEndpoint:   "localhost:4317",
	}
}

func defaultOrderService() OrderService {
	return OrderService{
		Port:         "8080",
		LogLevel:     "info",
		ServiceName:  "order-service",
		OTLPEndpoint: "localhost:4317",
	}
}

// LoadStorefront reads path (skipped when empty) and applies env overrides.
func LoadStorefront(path string) (Storefront, error) {
	cfg := defaultStorefront()
	if err := loadFile(path, &cfg); err != nil {
		return Storefront{}, err
	}

	var errs envErrors
	cfg.APIURL = getEnv("API_URL", cfg.APIURL)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.RequestTimeout = errs.duration("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.CheckoutLogPath = getEnv("CHECKOUT_LOG_PATH", cfg.CheckoutLogPath)
	cfg.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.OTelEnabled = errs.bool("OTEL_ENABLED", cfg.OTelEnabled)
	if err := errs.err(); err != nil {
		return Storefront{}, err
	}

	if cfg.RequestTimeout <= 0 {
		return Storefront{}, fmt.Errorf("config: request timeout must be positive, got %s", cfg.RequestTimeout)
	}
	return cfg, nil
}

// LoadOrderService reads path (skipped when empty) and applies env overrides.
func LoadOrderService(path string) (OrderService, error) {
	cfg := defaultOrderService()
	if err := loadFile(path, &cfg); err != nil {
		return OrderService{}, err
	}

	var errs envErrors
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.PromoPercent = errs.float("PROMO_PERCENT", cfg.PromoPercent)
	cfg.ProductsFile = getEnv("PRODUCTS_FILE", cfg.ProductsFile)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.ServiceName = getEnv("OTEL_SERVICE_NAME", cfg.ServiceName)
	cfg.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.OTelEnabled = errs.bool("OTEL_ENABLED", cfg.OTelEnabled)
	if err := errs.err(); err != nil {
		return OrderService{}, err
	}

	if cfg.PromoPercent < 0 || cfg.PromoPercent >= 100 {
		return OrderService{}, fmt.Errorf("config: promo percent must be in [0, 100), got %v", cfg.PromoPercent)
	}
	return cfg, nil
}

func loadFile(path string, into any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envErrors collects parse failures so every bad variable is reported at once.
type envErrors []error

func (e *envErrors) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*e = append(*e, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func (e *envErrors) bool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*e = append(*e, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

func (e *envErrors) float(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*e = append(*e, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return f
}

func (e envErrors) err() error {
	if len(e) == 0 {
		return nil
	}
	return fmt.Errorf("config: invalid environment: %w", errors.Join(e...))
}
