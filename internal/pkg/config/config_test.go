package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadStorefront_Defaults(t *testing.T) {
	cfg, err := LoadStorefront("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Empty(t, cfg.CheckoutLogPath)
	assert.False(t, cfg.OTelEnabled)
}

func TestLoadStorefront_FileThenEnv(t *testing.T) {
	path := writeFile(t, `
api_url: http://shop.local
request_timeout: 3s
checkout_log_path: /tmp/checkout.db
log_level: debug
`)
	t.Setenv("API_URL", "http://override")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := LoadStorefront(path)
	require.NoError(t, err)

	assert.Equal(t, "http://override", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "/tmp/checkout.db", cfg.CheckoutLogPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.OTelEnabled)
}

func TestLoadStorefront_BadEnv(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("OTEL_ENABLED", "maybe")

	_, err := LoadStorefront("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")
	assert.Contains(t, err.Error(), "OTEL_ENABLED")
}

func TestLoadStorefront_NonPositiveTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "0s")

	_, err := LoadStorefront("")
	assert.ErrorContains(t, err, "request timeout must be positive")
}

func TestLoadStorefront_MissingFile(t *testing.T) {
	_, err := LoadStorefront(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "config: read")
}

func TestLoadOrderService(t *testing.T) {
	path := writeFile(t, `
port: "9000"
promo_percent: 10
products_file: products.yaml
`)
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadOrderService(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 10.0, cfg.PromoPercent)
	assert.Equal(t, "products.yaml", cfg.ProductsFile)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "order-service", cfg.ServiceName)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadOrderService_PromoRange(t *testing.T) {
	t.Setenv("PROMO_PERCENT", "100")
	_, err := LoadOrderService("")
	assert.ErrorContains(t, err, "promo percent")

	t.Setenv("PROMO_PERCENT", "ten")
	_, err = LoadOrderService("")
	assert.ErrorContains(t, err, "PROMO_PERCENT")
}

func TestLoadOrderService_BadYAML(t *testing.T) {
	path := writeFile(t, "port: [unclosed")
	_, err := LoadOrderService(path)
	assert.ErrorContains(t, err, "config: parse")
}
