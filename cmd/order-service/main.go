package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/storefront/internal/order-service/app"
	"github.com/jcmexdev/storefront/internal/order-service/catalog"
	"github.com/jcmexdev/storefront/internal/order-service/httpx"
	"github.com/jcmexdev/storefront/internal/order-service/store/memory"
	"github.com/jcmexdev/storefront/internal/order-service/store/postgres"
	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/pkg/config"
	"github.com/jcmexdev/storefront/internal/pkg/telemetry"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.LoadOrderService(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown := telemetry.ShutdownFunc(telemetry.NoopShutdown)
	if cfg.OTelEnabled {
		if shutdown, err = telemetry.SetupTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint); err != nil {
			slog.Error("failed to initialise tracer", "error", err)
			os.Exit(1)
		}
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	products, err := catalog.Load(cfg.ProductsFile)
	if err != nil {
		slog.Error("failed to load catalog", "file", cfg.ProductsFile, "error", err)
		os.Exit(1)
	}

	var orders app.OrderRepository = memory.NewRepository()
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		repo := postgres.NewRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			slog.Error("failed to migrate", "error", err)
			os.Exit(1)
		}
		orders = repo
	}

	idem := cache.NewMemoryCache("order")
	if cfg.RedisAddr != "" {
		idem = cache.NewRedisCache(cfg.RedisAddr, "order")
	}
	defer idem.Close()

	svc := app.NewOrderService(products, orders, idem, cfg.PromoPercent)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpx.NewRouter(httpx.NewHandler(svc)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown error", "error", err)
		}
	}()

	slog.Info("order service running",
		"addr", srv.Addr,
		"products", len(products.Products()),
		"promo_percent", cfg.PromoPercent,
		"postgres", cfg.DatabaseURL != "",
		"redis", cfg.RedisAddr != "",
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}
