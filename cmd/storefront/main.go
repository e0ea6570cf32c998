package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/storefront/internal/coordinator"
	"github.com/jcmexdev/storefront/internal/coordinator/checkoutlog"
	checkoutsqlite "github.com/jcmexdev/storefront/internal/coordinator/checkoutlog/sqlite"
	"github.com/jcmexdev/storefront/internal/order-service/catalog"
	"github.com/jcmexdev/storefront/internal/pkg/config"
	"github.com/jcmexdev/storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/storefront/internal/storefront/cli"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/service"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	offline := flag.Bool("offline", false, "serve the built-in catalog in process instead of calling API_URL")
	flag.Parse()

	cfg, err := config.LoadStorefront(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown := telemetry.ShutdownFunc(telemetry.NoopShutdown)
	if cfg.OTelEnabled {
		if shutdown, err = telemetry.SetupTracer(ctx, "storefront", cfg.OTLPEndpoint); err != nil {
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

	var (
		journal checkoutlog.Repository
		history cli.HistorySource
	)
	if cfg.CheckoutLogPath != "" {
		repo, err := checkoutsqlite.Open(cfg.CheckoutLogPath)
		if err != nil {
			slog.Error("failed to open checkout journal", "path", cfg.CheckoutLogPath, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		journal, history = repo, repo
	}

	products, orders, err := newServices(cfg, *offline)
	if err != nil {
		slog.Error("failed to build services", "error", err)
		os.Exit(1)
	}

	coord := coordinator.NewCoordinator(products, orders, journal)

	loadCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	err = coord.LoadCatalog(loadCtx)
	cancel()
	if err != nil {
		slog.Error("failed to load catalog", "api_url", cfg.APIURL, "error", err)
		os.Exit(1)
	}

	shell := cli.NewShell(coord, os.Stdin, os.Stdout)
	if history != nil {
		shell.WithHistory(history)
	}
	if err := shell.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("shell stopped", "error", err)
		os.Exit(1)
	}
}

func newServices(cfg config.Storefront, offline bool) (ports.CatalogService, ports.OrderService, error) {
	if !offline {
		svc := service.NewHTTPOrderService(service.NewClient(cfg.APIURL))
		return svc, svc, nil
	}

	c, err := catalog.Load("")
	if err != nil {
		return nil, nil, err
	}
	seed := c.Products()
	products := make([]entity.Product, len(seed))
	for i, p := range seed {
		products[i] = entity.Product{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Category:    p.Category,
			Image:       p.Image,
			Price:       p.Price,
		}
	}
	fake := service.NewFakeOrderService(products)
	slog.Info("running offline", "products", len(products))
	return fake, fake, nil
}
