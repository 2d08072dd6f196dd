package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pulseautomarket/desking-backend/api/routes"
	"github.com/pulseautomarket/desking-backend/internal/deals"
	"github.com/pulseautomarket/desking-backend/internal/desking"
	"github.com/pulseautomarket/desking-backend/internal/vehicles"
	"github.com/pulseautomarket/desking-backend/pkg/config"
	"github.com/pulseautomarket/desking-backend/pkg/db"
	"github.com/pulseautomarket/desking-backend/pkg/logger"
	"github.com/pulseautomarket/desking-backend/pkg/metrics"
	"github.com/pulseautomarket/desking-backend/pkg/migrate"
	pkgredis "github.com/pulseautomarket/desking-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	deskingMetrics := metrics.NewDeskingMetrics(registry)

	taxes := desking.DefaultTaxTable()
	if cfg.Desking.DefaultState != "" {
		taxes.DefaultState = cfg.Desking.DefaultState
	}
	if err := taxes.Validate(); err != nil {
		logg.Error(context.Background(), "invalid tax table configuration", err)
		os.Exit(1)
	}
	pricer := desking.NewPricer(desking.DefaultPricingConfig(), nil)

	aggregator, err := deals.NewAggregator(pricer, cfg.Desking.FinanceReserveRate)
	if err != nil {
		logg.Error(context.Background(), "failed to create aggregator", err)
		os.Exit(1)
	}

	vehiclesRepo := vehicles.NewRepository(dbClient.DB())
	vehiclesService, err := vehicles.NewService(vehiclesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create vehicles service", err)
		os.Exit(1)
	}

	dealsService, err := deals.NewService(
		deals.NewRepository(dbClient.DB()),
		dbClient,
		vehiclesRepo,
		aggregator,
		pricer,
		taxes,
		deskingMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create deals service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DBPinger:     dbClient,
			Redis:        redisClient,
			HTTPMetrics:  httpMetrics,
			Gatherer:     registry,
			DealsService: dealsService,
			Vehicles:     vehiclesService,
			Pricer:       pricer,
			Taxes:        taxes,
		}),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
