package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/parkline-app/parkline-backend/api/routes"
	"github.com/parkline-app/parkline-backend/internal/auth"
	"github.com/parkline-app/parkline-backend/internal/dispatch"
	"github.com/parkline-app/parkline-backend/internal/drivers"
	"github.com/parkline-app/parkline-backend/internal/reports"
	"github.com/parkline-app/parkline-backend/internal/tickets"
	"github.com/parkline-app/parkline-backend/internal/users"
	"github.com/parkline-app/parkline-backend/internal/vehicles"
	"github.com/parkline-app/parkline-backend/pkg/config"
	"github.com/parkline-app/parkline-backend/pkg/db"
	"github.com/parkline-app/parkline-backend/pkg/logger"
	"github.com/parkline-app/parkline-backend/pkg/metrics"
	"github.com/parkline-app/parkline-backend/pkg/migrate"
	"github.com/parkline-app/parkline-backend/pkg/redis"
)

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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	metricsReg := prometheus.NewRegistry()
	metricsReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ticketMetrics := metrics.NewTicketMetrics(metricsReg)

	userRepo := users.NewRepository(dbClient.DB())
	vehicleRepo := vehicles.NewRepository(dbClient.DB())
	profileRepo := drivers.NewRepository(dbClient.DB())
	ticketRepo := tickets.NewRepository(dbClient.DB())
	dispatchRepo := dispatch.NewRepository(dbClient.DB())
	reportsRepo := reports.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:    userRepo,
		ProfileRepo: profileRepo,
		Tx:          dbClient,
		JWTConfig:   cfg.JWT,
		PasswordCfg: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	vehicleService, err := vehicles.NewService(vehicleRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create vehicle service", err)
		os.Exit(1)
	}

	allocator, err := tickets.NewAllocator(cfg.Site, ticketRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create spot allocator", err)
		os.Exit(1)
	}

	ticketService, err := tickets.NewService(ticketRepo, vehicleRepo, allocator, cfg.Site, ticketMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create ticket service", err)
		os.Exit(1)
	}

	driverService, err := drivers.NewService(profileRepo, userRepo, dbClient, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create driver service", err)
		os.Exit(1)
	}

	dispatchService, err := dispatch.NewService(dispatchRepo, driverService, ticketMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create dispatch service", err)
		os.Exit(1)
	}

	reportService, err := reports.NewService(reportsRepo, driverService, cfg.Site)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
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
		"site": cfg.Site.Name,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, metricsReg, routes.Services{
			Auth:     authService,
			Tickets:  ticketService,
			Vehicles: vehicleService,
			Dispatch: dispatchService,
			Drivers:  driverService,
			Reports:  reportService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
