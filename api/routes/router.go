package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parkline-app/parkline-backend/api/controllers"
	"github.com/parkline-app/parkline-backend/api/middleware"
	"github.com/parkline-app/parkline-backend/internal/auth"
	"github.com/parkline-app/parkline-backend/internal/dispatch"
	"github.com/parkline-app/parkline-backend/internal/drivers"
	"github.com/parkline-app/parkline-backend/internal/reports"
	"github.com/parkline-app/parkline-backend/internal/tickets"
	"github.com/parkline-app/parkline-backend/internal/vehicles"
	"github.com/parkline-app/parkline-backend/pkg/config"
	"github.com/parkline-app/parkline-backend/pkg/enums"
	"github.com/parkline-app/parkline-backend/pkg/logger"
	"github.com/parkline-app/parkline-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Auth     auth.Service
	Tickets  tickets.Service
	Vehicles vehicles.Service
	Dispatch dispatch.Service
	Drivers  drivers.Service
	Reports  reports.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	metricsReg *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if metricsReg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsReg, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/me", controllers.AuthMe(svcs.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/tickets", func(r chi.Router) {
			r.Post("/", controllers.TicketCreate(svcs.Tickets, logg))
			r.Get("/active", controllers.TicketListActive(svcs.Tickets, logg))
			r.Get("/history", controllers.TicketHistory(svcs.Tickets, logg))
			r.Post("/retrieve", controllers.TicketRequestRetrieval(svcs.Tickets, logg))
			r.Post("/bulk-complete", controllers.TicketBulkComplete(svcs.Tickets, logg))
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Post("/", controllers.VehicleAdd(svcs.Vehicles, logg))
			r.Get("/", controllers.VehicleList(svcs.Vehicles, logg))
			r.Get("/{vehicleId}", controllers.VehicleGet(svcs.Vehicles, logg))
		})

		r.Route("/driver", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleDriver))
			r.Get("/jobs", controllers.DriverAvailableJobs(svcs.Dispatch, logg))
			r.Get("/jobs/current", controllers.DriverCurrentJob(svcs.Dispatch, logg))
			r.Get("/jobs/history", controllers.DriverJobHistory(svcs.Dispatch, logg))
			r.Post("/jobs/{ticketId}/accept", controllers.DriverAcceptJob(svcs.Dispatch, logg))
			r.Patch("/jobs/{ticketId}/status", controllers.DriverUpdateJobStatus(svcs.Dispatch, logg))
		})

		r.Route("/manager", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleManager))
			r.Get("/stats", controllers.ManagerStats(svcs.Reports, logg))
			r.Get("/summary", controllers.ManagerSummary(svcs.Reports, logg))
			r.Get("/operations", controllers.ManagerRecentOperations(svcs.Reports, logg))
			r.Get("/drivers", controllers.ManagerListDrivers(svcs.Drivers, logg))
			r.Post("/drivers", controllers.ManagerRegisterDriver(svcs.Drivers, logg))
			r.Post("/tickets/{ticketId}/assign/{driverId}", controllers.ManagerAssignValet(svcs.Dispatch, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleSuperAdmin))
			r.Get("/stats", controllers.AdminStats(svcs.Reports, logg))
			r.Get("/summary", controllers.AdminSummary(svcs.Reports, logg))
			r.Get("/drivers/pending", controllers.AdminPendingDrivers(svcs.Drivers, logg))
			r.Post("/drivers/{driverId}/approve", controllers.AdminApproveDriver(svcs.Drivers, logg))
			r.Post("/drivers/{driverId}/reject", controllers.AdminRejectDriver(svcs.Drivers, logg))
		})
	})

	return r
}
