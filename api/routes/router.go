package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tsrs-robotics/robolab-backend/api/controllers"
	"github.com/tsrs-robotics/robolab-backend/api/middleware"
	"github.com/tsrs-robotics/robolab-backend/internal/auth"
	"github.com/tsrs-robotics/robolab-backend/internal/dashboard"
	"github.com/tsrs-robotics/robolab-backend/internal/inventory"
	"github.com/tsrs-robotics/robolab-backend/internal/items"
	"github.com/tsrs-robotics/robolab-backend/internal/kits"
	"github.com/tsrs-robotics/robolab-backend/internal/ledger"
	"github.com/tsrs-robotics/robolab-backend/internal/users"
	"github.com/tsrs-robotics/robolab-backend/pkg/auth/session"
	"github.com/tsrs-robotics/robolab-backend/pkg/config"
	"github.com/tsrs-robotics/robolab-backend/pkg/db"
	"github.com/tsrs-robotics/robolab-backend/pkg/enums"
	"github.com/tsrs-robotics/robolab-backend/pkg/logger"
	"github.com/tsrs-robotics/robolab-backend/pkg/metrics"
	"github.com/tsrs-robotics/robolab-backend/pkg/redis"
)

// Deps bundles everything the HTTP layer needs.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          redis.Pinger
	SessionChecker session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsReg     prometheus.Gatherer

	AuthService      auth.Service
	DashboardService dashboard.Service
	ItemsService     items.Service
	KitsService      kits.Service
	InventoryService inventory.Service
	LedgerService    ledger.Service
	UsersService     users.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.MetricsReg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsReg, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		admin := middleware.RequireRole(enums.UserRoleAdmin, logg)

		r.Get("/dashboard/summary", controllers.DashboardSummary(deps.DashboardService, logg))

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ItemList(deps.ItemsService, logg))
			r.With(admin).Post("/", controllers.ItemCreate(deps.ItemsService, logg))
			r.Get("/low-stock", controllers.ItemLowStock(deps.ItemsService, logg))
			r.Get("/purchase-order.csv", controllers.ItemPurchaseOrderCSV(deps.ItemsService, logg))
			r.With(admin).Post("/import", controllers.ItemImportCSV(deps.ItemsService, logg))
			r.Get("/{itemId}", controllers.ItemDetail(deps.ItemsService, logg))
			r.With(admin).Patch("/{itemId}", controllers.ItemUpdate(deps.ItemsService, logg))
			r.Get("/{itemId}/transactions", controllers.LedgerItemHistory(deps.LedgerService, logg))
		})

		r.Route("/kits", func(r chi.Router) {
			r.Get("/", controllers.KitList(deps.KitsService, logg))
			r.With(admin).Post("/", controllers.KitCreate(deps.KitsService, logg))
			r.Get("/{kitId}", controllers.KitDetail(deps.KitsService, logg))
			r.With(admin).Post("/{kitId}/items", controllers.KitLinkItem(deps.KitsService, logg))
			r.With(admin).Delete("/{kitId}/items/{itemId}", controllers.KitUnlinkItem(deps.KitsService, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/adjust", controllers.InventoryAdjust(deps.InventoryService, logg))
			r.Post("/issue-kit", controllers.InventoryIssueKit(deps.InventoryService, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.LedgerList(deps.LedgerService, logg))
			r.Get("/report", controllers.LedgerReport(deps.LedgerService, logg))
			r.Get("/report.csv", controllers.LedgerReportCSV(deps.LedgerService, logg))
		})

		r.Route("/me", func(r chi.Router) {
			r.Get("/", controllers.UserProfile(deps.UsersService, logg))
			r.Patch("/", controllers.UserUpdateProfile(deps.UsersService, logg))
			r.Post("/password", controllers.UserChangePassword(deps.UsersService, logg))
			r.Put("/avatar", controllers.UserSetAvatar(deps.UsersService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.With(admin).Get("/", controllers.UserList(deps.UsersService, logg))
			r.With(admin).Post("/", controllers.UserCreate(deps.UsersService, logg))
			r.Get("/{username}/avatar", controllers.UserGetAvatar(deps.UsersService, logg))
		})
	})

	return r
}
