package app

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"homeclean/internal/domain"
	"homeclean/internal/middleware"
	"homeclean/internal/modules/admin"
	"homeclean/internal/modules/auth"
	"homeclean/internal/modules/booking"
	"homeclean/internal/modules/chat"
	"homeclean/internal/modules/cleaner"
	"homeclean/internal/modules/house"
	"homeclean/internal/modules/notification"
	"homeclean/internal/modules/review"
	"homeclean/internal/modules/tracking"
	"homeclean/internal/modules/verification"
	"homeclean/internal/modules/wallet"
	"homeclean/internal/pkg/response"
)

// Router builds the gin engine with every route under /api/v1.
func (a *App) Router() *gin.Engine {
	if a.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(a.Log.Named("http")),
		middleware.CORS(a.Config.AllowedOrigins()),
		middleware.NewRateLimiter(a.Config.MaxRequestsPerMin, a.Log.Named("ratelimit")).Middleware(),
	)

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})

	checkOrigin := a.originChecker()
	authHandler := auth.NewHandler(a.Auth)
	trackingHandler := tracking.NewHandler(a.Tracking, a.Watcher, checkOrigin, a.Log.Named("tracking"))
	chatHandler := chat.NewHandler(a.Chat, a.ChatHub, checkOrigin, a.Log.Named("chat"))

	v1 := r.Group("/api/v1")
	authHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.SessionAuth(a.Auth))
	{
		authHandler.RegisterProtectedRoutes(protected)
		notification.NewHandler(a.Notifications).RegisterRoutes(protected)
		booking.NewHandler(a.Bookings).RegisterRoutes(protected)
		verification.NewHandler(a.Verification).RegisterRoutes(protected)
		trackingHandler.RegisterRoutes(protected)
		chatHandler.RegisterRoutes(protected)
		review.NewHandler(a.Reviews).RegisterRoutes(protected)
		wallet.NewHandler(a.Wallets).RegisterRoutes(protected)

		customers := protected.Group("")
		customers.Use(middleware.RequireRole(domain.RoleCustomer))
		house.NewHandler(a.Houses).RegisterRoutes(customers)

		cleaners := protected.Group("")
		cleaners.Use(middleware.RequireRole(domain.RoleCleaner))
		cleaner.NewHandler(a.Cleaners).RegisterRoutes(cleaners)

		adminGroup := protected.Group("/admin")
		adminGroup.Use(middleware.AdminOnly())
		admin.NewHandler(a.Admin).RegisterRoutes(adminGroup)
	}

	ws := v1.Group("/ws")
	ws.Use(middleware.SessionAuthQuery(a.Auth))
	{
		trackingHandler.RegisterStreamRoutes(ws)
		chatHandler.RegisterStreamRoutes(ws)
	}

	return r
}

// originChecker applies CORS_ORIGINS to websocket upgrades as well.
func (a *App) originChecker() func(r *http.Request) bool {
	origins := a.Config.AllowedOrigins()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(origins, origin)
	}
}
