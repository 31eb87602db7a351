package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"easyrent/internal/domain/user"
	"easyrent/internal/handler/api"
	"easyrent/internal/handler/middleware"
	"easyrent/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Auth         *api.AuthHandler
	Car          *api.CarHandler
	Quote        *api.QuoteHandler
	Booking      *api.BookingHandler
	Payment      *api.PaymentHandler
	Notification *api.NotificationHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware, limiter *middleware.RateLimiter) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, authMiddleware, limiter)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware, limiter *middleware.RateLimiter) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := authMiddleware.RequireAuth()

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: h.Auth.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(requireAuth)
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		cars := apiGroup.Group("/cars")
		{
			addRoutes(cars, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Car.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Car.Get},
				{
					Method:  http.MethodPatch,
					Path:    "/:id/prices",
					Handler: h.Car.UpdatePrices,
					Mw:      []gin.HandlerFunc{requireAuth, authMiddleware.RequireRole(user.RoleAgency, user.RoleAdmin)},
				},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/quotes", Handler: h.Quote.Quote},
		})

		bookings := apiGroup.Group("/bookings")
		{
			// Public, polled by the booking form
			addRoutes(bookings, []route{
				{Method: http.MethodGet, Path: "/car/:id/occupied", Handler: h.Booking.Occupied},
				{
					Method:  http.MethodGet,
					Path:    "/check-availability",
					Handler: h.Booking.CheckAvailability,
					Mw:      []gin.HandlerFunc{limiter.Middleware()},
				},
			})

			owned := bookings.Group("")
			owned.Use(requireAuth)
			addRoutes(owned, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Booking.Create},
				{Method: http.MethodGet, Path: "", Handler: h.Booking.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: h.Booking.Confirm},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Booking.Cancel},
			})
		}

		payments := apiGroup.Group("/payments")
		payments.Use(requireAuth)
		{
			addRoutes(payments, []route{
				{Method: http.MethodGet, Path: "/checkout", Handler: h.Payment.Checkout},
				{Method: http.MethodPost, Path: "", Handler: h.Payment.Pay},
			})
		}

		notifications := apiGroup.Group("/notifications")
		{
			addRoutes(notifications, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Notification.List, Mw: []gin.HandlerFunc{requireAuth}},
				{Method: http.MethodGet, Path: "/stream", Handler: h.Notification.Stream, Mw: []gin.HandlerFunc{requireAuth}},
				{
					Method:  http.MethodGet,
					Path:    "/ws",
					Handler: h.Notification.WebSocket,
					Mw:      []gin.HandlerFunc{authMiddleware.RequireAuthAllowQuery()},
				},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
