package http

import (
	"github.com/Hamzabaloch08/taskApp-backend/internal/http/handlers"
	"github.com/Hamzabaloch08/taskApp-backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const apiPrefix = "/api/v1"

// publicPaths skip the identity gate. Logout is public so a client with an
// expired token can still clear it.
var publicPaths = []string{
	apiPrefix + "/auth/signup",
	apiPrefix + "/auth/login",
	apiPrefix + "/auth/logout",
}

// NewRouter builds the engine with the global middleware chain and every
// route registered.
func NewRouter(h *handlers.Handler, health *handlers.HealthHandler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(allowedOrigins))

	RegisterRoutes(r, h, health)
	return r
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler) {
	// Health checks and metrics (no auth)
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group(apiPrefix)
	v1.Use(middleware.Authenticate(h.Auth, h.Transport, publicPaths...))

	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/check", h.Check)
	}

	tasks := v1.Group("/tasks")
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.DELETE("", h.DeleteAllTasks)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}
}
