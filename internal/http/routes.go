package http

import (
	"taskboard/internal/config"
	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := service.NewAuthService(userRepo)
	taskService := service.NewTaskService(taskRepo, userRepo)

	hub := ws.NewHub()

	h := handlers.New(authService, taskService, userRepo, hub, handlers.Options{
		CookieSecure: cfg.Production(),
		CookieMaxAge: int(cfg.TokenTTL.Seconds()),
	})
	healthHandler := handlers.NewHealthHandler(db, hub, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h, cfg)

	// Legacy /api routes kept for backward compatibility
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(api, h, cfg)

	// Real-time task events
	r.GET("/ws", h.WS(hub, cfg.AllowedOrigin))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, cfg *config.Config) {
	authRL := middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow)

	// Auth
	auth := api.Group("/auth")
	auth.POST("/register", authRL, h.Register)
	auth.POST("/login", authRL, h.Login)
	auth.POST("/logout", h.Logout)
	auth.GET("/me", middleware.JWT(), h.Me)
	auth.PUT("/profile", middleware.JWT(), h.UpdateProfile)

	// Tasks
	tasks := api.Group("/tasks")
	tasks.Use(middleware.JWT())
	tasks.GET("/dashboard", h.Dashboard)
	tasks.POST("", h.CreateTask)
	tasks.GET("", h.ListTasks)
	tasks.GET("/:id", h.GetTask)
	tasks.PUT("/:id", h.UpdateTask)
	tasks.DELETE("/:id", h.DeleteTask)

	// User directory (assignment dropdown and search)
	users := api.Group("/users")
	users.Use(middleware.JWT())
	users.GET("", h.ListUsers)
	users.GET("/search", h.SearchUsers)
}
