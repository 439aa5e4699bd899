package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"user-registry-api/internal/config"
	"user-registry-api/internal/middleware"
	"user-registry-api/internal/services"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	UserService services.UserService
	Backend     string
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *RouterConfig) {
	userHandler := NewUserHandler(cfg.UserService)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "user-registry-api",
			"backend": cfg.Backend,
		})
	})

	users := router.Group("/users")
	{
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.SearchUsers)
		users.GET("/:userId", userHandler.GetUser)
	}
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, rl config.RateLimitConfig) {
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// Request size limit (1MB)
	router.Use(middleware.RequestSizeLimit(1 << 20))
	router.Use(middleware.ContentTypeValidation("application/json"))

	if rl.RPS > 0 {
		router.Use(middleware.RateLimiter(rl.RPS, rl.Burst))
	}

	router.Use(middleware.StructuredLogger())
	router.Use(middleware.PerformanceMonitor(time.Second))
	router.Use(middleware.ErrorHandler())
}
