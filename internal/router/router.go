package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "marithon/docs"
	"marithon/internal/handler"
	"marithon/internal/middleware"
	"marithon/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Document    *handler.DocumentHandler
	Extract     *handler.ExtractHandler
	Calculation *handler.CalculationHandler
	Health      *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(logger zerolog.Logger, corsOrigins []string, authSvc service.AuthService, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	v1.POST("/extract", h.Extract.Extract)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/auth/me", h.Auth.Me)

	docs := protected.Group("/documents")
	docs.POST("/upload", h.Document.Upload)
	docs.GET("", h.Document.List)
	docs.GET("/:id", h.Document.GetByID)
	docs.GET("/:id/download", h.Document.Download)
	docs.DELETE("/:id", h.Document.Delete)

	protected.POST("/ocr/:id", h.Document.OCR)
	protected.POST("/clauses/:id", h.Document.Clauses)
	protected.POST("/summaries/:id", h.Document.Summaries)

	calcs := protected.Group("/calculations")
	calcs.POST("", h.Calculation.Create)
	calcs.GET("", h.Calculation.List)
	calcs.POST("/import", h.Calculation.Import)
	calcs.GET("/:id", h.Calculation.GetByID)
	calcs.DELETE("/:id", h.Calculation.Delete)
	calcs.GET("/:id/export", h.Calculation.Export)
	calcs.POST("/:id/events", h.Calculation.AddEvent)
	calcs.PUT("/:id/events/:index", h.Calculation.UpdateEvent)
	calcs.PATCH("/:id/events/:index/percent", h.Calculation.SetEventPercent)
	calcs.DELETE("/:id/events/:index", h.Calculation.DeleteEvent)

	return r
}
