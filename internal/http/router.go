package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-catalog/internal/api"
	"github.com/mrlokans/library-catalog/internal/auth"
	"github.com/mrlokans/library-catalog/internal/logging"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := logging.OrDiscard(cfg.Logger).Named("http")

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Error("invalid trusted proxies, trusting none", "error", err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(AccessLogMiddleware(logger))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	}

	if cfg.IPLimiter != nil {
		router.Use(cfg.IPLimiter.Middleware())
	}

	// CSRF runs after CORS so preflight requests are answered first
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AllowedOrigins))
	}

	router.Use(TimeoutMiddleware(cfg.RequestTimeout))

	router.NoRoute(func(c *gin.Context) {
		api.Fail(c, http.StatusNotFound, api.MessageNotFound)
	})

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/", health.Hello)
	router.GET("/health", health.Status)
	if cfg.Metrics != nil {
		router.GET("/metrics", cfg.Metrics.Handler())
	}

	// Auth endpoints
	if cfg.AuthHandlers != nil {
		router.POST("/sign-up", cfg.AuthHandlers.SignUp)
		router.POST("/sign-in", cfg.AuthHandlers.SignIn)
		router.POST("/sign-out", cfg.AuthHandlers.SignOut)
		router.GET("/me", cfg.AuthHandlers.Me)
	}
	if cfg.AuditReader != nil && cfg.Guard != nil {
		events := NewAuditController(cfg.AuditReader, logger)
		router.GET("/me/events", cfg.Guard.RequireAuth(), events.MyEvents)
	}

	// Catalog endpoints, guarded according to the auth mode
	var gate []gin.HandlerFunc
	if cfg.Guard != nil {
		gate = append(gate, cfg.Guard.ForMode(cfg.AuthMode))
	}
	if cfg.ReadOnly {
		gate = append(gate, ReadOnlyMiddleware())
	}

	if cfg.Authors != nil {
		authors := NewAuthorsController(cfg.Authors, cfg.Auditor, logger)
		group := router.Group("/authors", gate...)
		group.GET("", authors.List)
		group.POST("", authors.Create)
		group.GET("/:id", authors.Get)
		group.PUT("/:id", authors.Update)
		group.DELETE("/:id", authors.Delete)
		group.GET("/:id/books", authors.Books)
	}

	if cfg.Books != nil {
		books := NewBooksController(cfg.Books, cfg.Auditor, logger)
		group := router.Group("/books", gate...)
		group.GET("", books.List)
		group.POST("", books.Create)
		group.GET("/:id", books.Get)
		group.PUT("/:id", books.Update)
		group.DELETE("/:id", books.Delete)
		group.GET("/:id/author", books.Author)
		group.GET("/:id/genres", books.Genres)
	}

	if cfg.Genres != nil {
		genres := NewGenresController(cfg.Genres, cfg.Auditor, logger)
		group := router.Group("/genres", gate...)
		group.GET("", genres.List)
		group.POST("", genres.Create)
		group.GET("/:id", genres.Get)
		group.PUT("/:id", genres.Update)
		group.DELETE("/:id", genres.Delete)
		group.GET("/:id/books", genres.Books)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", auth.CSRFTokenHeader, RequestIDHeader},
		ExposeHeaders:    []string{"Set-Cookie", auth.CSRFTokenHeader, RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
