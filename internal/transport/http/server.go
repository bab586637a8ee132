package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Mcdonalid/Lychee/internal/auth"
	"github.com/Mcdonalid/Lychee/internal/config"
	"github.com/Mcdonalid/Lychee/internal/service/contact"
)

// NewServer builds the HTTP server with all routes registered.
func NewServer(contactService *contact.Service, authService *auth.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	authHandlers := NewAuthHandlers(authService, logger)
	contactHandlers := NewContactHandlers(contactService, logger)

	api := router.Group("/api")
	api.POST("/auth/login", authHandlers.Login)

	// Public contact form endpoints
	api.GET("/contact/init", contactHandlers.Init)
	api.POST("/contact", RateLimitMiddleware(cfg.SubmitRateLimit), contactHandlers.Submit)

	// Admin inbox endpoints
	admin := api.Group("/contact", AuthMiddleware(authService, logger))
	admin.GET("", contactHandlers.List)
	admin.PATCH("", contactHandlers.Update)
	admin.DELETE("", contactHandlers.Delete)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
