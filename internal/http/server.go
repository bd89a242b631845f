package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	authHTTP "github.com/kv-gits/rpm/internal/auth/http"
	authService "github.com/kv-gits/rpm/internal/auth/service"
	authUseCase "github.com/kv-gits/rpm/internal/auth/usecase"
	"github.com/kv-gits/rpm/internal/config"
	"github.com/kv-gits/rpm/internal/metrics"
	vaultHTTP "github.com/kv-gits/rpm/internal/vault/http"
)

// RouterDeps holds the handlers and services the router wires together.
type RouterDeps struct {
	Config          *config.Config
	Logger          *slog.Logger
	AuthHandler     *authHTTP.AuthHandler
	PasswordHandler *vaultHTTP.PasswordHandler
	SessionManager  authUseCase.SessionManager
	TokenService    authService.TokenService

	// MetricsProvider is nil when metrics are disabled.
	MetricsProvider *metrics.Provider
}

// NewRouter assembles the Gin engine with middleware and routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(deps.Logger))

	if deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			deps.MetricsProvider.MeterProvider(),
			deps.Config.MetricsNamespace,
		))
	}

	if corsMiddleware := createCORSMiddleware(
		deps.Config.CORSEnabled,
		deps.Config.CORSAllowOrigins,
		deps.Logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "rpm-api"})
	})

	// Authentication endpoint: unauthenticated, optionally rate limited per IP.
	authHandlers := []gin.HandlerFunc{}
	if deps.Config.RateLimitAuthEnabled {
		authHandlers = append(authHandlers, authHTTP.AuthRateLimitMiddleware(
			deps.Config.RateLimitAuthRequestsPerSec,
			deps.Config.RateLimitAuthBurst,
			deps.Logger,
		))
	}
	authHandlers = append(authHandlers, deps.AuthHandler.AuthenticateHandler)
	router.POST("/api/auth", authHandlers...)

	// Entry endpoints: every one requires a valid session.
	passwords := router.Group("/api/passwords")
	passwords.Use(authHTTP.AuthenticationMiddleware(
		deps.SessionManager,
		deps.TokenService,
		deps.Logger,
	))
	passwords.POST("", deps.PasswordHandler.CreateHandler)
	passwords.GET("", deps.PasswordHandler.ListHandler)
	passwords.GET("/:id", deps.PasswordHandler.GetHandler)
	passwords.PUT("/:id", deps.PasswordHandler.UpdateHandler)
	passwords.DELETE("/:id", deps.PasswordHandler.DeleteHandler)

	return router
}

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server serving the given router.
func NewServer(
	host string,
	port int,
	router http.Handler,
	logger *slog.Logger,
) *Server {
	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
