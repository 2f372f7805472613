// Package http provides the HTTP server, routing and shared middleware.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/qrseal/internal/auth/domain"
	authHTTP "github.com/allisson/qrseal/internal/auth/http"
	authService "github.com/allisson/qrseal/internal/auth/service"
	authUseCase "github.com/allisson/qrseal/internal/auth/usecase"
	"github.com/allisson/qrseal/internal/config"
	envelopeHTTP "github.com/allisson/qrseal/internal/envelope/http"
	"github.com/allisson/qrseal/internal/metrics"
	secretUseCase "github.com/allisson/qrseal/internal/secretstore/usecase"
)

// Server represents the HTTP server
type Server struct {
	router         *gin.Engine
	server         *http.Server
	secretProvider secretUseCase.SecretProvider
	logger         *slog.Logger
	shutdownCtx    context.Context
}

// NewServer creates a new HTTP server. secretProvider backs the readiness check.
func NewServer(
	secretProvider secretUseCase.SecretProvider,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		secretProvider: secretProvider,
		logger:         logger,
		shutdownCtx:    context.Background(),
		server:         newHTTPServer(host, port, nil),
	}
}

// SetupRouter registers middleware and routes.
//
// ctx ends when the application starts shutting down; readiness reports
// not_ready from then on and background middleware goroutines stop.
//
// Every envelope route requires a bearer token whose client holds the
// route's capability. POST /v1/token is the only unauthenticated API route.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	envelopeHandler *envelopeHTTP.EnvelopeHandler,
	tokenHandler *authHTTP.TokenHandler,
	tokenUseCase authUseCase.TokenUseCase,
	tokenService authService.TokenService,
	metricsProvider *metrics.Provider,
) {
	s.shutdownCtx = ctx

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	tokenHandlers := []gin.HandlerFunc{}
	if cfg.RateLimitTokenEnabled {
		tokenHandlers = append(tokenHandlers, IPRateLimitMiddleware(
			ctx,
			cfg.RateLimitTokenRequestsPerSec,
			cfg.RateLimitTokenBurst,
			s.logger,
		))
	}
	tokenHandlers = append(tokenHandlers, tokenHandler.IssueTokenHandler)
	v1.POST("/token", tokenHandlers...)

	envelopes := v1.Group("/envelopes")
	envelopes.Use(authHTTP.AuthenticationMiddleware(tokenUseCase, tokenService, s.logger))
	{
		envelopes.POST("/encrypt",
			authHTTP.AuthorizationMiddleware(authDomain.EncryptCapability, s.logger),
			envelopeHandler.EncryptHandler,
		)

		decryptHandlers := []gin.HandlerFunc{
			authHTTP.AuthorizationMiddleware(authDomain.DecryptCapability, s.logger),
		}
		if cfg.RateLimitDecryptEnabled {
			decryptHandlers = append(decryptHandlers, IPRateLimitMiddleware(
				ctx,
				cfg.RateLimitDecryptRequestsPerSec,
				cfg.RateLimitDecryptBurst,
				s.logger,
			))
		}
		decryptHandlers = append(decryptHandlers, envelopeHandler.DecryptHandler)
		envelopes.POST("/decrypt", decryptHandlers...)

		envelopes.POST("/cache/clear",
			authHTTP.AuthorizationMiddleware(authDomain.ClearCacheCapability, s.logger),
			envelopeHandler.ClearCacheHandler,
		)
	}

	s.router = router
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve envelope requests.
//
// The secret cache state is reported as a component. An unfetched cache is
// still ready: the secret is fetched lazily on first use.
func (s *Server) readinessHandler(c *gin.Context) {
	select {
	case <-s.shutdownCtx.Done():
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"server": "shutting_down"},
		})
		return
	default:
	}

	if s.secretProvider == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"secret": "error"},
		})
		return
	}

	state := s.secretProvider.State()
	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"secret": string(state)},
	})
}

// GetHandler returns the configured router, or nil before SetupRouter.
func (s *Server) GetHandler() http.Handler {
	if s.router == nil {
		return nil
	}
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	return serve(s.server, s.logger, "http server")
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
