package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/qrseal/internal/auth/domain"
	authService "github.com/allisson/qrseal/internal/auth/service"
	authUseCase "github.com/allisson/qrseal/internal/auth/usecase"
	apperrors "github.com/allisson/qrseal/internal/errors"
	"github.com/allisson/qrseal/internal/httputil"
)

// AuthenticationMiddleware resolves the "Authorization: Bearer <token>" header
// (scheme matched case-insensitively) to an active client and stores it in the
// request context.
//
// A missing, malformed, unknown or expired token is 401; an inactive client is 403.
func AuthenticationMiddleware(
	tokenUseCase authUseCase.TokenUseCase,
	tokenService authService.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	const bearerPrefix = "bearer "

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			return
		}

		plainToken := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if plainToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			return
		}

		client, err := tokenUseCase.Authenticate(c.Request.Context(), tokenService.HashToken(plainToken))
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			return
		}

		c.Request = c.Request.WithContext(WithClient(c.Request.Context(), client))
		c.Next()
	}
}

// AuthorizationMiddleware requires the authenticated client to hold capability
// on the request path. It must run after AuthenticationMiddleware.
func AuthorizationMiddleware(capability authDomain.Capability, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		client, ok := GetClient(c.Request.Context())
		if !ok || client == nil {
			logger.Debug("authorization failed: no authenticated client in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			return
		}

		path := c.Request.URL.Path
		if !client.IsAllowed(path, capability) {
			logger.Debug("authorization failed: insufficient permissions",
				slog.String("client_id", client.ID.String()),
				slog.String("path", path),
				slog.String("capability", string(capability)))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			return
		}

		c.Next()
	}
}
