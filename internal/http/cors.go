package http

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-Id"

// createCORSMiddleware lets browser tools call the envelope endpoints, e.g. the
// admin page that renders QR codes from encrypt responses. It returns nil when
// CORS is disabled or allowOrigins yields no origin. "*" allows any origin.
//
// The API carries no cookies or auth headers, so credentials are never allowed.
func createCORSMiddleware(enabled bool, allowOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOrigins)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no origins configured, CORS will not be applied")
		return nil
	}

	config := cors.Config{
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Authorization", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
		logger.Warn("CORS allows any origin")
	} else {
		config.AllowOrigins = origins
		logger.Info("CORS enabled", slog.Any("origins", origins))
	}

	return cors.New(config)
}

// parseOrigins splits a comma-separated origin list, dropping blanks and duplicates.
func parseOrigins(origins string) []string {
	var out []string
	for part := range strings.SplitSeq(origins, ",") {
		origin := strings.TrimSpace(part)
		if origin != "" && !slices.Contains(out, origin) {
			out = append(out, origin)
		}
	}
	return out
}
