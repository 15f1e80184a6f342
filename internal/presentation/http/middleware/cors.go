package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/config"
)

// Headers the console reads from the browser. Whatever the configuration says,
// these stay allowed or sign-in, locale and payment retries break.
var consoleRequestHeaders = []string{
	"Authorization",
	"Content-Type",
	"Accept-Language",
	IdempotencyKeyHeader,
	"X-Request-ID",
}

// Headers the console UI needs to read back
var consoleResponseHeaders = []string{
	"X-Request-ID",
	IdempotencyReplayedHeader,
	"Retry-After",
}

// CORSMiddleware lets the configured browser origins drive the console API
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	return cors.New(corsConfig(cfg))
}

func corsConfig(cfg *config.CORSConfig) cors.Config {
	out := cors.Config{
		AllowMethods:  cfg.AllowedMethods,
		AllowHeaders:  mergeHeaders(append([]string{"Accept", "Origin"}, cfg.AllowedHeaders...), consoleRequestHeaders),
		ExposeHeaders: consoleResponseHeaders,
		MaxAge:        cfg.MaxAge,
	}
	if len(out.AllowMethods) == 0 {
		out.AllowMethods = []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}
	}
	if out.MaxAge <= 0 {
		out.MaxAge = 12 * time.Hour
	}

	// A wildcard origin cannot be combined with credentials
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		out.AllowAllOrigins = true
		return out
	}
	out.AllowOrigins = cfg.AllowedOrigins
	out.AllowCredentials = cfg.AllowCredentials
	return out
}

// mergeHeaders appends the required headers missing from configured
func mergeHeaders(configured, required []string) []string {
	seen := make(map[string]bool, len(configured)+len(required))
	out := make([]string, 0, len(configured)+len(required))
	for _, h := range append(configured, required...) {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(h))
	}
	return out
}
