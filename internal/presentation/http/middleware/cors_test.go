package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/config"
	"github.com/stretchr/testify/assert"
)

func preflight(cfg *config.CORSConfig, origin string) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(CORSMiddleware(cfg))
	r.POST("/sale/payment", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/sale/payment", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORS_ConfiguredOriginKeepsConsoleHeaders(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedOrigins:   []string{"https://till.example.com"},
		AllowedHeaders:   []string{"X-Store-ID"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}

	rec := preflight(cfg, "https://till.example.com")

	assert.Equal(t, "https://till.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	allowed := rec.Header().Get("Access-Control-Allow-Headers")
	assert.Contains(t, allowed, "Idempotency-Key")
	assert.Contains(t, allowed, "Accept-Language")
	assert.Contains(t, allowed, "X-Store-Id")
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_UnknownOriginRejected(t *testing.T) {
	cfg := &config.CORSConfig{AllowedOrigins: []string{"https://till.example.com"}}

	rec := preflight(cfg, "https://evil.example.com")

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_WildcardDropsCredentials(t *testing.T) {
	cfg := &config.CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true}

	got := corsConfig(cfg)

	assert.True(t, got.AllowAllOrigins)
	assert.Empty(t, got.AllowOrigins)
	assert.False(t, got.AllowCredentials)
	assert.Contains(t, got.ExposeHeaders, IdempotencyReplayedHeader)
	assert.Equal(t, 12*time.Hour, got.MaxAge)
}

func TestMergeHeaders(t *testing.T) {
	got := mergeHeaders([]string{"authorization", " X-Store-ID ", ""}, []string{"Authorization", "Idempotency-Key"})
	assert.Equal(t, []string{"authorization", "X-Store-ID", "Idempotency-Key"}, got)
}
