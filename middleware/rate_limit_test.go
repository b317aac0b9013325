package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/inkpress/inkpress/config"
)

func TestRateLimitMiddleware_Throttles(t *testing.T) {
	config.Apply(config.AppConfig{
		SecretKey:          "test-secret",
		RateLimitPerMinute: 2, // burst of 1
	})
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware())
	r.GET("/ping", func(ctx *gin.Context) { ctx.String(http.StatusOK, "pong") })

	do := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		// Distinct client address keeps this test isolated from the
		// shared limiter table.
		req.Header.Set("X-Forwarded-For", "198.51.100.7")
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}
