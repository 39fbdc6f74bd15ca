package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridgelens/backend/internal/middleware"
	"github.com/fridgelens/backend/internal/testhelpers"
)

func TestRateLimiter_IsAllowed(t *testing.T) {
	client := testhelpers.SetupTestRedis(t)
	ctx := context.Background()

	rl := middleware.NewRateLimiter(client, middleware.RateLimitConfig{
		Window:    time.Hour,
		Limit:     3,
		KeyPrefix: "rate_limit:test",
	})

	t.Run("allows up to the limit then rejects", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			allowed, remaining, _, err := rl.IsAllowed(ctx, "client-a")
			require.NoError(t, err)
			assert.True(t, allowed, "request %d should be allowed", i+1)
			assert.Equal(t, 2-i, remaining)
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(ctx, "client-a")
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, 0, remaining)
		assert.True(t, resetTime.After(time.Now()))
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		allowed, _, _, err := rl.IsAllowed(ctx, "client-b")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("GetRemainingRequests does not consume quota", func(t *testing.T) {
		remaining, _, err := rl.GetRemainingRequests(ctx, "client-c")
		require.NoError(t, err)
		assert.Equal(t, 3, remaining)

		remaining, _, err = rl.GetRemainingRequests(ctx, "client-c")
		require.NoError(t, err)
		assert.Equal(t, 3, remaining)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	client := testhelpers.SetupTestRedis(t)

	gin.SetMode(gin.TestMode)
	rl := middleware.NewRateLimiter(client, middleware.RateLimitConfig{
		Window:    time.Hour,
		Limit:     2,
		KeyPrefix: "rate_limit:mw",
	})

	router := gin.New()
	router.Use(rl.RateLimitMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		return w
	}

	w := do()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	w = do()
	assert.Equal(t, http.StatusOK, w.Code)

	w = do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}
