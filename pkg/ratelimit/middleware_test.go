package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedLimiter struct {
	result *Result
}

func (f *fixedLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	return f.result, nil
}

func limiterEngine(limiter Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Middleware(limiter))
	engine.GET("/queue/status", func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func TestMiddlewareAllowsWithinBudget(t *testing.T) {
	engine := limiterEngine(&fixedLimiter{result: &Result{
		Allowed:   true,
		Limit:     30,
		Remaining: 29,
		ResetTime: time.Now().Add(time.Minute).Unix(),
	}})

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/queue/status", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "30", recorder.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "29", recorder.Header().Get("X-RateLimit-Remaining"))
}

func TestMiddlewareRejectsOverBudget(t *testing.T) {
	engine := limiterEngine(&fixedLimiter{result: &Result{
		Allowed:   false,
		Limit:     30,
		Remaining: 0,
		ResetTime: time.Now().Add(time.Minute).Unix(),
	}})

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/queue/status", nil))

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "0", recorder.Header().Get("X-RateLimit-Remaining"))
}

func TestGetRateLimitType(t *testing.T) {
	tests := []struct {
		path string
		want RateLimitType
	}{
		{"/health", RateLimitTypeHealth},
		{"/ping", RateLimitTypeHealth},
		{"/api/v1/clinics/login", RateLimitTypeAuth},
		{"/api/v1/queue/subscribe", RateLimitTypeSubscribe},
		{"/api/v1/queue/next", RateLimitTypeQueue},
		{"/api/v1/tickets", RateLimitTypeQueue},
		{"/somewhere/else", RateLimitTypeDefault},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, getRateLimitType(tt.path), tt.path)
	}
}

func TestIsAllowedBypasses(t *testing.T) {
	cfg := &Config{
		Enabled:         true,
		WindowDuration:  time.Minute,
		DefaultRequests: 60,
		QueueRequests:   30,
		WhitelistedIPs:  []string{"10.0.0.5"},
	}
	limiter := NewRateLimiter(nil, cfg)

	t.Run("whitelisted IP skips the window check", func(t *testing.T) {
		result, err := limiter.IsAllowed(context.Background(), "10.0.0.5", RateLimitTypeQueue)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 30, result.Limit)
	})

	t.Run("disabled limiter always allows", func(t *testing.T) {
		disabled := NewRateLimiter(nil, &Config{Enabled: false, DefaultRequests: 60})
		result, err := disabled.IsAllowed(context.Background(), "203.0.113.9", RateLimitTypeDefault)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	})
}
