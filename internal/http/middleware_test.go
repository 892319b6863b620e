package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRateLimiterStore_ReusesLimiterPerClient(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}

	first := store.getLimiter("10.0.0.1")
	assert.Same(t, first, store.getLimiter("10.0.0.1"))
	assert.NotSame(t, first, store.getLimiter("10.0.0.2"))
}

func TestRateLimiterStore_RemoveIdle(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}

	store.getLimiter("10.0.0.1")
	cutoff := time.Now()
	time.Sleep(5 * time.Millisecond)
	store.getLimiter("10.0.0.2")

	store.removeIdle(cutoff.Add(time.Millisecond))

	_, idleKept := store.limiters.Load("10.0.0.1")
	_, activeKept := store.limiters.Load("10.0.0.2")
	assert.False(t, idleKept)
	assert.True(t, activeKept)
}

func TestRateLimitMiddleware_RetryAfter(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())

	router := gin.New()
	router.Use(RateLimitMiddleware(ctx, 0.5, 1, slog.New(slog.NewTextHandler(io.Discard, nil))))
	router.POST("/v1/reidentify", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/reidentify", nil))
		return w
	}

	require.Equal(t, http.StatusOK, send().Code)

	w := send()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t,
		`{"error":"rate_limit_exceeded","message":"Too many requests from this IP. Please retry after the specified delay."}`,
		w.Body.String(),
	)

	retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retryAfter, 1)
	assert.LessOrEqual(t, retryAfter, 2)

	// Cancelling ctx stops the cleanup goroutine.
	cancel()
	time.Sleep(10 * time.Millisecond)
}
