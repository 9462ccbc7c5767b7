package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/artisan-engine/generic"
	"github.com/warp/artisan-engine/generic/store"
	"github.com/warp/artisan-engine/production"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRateLimiter_PerClientBucket(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, rl.Allow("10.0.0.2"), "other clients have their own bucket")
}

func TestRateLimiter_CleanupDropsIdleVisitors(t *testing.T) {
	now := testNow
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(5 * time.Minute)
	rl.Allow("b")

	assert.Equal(t, 1, rl.Cleanup(3*time.Minute))
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "b")
}

func TestRateLimiter_MiddlewareReturns429(t *testing.T) {
	svc := production.NewService(store.NewMemory(), production.WithClock(generic.FixedClock(testNow)))
	h := NewRouter(NewHandler(svc, nil), RouterOptions{Limiter: NewRateLimiter(0.001, 1)})

	first := do(t, h, http.MethodGet, "/api/inputs", nil)
	second := do(t, h, http.MethodGet, "/api/inputs", nil)

	assert.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
	assert.Equal(t, "Too many requests", decode[ErrorResponse](t, second).Error)

	// Health checks sit outside /api and are never limited.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", nil).Code)
}

func TestAccessLog_RecordsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := AccessLog(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/inputs", nil))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "/api/inputs", fields["path"])
	assert.Equal(t, "GET", fields["method"])
}
