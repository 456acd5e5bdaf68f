package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"symptom-checker-server/internal/metrics"
	"symptom-checker-server/internal/ratelimit"
	"symptom-checker-server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("backend down")
}

func searchRouter(t *testing.T, limiter ratelimit.Limiter, m *metrics.Metrics) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.GET("/symptoms", DebounceSearch(limiter, m, testutil.Logger(t)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(r http.Handler, target, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDebounceSearch(t *testing.T) {
	m := metrics.New()
	r := searchRouter(t, ratelimit.NewMemoryLimiter(time.Minute, time.Minute), m)

	assert.Equal(t, http.StatusOK, get(r, "/symptoms?search=pain", "192.0.2.1:1000").Code)

	w := get(r, "/symptoms?search=head", "192.0.2.1:1001")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), throttledMessage)

	// Listings without a search term are never throttled.
	assert.Equal(t, http.StatusOK, get(r, "/symptoms", "192.0.2.1:1002").Code)
	assert.Equal(t, http.StatusOK, get(r, "/symptoms?search=%20%20", "192.0.2.1:1003").Code)

	assert.Equal(t, http.StatusOK, get(r, "/symptoms?search=pain", "192.0.2.2:1000").Code)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.SearchThrottledTotal))
}

func TestDebounceSearch_FailsOpen(t *testing.T) {
	r := searchRouter(t, failingLimiter{}, nil)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/symptoms?search=pain", "").Code)
	}
}
